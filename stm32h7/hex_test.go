package stm32h7

import (
	"bytes"
	"testing"
)

func TestLoadImageRoundTrip(t *testing.T) {
	cat, err := CatalogFromConfig(DefaultMemoryMap())
	if err != nil {
		t.Fatal(err)
	}
	layout := mustPlace(t, cat, []Section{
		{Kind: Code, Name: ".text", Size: 0x20, Align: 4, Region: "FLASH"},
		{Kind: InitializedData, Name: ".data", Size: 0x10, Align: 8, Region: "DTCMRAM", LoadRegion: "FLASH"},
	})

	text := bytes.Repeat([]byte{0xAA}, 0x20)
	data := bytes.Repeat([]byte{0x55}, 0x10)
	hex, err := LoadImage(layout, map[string][]byte{
		".text": text,
		".data": data,
	})
	if err != nil {
		t.Fatal(err)
	}

	bin, err := HexToBinary(hex)
	if err != nil {
		t.Fatal(err)
	}
	// .text at the image base, .data's initial image right behind it at
	// its load address, not its run address.
	if !bytes.Equal(bin[:0x20], text) {
		t.Errorf("code bytes: got % x", bin[:0x20])
	}
	if !bytes.Equal(bin[0x20:0x30], data) {
		t.Errorf("data load image: got % x", bin[0x20:0x30])
	}
}

func TestLoadImageDeterminism(t *testing.T) {
	cat, err := CatalogFromConfig(DefaultMemoryMap())
	if err != nil {
		t.Fatal(err)
	}
	layout := mustPlace(t, cat, []Section{
		{Kind: Code, Name: ".text", Size: 0x40, Align: 4, Region: "FLASH"},
	})
	payloads := map[string][]byte{".text": bytes.Repeat([]byte{0x42}, 0x40)}
	a, err := LoadImage(layout, payloads)
	if err != nil {
		t.Fatal(err)
	}
	b, err := LoadImage(layout, payloads)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("two dumps of the same image differ")
	}
}

func TestLoadImageRejects(t *testing.T) {
	cat, err := CatalogFromConfig(DefaultMemoryMap())
	if err != nil {
		t.Fatal(err)
	}
	layout := mustPlace(t, cat, []Section{
		{Kind: Code, Name: ".text", Size: 0x10, Align: 4, Region: "FLASH"},
	})

	t.Run("oversize_payload", func(t *testing.T) {
		_, err := LoadImage(layout, map[string][]byte{
			".text": make([]byte, 0x11),
		})
		if err == nil {
			t.Fatal("oversize payload accepted")
		}
	})

	t.Run("unplaced_section", func(t *testing.T) {
		_, err := LoadImage(layout, map[string][]byte{
			".rodata": {0x01},
		})
		if err == nil {
			t.Fatal("payload for unplaced section accepted")
		}
	})
}
