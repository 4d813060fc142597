package stm32h7

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestBundleRoundTrip(t *testing.T) {
	image := bytes.Repeat([]byte{0x5A}, 0x400)
	var buf bytes.Buffer
	if err := WriteBundle(&buf, "app", image, 0x08000000); err != nil {
		t.Fatal(err)
	}

	bundle, err := ReadBundle(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(bundle.Image, image) {
		t.Error("image bytes changed in transit")
	}
	if bundle.Packet.LoadAddr != 0x08000000 {
		t.Errorf("load addr: got %#x, want 0x08000000", bundle.Packet.LoadAddr)
	}
	if bundle.Packet.Size != 0x400 {
		t.Errorf("size: got %#x, want 0x400", bundle.Packet.Size)
	}
}

func TestBundleDeterminism(t *testing.T) {
	image := bytes.Repeat([]byte{0x11}, 0x100)
	var a, b bytes.Buffer
	if err := WriteBundle(&a, "app", image, 0x08000000); err != nil {
		t.Fatal(err)
	}
	if err := WriteBundle(&b, "app", image, 0x08000000); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("two bundles of the same image differ")
	}
}

func TestWriteBundleEmptyImage(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBundle(&buf, "app", nil, 0x08000000); err == nil {
		t.Fatal("empty image accepted")
	}
}

type fakeTransport struct {
	err   error
	addr  uint32
	image []byte
}

func (f *fakeTransport) Program(_ context.Context, image []byte, addr uint32, _ string) error {
	f.image, f.addr = image, addr
	return f.err
}

func TestFlash(t *testing.T) {
	image := []byte{0x01, 0x02, 0x03, 0x04}

	t.Run("success", func(t *testing.T) {
		tr := &fakeTransport{}
		if err := Flash(context.Background(), tr, image, 0x08000000, "dev:0483:df11"); err != nil {
			t.Fatal(err)
		}
		if tr.addr != 0x08000000 || !bytes.Equal(tr.image, image) {
			t.Error("transport saw the wrong image or address")
		}
	})

	t.Run("transport_failure", func(t *testing.T) {
		cause := errors.New("device detached")
		tr := &fakeTransport{err: cause}
		err := Flash(context.Background(), tr, image, 0x08000000, "dev:0483:df11")
		var te *TransportError
		if !errors.As(err, &te) {
			t.Fatalf("got %v, want TransportError", err)
		}
		if te.Device != "dev:0483:df11" || !errors.Is(err, cause) {
			t.Errorf("wrong wrapping: %v", err)
		}
	})
}
