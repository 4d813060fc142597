package stm32h7

import (
	"errors"
	"testing"
)

func TestNewSectionPlanRejects(t *testing.T) {
	cat := mustCatalog(t,
		MemoryRegion{Name: "FLASH", Base: 0x08000000, Length: 0x20000, Attrs: AttrExecutable},
		MemoryRegion{Name: "DTCMRAM", Base: 0x20000000, Length: 0x20000, Attrs: AttrWritable | AttrVolatile},
	)

	tests := []struct {
		name    string
		section Section
		config  bool
	}{
		{"alignment_not_power_of_two",
			Section{Kind: Code, Name: ".text", Size: 0x100, Align: 12}, true},
		{"zero_alignment",
			Section{Kind: Code, Name: ".text", Size: 0x100, Align: 0}, true},
		{"no_name",
			Section{Kind: Code, Size: 0x100, Align: 4}, true},
		{"missing_load_region",
			Section{Kind: InitializedData, Name: ".data", Size: 0x100, Align: 8}, true},
		{"load_region_on_wrong_kind",
			Section{Kind: Code, Name: ".text", Size: 0x100, Align: 4, LoadRegion: "FLASH"}, true},
		{"unknown_region",
			Section{Kind: Code, Name: ".text", Size: 0x100, Align: 4, Region: "ITCM"}, false},
		{"unknown_load_region",
			Section{Kind: InitializedData, Name: ".data", Size: 0x100, Align: 8, LoadRegion: "EEPROM"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSectionPlan(cat, []Section{tc.section})
			if err == nil {
				t.Fatal("bad section accepted")
			}
			var ce *ConfigError
			if got := errors.As(err, &ce); got != tc.config {
				t.Errorf("ConfigError = %v, want %v (err: %v)", got, tc.config, err)
			}
			if !tc.config && !errors.Is(err, ErrRegionNotFound) {
				t.Errorf("got %v, want ErrRegionNotFound", err)
			}
		})
	}
}

func TestSectionPlanDefaultsAffinity(t *testing.T) {
	cat := mustCatalog(t,
		MemoryRegion{Name: "FLASH", Base: 0x08000000, Length: 0x20000, Attrs: AttrExecutable},
	)
	plan, err := NewSectionPlan(cat, []Section{
		{Kind: Code, Name: ".text", Size: 0x100, Align: 4},
	})
	if err != nil {
		t.Fatal(err)
	}
	s := plan.Sections()[0]
	if s.Affinity == nil {
		t.Fatal("affinity not defaulted")
	}
	if !s.Affinity(AttrExecutable) || s.Affinity(AttrWritable|AttrVolatile) {
		t.Error("defaulted code affinity accepts the wrong banks")
	}
}
