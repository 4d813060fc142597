package stm32h7

import (
	"bytes"
	"strings"
	"testing"
)

func daisyLayout(t *testing.T) (*RegionCatalog, *LayoutPlan) {
	t.Helper()
	cat, err := CatalogFromConfig(DefaultMemoryMap())
	if err != nil {
		t.Fatal(err)
	}
	plan, err := DaisySectionPlan(cat, SectionSizes{
		Code: 40960, ReadOnlyData: 0x2000, InitializedData: 0x1200,
		ZeroedData: 0x4000, Heap: 0x2000, Stack: 0x2000,
	})
	if err != nil {
		t.Fatal(err)
	}
	layout, err := NewPlacer(cat).Place(plan)
	if err != nil {
		t.Fatal(err)
	}
	return cat, layout
}

func TestEmitDeterminism(t *testing.T) {
	_, layout := daisyLayout(t)
	a, err := Emit(layout)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Emit(layout)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("two emissions of the same plan differ")
	}
}

func TestEmitContents(t *testing.T) {
	_, layout := daisyLayout(t)
	out, err := Emit(layout)
	if err != nil {
		t.Fatal(err)
	}
	script := string(out)

	for _, want := range []string{
		"MEMORY\n{",
		"FLASH (rx) : ORIGIN = 0x08000000, LENGTH = 128K",
		"DTCMRAM (rw) : ORIGIN = 0x20000000, LENGTH = 128K",
		"SDRAM (rw) : ORIGIN = 0xc0000000, LENGTH = 64M",
		".isr_vector 0x08000000 :",
		"} > FLASH",
		"AT(",
		"PROVIDE(_sidata = ",
		"PROVIDE(_stack_start = 0x20020000);",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("output is missing %q:\n%s", want, script)
		}
	}
}

func TestEmitRefusesInvalidPlan(t *testing.T) {
	cat := mustCatalog(t, MemoryRegion{
		Name: "FLASH", Base: 0x08000000, Length: 0x1000,
		Attrs: AttrExecutable,
	})
	plan := &LayoutPlan{Catalog: cat, Placements: []Placement{{
		Section: Section{Kind: RelocMetadata, Name: ".got", Align: 4},
		Region:  "FLASH", Start: 0x08000000, End: 0x08000004,
	}}}
	if _, err := Emit(plan); err == nil {
		t.Fatal("invalid plan emitted")
	}
}
