package stm32h7

import (
	"fmt"
	"strings"
)

// Emit serializes a validated plan into the linker script consumed by
// the downstream link step. It refuses an invalid plan, returning the
// aggregated violation report as the error. The output is a pure
// function of the plan: identical input yields byte-identical output.
func Emit(plan *LayoutPlan) ([]byte, error) {
	report := NewValidator(plan.Catalog).Validate(plan)
	if !report.OK() {
		return nil, report.Err()
	}
	return render(plan), nil
}

func render(plan *LayoutPlan) []byte {
	var b strings.Builder

	b.WriteString("MEMORY\n{\n")
	for _, region := range plan.Catalog.Regions() {
		fmt.Fprintf(&b, "  %s (%s) : ORIGIN = %#010x, LENGTH = %s\n",
			region.Name, modeString(region.Attrs), region.Base, lengthString(region.Length))
	}
	b.WriteString("}\n\nSECTIONS\n{\n")

	for _, pl := range plan.Placements {
		if pl.Section.Kind == Stack {
			continue
		}
		fmt.Fprintf(&b, "  %s %#010x :", pl.Section.Name, pl.Start)
		if pl.HasLoad {
			fmt.Fprintf(&b, " AT(%#010x)", pl.LoadStart)
		}
		fmt.Fprintf(&b, "\n  {\n    . += %#x;\n  } > %s\n", pl.End-pl.Start, pl.Region)
	}
	b.WriteString("}\n")

	for _, pl := range plan.Placements {
		switch pl.Section.Kind {
		case InitializedData:
			fmt.Fprintf(&b, "\nPROVIDE(_sidata = %#010x);\n", pl.LoadStart)
			fmt.Fprintf(&b, "PROVIDE(_sdata = %#010x);\n", pl.Start)
			fmt.Fprintf(&b, "PROVIDE(_edata = %#010x);\n", pl.End)
		case ZeroedData:
			fmt.Fprintf(&b, "\nPROVIDE(_sbss = %#010x);\n", pl.Start)
			fmt.Fprintf(&b, "PROVIDE(_ebss = %#010x);\n", pl.End)
		case Stack:
			fmt.Fprintf(&b, "\nPROVIDE(_stack_end = %#010x);\n", pl.Start)
			fmt.Fprintf(&b, "PROVIDE(_stack_start = %#010x);\n", pl.End)
		}
	}

	return []byte(b.String())
}

func modeString(a RegionAttr) string {
	s := "r"
	if a.Has(AttrWritable) {
		s += "w"
	}
	if a.Has(AttrExecutable) {
		s += "x"
	}
	return s
}

func lengthString(n uint32) string {
	const (
		k = 1024
		m = 1024 * k
	)
	switch {
	case n%m == 0:
		return fmt.Sprintf("%dM", n/m)
	case n%k == 0:
		return fmt.Sprintf("%dK", n/k)
	}
	return fmt.Sprintf("%#x", n)
}
