package stm32h7

import (
	"fmt"
	"sort"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ViolationKind classifies a broken layout invariant.
type ViolationKind int

const (
	OverlapViolation ViolationKind = iota
	AlignmentViolation
	CapacityViolation
	OrderViolation
	RelocationPresent
	StackDirectionError
	AffinityViolation
	UnknownRegionViolation
)

func (k ViolationKind) String() string {
	switch k {
	case OverlapViolation:
		return "Overlap"
	case AlignmentViolation:
		return "AlignmentViolation"
	case CapacityViolation:
		return "OutOfSpace"
	case OrderViolation:
		return "OrderViolation"
	case RelocationPresent:
		return "RelocationPresent"
	case StackDirectionError:
		return "StackDirectionError"
	case AffinityViolation:
		return "AffinityViolation"
	case UnknownRegionViolation:
		return "UnknownRegion"
	}
	return "Unknown"
}

// Violation is one broken invariant with the offending bank and section
// and the expected-versus-actual detail.
type Violation struct {
	Kind    ViolationKind
	Region  string
	Section string
	Detail  string
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: %s/%s: %s", v.Kind, v.Region, v.Section, v.Detail)
}

// Report aggregates every violation found in one validation pass.
type Report struct {
	Violations []Violation
}

func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

// Err returns all violations combined into one error, or nil when the
// plan is valid.
func (r *Report) Err() error {
	errs := make([]error, len(r.Violations))
	for i, v := range r.Violations {
		errs[i] = v
	}
	return multierr.Combine(errs...)
}

func (r *Report) add(kind ViolationKind, region, section, format string, args ...any) {
	r.Violations = append(r.Violations, Violation{
		Kind:    kind,
		Region:  region,
		Section: section,
		Detail:  fmt.Sprintf(format, args...),
	})
}

// Validator re-derives every hardware-mandated invariant from a layout
// plan. It reports every violation found, not just the first: build
// failures on this target are expensive to iterate on, so one pass must
// surface everything. Validation has no side effects and is re-runnable.
type Validator struct {
	catalog   *RegionCatalog
	minVector uint32
}

func NewValidator(cat *RegionCatalog) *Validator {
	return &Validator{
		catalog:   cat,
		minVector: MinVectorTableSize(IRQCount),
	}
}

// SetMinVectorTableSize overrides the architecture minimum, for parts
// with a different interrupt count.
func (v *Validator) SetMinVectorTableSize(n uint32) {
	v.minVector = n
}

// extent is one claimed span inside a bank, run or load.
type extent struct {
	section Section
	start   uint32
	end     uint32
	load    bool
}

func (e extent) label() string {
	if e.load {
		return e.section.Name + " (load)"
	}
	return e.section.Name
}

// Validate checks the whole plan and returns the aggregated report. The
// report order is deterministic: per-bank checks in registration order,
// then per-section checks in placement order.
func (v *Validator) Validate(plan *LayoutPlan) *Report {
	report := &Report{}

	byRegion := make(map[string][]extent)
	for _, pl := range plan.Placements {
		byRegion[pl.Region] = append(byRegion[pl.Region], extent{
			section: pl.Section, start: pl.Start, end: pl.End,
		})
		if pl.HasLoad {
			byRegion[pl.LoadRegion] = append(byRegion[pl.LoadRegion], extent{
				section: pl.Section, start: pl.LoadStart, end: pl.LoadEnd, load: true,
			})
		}
	}

	for _, region := range v.catalog.Regions() {
		v.checkRegion(report, region, byRegion[region.Name])
		delete(byRegion, region.Name)
	}
	for _, pl := range plan.Placements {
		if _, ok := byRegion[pl.Region]; ok {
			report.add(UnknownRegionViolation, pl.Region, pl.Section.Name,
				"placement names a region missing from the catalog")
		}
		if pl.HasLoad {
			if _, ok := byRegion[pl.LoadRegion]; ok {
				report.add(UnknownRegionViolation, pl.LoadRegion, pl.Section.Name+" (load)",
					"placement names a region missing from the catalog")
			}
		}
	}

	for _, pl := range plan.Placements {
		v.checkSection(report, plan, pl)
	}

	Logger().Debug("validation finished", zap.Int("violations", len(report.Violations)))
	return report
}

func (v *Validator) checkRegion(report *Report, region *MemoryRegion, extents []extent) {
	sorted := make([]extent, len(extents))
	copy(sorted, extents)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })

	// Compare each extent against the furthest-reaching earlier one, so
	// an extent spanning past its neighbor still collides with everything
	// inside it.
	reach := 0
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[reach], sorted[i]
		if prev.end > cur.start && prev.start < cur.end {
			report.add(OverlapViolation, region.Name, cur.label(),
				"[%#x, %#x) overlaps %s [%#x, %#x)",
				cur.start, cur.end, prev.label(), prev.start, prev.end)
		}
		if cur.end > prev.end {
			reach = i
		}
	}

	for _, e := range sorted {
		if e.start < region.Base || uint64(e.end) > region.End() {
			report.add(CapacityViolation, region.Name, e.label(),
				"[%#x, %#x) exceeds region [%#x, %#x)",
				e.start, e.end, region.Base, region.End())
		}
		if align := e.section.Align; align == 0 || align&(align-1) != 0 {
			report.add(AlignmentViolation, region.Name, e.label(),
				"alignment %#x is not a power of two", align)
		} else if e.start%align != 0 {
			report.add(AlignmentViolation, region.Name, e.label(),
				"start %#x is not a multiple of %#x", e.start, align)
		}
	}
}

func (v *Validator) checkSection(report *Report, plan *LayoutPlan, pl Placement) {
	region, err := v.catalog.Lookup(pl.Region)
	if err != nil {
		return
	}

	if !affinityOf(pl.Section)(region.Attrs) {
		report.add(AffinityViolation, region.Name, pl.Section.Name,
			"region attributes %s do not satisfy section affinity", region.Attrs)
	}
	if pl.HasLoad {
		if load, err := v.catalog.Lookup(pl.LoadRegion); err == nil {
			if load.Attrs.Has(AttrVolatile) {
				report.add(AffinityViolation, load.Name, pl.Section.Name+" (load)",
					"initial image staged in a volatile bank")
			}
		}
	}

	switch pl.Section.Kind {
	case VectorTable:
		if pl.Start != region.Base {
			report.add(OrderViolation, region.Name, pl.Section.Name,
				"vector table must occupy the first bytes of its region: have %#x, want %#x",
				pl.Start, region.Base)
		}
		if size := pl.End - pl.Start; size < v.minVector {
			report.add(OrderViolation, region.Name, pl.Section.Name,
				"vector table smaller than architecture minimum: have %#x, want >= %#x",
				size, v.minVector)
		}
		v.checkCodeFollowsVector(report, plan, pl)
	case Stack:
		if uint64(pl.End) != region.End() {
			report.add(StackDirectionError, region.Name, pl.Section.Name,
				"stack must top out at the region end: have %#x, want %#x",
				pl.End, region.End())
		}
		if pl.Start > pl.End {
			report.add(StackDirectionError, region.Name, pl.Section.Name,
				"stack low edge %#x above its high edge %#x", pl.Start, pl.End)
		}
		for _, other := range plan.InRegion(region.Name) {
			if other.Section.Name == pl.Section.Name {
				continue
			}
			if other.End > pl.Start {
				report.add(StackDirectionError, region.Name, pl.Section.Name,
					"stack low edge %#x reaches into %s ending at %#x",
					pl.Start, other.Section.Name, other.End)
			}
		}
	case RelocMetadata:
		if size := pl.End - pl.Start; size != 0 {
			report.add(RelocationPresent, region.Name, pl.Section.Name,
				"relocation metadata must be empty: have %#x bytes", size)
		}
	}
}

// checkCodeFollowsVector enforces that code placed in the boot bank sits
// immediately after the vector table, with nothing in between. Only the
// lowest-addressed code section abuts the table; further code sections
// stack behind it.
func (v *Validator) checkCodeFollowsVector(report *Report, plan *LayoutPlan, vec Placement) {
	var first *Placement
	for _, pl := range plan.InRegion(vec.Region) {
		if pl.Section.Kind != Code {
			continue
		}
		if first == nil || pl.Start < first.Start {
			pl := pl
			first = &pl
		}
	}
	if first == nil {
		return
	}
	want := alignUp(vec.End, first.Section.Align)
	if first.Start != want {
		report.add(OrderViolation, vec.Region, first.Section.Name,
			"code must immediately follow the vector table: have %#x, want %#x",
			first.Start, want)
	}
}

func affinityOf(s Section) Affinity {
	if s.Affinity != nil {
		return s.Affinity
	}
	return AffinityFor(s.Kind)
}
