package stm32h7

import (
	"go.uber.org/zap"
)

// alignUp rounds x up to the next multiple of align (a power of two).
func alignUp(x, align uint32) uint32 {
	return uint32((uint64(x) + uint64(align) - 1) &^ (uint64(align) - 1))
}

// Placement anchors one section in the address space. Start and End are
// absolute run addresses, End exclusive. For initialized data HasLoad is
// set and the Load fields give the address of the initial byte image.
type Placement struct {
	Section Section
	Region  string
	Start   uint32
	End     uint32

	HasLoad    bool
	LoadRegion string
	LoadStart  uint32
	LoadEnd    uint32
}

// LayoutPlan is the result of one placement pass: every section anchored
// to a bank and address range, in placement order.
type LayoutPlan struct {
	Catalog    *RegionCatalog
	Placements []Placement
}

// InRegion returns the placements whose run range lives in the named
// bank, in placement order.
func (p *LayoutPlan) InRegion(name string) []Placement {
	var out []Placement
	for _, pl := range p.Placements {
		if pl.Region == name {
			out = append(out, pl)
		}
	}
	return out
}

// Find returns the first placement of the given kind.
func (p *LayoutPlan) Find(kind SectionKind) (Placement, bool) {
	for _, pl := range p.Placements {
		if pl.Section.Kind == kind {
			return pl, true
		}
	}
	return Placement{}, false
}

// Placer assigns every section of a plan a concrete bank and address
// range. It runs once per build; the per-region cursors live only for
// the duration of one Place call.
type Placer struct {
	catalog *RegionCatalog
	order   []SectionKind
}

func NewPlacer(cat *RegionCatalog) *Placer {
	return &Placer{catalog: cat, order: DefaultSectionOrder}
}

// SetOrder overrides the placement order. Sections whose kind is absent
// from the order are placed after it, in plan order.
func (p *Placer) SetOrder(order []SectionKind) {
	p.order = order
}

// Place runs the single placement pass. Sections are processed kind by
// kind in the configured order; within a bank the cursor is rounded up
// to each section's alignment, the span reserved, and the cursor
// advanced. A section that does not fit its bank fails with
// OutOfSpaceError; nothing is ever spilled into another bank.
func (p *Placer) Place(plan *SectionPlan) (*LayoutPlan, error) {
	out := &LayoutPlan{Catalog: p.catalog}
	cursors := make(map[string]uint32)

	sections := plan.Sections()
	placed := make([]bool, len(sections))
	for _, kind := range p.order {
		for i, s := range sections {
			if placed[i] || s.Kind != kind {
				continue
			}
			placed[i] = true
			if err := p.placeOne(out, cursors, s); err != nil {
				return nil, err
			}
		}
	}
	for i, s := range sections {
		if placed[i] {
			continue
		}
		if err := p.placeOne(out, cursors, s); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (p *Placer) placeOne(out *LayoutPlan, cursors map[string]uint32, s Section) error {
	region, err := p.chooseRegion(s)
	if err != nil {
		return err
	}

	pl := Placement{Section: s, Region: region.Name}
	if s.Kind == Stack {
		// The stack is pinned to the top of its bank; its low edge is
		// wherever the cursor sits, so it can never reach live data.
		low := alignUp(cursors[region.Name], s.Align)
		if low > region.Length || region.Length-low < s.Size {
			avail := uint32(0)
			if low < region.Length {
				avail = region.Length - low
			}
			return &OutOfSpaceError{Region: region.Name, Section: s.Name,
				Requested: s.Size, Available: avail}
		}
		pl.Start = region.Base + low
		pl.End = region.Base + region.Length
		cursors[region.Name] = region.Length
	} else {
		start, end, err := reserve(region, cursors, s.Name, s.Size, s.Align)
		if err != nil {
			return err
		}
		pl.Start, pl.End = start, end
	}

	if s.Kind == InitializedData {
		load, err := p.catalog.Lookup(s.LoadRegion)
		if err != nil {
			return err
		}
		start, end, err := reserve(load, cursors, s.Name, s.Size, s.Align)
		if err != nil {
			return err
		}
		pl.HasLoad = true
		pl.LoadRegion = load.Name
		pl.LoadStart, pl.LoadEnd = start, end
	}

	Logger().Debug("section placed",
		zap.String("section", s.Name),
		zap.Stringer("kind", s.Kind),
		zap.String("region", pl.Region),
		zap.Uint32("start", pl.Start),
		zap.Uint32("end", pl.End))
	out.Placements = append(out.Placements, pl)
	return nil
}

// reserve rounds the bank's cursor up to align, claims size bytes, and
// advances the cursor. It fails with OutOfSpaceError naming the exact
// shortfall.
func reserve(region *MemoryRegion, cursors map[string]uint32, name string, size, align uint32) (uint32, uint32, error) {
	cur := alignUp(cursors[region.Name], align)
	avail := uint32(0)
	if cur < region.Length {
		avail = region.Length - cur
	}
	if avail < size {
		return 0, 0, &OutOfSpaceError{Region: region.Name, Section: name,
			Requested: size, Available: avail}
	}
	cursors[region.Name] = cur + size
	return region.Base + cur, region.Base + cur + size, nil
}

// chooseRegion picks the bank for a section. An explicit region is used
// as-is, checked only against the section's affinity; otherwise the most
// specific bank satisfying the affinity wins, meaning the one with the
// fewest capability attributes, registration order breaking ties.
func (p *Placer) chooseRegion(s Section) (*MemoryRegion, error) {
	if s.Region != "" {
		region, err := p.catalog.Lookup(s.Region)
		if err != nil {
			return nil, err
		}
		if !s.Affinity(region.Attrs) {
			return nil, configErr(s.Name, "region %s does not satisfy section affinity", region.Name)
		}
		return region, nil
	}
	var best *MemoryRegion
	for _, region := range p.catalog.Regions() {
		if !s.Affinity(region.Attrs) {
			continue
		}
		if best == nil || region.Attrs.count() < best.Attrs.count() {
			best = region
		}
	}
	if best == nil {
		return nil, configErr(s.Name, "no region satisfies section affinity")
	}
	return best, nil
}
