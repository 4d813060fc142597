package stm32h7

// SectionKind is a logical category of compiled-program content requiring
// contiguous placement.
type SectionKind int

const (
	VectorTable SectionKind = iota
	Code
	ReadOnlyData
	InitializedData
	ZeroedData
	UninitializedOrHeap
	Stack
	// RelocMetadata models position-independent-code tables. The runtime
	// has no dynamic loader, so these must stay empty.
	RelocMetadata
)

func (k SectionKind) String() string {
	switch k {
	case VectorTable:
		return "VectorTable"
	case Code:
		return "Code"
	case ReadOnlyData:
		return "ReadOnlyData"
	case InitializedData:
		return "InitializedData"
	case ZeroedData:
		return "ZeroedData"
	case UninitializedOrHeap:
		return "UninitializedOrHeap"
	case Stack:
		return "Stack"
	case RelocMetadata:
		return "RelocMetadata"
	}
	return "Unknown"
}

// DefaultSectionOrder is the architecture-mandated placement order. It is
// plain data so alternate orderings can be exercised directly.
var DefaultSectionOrder = []SectionKind{
	VectorTable,
	Code,
	ReadOnlyData,
	InitializedData,
	ZeroedData,
	UninitializedOrHeap,
	Stack,
}

// Affinity decides whether a bank with the given attributes may host a
// section.
type Affinity func(RegionAttr) bool

// AffinityFor returns the default affinity rule for a section kind.
func AffinityFor(kind SectionKind) Affinity {
	switch kind {
	case VectorTable, Code, ReadOnlyData, RelocMetadata:
		// Must survive power-off and, for the vector table, be readable
		// at reset; on this part that means a non-volatile executable bank.
		return func(a RegionAttr) bool {
			return a.Has(AttrExecutable) && !a.Has(AttrVolatile)
		}
	case InitializedData, ZeroedData, UninitializedOrHeap, Stack:
		return func(a RegionAttr) bool {
			return a.Has(AttrWritable) && a.Has(AttrVolatile)
		}
	}
	return func(RegionAttr) bool { return false }
}

// DMAAffinity hosts a section only in writable banks a DMA controller can
// address.
func DMAAffinity(a RegionAttr) bool {
	return a.Has(AttrWritable) && a.Has(AttrDMAReachable)
}

// RetainedAffinity hosts a section only in battery-backed banks.
func RetainedAffinity(a RegionAttr) bool {
	return a.Has(AttrWritable) && a.Has(AttrBatteryBacked)
}

// Section describes one region of a compiled program's output. Size is
// supplied externally per build; Align must be a power of two. Region, if
// set, pins the section to that bank instead of selecting by affinity.
// LoadRegion applies to InitializedData only and names the bank holding
// the initial byte image copied out at startup.
type Section struct {
	Kind       SectionKind
	Name       string
	Size       uint32
	Align      uint32
	Affinity   Affinity
	Region     string
	LoadRegion string
}

// SectionPlan is the ordered list of sections to place for one build.
type SectionPlan struct {
	sections []Section
}

// NewSectionPlan validates the given sections against the catalog.
// Alignments must be powers of two and any named regions must exist.
func NewSectionPlan(cat *RegionCatalog, sections []Section) (*SectionPlan, error) {
	plan := &SectionPlan{sections: make([]Section, len(sections))}
	for i, s := range sections {
		if s.Name == "" {
			return nil, configErr(s.Kind.String(), "section has no name")
		}
		if s.Align == 0 || s.Align&(s.Align-1) != 0 {
			return nil, configErr(s.Name, "alignment %#x is not a power of two", s.Align)
		}
		if s.Affinity == nil {
			s.Affinity = AffinityFor(s.Kind)
		}
		if s.Region != "" {
			if _, err := cat.Lookup(s.Region); err != nil {
				return nil, err
			}
		}
		if s.Kind == InitializedData {
			if s.LoadRegion == "" {
				return nil, configErr(s.Name, "initialized data needs a load region")
			}
			if _, err := cat.Lookup(s.LoadRegion); err != nil {
				return nil, err
			}
		} else if s.LoadRegion != "" {
			return nil, configErr(s.Name, "only initialized data carries a load region")
		}
		plan.sections[i] = s
	}
	return plan, nil
}

// Sections returns the plan's sections in declaration order.
func (p *SectionPlan) Sections() []Section {
	out := make([]Section, len(p.sections))
	copy(out, p.sections)
	return out
}
