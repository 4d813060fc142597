package stm32h7

import (
	"fmt"

	"go.uber.org/zap"
)

// RegionAttr describes the hardware capabilities of a memory bank.
type RegionAttr uint8

const (
	AttrExecutable RegionAttr = 1 << iota
	AttrWritable
	AttrDMAReachable
	AttrBatteryBacked
	AttrVolatile
)

func (a RegionAttr) Has(want RegionAttr) bool {
	return a&want == want
}

func (a RegionAttr) String() string {
	names := []struct {
		bit  RegionAttr
		name string
	}{
		{AttrExecutable, "x"},
		{AttrWritable, "w"},
		{AttrDMAReachable, "dma"},
		{AttrBatteryBacked, "bkp"},
		{AttrVolatile, "v"},
	}
	s := ""
	for _, n := range names {
		if a.Has(n.bit) {
			if s != "" {
				s += "+"
			}
			s += n.name
		}
	}
	if s == "" {
		return "none"
	}
	return s
}

// count reports how many attribute bits are set. Affinity selection
// prefers the region with the fewest.
func (a RegionAttr) count() int {
	n := 0
	for b := a; b != 0; b &= b - 1 {
		n++
	}
	return n
}

// MemoryRegion is a contiguous, named span of address space with fixed
// capability attributes. Bases and lengths are bus-granular.
type MemoryRegion struct {
	Name   string
	Base   uint32
	Length uint32
	Attrs  RegionAttr
}

// End returns the first address past the region.
func (r *MemoryRegion) End() uint64 {
	return uint64(r.Base) + uint64(r.Length)
}

// regionAlign is the bus granularity required of every bank's base and length.
const regionAlign = 4

// RegionCatalog is the board-specific description of every addressable
// memory bank. It is fixed per target and immutable once sealed; later
// stages only read it.
type RegionCatalog struct {
	regions []*MemoryRegion
	byName  map[string]*MemoryRegion
	sealed  bool
}

func NewRegionCatalog() *RegionCatalog {
	return &RegionCatalog{byName: make(map[string]*MemoryRegion)}
}

// Register adds a bank to the catalog. It fails with ConfigError if the
// length is non-positive, the base or length violates bus alignment, the
// name is taken, or the address range overlaps an already-registered bank.
func (c *RegionCatalog) Register(r MemoryRegion) error {
	if c.sealed {
		return configErr(r.Name, "catalog is sealed")
	}
	if r.Name == "" {
		return configErr(r.Name, "region has no name")
	}
	if r.Length == 0 {
		return configErr(r.Name, "length must be positive")
	}
	if r.Base%regionAlign != 0 {
		return configErr(r.Name, "base %#x is not %d-byte aligned", r.Base, regionAlign)
	}
	if r.Length%regionAlign != 0 {
		return configErr(r.Name, "length %#x is not %d-byte aligned", r.Length, regionAlign)
	}
	// Placement addresses are 32-bit; a bank touching the top of the
	// address space would let span arithmetic wrap.
	if r.End() > 0xFFFFFFFF {
		return configErr(r.Name, "range [%#x, %#x) reaches past the 32-bit address space",
			r.Base, r.End())
	}
	if _, ok := c.byName[r.Name]; ok {
		return configErr(r.Name, "region already registered")
	}
	for _, reg := range c.regions {
		if uint64(r.Base) < reg.End() && uint64(reg.Base) < r.End() {
			return configErr(r.Name, "range [%#x, %#x) overlaps %s [%#x, %#x)",
				r.Base, r.End(), reg.Name, reg.Base, reg.End())
		}
	}
	reg := r
	c.regions = append(c.regions, &reg)
	c.byName[reg.Name] = &reg
	Logger().Debug("region registered",
		zap.String("name", reg.Name),
		zap.Uint32("base", reg.Base),
		zap.Uint32("length", reg.Length),
		zap.Stringer("attrs", reg.Attrs))
	return nil
}

// Seal freezes the catalog. Further Register calls fail.
func (c *RegionCatalog) Seal() {
	c.sealed = true
}

// Lookup returns the named bank or ErrRegionNotFound.
func (c *RegionCatalog) Lookup(name string) (*MemoryRegion, error) {
	r, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrRegionNotFound)
	}
	return r, nil
}

// Regions returns the banks in registration order.
func (c *RegionCatalog) Regions() []*MemoryRegion {
	out := make([]*MemoryRegion, len(c.regions))
	copy(out, c.regions)
	return out
}
