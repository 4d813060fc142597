package stm32h7

import (
	"context"
	"errors"

	"github.com/q0jt/go-stm32h7/stm32h7/config"
	"github.com/q0jt/go-stm32h7/stm32h7/config/board"
)

// DefaultMemoryMap returns the Daisy Seed bank map: STM32H750 internal
// banks plus the board's external SDRAM and QSPI flash.
func DefaultMemoryMap() *config.MemoryMap {
	return &config.MemoryMap{
		Regions: []*config.RegionDef{
			{Name: "FLASH", Base: 0x08000000, Length: 128 * 1024, Executable: true},
			{Name: "DTCMRAM", Base: 0x20000000, Length: 128 * 1024, Writable: true, Volatile: true},
			{Name: "SRAM", Base: 0x24000000, Length: 480 * 1024, Executable: true, Writable: true, Volatile: true},
			{Name: "RAM_D2", Base: 0x30000000, Length: 288 * 1024, Writable: true, Volatile: true, DmaReachable: true},
			{Name: "RAM_D3", Base: 0x38000000, Length: 64 * 1024, Writable: true, Volatile: true, DmaReachable: true},
			{Name: "BACKUP_SRAM", Base: 0x38800000, Length: 4 * 1024, Writable: true, BatteryBacked: true},
			{Name: "QSPIFLASH", Base: 0x90000000, Length: 8 * 1024 * 1024, Executable: true},
			{Name: "SDRAM", Base: 0xC0000000, Length: 64 * 1024 * 1024, Writable: true, Volatile: true},
		},
	}
}

// CatalogFromConfig builds a sealed catalog from a loaded memory map.
// Every bank goes through Register, so malformed or overlapping config
// fails with ConfigError before any planning starts.
func CatalogFromConfig(m *config.MemoryMap) (*RegionCatalog, error) {
	cat := NewRegionCatalog()
	for _, def := range m.Regions {
		var attrs RegionAttr
		if def.Executable {
			attrs |= AttrExecutable
		}
		if def.Writable {
			attrs |= AttrWritable
		}
		if def.DmaReachable {
			attrs |= AttrDMAReachable
		}
		if def.BatteryBacked {
			attrs |= AttrBatteryBacked
		}
		if def.Volatile {
			attrs |= AttrVolatile
		}
		err := cat.Register(MemoryRegion{
			Name:   def.Name,
			Base:   def.Base,
			Length: def.Length,
			Attrs:  attrs,
		})
		if err != nil {
			return nil, err
		}
	}
	cat.Seal()
	return cat, nil
}

// CatalogForBoard evaluates a Pkl memory description and builds the
// catalog for one board.
func CatalogForBoard(ctx context.Context, path string, b board.Board) (*RegionCatalog, error) {
	conf, err := config.LoadFromPath(ctx, path)
	if err != nil {
		return nil, err
	}
	m, ok := conf.Maps[b]
	if !ok {
		return nil, errors.New("board is not registered")
	}
	return CatalogFromConfig(m)
}
