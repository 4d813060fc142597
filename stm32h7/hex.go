package stm32h7

import (
	"bytes"
	"fmt"
	"io"

	"github.com/marcinbor85/gohex"
)

// LoadImage assembles the programming image for a validated plan: every
// payload is placed at the address its bytes are stored at, which for
// initialized data is the load address, not the run address. Payloads
// are keyed by section name; sections with no payload (zeroed,
// uninitialized, stack) are skipped. The Intel HEX output is
// deterministic for identical inputs.
func LoadImage(plan *LayoutPlan, payloads map[string][]byte) ([]byte, error) {
	claimed := make(map[string]bool)
	mem := gohex.NewMemory()
	for _, pl := range plan.Placements {
		data, ok := payloads[pl.Section.Name]
		if !ok {
			continue
		}
		claimed[pl.Section.Name] = true
		addr, limit := pl.Start, pl.End
		if pl.HasLoad {
			addr, limit = pl.LoadStart, pl.LoadEnd
		}
		if uint32(len(data)) > limit-addr {
			return nil, fmt.Errorf("payload for %s is %#x bytes, span holds %#x",
				pl.Section.Name, len(data), limit-addr)
		}
		if len(data) == 0 {
			continue
		}
		if err := mem.AddBinary(addr, data); err != nil {
			return nil, err
		}
	}
	for name := range payloads {
		if !claimed[name] {
			return nil, fmt.Errorf("payload for unplaced section %s", name)
		}
	}
	var buf bytes.Buffer
	if err := mem.DumpIntelHex(&buf, 0x10); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HexToBinary flattens an Intel HEX image into a contiguous binary
// starting at the image's lowest address, gaps filled with 0xFF.
func HexToBinary(b []byte) ([]byte, error) {
	return intelHexToBinary(bytes.NewReader(b))
}

func intelHexToBinary(r io.Reader) ([]byte, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return nil, err
	}
	segments := mem.GetDataSegments()
	if len(segments) == 0 {
		return nil, nil
	}
	base := segments[0].Address
	var end uint32
	for _, segment := range segments {
		if segment.Address < base {
			base = segment.Address
		}
		if top := segment.Address + uint32(len(segment.Data)); top > end {
			end = top
		}
	}
	return mem.ToBinary(base, end-base, 0xFF), nil
}
