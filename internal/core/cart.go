// cart.go - ROM/cart loader. Parses the 68-byte header and the segment
// stream into bank arrays, and owns the 256-byte battery-backed persistent
// storage region. Grounded on the original core/cart/cart.c (persistent
// storage) and the header/segment layout in the external interfaces
// section; binary field decoding follows memory_bus.go's use of
// encoding/binary for little-endian access.

package core

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	romMagic        = "KHPR"
	romHeaderSize   = 68
	cartPersistSize = 256
)

// segment type bytes, per the ROM file format.
const (
	segROMFixed byte = iota
	segROMSwap
	segRAMFixed
	segRAMSwap
	segTileSwap
	segDPCMSwap
)

// Cart holds every bank materialized from a parsed ROM image, plus the
// 256-byte persistent-storage region a real cartridge would back with
// battery-backed SRAM.
type Cart struct {
	Name        string
	Description string

	RomFixed [0x4000]byte   // 0x0000-0x3FFF
	RomSwap  [][0x4000]byte // 0x4000-0x7FFF, bank-selected

	RamFixed [0x2000]byte   // 0x8000-0x9FFF
	RamSwap  [][0x2000]byte // 0xA000-0xBFFF, bank-selected

	Tile [][0x2000]byte // 0xC000-0xDFFF, bank-selected

	DPCM [][0x800]byte // 0xF000-0xF7FF, bank-selected

	Persist [cartPersistSize]byte // 0xFE00-0xFEFF
}

// LoadROM parses a complete ROM image per the header + segment-stream
// format and returns the materialized Cart. An unknown segment type or a
// truncated image aborts the load; a bank index beyond the bank count the
// header declares is also rejected rather than silently clamped, since
// clamping is a runtime (post-load) behavior reserved for bank_select, not
// a load-time integrity check.
func LoadROM(data []byte) (*Cart, error) {
	if len(data) < romHeaderSize {
		return nil, fmt.Errorf("%w: only %d bytes, need at least %d", ErrRomHeaderInvalid, len(data), romHeaderSize)
	}
	if string(data[0:4]) != romMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrRomHeaderInvalid, data[0:4])
	}

	totalSize := binary.LittleEndian.Uint32(data[4:8])
	if uint64(totalSize) > uint64(len(data)) {
		return nil, fmt.Errorf("%w: header declares %d bytes, have %d", ErrRomTruncated, totalSize, len(data))
	}

	romBanks := int(data[12])
	ramBanks := int(data[13])
	tileBanks := int(data[14])
	dpcmBanks := int(data[15])

	name := trimNulString(data[20:36])
	desc := trimNulString(data[36:68])

	c := &Cart{
		Name:        name,
		Description: desc,
		RomSwap:     make([][0x4000]byte, romBanks),
		RamSwap:     make([][0x2000]byte, ramBanks),
		Tile:        make([][0x2000]byte, tileBanks),
		DPCM:        make([][0x800]byte, dpcmBanks),
	}

	off := romHeaderSize
	for off < int(totalSize) {
		if off+4 > len(data) {
			return nil, fmt.Errorf("%w: segment header past end of data", ErrRomTruncated)
		}
		segType := data[off]
		num := int(data[off+1])
		segLen := int(binary.LittleEndian.Uint16(data[off+2 : off+4]))
		off += 4
		if off+segLen > len(data) {
			return nil, fmt.Errorf("%w: segment body past end of data", ErrRomTruncated)
		}
		seg := data[off : off+segLen]
		off += segLen

		if err := c.applySegment(segType, num, seg); err != nil {
			return nil, err
		}
	}

	logf("cart: loaded %q (%s): %d ROM bank(s), %d RAM bank(s), %d tile bank(s), %d DPCM bank(s)",
		c.Name, c.Description, romBanks, ramBanks, tileBanks, dpcmBanks)

	return c, nil
}

func (c *Cart) applySegment(segType byte, num int, data []byte) error {
	switch segType {
	case segROMFixed:
		copy(c.RomFixed[:], data)
	case segROMSwap:
		if num < 0 || num >= len(c.RomSwap) {
			return fmt.Errorf("%w: ROM bank %d of %d", ErrBankIndexOutOfRange, num, len(c.RomSwap))
		}
		copy(c.RomSwap[num][:], data)
	case segRAMFixed:
		copy(c.RamFixed[:], data)
	case segRAMSwap:
		if num < 0 || num >= len(c.RamSwap) {
			return fmt.Errorf("%w: RAM bank %d of %d", ErrBankIndexOutOfRange, num, len(c.RamSwap))
		}
		copy(c.RamSwap[num][:], data)
	case segTileSwap:
		if num < 0 || num >= len(c.Tile) {
			return fmt.Errorf("%w: tile bank %d of %d", ErrBankIndexOutOfRange, num, len(c.Tile))
		}
		copy(c.Tile[num][:], data)
	case segDPCMSwap:
		if num < 0 || num >= len(c.DPCM) {
			return fmt.Errorf("%w: DPCM bank %d of %d", ErrBankIndexOutOfRange, num, len(c.DPCM))
		}
		copy(c.DPCM[num][:], data)
	default:
		return fmt.Errorf("%w: type %d", ErrSegmentTypeUnknown, segType)
	}
	return nil
}

func trimNulString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// SavePersistent writes the cart's 256-byte battery-backed region to w,
// for the host to persist as a .sav file between sessions. This is the
// cart's own save-RAM, not a system savestate: it is explicitly named in
// the address space table and excluded from the savestate-serialization
// non-goal, which concerns the whole system's cycle-by-cycle state.
func (c *Cart) SavePersistent(w io.Writer) error {
	_, err := w.Write(c.Persist[:])
	return err
}

// LoadPersistent reads a previously saved 256-byte region from r.
func (c *Cart) LoadPersistent(r io.Reader) error {
	_, err := io.ReadFull(r, c.Persist[:])
	return err
}
