// palette.go - Fixed 256-entry RGB palette loaded from palette.bin. The
// VPU's 16 in-memory palettes each hold 16 indices into this fixed table;
// see vpu.go.

package core

import "fmt"

const paletteFileSize = 256 * 3

// RGBA is a single framebuffer/palette color. Alpha is always 255: the
// palette file carries no alpha channel.
type RGBA struct {
	R, G, B, A byte
}

// Palette is the fixed 256-entry RGB color table shared by the whole VPU.
type Palette [256]RGBA

// LoadPalette parses a 768-byte palette.bin (256 * RGB) into a Palette,
// forcing alpha to 255 on every entry.
func LoadPalette(data []byte) (*Palette, error) {
	if len(data) != paletteFileSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrPaletteIoError, paletteFileSize, len(data))
	}
	var p Palette
	for i := range p {
		p[i] = RGBA{R: data[i*3], G: data[i*3+1], B: data[i*3+2], A: 255}
	}
	return &p, nil
}

// DefaultPalette returns a palette with every entry at RGB(0,0,0) plus
// alpha 255, used when the host has no palette.bin to load — e.g. in
// tests that only care about index 0 vs. a specific known entry.
func DefaultPalette() *Palette {
	var p Palette
	for i := range p {
		p[i].A = 255
	}
	return &p
}
