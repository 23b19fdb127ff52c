package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestVPU() *VPU {
	tiles := make([][0x2000]byte, 1)
	return NewVPU(&tiles, DefaultPalette())
}

func TestVPUMemGatedOutsideVBlank(t *testing.T) {
	v := newTestVPU()
	v.WriteMem(0, 0xAA)
	require.Equal(t, byte(0), v.ReadMem(0))

	v.inVBlank = true
	v.WriteMem(0, 0xAA)
	require.Equal(t, byte(0xAA), v.ReadMem(0))
}

func TestVPUTilePixelNibbleEvenColumnHighNibble(t *testing.T) {
	tiles := make([][0x2000]byte, 1)
	tiles[0][0] = 0xA5 // tile 0, row 0, columns 0-1: high nibble 0xA, low nibble 0x5
	v := NewVPU(&tiles, DefaultPalette())

	require.Equal(t, byte(0xA), v.tilePixelNibble(0, 0, 0))
	require.Equal(t, byte(0x5), v.tilePixelNibble(0, 1, 0))
}

func TestVPUSelectTileBankClampsAndRecordsRegister(t *testing.T) {
	tiles := make([][0x2000]byte, 2)
	v := NewVPU(&tiles, DefaultPalette())

	v.selectTileBank(9)
	require.Equal(t, 1, v.tileBank)
	require.Equal(t, byte(1), v.mem[vpuOffTileBankSel])
}

func TestVPUStepRaisesVBlankAndPresentsFrame(t *testing.T) {
	cart := &Cart{Tile: make([][0x2000]byte, 1)}
	sys := NewSystem(cart, DefaultPalette())

	// Drive the VPU alone up to the first VBlank boundary: the check for
	// entering VBlank happens at the top of Step using the position as of
	// the previous call, so the boundary call itself is the +1'th.
	cyclesToVBlank := vpuScanlineVBlankStart*vpuCyclesPerScanline + 1
	for i := 0; i < cyclesToVBlank; i++ {
		sys.vpu.Step(sys)
	}

	require.True(t, sys.vpu.inVBlank)
	require.Equal(t, IntVideo, sys.pendingInterrupt)
	// Every rendered pixel is palette entry 0 (opaque black); before the
	// first VBlank the presented frame is still the zero value.
	require.Equal(t, RGBA{A: 255}, sys.ReadFramebuffer()[0], "the rendered frame must be presented at VBlank")
}

func TestVPURenderPixelLayer1OverridesLayer2WhenNonzero(t *testing.T) {
	v := newTestVPU()
	v.mem[vpuOffLayer1Map] = 1 // tile index 1 at tile (0,0)
	v.mem[vpuOffLayer2Map] = 0

	// Give tile 1 a nonzero nibble at (0,0); tile 0 stays all-zero.
	tiles := make([][0x2000]byte, 1)
	tiles[0][tileSizeBytes] = 0xF0 // tile index 1, row0 col0 high nibble = 0xF
	v.tiles = &tiles

	v.palette[0] = RGBA{A: 255}
	v.palette[1] = RGBA{R: 200, A: 255}
	v.mem[vpuOffPalettes+15] = 1 // palette 0, index 0xF -> color table entry 1

	got := v.renderPixel(0, 0)
	require.Equal(t, byte(200), got.R)
}
