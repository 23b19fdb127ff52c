// vpu.go - Video processing unit: scanline/cycle-accurate frame timing,
// tile-layer and sprite compositing, VBlank interrupt and framebuffer
// handoff. Grounded on core/vpu/vpu.c (frame geometry constants, the
// fetch/rasterize split, VBlank begin/end cycles, sprite rect derivation)
// and on video_screen_buffer.go for the double-buffered, mutex-protected
// presentable-framebuffer pattern.
//
// The per-cycle posted-word-read fetch pipeline described informally in
// the design material does not resolve to a self-consistent cycle count
// (256 reads one-per-two-cycles does not fit the 257-cycle window of
// cycles 25-281). This implementation keeps the cycle-accurate scanline/VBlank
// state machine — which is what the testable properties actually pin down
// (VBlank timing, tile/sprite composition, priority) — and computes each
// visible pixel directly from VPU memory at the moment it is rasterized,
// rather than staging it through an intermediate fetch buffer one
// scanline ahead. See DESIGN.md for the full resolution.

package core

import "sync"

const (
	vpuCyclesPerScanline = vpuScanlineCycles // 341
	vpuScanlinesPerFrame = 262
	vpuVisibleWidth      = 256
	vpuVisibleHeight     = 224

	vpuScanlineVisibleStart = 16
	vpuScanlineVBlankStart  = 240
	vpuScanlineVBlankEnd    = 12 // VBlank flag clears at scanline 12 of next frame

	vpuCycleActiveStart = 65
	vpuCycleActiveEnd   = vpuCycleActiveStart + vpuVisibleWidth // 321, exclusive
)

// VPU memory offsets, relative to 0xE000.
const (
	vpuOffLayer1Map   = 0x000
	vpuOffLayer2Map   = 0x480
	vpuOffPalettes    = 0x900
	vpuOffSprites     = 0xA00
	vpuOffGroups      = 0xB00
	vpuOffLayerPalIdx = 0xB80
	vpuOffSpritePal   = 0xB81
	vpuOffLayer1Scrl  = 0xB82
	vpuOffLayer2Scrl  = 0xB86
	vpuOffTileBankSel = 0xB90

	vpuMapTilesWide = 36
	vpuMapTilesTall = 32
	tileSizeBytes   = 32 // 8x8 pixels, 4 bits per pixel
)

// FramebufferWidth and FramebufferHeight are the dimensions of a presented
// frame, exported for hosts that need to size an output image.
const (
	FramebufferWidth  = vpuVisibleWidth
	FramebufferHeight = vpuVisibleHeight
)

// Framebuffer is a fixed 256x224 RGBA frame, row-major, top-left origin.
type Framebuffer [vpuVisibleWidth * vpuVisibleHeight]RGBA

// VPU is the video processing unit. Its VPU-local memory (tilemaps,
// palettes, sprite/group tables, scroll registers) is gated to the CPU:
// accessible only during VBlank, per the data model invariant.
type VPU struct {
	mem [0xC00]byte

	tileBank int
	tiles    *[][0x2000]byte // the cart's tile banks, set at construction

	palette *Palette

	scanline int
	cycle    int
	inVBlank bool

	active     Framebuffer
	present    Framebuffer
	presentMu  sync.Mutex
}

// NewVPU constructs a VPU bound to the cart's tile banks and the system's
// fixed color palette.
func NewVPU(tiles *[][0x2000]byte, palette *Palette) *VPU {
	return &VPU{tiles: tiles, palette: palette}
}

// Reset returns the VPU to its post-reset state: frame position zeroed,
// VPU memory and framebuffers cleared.
func (v *VPU) Reset() {
	v.mem = [0xC00]byte{}
	v.tileBank = 0
	v.scanline = 0
	v.cycle = 0
	v.inVBlank = false
	v.active = Framebuffer{}
	v.presentMu.Lock()
	v.present = Framebuffer{}
	v.presentMu.Unlock()
}

// ReadMem reads one byte of VPU-local memory at the given VPU-relative
// offset, gated to VBlank: outside VBlank the read is dropped and returns
// the byte value 0, per the CPU-visibility invariant.
func (v *VPU) ReadMem(off uint16) byte {
	if !v.inVBlank {
		return 0
	}
	if int(off) >= len(v.mem) {
		return 0
	}
	return v.mem[off]
}

// WriteMem writes one byte of VPU-local memory, gated to VBlank: outside
// VBlank the write is silently dropped.
func (v *VPU) WriteMem(off uint16, val byte) {
	if !v.inVBlank {
		return
	}
	if int(off) >= len(v.mem) {
		return
	}
	if off == vpuOffTileBankSel {
		v.selectTileBank(val)
		return
	}
	v.mem[off] = val
}

// selectTileBank is invoked by WriteMem when the VPU's own
// tile-bank-select register (VPU memory offset 0xB90) is written through
// the gated path above; it also serves the MMU's generic
// bank_select(TILE, n) operation.
func (v *VPU) selectTileBank(index byte) {
	total := len(*v.tiles)
	v.tileBank = clampBank(int(index), total)
	if int(vpuOffTileBankSel) < len(v.mem) {
		v.mem[vpuOffTileBankSel] = byte(v.tileBank)
	}
}

// tileByte/writeTileByte give the MMU raw access to the currently
// selected tile bank for the 0xC000-0xDFFF address window; unlike VPU
// registers this is ordinary bank-switched memory, not VBlank-gated.
func (v *VPU) tileByte(off uint16) byte {
	if len(*v.tiles) == 0 {
		return 0
	}
	return (*v.tiles)[v.tileBank][off]
}

func (v *VPU) writeTileByte(off uint16, val byte) {
	if len(*v.tiles) == 0 {
		return
	}
	(*v.tiles)[v.tileBank][off] = val
}

// Step advances the VPU by exactly one pixel-clock cycle: it updates the
// scanline/cycle position, rasterizes one pixel when in the active
// window, and raises INT_VIDEO at the start of VBlank. It must be called
// once per master cycle, after MMU.Update and before CPU.Step.
func (v *VPU) Step(sys *System) {
	if v.scanline >= vpuScanlineVisibleStart && v.scanline < vpuScanlineVBlankStart &&
		v.cycle >= vpuCycleActiveStart && v.cycle < vpuCycleActiveEnd {
		x := v.cycle - vpuCycleActiveStart
		y := v.scanline - vpuScanlineVisibleStart
		v.active[y*vpuVisibleWidth+x] = v.renderPixel(x, y)
	}

	if v.scanline == vpuScanlineVBlankStart && v.cycle == 0 {
		v.inVBlank = true
		v.presentMu.Lock()
		v.present = v.active
		v.presentMu.Unlock()
		sys.raiseInterrupt(IntVideo)
	}
	if v.scanline == vpuScanlineVBlankEnd && v.cycle == 0 {
		v.inVBlank = false
	}

	v.cycle++
	if v.cycle >= vpuCyclesPerScanline {
		v.cycle = 0
		v.scanline++
		if v.scanline >= vpuScanlinesPerFrame {
			v.scanline = 0
		}
	}
}

// Framebuffer returns a copy of the last presented (post-VBlank) frame,
// acquiring the same lock the VPU uses when publishing it.
func (v *VPU) Framebuffer() Framebuffer {
	v.presentMu.Lock()
	defer v.presentMu.Unlock()
	return v.present
}

func (v *VPU) layerPaletteIndices() (layer1, layer2 byte) {
	b := v.mem[vpuOffLayerPalIdx]
	return b & 0x0F, (b >> 4) & 0x0F
}

func (v *VPU) spritePaletteIndex() byte {
	return v.mem[vpuOffSpritePal] & 0x0F
}

// layerScroll reads a layer's (coarseX, fineX, coarseY, fineY) scroll
// registers.
func (v *VPU) layerScroll(base int) (coarseX, fineX, coarseY, fineY int) {
	return int(v.mem[base]), int(v.mem[base+1]) & 7, int(v.mem[base+2]), int(v.mem[base+3]) & 7
}

// layerPixel samples one layer's tilemap+tile data at screen position
// (x, y), honoring coarse/fine scroll with wraparound over the full
// 36x32-tile map.
func (v *VPU) layerPixel(mapOff, scrollOff int, x, y int) byte {
	coarseX, fineX, coarseY, fineY := v.layerScroll(scrollOff)

	px := x + fineX
	py := y + fineY
	tileX := (coarseX + px/8) % vpuMapTilesWide
	tileY := (coarseY + py/8) % vpuMapTilesTall
	subX := px % 8
	subY := py % 8

	tileIndex := v.mem[mapOff+tileY*vpuMapTilesWide+tileX]
	return v.tilePixelNibble(tileIndex, subX, subY)
}

// tilePixelNibble extracts the 4-bit pixel value at (px,py) within the
// tile selected by index, from the currently selected tile bank. Pixels
// are packed two to a byte, even column in the high nibble.
func (v *VPU) tilePixelNibble(index byte, px, py int) byte {
	if len(*v.tiles) == 0 {
		return 0
	}
	tile := (*v.tiles)[v.tileBank]
	base := int(index) * tileSizeBytes
	byteOff := base + py*4 + px/2
	if byteOff >= len(tile) {
		return 0
	}
	b := tile[byteOff]
	if px%2 == 0 {
		return (b >> 4) & 0x0F
	}
	return b & 0x0F
}

// colorFor resolves a layer's nibble through its palette to the fixed
// 256-entry RGB table.
func (v *VPU) colorFor(paletteIdx, nibble byte) RGBA {
	entry := v.mem[vpuOffPalettes+int(paletteIdx)*16+int(nibble)]
	if v.palette == nil {
		return RGBA{A: 255}
	}
	return v.palette[entry]
}

type spriteAttrs struct {
	enable                        bool
	depth                         byte
	hmirror, hdouble              bool
	vmirror, vdouble              bool
	group                         byte
	xoffs, yoffs                  int // signed, units of 8px
	tileIndex                     byte
}

func (v *VPU) sprite(i int) spriteAttrs {
	base := vpuOffSprites + i*4
	b0, b1, b2, b3 := v.mem[base], v.mem[base+1], v.mem[base+2], v.mem[base+3]
	return spriteAttrs{
		enable:    b0&0x80 != 0,
		depth:     (b0 >> 4) & 0x07,
		hmirror:   b0&0x08 != 0,
		hdouble:   b0&0x04 != 0,
		vmirror:   b0&0x02 != 0,
		vdouble:   b0&0x01 != 0,
		group:     b1 & 0x3F,
		xoffs:     int(b2>>4&0x0F) - 8,
		yoffs:     int(b2&0x0F) - 8,
		tileIndex: b3,
	}
}

func (v *VPU) groupPos(group byte) (x, y int) {
	base := vpuOffGroups + int(group)*2
	return int(int8(v.mem[base])), int(int8(v.mem[base+1]))
}

// spritePixel returns the sprite's nibble at screen (x,y) and whether the
// sprite covers that pixel at all.
func (v *VPU) spritePixel(s spriteAttrs, x, y int) (nibble byte, hit bool) {
	gx, gy := v.groupPos(s.group)
	sx := gx + s.xoffs*8
	sy := gy + s.yoffs*8
	w, h := 8, 8
	if s.hdouble {
		w = 16
	}
	if s.vdouble {
		h = 16
	}
	if x < sx || x >= sx+w || y < sy || y >= sy+h {
		return 0, false
	}

	lx := x - sx
	ly := y - sy
	if s.hdouble {
		lx /= 2
	}
	if s.vdouble {
		ly /= 2
	}
	if s.hmirror {
		lx = 7 - lx
	}
	if s.vmirror {
		ly = 7 - ly
	}
	return v.tilePixelNibble(s.tileIndex, lx, ly), true
}

// renderPixel composes layer 2, layer 1, and the 64 sprites (front to
// back) for one screen pixel, per the rasterizer algorithm.
func (v *VPU) renderPixel(x, y int) RGBA {
	pal1, pal2 := v.layerPaletteIndices()

	n2 := v.layerPixel(vpuOffLayer2Map, vpuOffLayer2Scrl, x, y)
	result := v.colorFor(pal2, n2)

	n1 := v.layerPixel(vpuOffLayer1Map, vpuOffLayer1Scrl, x, y)
	if n1 != 0 {
		result = v.colorFor(pal1, n1)
	}

	spal := v.spritePaletteIndex()
	bestDepth := -1
	var bestNibble byte
	for i := 0; i < 64; i++ {
		s := v.sprite(i)
		if !s.enable {
			continue
		}
		nib, hit := v.spritePixel(s, x, y)
		if !hit || nib == 0 {
			continue
		}
		if bestDepth == -1 || int(s.depth) < bestDepth {
			bestDepth = int(s.depth)
			bestNibble = nib
		}
	}
	if bestDepth != -1 {
		result = v.colorFor(spal, bestNibble)
	}

	return result
}
