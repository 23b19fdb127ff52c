package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestMMU() (*MMU, *Cart, *VPU, *HRC) {
	cart := &Cart{
		RomSwap: make([][0x4000]byte, 2),
		RamSwap: make([][0x2000]byte, 2),
		Tile:    make([][0x2000]byte, 1),
		DPCM:    make([][0x800]byte, 2),
	}
	cart.RomFixed[0] = 0x42
	hrc := &HRC{}
	vpu := NewVPU(&cart.Tile, DefaultPalette())
	return NewMMU(cart, vpu, hrc), cart, vpu, hrc
}

func TestMMUPostedReadVisibleNextCycle(t *testing.T) {
	mmu, _, _, _ := newTestMMU()

	mmu.RbSendCPU(0x0000)
	// before Update, the previous (zero-value) result still reads back.
	require.Equal(t, byte(0), mmu.RbFetchCPU())

	mmu.Update()
	require.Equal(t, byte(0x42), mmu.RbFetchCPU())
}

func TestMMUPostedWriteTakesEffectOnUpdate(t *testing.T) {
	mmu, cart, _, _ := newTestMMU()

	mmu.WbSendCPU(0x8000, 0x99)
	require.Equal(t, byte(0), cart.RamFixed[0])

	mmu.Update()
	require.Equal(t, byte(0x99), cart.RamFixed[0])
}

func TestMMUBankSelectClamps(t *testing.T) {
	mmu, _, _, _ := newTestMMU()

	mmu.bankSelect(BankROM, 9)
	require.Equal(t, 1, mmu.romBank) // clamped to len(RomSwap)-1 == 1

	mmu.bankSelect(BankROM, 0)
	require.Equal(t, 0, mmu.romBank)
}

func TestMMURomBankSelectRegisterRoundTrip(t *testing.T) {
	mmu, cart, _, _ := newTestMMU()
	cart.RomSwap[1][0] = 0x77

	mmu.writeByte(addrRomBankSel, 1)
	require.Equal(t, byte(1), mmu.readByte(addrRomBankSel))
	require.Equal(t, byte(0x77), mmu.readByte(0x4000))
}

func TestMMUDpcmBankSelectRegister(t *testing.T) {
	mmu, cart, _, _ := newTestMMU()
	cart.DPCM[1][0] = 0x55

	mmu.writeByte(addrDpcmBankSel, 1)
	require.Equal(t, byte(1), mmu.readByte(addrDpcmBankSel), "register readback must mirror the ROM/RAM bank-select registers")
	require.Equal(t, byte(0x55), mmu.readByte(0xF000))
}

func TestMMUVpuMemGatedToVBlank(t *testing.T) {
	mmu, _, vpu, _ := newTestMMU()

	mmu.writeByte(addrVpuMemBase, 0xAB)
	require.Equal(t, byte(0), mmu.readByte(addrVpuMemBase), "write outside VBlank must be dropped")

	vpu.inVBlank = true
	mmu.writeByte(addrVpuMemBase, 0xAB)
	require.Equal(t, byte(0xAB), mmu.readByte(addrVpuMemBase))
}

func TestMMUGamepadInputReadback(t *testing.T) {
	mmu, _, _, _ := newTestMMU()
	mmu.SetInput(0, 0xBEEF)

	require.Equal(t, byte(0xEF), mmu.readByte(addrGamepad1))
	require.Equal(t, byte(0xBE), mmu.readByte(addrGamepad1+1))
}

func TestMMUInterruptVectorWriteReadback(t *testing.T) {
	mmu, _, _, _ := newTestMMU()
	mmu.writeByte(addrIntvecBase, 0x34)   // audio vector, low byte
	mmu.writeByte(addrIntvecBase+1, 0x12) // audio vector, high byte

	require.Equal(t, uint16(0x1234), mmu.InterruptVector(IntAudio))
}

func TestMMUHrcRegisterRouting(t *testing.T) {
	mmu, _, _, hrc := newTestMMU()
	mmu.writeByte(addrHrcLo, 0x01)
	mmu.writeByte(addrHrcHi, 0x80)

	require.Equal(t, uint16(0x8001), hrc.v)
	require.Equal(t, byte(0x01), mmu.readByte(addrHrcLo))
	require.Equal(t, byte(0x80), mmu.readByte(addrHrcHi))
}
