package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSystemRaiseInterruptHonorsPriority(t *testing.T) {
	sys := NewSystem(&Cart{}, DefaultPalette())

	sys.raiseInterrupt(IntUser)
	require.Equal(t, IntUser, sys.pendingInterrupt)

	// A higher-priority request displaces a pending lower one.
	sys.raiseInterrupt(IntAudio)
	require.Equal(t, IntAudio, sys.pendingInterrupt)

	sys.pendingInterrupt = IntVideo
	sys.raiseInterrupt(IntTimer)
	require.Equal(t, IntVideo, sys.pendingInterrupt, "TIMER must not displace a pending VIDEO request")

	sys.raiseInterrupt(IntVideo)
	require.Equal(t, IntVideo, sys.pendingInterrupt)
}

func TestSystemResetClearsStateWithoutReparsingCart(t *testing.T) {
	cart := &Cart{}
	cart.RomFixed[0] = 0x99
	sys := NewSystem(cart, DefaultPalette())

	sys.cpu.Regs.A = 0x1234
	sys.pendingInterrupt = IntAudio
	sys.vpu.inVBlank = true

	sys.Reset()

	require.Zero(t, sys.cpu.Regs.A)
	require.Equal(t, IntNone, sys.pendingInterrupt)
	require.False(t, sys.vpu.inVBlank)
	require.Equal(t, byte(0x99), sys.cart.RomFixed[0], "reset must not touch the loaded cart")
}

func TestSystemSetInputIsVisibleThroughMMU(t *testing.T) {
	sys := NewSystem(&Cart{}, DefaultPalette())
	sys.SetInput(0, 0x00FF)
	require.Equal(t, byte(0xFF), sys.mmu.readByte(addrGamepad1))
}
