package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistersResetState(t *testing.T) {
	var r Registers
	r.A, r.P, r.F = 0xBEEF, 0x1234, 0xFF
	r.Reset()

	require.Equal(t, uint16(0), r.A)
	require.Equal(t, uint16(0), r.P)
	require.Equal(t, uint16(0), r.F)
	require.Equal(t, resetStackPointer, r.S)
}

func TestRegistersGetSetRoundTrip(t *testing.T) {
	var r Registers
	for sel, want := range map[reg]uint16{
		regA: 0x0101, regB: 0x0202, regC: 0x0303, regD: 0x0404,
		regE: 0x0505, regP: 0x0606, regS: 0x0707, regF: 0x0808,
	} {
		r.set(sel, want)
		require.Equal(t, want, r.get(sel), "register selector %d", sel)
	}
}
