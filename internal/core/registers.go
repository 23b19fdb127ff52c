// registers.go - CPU register file and flag bits for the Khepra/QPRA core.

package core

// Registers holds the eight 16-bit words of the Khepra CPU register file.
// P is the program counter, S the stack pointer, F the flags register.
// A, B, C, D, E are general purpose.
type Registers struct {
	A, B, C, D, E uint16
	P             uint16
	S             uint16
	F             uint16
}

// Flag bits within the F register.
const (
	FlagZ uint16 = 0x01 // zero
	FlagC uint16 = 0x02 // carry
	FlagO uint16 = 0x04 // signed overflow
	FlagN uint16 = 0x08 // negative (sign)
	FlagI uint16 = 0x10 // interrupt enable
)

// arithFlagMask covers every flag an arithmetic/logical instruction may set.
// Interrupt-enable (FlagI) is never touched by instruction execution; only
// explicit writes to F (or INT/RTI) change it.
const arithFlagMask = FlagZ | FlagC | FlagO | FlagN

// resetStackPointer is the stack pointer's value immediately after reset,
// per the register file layout in the data model.
const resetStackPointer uint16 = 0x9FFE

// reg selects one of the eight register-file slots by its 3-bit field
// value (RX/RY in the instruction word).
type reg byte

const (
	regA reg = iota
	regB
	regC
	regD
	regE
	regP
	regS
	regF
)

func (r *Registers) get(sel reg) uint16 {
	switch sel {
	case regA:
		return r.A
	case regB:
		return r.B
	case regC:
		return r.C
	case regD:
		return r.D
	case regE:
		return r.E
	case regP:
		return r.P
	case regS:
		return r.S
	default:
		return r.F
	}
}

func (r *Registers) set(sel reg, v uint16) {
	switch sel {
	case regA:
		r.A = v
	case regB:
		r.B = v
	case regC:
		r.C = v
	case regD:
		r.D = v
	case regE:
		r.E = v
	case regP:
		r.P = v
	case regS:
		r.S = v
	default:
		r.F = v
	}
}

// Reset restores the register file to its post-reset state: every
// general-purpose register and P cleared to zero, S at resetStackPointer,
// F cleared (interrupts masked until the ROM explicitly enables them).
func (r *Registers) Reset() {
	*r = Registers{S: resetStackPointer}
}
