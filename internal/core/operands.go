// operands.go - Operand addressing: register/immediate/pointer value
// resolution and write-back, for the two-operand and single-operand
// addressing-mode families. Convention (this implementation's choice,
// since the spec names but does not assign register roles per mode):
// when a mode has exactly one register field in play, it uses RX; DR_IR
// uses RY for its pointer register (RX already claims the destination
// register slot); IR_DR uses RX for the pointer register and RY for the
// source register, by symmetry with "destination named first".

package core

// primaryValue returns "op1": the value read from the instruction's
// primary (often destination) operand.
func (c *CPU) primaryValue() uint16 {
	switch c.instr.Mode {
	case AmDR, AmDR_DR, AmDR_DB, AmDR_IR, AmDR_IB, AmDR_DW, AmDR_IW:
		return c.Regs.get(c.instr.RX)
	case AmIR, AmIB, AmIW:
		return c.ptrVal
	default:
		return 0
	}
}

// secondaryValue returns "op2": the source value for two-operand
// opcodes (ADD, CMP, MV, ...).
func (c *CPU) secondaryValue() uint16 {
	switch c.instr.Mode {
	case AmDR_DR:
		return c.Regs.get(c.instr.RY)
	case AmDR_IR:
		return c.ptrVal
	case AmDR_DB, AmDR_DW:
		return c.dataWord
	case AmDR_IB, AmDR_IW:
		return c.ptrVal
	case AmIR_DR:
		return c.Regs.get(c.instr.RY)
	case AmIB_DR, AmIW_DR:
		return c.Regs.get(c.instr.RX)
	default:
		return 0
	}
}

// storeResult writes the computed value back to the instruction's
// destination: a register directly, or the pointer-value scratch (for
// the caller to post as a bus write) when the destination is memory.
func (c *CPU) storeResult(v uint16) {
	switch c.instr.Mode {
	case AmDR, AmDR_DR, AmDR_DB, AmDR_IR, AmDR_IB, AmDR_DW, AmDR_IW:
		c.Regs.set(c.instr.RX, v)
	case AmIR, AmIB, AmIW, AmIR_DR, AmIB_DR, AmIW_DR:
		c.ptrVal = v
	}
}

// operandAddr resolves the register-held pointer address for the
// register-indirect addressing families.
func (c *CPU) operandAddr() uint16 {
	switch c.instr.Mode {
	case AmIR:
		return c.Regs.get(c.instr.RX)
	case AmDR_IR:
		return c.Regs.get(c.instr.RY)
	case AmIR_DR:
		return c.Regs.get(c.instr.RX)
	default:
		return c.Regs.get(c.instr.RX)
	}
}

// jumpTarget resolves the address operand used by JP/CL/Jcc/Ccc, which
// address a 16-bit target through the single-operand addressing family.
func (c *CPU) jumpTarget() uint16 {
	switch c.instr.Mode {
	case AmDR:
		return c.Regs.get(c.instr.RX)
	case AmIR, AmIB, AmIW:
		return c.ptrVal
	case AmDB, AmDW:
		return c.dataWord
	default:
		return c.dataWord
	}
}
