// mmu.go - Memory-management unit: owns every bank, decodes the 64 KiB
// address space, and arbitrates the two posted-transaction slots (CPU,
// VPU). Grounded on memory_bus.go's SystemBus/IORegion split (a single
// owner of backing storage, dispatch by address range) generalized from
// its flat 32-bit paged I/O map to Khepra's fixed bank-switched regions,
// and on core/mmu/mmu.c for the decode cascade and posted-bus primitive
// names (rb_send/fetch, wb_send, rw_send/fetch, ww_send, update).

package core

import "sync/atomic"

// Bank-select register addresses.
const (
	addrRomBankSel = 0xFFE0
	addrRamBankSel = 0xFFE1
	addrHrcLo      = 0xFFE2
	addrHrcHi      = 0xFFE3
	addrGamepad1   = 0xFFF0
	addrGamepad2   = 0xFFF2
	addrSerialBase = 0xFFF4
	addrIntvecBase = 0xFFF8

	addrVpuMemBase = 0xE000
	addrVpuMemEnd  = 0xEBFF
	addrApuBase    = 0xEC00
	addrApuEnd     = 0xEFFF
	addrMisc0Base  = 0xF800
	addrMisc0End   = 0xFDFF
	addrPersistBase = 0xFE00
	addrPersistEnd  = 0xFEFF
	addrMisc1Base  = 0xFF00
	addrMisc1End   = 0xFFDF

	// addrDpcmBankSel: the spec's address table gives explicit
	// bank-select registers only for ROM (0xFFE0) and RAM (0xFFE1); tile
	// banking is selected through a VPU-owned register (VPU memory
	// offset 0xB90, per the VPU memory map). No address is named for
	// DPCM banking. This implementation resolves that gap by placing the
	// DPCM-bank-select register at the first byte of Misc I/O page 0,
	// immediately after the DPCM bank window (0xF000-0xF7FF).
	addrDpcmBankSel = 0xF800
)

// Interrupt vector slots, indexed by (addr-addrIntvecBase)/2.
const (
	vecAudio = iota
	vecVideo
	vecTimer
	vecUser
)

// MMU owns every memory bank and routes the whole 64 KiB address space.
type MMU struct {
	cart *Cart
	vpu  *VPU
	hrc  *HRC

	romBank, ramBank, dpcmBank int

	apu     [addrApuEnd - addrApuBase + 1]byte
	misc0   [addrMisc0End - addrMisc0Base + 1]byte
	misc1   [addrMisc1End - addrMisc1Base + 1]byte
	intvec  [4]uint16
	padIn   [2]atomic.Uint32 // gamepad input, written by the host with release semantics

	cpuPending Transaction
	cpuResult  uint16
	vpuPending Transaction
	vpuResult  uint16
}

// NewMMU constructs an MMU over the given cart, wired to the VPU (for
// VBlank-gated register access) and the HRC (for timer register routing).
func NewMMU(cart *Cart, vpu *VPU, hrc *HRC) *MMU {
	return &MMU{cart: cart, vpu: vpu, hrc: hrc}
}

// SetInput stores the given gamepad's 16-bit input mask. Called by the
// host; satisfies the release side of the release/acquire pair in the
// concurrency model. pad is 0 or 1.
func (m *MMU) SetInput(pad int, mask uint16) {
	if pad < 0 || pad > 1 {
		return
	}
	m.padIn[pad].Store(uint32(mask))
}

// Update resolves both posted-transaction slots (materializing the read or
// write that was posted last cycle) and clears them. It must be called
// before the VPU and CPU take their own step, per the ordering guarantee
// that MMU resolution precedes observation within a cycle.
func (m *MMU) Update() {
	m.cpuResult = m.resolve(&m.cpuPending)
	m.vpuResult = m.resolve(&m.vpuPending)
}

func (m *MMU) resolve(slot *Transaction) uint16 {
	var result uint16
	switch slot.Kind {
	case TxnRead:
		if slot.Width == 1 {
			result = uint16(m.readByte(slot.Addr))
		} else {
			result = m.readWord(slot.Addr)
		}
	case TxnWrite:
		if slot.Width == 1 {
			m.writeByte(slot.Addr, byte(slot.Value))
		} else {
			m.writeWord(slot.Addr, slot.Value)
		}
	}
	*slot = Transaction{}
	return result
}

// Posted-bus API, CPU side.
func (m *MMU) RbSendCPU(addr uint16)            { m.cpuPending = Transaction{Kind: TxnRead, Addr: addr, Width: 1} }
func (m *MMU) RbFetchCPU() byte                 { return byte(m.cpuResult) }
func (m *MMU) WbSendCPU(addr uint16, v byte)    { m.cpuPending = Transaction{Kind: TxnWrite, Addr: addr, Value: uint16(v), Width: 1} }
func (m *MMU) RwSendCPU(addr uint16)            { m.cpuPending = Transaction{Kind: TxnRead, Addr: addr, Width: 2} }
func (m *MMU) RwFetchCPU() uint16               { return m.cpuResult }
func (m *MMU) WwSendCPU(addr uint16, v uint16)  { m.cpuPending = Transaction{Kind: TxnWrite, Addr: addr, Value: v, Width: 2} }

// Posted-bus API, VPU side.
func (m *MMU) RbSendVPU(addr uint16)           { m.vpuPending = Transaction{Kind: TxnRead, Addr: addr, Width: 1} }
func (m *MMU) RbFetchVPU() byte                { return byte(m.vpuResult) }
func (m *MMU) RwSendVPU(addr uint16)           { m.vpuPending = Transaction{Kind: TxnRead, Addr: addr, Width: 2} }
func (m *MMU) RwFetchVPU() uint16              { return m.vpuResult }

// bankSelect mutates the active-bank index for the given kind, clamping
// an out-of-range index to total-1 per the bank-select operation.
func (m *MMU) bankSelect(kind BankKind, index byte) {
	switch kind {
	case BankROM:
		m.romBank = clampBank(int(index), len(m.cart.RomSwap))
	case BankRAM:
		m.ramBank = clampBank(int(index), len(m.cart.RamSwap))
	case BankDPCM:
		m.dpcmBank = clampBank(int(index), len(m.cart.DPCM))
	case BankTile:
		m.vpu.selectTileBank(index)
	}
}

func clampBank(index, total int) int {
	if total == 0 {
		return 0
	}
	if index >= total {
		return total - 1
	}
	return index
}

func (m *MMU) readByte(addr uint16) byte {
	c := m.cart
	switch {
	case addr <= 0x3FFF:
		return c.RomFixed[addr]
	case addr <= 0x7FFF:
		if len(c.RomSwap) == 0 {
			return 0
		}
		return c.RomSwap[m.romBank][addr-0x4000]
	case addr <= 0x9FFF:
		return c.RamFixed[addr-0x8000]
	case addr <= 0xBFFF:
		if len(c.RamSwap) == 0 {
			return 0
		}
		return c.RamSwap[m.ramBank][addr-0xA000]
	case addr <= 0xDFFF:
		return m.vpu.tileByte(addr - 0xC000)
	case addr >= addrVpuMemBase && addr <= addrVpuMemEnd:
		return m.vpu.ReadMem(addr - addrVpuMemBase)
	case addr >= addrApuBase && addr <= addrApuEnd:
		return m.apu[addr-addrApuBase]
	case addr <= 0xF7FF:
		if len(c.DPCM) == 0 {
			return 0
		}
		return c.DPCM[m.dpcmBank][addr-0xF000]
	case addr == addrDpcmBankSel:
		return byte(m.dpcmBank)
	case addr >= addrMisc0Base && addr <= addrMisc0End:
		return m.misc0[addr-addrMisc0Base]
	case addr >= addrPersistBase && addr <= addrPersistEnd:
		return c.Persist[addr-addrPersistBase]
	case addr >= addrMisc1Base && addr <= addrMisc1End:
		return m.misc1[addr-addrMisc1Base]
	case addr == addrRomBankSel:
		return byte(m.romBank)
	case addr == addrRamBankSel:
		return byte(m.ramBank)
	case addr == addrHrcLo:
		return m.hrc.Lo()
	case addr == addrHrcHi:
		return m.hrc.Hi()
	case addr >= addrGamepad1 && addr <= addrGamepad1+1:
		return byte(m.padIn[0].Load() >> (8 * (addr - addrGamepad1)))
	case addr >= addrGamepad2 && addr <= addrGamepad2+1:
		return byte(m.padIn[1].Load() >> (8 * (addr - addrGamepad2)))
	case addr >= addrSerialBase && addr < addrIntvecBase:
		return 0
	case addr >= addrIntvecBase:
		i := (addr - addrIntvecBase) / 2
		if (addr-addrIntvecBase)%2 == 0 {
			return byte(m.intvec[i])
		}
		return byte(m.intvec[i] >> 8)
	default:
		warnf("read from unmapped address 0x%04X", addr)
		return 0
	}
}

func (m *MMU) writeByte(addr uint16, v byte) {
	c := m.cart
	switch {
	case addr <= 0x7FFF:
		warnf("write to read-only ROM region 0x%04X ignored", addr)
	case addr <= 0x9FFF:
		c.RamFixed[addr-0x8000] = v
	case addr <= 0xBFFF:
		if len(c.RamSwap) > 0 {
			c.RamSwap[m.ramBank][addr-0xA000] = v
		}
	case addr <= 0xDFFF:
		m.vpu.writeTileByte(addr-0xC000, v)
	case addr >= addrVpuMemBase && addr <= addrVpuMemEnd:
		m.vpu.WriteMem(addr-addrVpuMemBase, v)
	case addr >= addrApuBase && addr <= addrApuEnd:
		m.apu[addr-addrApuBase] = v
	case addr == addrDpcmBankSel:
		m.bankSelect(BankDPCM, v)
	case addr <= 0xF7FF:
		// DPCM bank itself is read-only to the CPU; only the
		// bank-select register (above) is writable.
		warnf("write to read-only DPCM bank 0x%04X ignored", addr)
	case addr >= addrMisc0Base && addr <= addrMisc0End:
		m.misc0[addr-addrMisc0Base] = v
	case addr >= addrPersistBase && addr <= addrPersistEnd:
		c.Persist[addr-addrPersistBase] = v
	case addr >= addrMisc1Base && addr <= addrMisc1End:
		m.misc1[addr-addrMisc1Base] = v
	case addr == addrRomBankSel:
		m.bankSelect(BankROM, v)
	case addr == addrRamBankSel:
		m.bankSelect(BankRAM, v)
	case addr == addrHrcLo:
		m.hrc.SetLo(v)
	case addr == addrHrcHi:
		m.hrc.SetHi(v)
	case addr >= addrGamepad1 && addr <= addrGamepad2+1:
		// host-owned input registers; CPU writes are ignored.
	case addr >= addrSerialBase && addr < addrIntvecBase:
		// serial stub: writes discarded.
	case addr >= addrIntvecBase:
		i := (addr - addrIntvecBase) / 2
		if (addr-addrIntvecBase)%2 == 0 {
			m.intvec[i] = (m.intvec[i] &^ 0x00FF) | uint16(v)
		} else {
			m.intvec[i] = (m.intvec[i] &^ 0xFF00) | (uint16(v) << 8)
		}
	default:
		warnf("write to unmapped address 0x%04X ignored", addr)
	}
}

func (m *MMU) readWord(addr uint16) uint16 {
	lo := m.readByte(addr)
	hi := m.readByte(addr + 1)
	return uint16(lo) | uint16(hi)<<8
}

func (m *MMU) writeWord(addr uint16, v uint16) {
	m.writeByte(addr, byte(v))
	m.writeByte(addr+1, byte(v>>8))
}

// InterruptVector returns the vector table entry for the given interrupt.
func (m *MMU) InterruptVector(i Interrupt) uint16 {
	switch i {
	case IntAudio:
		return m.intvec[vecAudio]
	case IntVideo:
		return m.intvec[vecVideo]
	case IntTimer:
		return m.intvec[vecTimer]
	default:
		return m.intvec[vecUser]
	}
}
