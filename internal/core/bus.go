// bus.go - Posted-transaction bus primitives shared by the MMU's two
// device slots (CPU, VPU). Grounded on memory_bus.go's MemoryBus/IORegion
// split — a typed request value consumed by a single owner — adapted from
// that file's page-mapped 32-bit flat bus into Khepra's narrower
// one-in-flight-per-device posted model, per the posted-transaction-bus
// redesign note.

package core

// TxnKind identifies what, if anything, a device has posted to the bus.
type TxnKind byte

const (
	TxnNone TxnKind = iota
	TxnRead
	TxnWrite
)

// Transaction is the value type carried in a single device's posted-bus
// slot. It is consumed and cleared by MMU.Update, never queued: a second
// post before the first is consumed simply replaces it, modeling the
// hardware's single-in-flight-request limitation.
type Transaction struct {
	Kind  TxnKind
	Addr  uint16
	Value uint16
	Width byte // 1 or 2
}

// BankKind selects which bank-switched region a bank_select write targets.
type BankKind byte

const (
	BankROM BankKind = iota
	BankRAM
	BankTile
	BankDPCM
)

func (k BankKind) String() string {
	switch k {
	case BankROM:
		return "ROM"
	case BankRAM:
		return "RAM"
	case BankTile:
		return "TILE"
	case BankDPCM:
		return "DPCM"
	default:
		return "?"
	}
}
