// hrc.go - Hi-Res Counter timer peripheral. Grounded directly on
// core/cpu/hrc.c: a 16-bit control/period register, enable edge detection,
// HSync-align vs. plain cycle-count period, and re-arming on fire.

package core

// vpuScanlineCycles is the HRC's HSync-align period; also the VPU's
// cycles-per-scanline constant (vpu.go).
const vpuScanlineCycles = 341

// HRC is the timer peripheral: a single 16-bit register v (bit 0 = enable,
// bit 1 = HSync-align mode, bits 2-15 = period) plus the running state
// needed to fire INT_TIMER at the right cycle.
type HRC struct {
	v             uint16
	enabled       bool
	totalCycles   int
	elapsedCycles int
}

// Write sets the HRC's control/period register, replacing its whole value;
// it is the same operation as SetValue.
func (h *HRC) Write(v uint16) {
	h.SetValue(v)
}

// SetValue replaces the HRC register outright; the enable edge is
// evaluated on the next call to Step.
func (h *HRC) SetValue(v uint16) {
	h.v = v
}

// SetLo/SetHi support byte-addressed access to the 16-bit register at
// 0xFFE2 (lo) / 0xFFE3 (hi): each replaces its own byte of the register
// and leaves the other byte unchanged.
func (h *HRC) SetLo(b byte) { h.v = (h.v &^ 0x00FF) | uint16(b) }
func (h *HRC) SetHi(b byte) { h.v = (h.v &^ 0xFF00) | (uint16(b) << 8) }

// Lo/Hi read back the control register a byte at a time.
func (h *HRC) Lo() byte { return byte(h.v) }
func (h *HRC) Hi() byte { return byte(h.v >> 8) }

// disabledType values: both 6 and 7 in the type field mean "disabled",
// per the redesign note resolving the source's two incompatible
// disabled-encodings. The type field occupies bits 2-3 when interpreted
// the way the original disable check does; here it is evaluated the same
// way the enable bit is, by testing v&1 directly, so this constant is not
// itself consulted by Step — it exists to document the decision for
// anything that inspects v's type field directly (tests, diagnostics).
const disabledTypeLow, disabledTypeHigh = 6, 7

// Step advances the HRC by one CPU cycle. It must be called exactly once
// per CPU cycle. cycleCount is the CPU's running total cycle count, needed
// to compute the delay to the next horizontal-sync boundary when entering
// HSync-align mode. It returns true exactly on the cycle the counter
// fires.
func (h *HRC) Step(cycleCount int) bool {
	switch {
	case h.v&1 != 0 && !h.enabled:
		if h.v&2 != 0 {
			h.totalCycles = vpuScanlineCycles - (cycleCount % vpuScanlineCycles)
		} else {
			h.totalCycles = int(h.v&0xFFFC) << 2
		}
		h.enabled = true
		h.elapsedCycles = 0
		logf("hrc: enabled, delay=%d", h.totalCycles)
	case h.v&1 == 0 && h.enabled:
		h.enabled = false
		logf("hrc: disabled")
	}

	if !h.enabled {
		return false
	}

	h.elapsedCycles++
	if h.elapsedCycles != h.totalCycles {
		return false
	}

	h.elapsedCycles = 0
	if h.v&2 != 0 {
		h.totalCycles = vpuScanlineCycles
	}
	return true
}

// Reset clears the HRC to its post-reset state: disabled, zeroed.
func (h *HRC) Reset() {
	*h = HRC{}
}
