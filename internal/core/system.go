// system.go - Top-level System: wires Cart, MMU, HRC, CPU, and VPU
// together and drives them one master cycle at a time via StepCycle,
// per the dependency order MMU -> VPU -> CPU. Grounded on
// component_reset.go's system-wide Reset orchestration pattern.

package core

// CyclesPerFrame is the number of master cycles the host must call
// StepCycle for, per 1/60 second, before presenting the framebuffer.
const CyclesPerFrame = 89342

// System owns every core component and is the sole entry point the host
// drives.
type System struct {
	cart *Cart
	mmu  *MMU
	hrc  *HRC
	cpu  *CPU
	vpu  *VPU

	pendingInterrupt Interrupt
}

// NewSystem constructs a System from an already-loaded Cart and an
// optional palette (DefaultPalette() is used if palette is nil).
func NewSystem(cart *Cart, palette *Palette) *System {
	if palette == nil {
		palette = DefaultPalette()
	}
	hrc := &HRC{}
	vpu := NewVPU(&cart.Tile, palette)
	mmu := NewMMU(cart, vpu, hrc)
	cpu := NewCPU()

	return &System{
		cart: cart,
		mmu:  mmu,
		hrc:  hrc,
		cpu:  cpu,
		vpu:  vpu,
	}
}

// Reset returns the CPU, HRC and VPU to their post-reset state and clears
// the pending interrupt, without re-parsing the cart. The MMU is not
// reset: its bank selections, interrupt vectors, I/O page contents and
// posted transactions keep their values.
func (s *System) Reset() {
	s.cpu.Reset()
	s.hrc.Reset()
	s.vpu.Reset()
	s.pendingInterrupt = IntNone
}

// StepCycle advances every component by exactly one master cycle, in the
// fixed order MMU (resolve posted transactions) -> VPU -> CPU, per the
// concurrency model's ordering guarantee.
func (s *System) StepCycle() {
	s.mmu.Update()
	s.vpu.Step(s)
	s.cpu.Step(s)
}

// raiseInterrupt posts an interrupt request, honoring the priority order
// VIDEO > TIMER > AUDIO > USER: a lower-priority pending request is
// overwritten, a higher-priority one is not, per invariant 6.
func (s *System) raiseInterrupt(i Interrupt) {
	if i.priority() >= s.pendingInterrupt.priority() {
		s.pendingInterrupt = i
	}
}

// ReadFramebuffer returns the last frame the VPU presented at VBlank.
func (s *System) ReadFramebuffer() Framebuffer {
	return s.vpu.Framebuffer()
}

// SetInput stores a gamepad's input mask, with release semantics: the
// write becomes visible to the CPU (via the MMU's acquire-semantics read)
// no earlier than the next StepCycle.
func (s *System) SetInput(pad int, mask uint16) {
	s.mmu.SetInput(pad, mask)
}

// Registers returns a copy of the CPU's register file, for host
// diagnostics and tests.
func (s *System) Registers() Registers { return s.cpu.Regs }

// Cart returns the system's loaded cart, for host save/load of persistent
// storage.
func (s *System) Cart() *Cart { return s.cart }
