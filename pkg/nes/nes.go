package nes

import (
	"errors"

	"github.com/yoshiomiyamaegones/pkg/apu"
	"github.com/yoshiomiyamaegones/pkg/bus"
	"github.com/yoshiomiyamaegones/pkg/cartridge"
	"github.com/yoshiomiyamaegones/pkg/cpu"
	"github.com/yoshiomiyamaegones/pkg/input"
	"github.com/yoshiomiyamaegones/pkg/ppu"
)

// ErrHalted is returned by Step/StepFrame once the CPU has executed a
// JAM/KIL opcode. The machine stays in this state until Reset is called.
var ErrHalted = errors.New("nes: cpu halted (JAM/KIL opcode)")

// NES represents the Nintendo Entertainment System
type NES struct {
	CPU       *cpu.CPU
	PPU       *ppu.PPU
	APU       *apu.APU
	Memory    *bus.Bus
	Cartridge *cartridge.Cartridge
	Input     *input.Controller

	Cycles uint64
	Frame  uint64

	wasDMAPending bool
}

// NewNES creates a new NES instance
func NewNES() *NES {
	nes := &NES{}

	// Initialize components
	nes.Memory = bus.New()
	nes.CPU = cpu.New(nes.Memory)
	nes.PPU = ppu.New(nes.Memory)
	nes.APU = apu.New()
	nes.Input = input.New()

	// Connect components to memory
	nes.Memory.SetPPU(nes.PPU)
	nes.Memory.SetAPU(nes.APU)
	nes.Memory.SetInput(nes.Input)

	return nes
}

// LoadCartridge loads a cartridge into the NES
func (n *NES) LoadCartridge(cart *cartridge.Cartridge) {
	n.Cartridge = cart
	n.Memory.SetCartridge(cart)
	n.PPU.SetCartridge(cart)
}

// Reset resets the NES to initial state
func (n *NES) Reset() {
	n.CPU.Reset()
	n.PPU.Reset()
	n.APU.Reset()
	n.Cycles = 0
	n.Frame = 0
}

// tickDependents advances the PPU (3x) and APU (1x) for one CPU cycle and
// services any interrupts the PPU/mapper raised during it.
func (n *NES) tickDependents() {
	for i := 0; i < 3; i++ {
		n.PPU.Step()

		if n.PPU.NMIRequested {
			n.CPU.TriggerNMI()
			n.PPU.NMIRequested = false
		}

		if n.PPU.IsMapperIRQPending() {
			n.CPU.TriggerIRQ()
			n.PPU.ClearMapperIRQ()
		}
	}

	n.APU.Step()
	n.Cycles++
}

// Step executes one CPU instruction (or, while an OAMDMA transfer is in
// flight, one stalled CPU cycle), ticking the PPU and APU alongside it. It
// returns ErrHalted once the CPU has executed a JAM/KIL opcode.
func (n *NES) Step() error {
	if n.CPU.Halted {
		return ErrHalted
	}

	if n.Memory.DMAPending() {
		n.Memory.StepDMA()
		n.tickDependents()
		return nil
	}

	cpuCycleParity := n.Cycles%2 == 1
	cpuCycles := n.CPU.Step()

	if n.Memory.DMAPending() && !n.wasDMAPending {
		n.Memory.SetDMAParity(cpuCycleParity)
	}
	n.wasDMAPending = n.Memory.DMAPending()

	for i := 0; i < cpuCycles; i++ {
		n.tickDependents()
	}

	if n.CPU.Halted {
		return ErrHalted
	}
	return nil
}

// StepFrame executes until a frame is complete or the CPU halts.
func (n *NES) StepFrame() error {
	stepCount := 0
	maxSteps := 300000 // generous bound: covers worst-case DMA-stalled frames

	for !n.PPU.FrameComplete {
		if err := n.Step(); err != nil {
			return err
		}
		stepCount++

		// Safety check to prevent infinite loops during game freezes
		if stepCount > maxSteps {
			n.PPU.FrameComplete = true
			break
		}
	}

	n.PPU.FrameComplete = false
	// Frame counter is managed by PPU, don't increment here
	n.Frame = n.PPU.Frame
	return nil
}

// DrainAudio returns and clears the APU's accumulated output samples. The
// presentation host calls this once per video frame (or on a timer) to
// feed its audio device.
func (n *NES) DrainAudio() []float32 {
	samples := n.APU.Output
	n.APU.Output = nil
	return samples
}

// SetButtons sets the full 8-bit button state (A/B/Select/Start/Up/Down/
// Left/Right packed per the standard controller bit order) for player 1 in
// one call, rather than requiring one SetButton call per button.
func (n *NES) SetButtons(mask uint8) {
	n.Input.SetButtonMask(mask)
}

// GetInput returns the input controller
func (n *NES) GetInput() *input.Controller {
	return n.Input
}

// GetFramebuffer returns the current framebuffer from PPU
func (n *NES) GetFramebuffer() []uint8 {
	return n.PPU.GetFramebuffer()
}

// GetFrame returns the current frame number
func (n *NES) GetFrame() uint64 {
	return n.Frame
}

// GetFramebufferRaw returns the raw framebuffer as 32-bit integers
func (n *NES) GetFramebufferRaw() []uint32 {
	return n.PPU.FrameBuffer[:]
}

// GetDisplayFramebufferRaw returns the PPU's current framebuffer; the persistent buffer is not used
func (n *NES) GetDisplayFramebufferRaw() []uint32 {
	return n.PPU.FrameBuffer[:]
}

// GetDisplayFramebuffer returns the PPU's current framebuffer as RGBA bytes; the persistent buffer is not used
func (n *NES) GetDisplayFramebuffer() []uint8 {
	// Get the current frame buffer (disable persistent rendering for proper game flow)
	frameBuffer := n.PPU.FrameBuffer[:]

	// Convert 32-bit framebuffer to RGBA bytes
	rgba := make([]uint8, 256*240*4)

	for i, pixel := range frameBuffer {
		// Extract RGB components from 32-bit pixel (0xAARRGGBB format)
		r := uint8((pixel >> 16) & 0xFF) // Extract R
		g := uint8((pixel >> 8) & 0xFF)  // Extract G
		b := uint8(pixel & 0xFF)         // Extract B
		a := uint8((pixel >> 24) & 0xFF) // Extract A

		// Use RGBA order to match expected format
		rgba[i*4+0] = r
		rgba[i*4+1] = g
		rgba[i*4+2] = b
		rgba[i*4+3] = a
	}

	return rgba
}
