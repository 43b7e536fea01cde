package test

import (
	"testing"

	"github.com/yoshiomiyamaegones/pkg/nes"
)

func TestNewNESWiresUpAllSubsystems(t *testing.T) {
	system := nes.NewNES()

	if system.CPU == nil {
		t.Fatal("CPU should be initialized")
	}
	if system.PPU == nil {
		t.Fatal("PPU should be initialized")
	}
	if system.APU == nil {
		t.Fatal("APU should be initialized")
	}
	if system.Memory == nil {
		t.Fatal("Memory should be initialized")
	}

	if system.CPU.PC != 0x0000 {
		t.Errorf("CPU.PC = %#04x, want 0x0000 (no reset vector yet)", system.CPU.PC)
	}
	if system.PPU.Cycle != 0 {
		t.Errorf("PPU.Cycle = %d, want 0", system.PPU.Cycle)
	}
	if system.APU.Cycles != 0 {
		t.Errorf("APU.Cycles = %d, want 0", system.APU.Cycles)
	}
}

func TestPPURegisterWritesDoNotPanic(t *testing.T) {
	system := nes.NewNES()

	system.Memory.Write(0x2000, 0x80) // PPUCTRL: enable NMI
	system.Memory.Write(0x2001, 0x1E) // PPUMASK: show background + sprites
	system.Memory.Write(0x2006, 0x20) // PPUADDR high
	system.Memory.Write(0x2006, 0x00) // PPUADDR low
	system.Memory.Write(0x2007, 0x42) // PPUDATA
}

func TestAPURegisterWritesDoNotPanic(t *testing.T) {
	system := nes.NewNES()

	system.Memory.Write(0x4000, 0x3F)
	system.Memory.Write(0x4001, 0x08)
	system.Memory.Write(0x4002, 0x55)
	system.Memory.Write(0x4003, 0x02)
	system.Memory.Write(0x4008, 0x81)
	system.Memory.Write(0x400A, 0xAA)
	system.Memory.Write(0x400B, 0x03)
	system.Memory.Write(0x4015, 0x0F)
}

func TestRAMIsMirroredAcrossFourBanks(t *testing.T) {
	system := nes.NewNES()
	system.Memory.Write(0x0000, 0x42)

	for _, mirror := range []uint16{0x0800, 0x1000, 0x1800} {
		if got := system.Memory.Read(mirror); got != 0x42 {
			t.Errorf("Read(%#04x) = %#02x, want 0x42 (RAM mirror)", mirror, got)
		}
	}
}

func TestResetClearsRegistersAndPC(t *testing.T) {
	system := nes.NewNES()
	system.CPU.A = 0xFF
	system.CPU.X = 0xFF
	system.CPU.Y = 0xFF
	system.CPU.PC = 0x1234

	system.Reset()

	if system.CPU.A != 0x00 || system.CPU.X != 0x00 || system.CPU.Y != 0x00 {
		t.Errorf("registers after reset: A=%#02x X=%#02x Y=%#02x, want all 0x00",
			system.CPU.A, system.CPU.X, system.CPU.Y)
	}
	if system.CPU.PC != 0x0000 {
		t.Errorf("PC = %#04x, want 0x0000", system.CPU.PC)
	}
}

func TestCPURunsASmallRAMResidentProgram(t *testing.T) {
	system := nes.NewNES()

	program := []uint8{
		0xA9, 0x42, // LDA #$42
		0x85, 0x10, // STA $10
		0xA5, 0x10, // LDA $10
		0xC9, 0x42, // CMP #$42
		0xEA, // NOP
	}
	for i, b := range program {
		system.Memory.Write(uint16(0x0200+i), b)
	}
	system.CPU.PC = 0x0200

	const nopAddr = 0x0208
	for i := 0; i < 10 && system.CPU.PC != nopAddr; i++ {
		system.CPU.Step()
	}

	if system.CPU.A != 0x42 {
		t.Errorf("A = %#02x, want 0x42", system.CPU.A)
	}
	if got := system.Memory.Read(0x0010); got != 0x42 {
		t.Errorf("memory[0x0010] = %#02x, want 0x42", got)
	}
	if !system.CPU.GetFlag(0x02) { // FlagZero
		t.Error("zero flag should be set after the CMP matched")
	}
}

func TestPPUAndAPUCyclesAdvanceTogetherWithCPU(t *testing.T) {
	system := nes.NewNES()
	initialPPUCycle := system.PPU.Cycle
	initialAPUCycle := system.APU.Cycles

	for i := 0; i < 100; i++ {
		system.Step()
	}

	if system.PPU.Cycle <= initialPPUCycle {
		t.Error("PPU.Cycle should have advanced")
	}
	if system.APU.Cycles <= initialAPUCycle {
		t.Error("APU.Cycles should have advanced")
	}
}

func TestTriggerNMIVectorsThroughZeroWithoutCartridge(t *testing.T) {
	system := nes.NewNES()
	system.CPU.PC = 0x0200
	originalSP := system.CPU.SP
	system.Memory.Write(0x0000, 0xEA) // NOP at the (cartridge-less) NMI vector

	system.CPU.TriggerNMI()
	cycles := system.CPU.Step()

	if cycles != 7 {
		t.Errorf("cycles = %d, want 7", cycles)
	}
	if system.CPU.PC != 0x0000 {
		t.Errorf("PC = %#04x, want 0x0000", system.CPU.PC)
	}
	if system.CPU.SP != originalSP-3 {
		t.Errorf("SP = %#02x, want %#02x", system.CPU.SP, originalSP-3)
	}
	if !system.CPU.GetFlag(0x04) { // FlagInterrupt
		t.Error("interrupt flag should be set after NMI")
	}
}
