package cpu

import (
	"fmt"
	"testing"
)

func TestLAXAbsoluteLoadsAAndX(t *testing.T) {
	cpu := createTestCPU()
	cpu.PC = 0x0200
	cpu.Memory.Write(0x0200, 0xAF)
	cpu.Memory.Write(0x0201, 0x00)
	cpu.Memory.Write(0x0202, 0x18)
	cpu.Memory.Write(0x1800, 0x42)

	cycles := cpu.Step()

	if cpu.A != 0x42 || cpu.X != 0x42 {
		t.Errorf("A=%#02x X=%#02x, want both 0x42", cpu.A, cpu.X)
	}
	if cycles != 4 {
		t.Errorf("cycles = %d, want 4", cycles)
	}
}

func TestLAXZeroPageYSetsNegativeFlag(t *testing.T) {
	cpu := createTestCPU()
	cpu.PC = 0x0200
	cpu.Y = 0x02
	cpu.Memory.Write(0x0200, 0xB7)
	cpu.Memory.Write(0x0201, 0x10)
	cpu.Memory.Write(0x12, 0x80)

	cycles := cpu.Step()

	if cpu.A != 0x80 || cpu.X != 0x80 {
		t.Errorf("A=%#02x X=%#02x, want both 0x80", cpu.A, cpu.X)
	}
	if !cpu.getFlag(FlagNegative) {
		t.Error("negative flag should be set")
	}
	if cycles != 4 {
		t.Errorf("cycles = %d, want 4", cycles)
	}
}

func TestLAXIndexedIndirectSetsZeroFlag(t *testing.T) {
	cpu := createTestCPU()
	cpu.PC = 0x0200
	cpu.X = 0x03
	cpu.Memory.Write(0x0200, 0xA3)
	cpu.Memory.Write(0x0201, 0x20)
	cpu.Memory.Write(0x23, 0x00)
	cpu.Memory.Write(0x24, 0x19)
	cpu.Memory.Write(0x1900, 0x00)

	cycles := cpu.Step()

	if cpu.A != 0x00 || cpu.X != 0x00 {
		t.Errorf("A=%#02x X=%#02x, want both 0x00", cpu.A, cpu.X)
	}
	if !cpu.getFlag(FlagZero) {
		t.Error("zero flag should be set")
	}
	if cycles != 6 {
		t.Errorf("cycles = %d, want 6", cycles)
	}
}

func TestLAXIndirectIndexedPageCross(t *testing.T) {
	cpu := createTestCPU()
	cpu.PC = 0x0200
	cpu.Y = 0x01
	cpu.Memory.Write(0x0200, 0xB3)
	cpu.Memory.Write(0x0201, 0x30)
	cpu.Memory.Write(0x30, 0xFF)
	cpu.Memory.Write(0x31, 0x0F)
	cpu.Memory.Write(0x1000, 0x33) // 0x0FFF + 1 crosses into the next page

	cycles := cpu.Step()

	if cpu.A != 0x33 || cpu.X != 0x33 {
		t.Errorf("A=%#02x X=%#02x, want both 0x33", cpu.A, cpu.X)
	}
	if cycles != 6 {
		t.Errorf("cycles = %d, want 6 (page-cross penalty)", cycles)
	}
}

func TestSAXZeroPageStoresAANDX(t *testing.T) {
	cpu := createTestCPU()
	cpu.PC = 0x0200
	cpu.A = 0xFF
	cpu.X = 0x0F
	cpu.Memory.Write(0x0200, 0x87)
	cpu.Memory.Write(0x0201, 0x10)

	cycles := cpu.Step()

	want := uint8(0xFF & 0x0F)
	if got := cpu.Memory.Read(0x10); got != want {
		t.Errorf("memory[0x10] = %#02x, want %#02x", got, want)
	}
	if cycles != 3 {
		t.Errorf("cycles = %d, want 3", cycles)
	}
}

func TestSAXZeroPageYStoresAANDX(t *testing.T) {
	cpu := createTestCPU()
	cpu.PC = 0x0200
	cpu.A = 0xAA
	cpu.X = 0x55
	cpu.Y = 0x02
	cpu.Memory.Write(0x0200, 0x97)
	cpu.Memory.Write(0x0201, 0x20)

	cycles := cpu.Step()

	want := uint8(0xAA & 0x55)
	if got := cpu.Memory.Read(0x22); got != want {
		t.Errorf("memory[0x22] = %#02x, want %#02x", got, want)
	}
	if cycles != 4 {
		t.Errorf("cycles = %d, want 4", cycles)
	}
}

func TestSAXAbsoluteStoresAANDX(t *testing.T) {
	cpu := createTestCPU()
	cpu.PC = 0x0200
	cpu.A = 0xF0
	cpu.X = 0x0F
	cpu.Memory.Write(0x0200, 0x8F)
	cpu.Memory.Write(0x0201, 0x00)
	cpu.Memory.Write(0x0202, 0x18)

	cycles := cpu.Step()

	want := uint8(0xF0 & 0x0F)
	if got := cpu.Memory.Read(0x1800); got != want {
		t.Errorf("memory[0x1800] = %#02x, want %#02x", got, want)
	}
	if cycles != 4 {
		t.Errorf("cycles = %d, want 4", cycles)
	}
}

func TestSAXIndexedIndirectStoresAANDX(t *testing.T) {
	cpu := createTestCPU()
	cpu.PC = 0x0200
	cpu.A = 0xCC
	cpu.X = 0x33
	cpu.Memory.Write(0x0200, 0x83)
	cpu.Memory.Write(0x0201, 0x10)
	cpu.Memory.Write(0x43, 0x00) // 0x10 + 0x33 = 0x43
	cpu.Memory.Write(0x44, 0x19)

	cycles := cpu.Step()

	want := uint8(0xCC & 0x33)
	if got := cpu.Memory.Read(0x1900); got != want {
		t.Errorf("memory[0x1900] = %#02x, want %#02x", got, want)
	}
	if cycles != 6 {
		t.Errorf("cycles = %d, want 6", cycles)
	}
}

func TestIllegalNOPVariantsLeaveStateUnchanged(t *testing.T) {
	cases := []struct {
		name      string
		opcode    uint8
		cycles    int
		pcAdvance int
	}{
		{"implied_1A", 0x1A, 2, 1},
		{"implied_3A", 0x3A, 2, 1},
		{"implied_5A", 0x5A, 2, 1},
		{"implied_7A", 0x7A, 2, 1},
		{"implied_DA", 0xDA, 2, 1},
		{"implied_FA", 0xFA, 2, 1},
		{"immediate_80", 0x80, 2, 2},
		{"immediate_82", 0x82, 2, 2},
		{"immediate_89", 0x89, 2, 2},
		{"immediate_C2", 0xC2, 2, 2},
		{"immediate_E2", 0xE2, 2, 2},
		{"zeropage_04", 0x04, 3, 2},
		{"zeropage_44", 0x44, 3, 2},
		{"zeropage_64", 0x64, 3, 2},
		{"zeropageX_14", 0x14, 4, 2},
		{"zeropageX_34", 0x34, 4, 2},
		{"zeropageX_54", 0x54, 4, 2},
		{"zeropageX_74", 0x74, 4, 2},
		{"zeropageX_D4", 0xD4, 4, 2},
		{"zeropageX_F4", 0xF4, 4, 2},
		{"absolute_0C", 0x0C, 4, 3},
		{"absoluteX_1C", 0x1C, 4, 3}, // simplified: no page-cross penalty
		{"absoluteX_3C", 0x3C, 4, 3},
		{"absoluteX_5C", 0x5C, 4, 3},
		{"absoluteX_7C", 0x7C, 4, 3},
		{"absoluteX_DC", 0xDC, 4, 3},
		{"absoluteX_FC", 0xFC, 4, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cpu := createTestCPU()
			cpu.PC = 0x0200
			cpu.Memory.Write(0x0200, tc.opcode)
			cpu.Memory.Write(0x0201, 0x42)
			cpu.Memory.Write(0x0202, 0x30)
			originalA, originalX, originalY := cpu.A, cpu.X, cpu.Y
			originalP, originalSP := cpu.P, cpu.SP

			cycles := cpu.Step()

			if cpu.A != originalA || cpu.X != originalX || cpu.Y != originalY {
				t.Errorf("registers changed: A=%#02x->%#02x X=%#02x->%#02x Y=%#02x->%#02x",
					originalA, cpu.A, originalX, cpu.X, originalY, cpu.Y)
			}
			if cpu.P != originalP {
				t.Errorf("flags changed: P=%#02x->%#02x", originalP, cpu.P)
			}
			if cpu.SP != originalSP {
				t.Errorf("stack pointer changed: SP=%#02x->%#02x", originalSP, cpu.SP)
			}
			if want := uint16(0x0200 + tc.pcAdvance); cpu.PC != want {
				t.Errorf("PC = %#04x, want %#04x", cpu.PC, want)
			}
			if cycles != tc.cycles {
				t.Errorf("cycles = %d, want %d", cycles, tc.cycles)
			}
		})
	}
}

func TestUndefinedOpcodesAlwaysAdvancePC(t *testing.T) {
	undefined := []uint8{
		0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72,
		0x92, 0xB2, 0xD2, 0xF2,
	}

	for _, opcode := range undefined {
		t.Run(fmt.Sprintf("opcode_%#02x", opcode), func(t *testing.T) {
			cpu := createTestCPU()
			cpu.PC = 0x0200
			cpu.Memory.Write(0x0200, opcode)
			originalPC := cpu.PC

			cycles := cpu.Step()

			t.Logf("opcode %#02x: PC %#04x->%#04x, A=%#02x X=%#02x Y=%#02x P=%#02x SP=%#02x cycles=%d",
				opcode, originalPC, cpu.PC, cpu.A, cpu.X, cpu.Y, cpu.P, cpu.SP, cycles)

			if cpu.PC == originalPC {
				t.Errorf("PC did not advance for opcode %#02x", opcode)
			}
		})
	}
}

func TestDCPDecrementsThenComparesWithA(t *testing.T) {
	cpu := createTestCPU()
	cpu.PC = 0x0200
	cpu.A = 0x10
	cpu.Memory.Write(0x0200, 0xC7) // DCP zp
	cpu.Memory.Write(0x0201, 0x10)
	cpu.Memory.Write(0x10, 0x11)

	cycles := cpu.Step()

	if got := cpu.Memory.Read(0x10); got != 0x10 {
		t.Errorf("memory[0x10] = %#02x, want 0x10", got)
	}
	if !cpu.getFlag(FlagZero) {
		t.Error("zero flag should be set: A equals the decremented memory")
	}
	if !cpu.getFlag(FlagCarry) {
		t.Error("carry flag should be set: A >= decremented memory")
	}
	if cycles != 5 {
		t.Errorf("cycles = %d, want 5", cycles)
	}
}

func TestISBIncrementsThenSubtractsFromA(t *testing.T) {
	cpu := createTestCPU()
	cpu.PC = 0x0200
	cpu.A = 0x20
	cpu.setFlag(FlagCarry, true)
	cpu.Memory.Write(0x0200, 0xE7) // ISB zp
	cpu.Memory.Write(0x0201, 0x10)
	cpu.Memory.Write(0x10, 0x0F)

	cycles := cpu.Step()

	if got := cpu.Memory.Read(0x10); got != 0x10 {
		t.Errorf("memory[0x10] = %#02x, want 0x10", got)
	}
	if cpu.A != 0x10 {
		t.Errorf("A = %#02x, want 0x10", cpu.A)
	}
	if cycles != 5 {
		t.Errorf("cycles = %d, want 5", cycles)
	}
}

func TestSLOShiftsLeftThenOrsIntoA(t *testing.T) {
	cpu := createTestCPU()
	cpu.PC = 0x0200
	cpu.A = 0x0F
	cpu.Memory.Write(0x0200, 0x07) // SLO zp
	cpu.Memory.Write(0x0201, 0x10)
	cpu.Memory.Write(0x10, 0x40)

	cycles := cpu.Step()

	if got := cpu.Memory.Read(0x10); got != 0x80 {
		t.Errorf("memory[0x10] = %#02x, want 0x80", got)
	}
	if cpu.A != 0x8F {
		t.Errorf("A = %#02x, want 0x8F", cpu.A)
	}
	if cycles != 5 {
		t.Errorf("cycles = %d, want 5", cycles)
	}
}

func TestRLARotatesLeftThenAndsIntoA(t *testing.T) {
	cpu := createTestCPU()
	cpu.PC = 0x0200
	cpu.A = 0xFF
	cpu.setFlag(FlagCarry, false)
	cpu.Memory.Write(0x0200, 0x27) // RLA zp
	cpu.Memory.Write(0x0201, 0x10)
	cpu.Memory.Write(0x10, 0x81)

	cycles := cpu.Step()

	if got := cpu.Memory.Read(0x10); got != 0x02 {
		t.Errorf("memory[0x10] = %#02x, want 0x02", got)
	}
	if cpu.A != 0x02 {
		t.Errorf("A = %#02x, want 0x02", cpu.A)
	}
	if cycles != 5 {
		t.Errorf("cycles = %d, want 5", cycles)
	}
}

func TestSREShiftsRightThenEorsIntoA(t *testing.T) {
	cpu := createTestCPU()
	cpu.PC = 0x0200
	cpu.A = 0xFF
	cpu.Memory.Write(0x0200, 0x47) // SRE zp
	cpu.Memory.Write(0x0201, 0x10)
	cpu.Memory.Write(0x10, 0x81)

	cycles := cpu.Step()

	if got := cpu.Memory.Read(0x10); got != 0x40 {
		t.Errorf("memory[0x10] = %#02x, want 0x40", got)
	}
	if cpu.A != 0xBF {
		t.Errorf("A = %#02x, want 0xBF", cpu.A)
	}
	if cycles != 5 {
		t.Errorf("cycles = %d, want 5", cycles)
	}
}

func TestRRARotatesRightThenAddsIntoA(t *testing.T) {
	cpu := createTestCPU()
	cpu.PC = 0x0200
	cpu.A = 0x10
	cpu.setFlag(FlagCarry, true)
	cpu.Memory.Write(0x0200, 0x67) // RRA zp
	cpu.Memory.Write(0x0201, 0x10)
	cpu.Memory.Write(0x10, 0x02)

	cycles := cpu.Step()

	if got := cpu.Memory.Read(0x10); got != 0x81 {
		t.Errorf("memory[0x10] = %#02x, want 0x81", got)
	}
	if cpu.A != 0x91 {
		t.Errorf("A = %#02x, want 0x91", cpu.A)
	}
	if cycles != 5 {
		t.Errorf("cycles = %d, want 5", cycles)
	}
}
