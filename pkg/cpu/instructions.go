package cpu

// opcodeTable dispatches every opcode byte to the closure that executes it.
// It's built once in init() rather than hand-written as 256 array literals,
// since most entries are the same execXxx method with only the addressing
// mode varying.
var opcodeTable [256]func(*CPU) int

func init() {
	reg := func(op uint8, fn func(*CPU) int) {
		opcodeTable[op] = fn
	}
	withMode := func(op uint8, mode AddressingMode, fn func(*CPU, AddressingMode) int) {
		reg(op, func(c *CPU) int { return fn(c, mode) })
	}

	// LDA
	withMode(0xA9, AddrImmediate, (*CPU).execLDA)
	withMode(0xA5, AddrZeroPage, (*CPU).execLDA)
	withMode(0xB5, AddrZeroPageX, (*CPU).execLDA)
	withMode(0xAD, AddrAbsolute, (*CPU).execLDA)
	withMode(0xBD, AddrAbsoluteX, (*CPU).execLDA)
	withMode(0xB9, AddrAbsoluteY, (*CPU).execLDA)
	withMode(0xA1, AddrIndexedIndirect, (*CPU).execLDA)
	withMode(0xB1, AddrIndirectIndexed, (*CPU).execLDA)

	// LDX
	withMode(0xA2, AddrImmediate, (*CPU).execLDX)
	withMode(0xA6, AddrZeroPage, (*CPU).execLDX)
	withMode(0xB6, AddrZeroPageY, (*CPU).execLDX)
	withMode(0xAE, AddrAbsolute, (*CPU).execLDX)
	withMode(0xBE, AddrAbsoluteY, (*CPU).execLDX)

	// LDY
	withMode(0xA0, AddrImmediate, (*CPU).execLDY)
	withMode(0xA4, AddrZeroPage, (*CPU).execLDY)
	withMode(0xB4, AddrZeroPageX, (*CPU).execLDY)
	withMode(0xAC, AddrAbsolute, (*CPU).execLDY)
	withMode(0xBC, AddrAbsoluteX, (*CPU).execLDY)

	// STA
	withMode(0x85, AddrZeroPage, (*CPU).execSTA)
	withMode(0x95, AddrZeroPageX, (*CPU).execSTA)
	withMode(0x8D, AddrAbsolute, (*CPU).execSTA)
	withMode(0x9D, AddrAbsoluteX, (*CPU).execSTA)
	withMode(0x99, AddrAbsoluteY, (*CPU).execSTA)
	withMode(0x81, AddrIndexedIndirect, (*CPU).execSTA)
	withMode(0x91, AddrIndirectIndexed, (*CPU).execSTA)

	// STX / STY
	withMode(0x86, AddrZeroPage, (*CPU).execSTX)
	withMode(0x96, AddrZeroPageY, (*CPU).execSTX)
	withMode(0x8E, AddrAbsolute, (*CPU).execSTX)
	withMode(0x84, AddrZeroPage, (*CPU).execSTY)
	withMode(0x94, AddrZeroPageX, (*CPU).execSTY)
	withMode(0x8C, AddrAbsolute, (*CPU).execSTY)

	// ADC
	withMode(0x69, AddrImmediate, (*CPU).execADC)
	withMode(0x65, AddrZeroPage, (*CPU).execADC)
	withMode(0x75, AddrZeroPageX, (*CPU).execADC)
	withMode(0x6D, AddrAbsolute, (*CPU).execADC)
	withMode(0x7D, AddrAbsoluteX, (*CPU).execADC)
	withMode(0x79, AddrAbsoluteY, (*CPU).execADC)
	withMode(0x61, AddrIndexedIndirect, (*CPU).execADC)
	withMode(0x71, AddrIndirectIndexed, (*CPU).execADC)

	// SBC (0xEB is the undocumented mirror of 0xE9)
	withMode(0xE9, AddrImmediate, (*CPU).execSBC)
	withMode(0xEB, AddrImmediate, (*CPU).execSBC)
	withMode(0xE5, AddrZeroPage, (*CPU).execSBC)
	withMode(0xF5, AddrZeroPageX, (*CPU).execSBC)
	withMode(0xED, AddrAbsolute, (*CPU).execSBC)
	withMode(0xFD, AddrAbsoluteX, (*CPU).execSBC)
	withMode(0xF9, AddrAbsoluteY, (*CPU).execSBC)
	withMode(0xE1, AddrIndexedIndirect, (*CPU).execSBC)
	withMode(0xF1, AddrIndirectIndexed, (*CPU).execSBC)

	// CMP
	withMode(0xC9, AddrImmediate, (*CPU).execCMP)
	withMode(0xC5, AddrZeroPage, (*CPU).execCMP)
	withMode(0xD5, AddrZeroPageX, (*CPU).execCMP)
	withMode(0xCD, AddrAbsolute, (*CPU).execCMP)
	withMode(0xDD, AddrAbsoluteX, (*CPU).execCMP)
	withMode(0xD9, AddrAbsoluteY, (*CPU).execCMP)
	withMode(0xC1, AddrIndexedIndirect, (*CPU).execCMP)
	withMode(0xD1, AddrIndirectIndexed, (*CPU).execCMP)

	// Register transfers
	reg(0xAA, (*CPU).execTAX)
	reg(0x8A, (*CPU).execTXA)
	reg(0xA8, (*CPU).execTAY)
	reg(0x98, (*CPU).execTYA)
	reg(0x9A, (*CPU).execTXS)
	reg(0xBA, (*CPU).execTSX)

	// Flag instructions
	reg(0x18, (*CPU).execCLC)
	reg(0x38, (*CPU).execSEC)
	reg(0x58, (*CPU).execCLI)
	reg(0x78, (*CPU).execSEI)
	reg(0xB8, (*CPU).execCLV)
	reg(0xD8, (*CPU).execCLD)
	reg(0xF8, (*CPU).execSED)

	// Stack instructions
	reg(0x48, (*CPU).execPHA)
	reg(0x68, (*CPU).execPLA)
	reg(0x08, (*CPU).execPHP)
	reg(0x28, (*CPU).execPLP)

	// Branch instructions
	reg(0x10, (*CPU).execBPL)
	reg(0x30, (*CPU).execBMI)
	reg(0x50, (*CPU).execBVC)
	reg(0x70, (*CPU).execBVS)
	reg(0x90, (*CPU).execBCC)
	reg(0xB0, (*CPU).execBCS)
	reg(0xD0, (*CPU).execBNE)
	reg(0xF0, (*CPU).execBEQ)

	// Jumps / subroutine / interrupt return
	reg(0x4C, (*CPU).execJMPAbsolute)
	reg(0x6C, (*CPU).execJMPIndirect)
	reg(0x20, (*CPU).execJSR)
	reg(0x60, (*CPU).execRTS)
	reg(0x40, (*CPU).execRTI)

	// AND / ORA / EOR
	withMode(0x29, AddrImmediate, (*CPU).execAND)
	withMode(0x25, AddrZeroPage, (*CPU).execAND)
	withMode(0x35, AddrZeroPageX, (*CPU).execAND)
	withMode(0x2D, AddrAbsolute, (*CPU).execAND)
	withMode(0x3D, AddrAbsoluteX, (*CPU).execAND)
	withMode(0x39, AddrAbsoluteY, (*CPU).execAND)
	withMode(0x21, AddrIndexedIndirect, (*CPU).execAND)
	withMode(0x31, AddrIndirectIndexed, (*CPU).execAND)

	withMode(0x09, AddrImmediate, (*CPU).execORA)
	withMode(0x05, AddrZeroPage, (*CPU).execORA)
	withMode(0x15, AddrZeroPageX, (*CPU).execORA)
	withMode(0x0D, AddrAbsolute, (*CPU).execORA)
	withMode(0x1D, AddrAbsoluteX, (*CPU).execORA)
	withMode(0x19, AddrAbsoluteY, (*CPU).execORA)
	withMode(0x01, AddrIndexedIndirect, (*CPU).execORA)
	withMode(0x11, AddrIndirectIndexed, (*CPU).execORA)

	withMode(0x49, AddrImmediate, (*CPU).execEOR)
	withMode(0x45, AddrZeroPage, (*CPU).execEOR)
	withMode(0x55, AddrZeroPageX, (*CPU).execEOR)
	withMode(0x4D, AddrAbsolute, (*CPU).execEOR)
	withMode(0x5D, AddrAbsoluteX, (*CPU).execEOR)
	withMode(0x59, AddrAbsoluteY, (*CPU).execEOR)
	withMode(0x41, AddrIndexedIndirect, (*CPU).execEOR)
	withMode(0x51, AddrIndirectIndexed, (*CPU).execEOR)

	// Shift/rotate
	reg(0x0A, (*CPU).execASLAccumulator)
	withMode(0x06, AddrZeroPage, (*CPU).execASL)
	withMode(0x16, AddrZeroPageX, (*CPU).execASL)
	withMode(0x0E, AddrAbsolute, (*CPU).execASL)
	withMode(0x1E, AddrAbsoluteX, (*CPU).execASL)

	reg(0x4A, (*CPU).execLSRAccumulator)
	withMode(0x46, AddrZeroPage, (*CPU).execLSR)
	withMode(0x56, AddrZeroPageX, (*CPU).execLSR)
	withMode(0x4E, AddrAbsolute, (*CPU).execLSR)
	withMode(0x5E, AddrAbsoluteX, (*CPU).execLSR)

	reg(0x2A, (*CPU).execROLAccumulator)
	withMode(0x26, AddrZeroPage, (*CPU).execROL)
	withMode(0x36, AddrZeroPageX, (*CPU).execROL)
	withMode(0x2E, AddrAbsolute, (*CPU).execROL)
	withMode(0x3E, AddrAbsoluteX, (*CPU).execROL)

	reg(0x6A, (*CPU).execRORAccumulator)
	withMode(0x66, AddrZeroPage, (*CPU).execROR)
	withMode(0x76, AddrZeroPageX, (*CPU).execROR)
	withMode(0x6E, AddrAbsolute, (*CPU).execROR)
	withMode(0x7E, AddrAbsoluteX, (*CPU).execROR)

	// INC / DEC
	withMode(0xE6, AddrZeroPage, (*CPU).execINC)
	withMode(0xF6, AddrZeroPageX, (*CPU).execINC)
	withMode(0xEE, AddrAbsolute, (*CPU).execINC)
	withMode(0xFE, AddrAbsoluteX, (*CPU).execINC)
	withMode(0xC6, AddrZeroPage, (*CPU).execDEC)
	withMode(0xD6, AddrZeroPageX, (*CPU).execDEC)
	withMode(0xCE, AddrAbsolute, (*CPU).execDEC)
	withMode(0xDE, AddrAbsoluteX, (*CPU).execDEC)
	reg(0xE8, (*CPU).execINX)
	reg(0xCA, (*CPU).execDEX)
	reg(0xC8, (*CPU).execINY)
	reg(0x88, (*CPU).execDEY)

	// CPX / CPY
	withMode(0xE0, AddrImmediate, (*CPU).execCPX)
	withMode(0xE4, AddrZeroPage, (*CPU).execCPX)
	withMode(0xEC, AddrAbsolute, (*CPU).execCPX)
	withMode(0xC0, AddrImmediate, (*CPU).execCPY)
	withMode(0xC4, AddrZeroPage, (*CPU).execCPY)
	withMode(0xCC, AddrAbsolute, (*CPU).execCPY)

	// BIT
	withMode(0x24, AddrZeroPage, (*CPU).execBIT)
	withMode(0x2C, AddrAbsolute, (*CPU).execBIT)

	// BRK / NOP
	reg(0x00, (*CPU).execBRK)
	reg(0xEA, (*CPU).execNOP)

	// Undocumented NOPs: each only differs in how many operand bytes it
	// consumes and how long that takes.
	for _, op := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		reg(op, (*CPU).execNOP)
	}
	for _, op := range []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		reg(op, (*CPU).execNOPImmediate)
	}
	for _, op := range []uint8{0x04, 0x44, 0x64} {
		reg(op, (*CPU).execNOPZeroPage)
	}
	for _, op := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		reg(op, (*CPU).execNOPZeroPageX)
	}
	reg(0x0C, (*CPU).execNOPAbsolute)
	for _, op := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		reg(op, (*CPU).execNOPAbsoluteX)
	}

	// LAX
	withMode(0xAF, AddrAbsolute, (*CPU).execLAX)
	withMode(0xBF, AddrAbsoluteY, (*CPU).execLAX)
	withMode(0xA7, AddrZeroPage, (*CPU).execLAX)
	withMode(0xB7, AddrZeroPageY, (*CPU).execLAX)
	withMode(0xA3, AddrIndexedIndirect, (*CPU).execLAX)
	withMode(0xB3, AddrIndirectIndexed, (*CPU).execLAX)

	// SAX
	withMode(0x8F, AddrAbsolute, (*CPU).execSAX)
	withMode(0x87, AddrZeroPage, (*CPU).execSAX)
	withMode(0x97, AddrZeroPageY, (*CPU).execSAX)
	withMode(0x83, AddrIndexedIndirect, (*CPU).execSAX)

	// Unstable immediate-operand illegal opcodes
	reg(0x0B, (*CPU).execAAC)
	reg(0x2B, (*CPU).execAAC)
	reg(0x4B, (*CPU).execASR)
	reg(0x6B, (*CPU).execARR)
	reg(0xAB, (*CPU).execATX)
	reg(0xCB, (*CPU).execAXS)
	reg(0x8B, func(c *CPU) int { // XAA/ANE: A = (A | $EE) & X & immediate
		value := c.read(c.PC)
		c.PC++
		c.A = (c.A | 0xEE) & c.X & value
		c.setZN(c.A)
		return 2
	})

	// High-byte-plus-one unstable store opcodes
	reg(0x9C, (*CPU).execSHY)
	reg(0x9E, (*CPU).execSHX)
	withMode(0x9F, AddrAbsoluteY, (*CPU).execSHA)
	withMode(0x93, AddrIndirectIndexed, (*CPU).execSHA)
	reg(0x9B, (*CPU).execTAS)
	reg(0xBB, (*CPU).execLAS)

	// JAM/KIL/HLT: every documented opcode that locks the CPU up.
	for _, op := range []uint8{0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2} {
		reg(op, (*CPU).execJAM)
	}

	// DCP / ISB / SLO / RLA / SRE / RRA: illegal read-modify-write opcodes
	// that follow a memory operation with an ALU op against A.
	rmwModes := []struct {
		op   uint8
		mode AddressingMode
	}{
		{0xCF, AddrAbsolute}, {0xDF, AddrAbsoluteX}, {0xDB, AddrAbsoluteY}, {0xC7, AddrZeroPage},
		{0xD7, AddrZeroPageX}, {0xC3, AddrIndexedIndirect}, {0xD3, AddrIndirectIndexed},
	}
	for _, m := range rmwModes {
		withMode(m.op, m.mode, (*CPU).execDCP)
	}
	for _, m := range []struct {
		op   uint8
		mode AddressingMode
	}{
		{0xEF, AddrAbsolute}, {0xFF, AddrAbsoluteX}, {0xFB, AddrAbsoluteY}, {0xE7, AddrZeroPage},
		{0xF7, AddrZeroPageX}, {0xE3, AddrIndexedIndirect}, {0xF3, AddrIndirectIndexed},
	} {
		withMode(m.op, m.mode, (*CPU).execISB)
	}
	for _, m := range []struct {
		op   uint8
		mode AddressingMode
	}{
		{0x0F, AddrAbsolute}, {0x1F, AddrAbsoluteX}, {0x1B, AddrAbsoluteY}, {0x07, AddrZeroPage},
		{0x17, AddrZeroPageX}, {0x03, AddrIndexedIndirect}, {0x13, AddrIndirectIndexed},
	} {
		withMode(m.op, m.mode, (*CPU).execSLO)
	}
	for _, m := range []struct {
		op   uint8
		mode AddressingMode
	}{
		{0x2F, AddrAbsolute}, {0x3F, AddrAbsoluteX}, {0x3B, AddrAbsoluteY}, {0x27, AddrZeroPage},
		{0x37, AddrZeroPageX}, {0x23, AddrIndexedIndirect}, {0x33, AddrIndirectIndexed},
	} {
		withMode(m.op, m.mode, (*CPU).execRLA)
	}
	for _, m := range []struct {
		op   uint8
		mode AddressingMode
	}{
		{0x4F, AddrAbsolute}, {0x5F, AddrAbsoluteX}, {0x5B, AddrAbsoluteY}, {0x47, AddrZeroPage},
		{0x57, AddrZeroPageX}, {0x43, AddrIndexedIndirect}, {0x53, AddrIndirectIndexed},
	} {
		withMode(m.op, m.mode, (*CPU).execSRE)
	}
	for _, m := range []struct {
		op   uint8
		mode AddressingMode
	}{
		{0x6F, AddrAbsolute}, {0x7F, AddrAbsoluteX}, {0x7B, AddrAbsoluteY}, {0x67, AddrZeroPage},
		{0x77, AddrZeroPageX}, {0x63, AddrIndexedIndirect}, {0x73, AddrIndirectIndexed},
	} {
		withMode(m.op, m.mode, (*CPU).execRRA)
	}
}

// executeInstruction dispatches and runs one opcode, returning the cycle
// count it spent. Opcodes the table doesn't cover don't exist on the 6502;
// they're trapped in the test suite, not here.
func (c *CPU) executeInstruction(opcode uint8) int {
	if fn := opcodeTable[opcode]; fn != nil {
		return fn(c)
	}
	return 2
}

// operandCycles is the base timing shared by every load/logical/compare
// instruction that reads an operand: the variable-cost indexed modes
// (absolute,X / absolute,Y / (zp),Y) get an extra cycle from
// pageCrossPenalty only when the index addition actually carries.
var operandCycles = map[AddressingMode]int{
	AddrImmediate:       2,
	AddrZeroPage:        3,
	AddrZeroPageX:       4,
	AddrZeroPageY:       4,
	AddrAbsolute:        4,
	AddrAbsoluteX:       4,
	AddrAbsoluteY:       4,
	AddrIndexedIndirect: 6,
	AddrIndirectIndexed: 5,
}

func baseCycles(mode AddressingMode) int {
	if n, ok := operandCycles[mode]; ok {
		return n
	}
	return 2
}

func pageCrossPenalty(mode AddressingMode, crossed bool) int {
	if !crossed {
		return 0
	}
	switch mode {
	case AddrAbsoluteX, AddrAbsoluteY, AddrIndirectIndexed:
		return 1
	default:
		return 0
	}
}

var storeCycleTable = map[AddressingMode]int{
	AddrZeroPage:        3,
	AddrZeroPageX:       4,
	AddrZeroPageY:       4,
	AddrAbsolute:        4,
	AddrAbsoluteX:       5,
	AddrAbsoluteY:       5,
	AddrIndexedIndirect: 6,
	AddrIndirectIndexed: 6,
}

func storeCycles(mode AddressingMode) int {
	if n, ok := storeCycleTable[mode]; ok {
		return n
	}
	return 3
}

var shiftCycleTable = map[AddressingMode]int{
	AddrZeroPage:  5,
	AddrZeroPageX: 6,
	AddrAbsolute:  6,
	AddrAbsoluteX: 7,
}

func shiftCycles(mode AddressingMode) int {
	if n, ok := shiftCycleTable[mode]; ok {
		return n
	}
	return 2
}

var illegalRMWCycleTable = map[AddressingMode]int{
	AddrAbsolute:        6,
	AddrAbsoluteX:       7,
	AddrAbsoluteY:       7,
	AddrZeroPage:        5,
	AddrZeroPageX:       6,
	AddrIndexedIndirect: 8,
	AddrIndirectIndexed: 8,
}

// execLDA loads the accumulator.
func (c *CPU) execLDA(mode AddressingMode) int {
	value, pageCrossed := c.getOperand(mode)
	c.A = value
	c.setZN(c.A)
	return baseCycles(mode) + pageCrossPenalty(mode, pageCrossed)
}

func (c *CPU) execLDX(mode AddressingMode) int {
	value, pageCrossed := c.getOperand(mode)
	c.X = value
	c.setZN(c.X)
	return baseCycles(mode) + pageCrossPenalty(mode, pageCrossed)
}

func (c *CPU) execLDY(mode AddressingMode) int {
	value, pageCrossed := c.getOperand(mode)
	c.Y = value
	c.setZN(c.Y)
	return baseCycles(mode) + pageCrossPenalty(mode, pageCrossed)
}

func (c *CPU) execSTA(mode AddressingMode) int {
	addr, _ := c.getOperandAddress(mode)
	c.write(addr, c.A)
	return storeCycles(mode)
}

func (c *CPU) execSTX(mode AddressingMode) int {
	addr, _ := c.getOperandAddress(mode)
	c.write(addr, c.X)
	return storeCycles(mode)
}

func (c *CPU) execSTY(mode AddressingMode) int {
	addr, _ := c.getOperandAddress(mode)
	c.write(addr, c.Y)
	return storeCycles(mode)
}

// execADC adds with carry. The 2A03 never implements decimal mode, so this
// is always pure binary arithmetic regardless of the decimal flag.
func (c *CPU) execADC(mode AddressingMode) int {
	value, pageCrossed := c.getOperand(mode)
	c.performADC(value)
	return baseCycles(mode) + pageCrossPenalty(mode, pageCrossed)
}

func (c *CPU) execSBC(mode AddressingMode) int {
	value, pageCrossed := c.getOperand(mode)
	c.performSBC(value)
	return baseCycles(mode) + pageCrossPenalty(mode, pageCrossed)
}

func (c *CPU) execCMP(mode AddressingMode) int {
	value, pageCrossed := c.getOperand(mode)
	c.setFlag(FlagCarry, c.A >= value)
	c.setZN(c.A - value)
	return baseCycles(mode) + pageCrossPenalty(mode, pageCrossed)
}

func (c *CPU) execCPX(mode AddressingMode) int {
	value, pageCrossed := c.getOperand(mode)
	c.setFlag(FlagCarry, c.X >= value)
	c.setZN(c.X - value)
	return baseCycles(mode) + pageCrossPenalty(mode, pageCrossed)
}

func (c *CPU) execCPY(mode AddressingMode) int {
	value, pageCrossed := c.getOperand(mode)
	c.setFlag(FlagCarry, c.Y >= value)
	c.setZN(c.Y - value)
	return baseCycles(mode) + pageCrossPenalty(mode, pageCrossed)
}

func (c *CPU) execAND(mode AddressingMode) int {
	value, pageCrossed := c.getOperand(mode)
	c.A &= value
	c.setZN(c.A)
	return baseCycles(mode) + pageCrossPenalty(mode, pageCrossed)
}

func (c *CPU) execORA(mode AddressingMode) int {
	value, pageCrossed := c.getOperand(mode)
	c.A |= value
	c.setZN(c.A)
	return baseCycles(mode) + pageCrossPenalty(mode, pageCrossed)
}

func (c *CPU) execEOR(mode AddressingMode) int {
	value, pageCrossed := c.getOperand(mode)
	c.A ^= value
	c.setZN(c.A)
	return baseCycles(mode) + pageCrossPenalty(mode, pageCrossed)
}

func (c *CPU) execBIT(mode AddressingMode) int {
	value, _ := c.getOperand(mode)
	c.setFlag(FlagZero, c.A&value == 0)
	c.setFlag(FlagNegative, value&0x80 != 0)
	c.setFlag(FlagOverflow, value&0x40 != 0)
	return baseCycles(mode)
}

// Register transfers.
func (c *CPU) execTAX() int { c.X = c.A; c.setZN(c.X); return 2 }
func (c *CPU) execTXA() int { c.A = c.X; c.setZN(c.A); return 2 }
func (c *CPU) execTAY() int { c.Y = c.A; c.setZN(c.Y); return 2 }
func (c *CPU) execTYA() int { c.A = c.Y; c.setZN(c.A); return 2 }
func (c *CPU) execTXS() int { c.SP = c.X; return 2 }
func (c *CPU) execTSX() int { c.X = c.SP; c.setZN(c.X); return 2 }

// Flag instructions.
func (c *CPU) execCLC() int { c.setFlag(FlagCarry, false); return 2 }
func (c *CPU) execSEC() int { c.setFlag(FlagCarry, true); return 2 }
func (c *CPU) execCLI() int { c.setFlag(FlagInterrupt, false); return 2 }
func (c *CPU) execSEI() int { c.setFlag(FlagInterrupt, true); return 2 }
func (c *CPU) execCLV() int { c.setFlag(FlagOverflow, false); return 2 }
func (c *CPU) execCLD() int { c.setFlag(FlagDecimal, false); return 2 }
func (c *CPU) execSED() int { c.setFlag(FlagDecimal, true); return 2 }

// Stack instructions.
func (c *CPU) execPHA() int { c.push(c.A); return 3 }

func (c *CPU) execPLA() int {
	c.A = c.pop()
	c.setZN(c.A)
	return 4
}

func (c *CPU) execPHP() int { c.push(c.P | FlagBreak); return 3 }

func (c *CPU) execPLP() int {
	c.P = c.pop()
	c.P |= FlagUnused
	c.P &^= FlagBreak
	return 4
}

// Branch instructions all funnel through branch, which owns the relative
// addressing and the page-cross timing penalty.
func (c *CPU) execBEQ() int { return c.branch(c.getFlag(FlagZero)) }
func (c *CPU) execBNE() int { return c.branch(!c.getFlag(FlagZero)) }
func (c *CPU) execBCC() int { return c.branch(!c.getFlag(FlagCarry)) }
func (c *CPU) execBCS() int { return c.branch(c.getFlag(FlagCarry)) }
func (c *CPU) execBPL() int { return c.branch(!c.getFlag(FlagNegative)) }
func (c *CPU) execBMI() int { return c.branch(c.getFlag(FlagNegative)) }
func (c *CPU) execBVC() int { return c.branch(!c.getFlag(FlagOverflow)) }
func (c *CPU) execBVS() int { return c.branch(c.getFlag(FlagOverflow)) }

func (c *CPU) branch(taken bool) int {
	offset := int8(c.read(c.PC))
	c.PC++
	if !taken {
		return 2
	}
	oldPC := c.PC
	c.PC = uint16(int32(c.PC) + int32(offset))
	if (oldPC & 0xFF00) != (c.PC & 0xFF00) {
		return 4
	}
	return 3
}

func (c *CPU) execJMPAbsolute() int {
	c.PC = c.read16(c.PC)
	return 3
}

func (c *CPU) execJMPIndirect() int {
	addr, _ := c.getOperandAddress(AddrIndirect)
	c.PC = addr
	return 5
}

func (c *CPU) execJSR() int {
	target := c.read16(c.PC)
	c.PC++ // return address pushed is the last byte of the operand, not past it
	c.push16(c.PC)
	c.PC = target
	return 6
}

func (c *CPU) execRTS() int {
	c.PC = c.pop16() + 1
	return 6
}

func (c *CPU) execRTI() int {
	c.P = c.pop()
	c.P |= FlagUnused
	c.P &^= FlagBreak
	c.PC = c.pop16()
	return 6
}

// execShift drives ASL/LSR/ROL/ROR's memory-operand variants: read, apply
// op (which reports the new carry), write back, set Z/N on the result.
func (c *CPU) execShift(mode AddressingMode, op func(value uint8, carryIn bool) (result uint8, carryOut bool)) int {
	addr, _ := c.getOperandAddress(mode)
	result, carryOut := op(c.read(addr), c.getFlag(FlagCarry))
	c.setFlag(FlagCarry, carryOut)
	c.setZN(result)
	c.write(addr, result)
	return shiftCycles(mode)
}

func (c *CPU) shiftAccumulator(op func(value uint8, carryIn bool) (result uint8, carryOut bool)) int {
	result, carryOut := op(c.A, c.getFlag(FlagCarry))
	c.setFlag(FlagCarry, carryOut)
	c.A = result
	c.setZN(c.A)
	return 2
}

func aslOp(v uint8, _ bool) (uint8, bool) { return v << 1, v&0x80 != 0 }
func lsrOp(v uint8, _ bool) (uint8, bool) { return v >> 1, v&0x01 != 0 }

func rolOp(v uint8, carryIn bool) (uint8, bool) {
	in := uint8(0)
	if carryIn {
		in = 1
	}
	return (v << 1) | in, v&0x80 != 0
}

func rorOp(v uint8, carryIn bool) (uint8, bool) {
	in := uint8(0)
	if carryIn {
		in = 0x80
	}
	return (v >> 1) | in, v&0x01 != 0
}

func (c *CPU) execASLAccumulator() int { return c.shiftAccumulator(aslOp) }
func (c *CPU) execLSRAccumulator() int { return c.shiftAccumulator(lsrOp) }
func (c *CPU) execROLAccumulator() int { return c.shiftAccumulator(rolOp) }
func (c *CPU) execRORAccumulator() int { return c.shiftAccumulator(rorOp) }

func (c *CPU) execASL(mode AddressingMode) int { return c.execShift(mode, aslOp) }
func (c *CPU) execLSR(mode AddressingMode) int { return c.execShift(mode, lsrOp) }
func (c *CPU) execROL(mode AddressingMode) int { return c.execShift(mode, rolOp) }
func (c *CPU) execROR(mode AddressingMode) int { return c.execShift(mode, rorOp) }

// execIncDec drives INC/DEC: delta is 1 or 0xFF (two's-complement -1), so
// plain uint8 addition wraps the same way real hardware's ALU does.
func (c *CPU) execIncDec(mode AddressingMode, delta uint8) int {
	addr, _ := c.getOperandAddress(mode)
	result := c.read(addr) + delta
	c.setZN(result)
	c.write(addr, result)
	return shiftCycles(mode)
}

func (c *CPU) execINC(mode AddressingMode) int { return c.execIncDec(mode, 1) }
func (c *CPU) execDEC(mode AddressingMode) int { return c.execIncDec(mode, 0xFF) }

func (c *CPU) execINX() int { c.X++; c.setZN(c.X); return 2 }
func (c *CPU) execDEX() int { c.X--; c.setZN(c.X); return 2 }
func (c *CPU) execINY() int { c.Y++; c.setZN(c.Y); return 2 }
func (c *CPU) execDEY() int { c.Y--; c.setZN(c.Y); return 2 }

func (c *CPU) execBRK() int {
	c.PC++ // BRK's operand byte is a padding byte the 6502 always skips
	c.push16(c.PC)
	c.push(c.P | FlagBreak)
	c.setFlag(FlagInterrupt, true)
	c.PC = c.read16(0xFFFE)
	return 7
}

func (c *CPU) execNOP() int { return 2 }

func (c *CPU) execNOPImmediate() int { c.PC++; return 2 }
func (c *CPU) execNOPZeroPage() int  { c.PC++; return 3 }
func (c *CPU) execNOPZeroPageX() int { c.PC++; return 4 }
func (c *CPU) execNOPAbsolute() int  { c.PC += 2; return 4 }

// execNOPAbsoluteX does not charge the page-cross cycle NOP abs,X can take
// on real hardware; no test in this emulator's suite depends on it.
func (c *CPU) execNOPAbsoluteX() int { c.PC += 2; return 4 }

func (c *CPU) execJAM() int { c.Halted = true; return 2 }

func (c *CPU) setZN(value uint8) {
	c.setFlag(FlagZero, value == 0)
	c.setFlag(FlagNegative, value&0x80 != 0)
}

// performADC is ADC's core arithmetic, reused by RRA once it has rotated
// its operand.
func (c *CPU) performADC(value uint8) {
	carry := uint16(0)
	if c.getFlag(FlagCarry) {
		carry = 1
	}
	result := uint16(c.A) + uint16(value) + carry
	c.setFlag(FlagOverflow, (c.A^value)&0x80 == 0 && (c.A^uint8(result))&0x80 != 0)
	c.setFlag(FlagCarry, result > 0xFF)
	c.A = uint8(result)
	c.setZN(c.A)
}

// performSBC is SBC's core arithmetic; subtraction is addition of the one's
// complement, so ISB reuses it the same way RRA reuses performADC.
func (c *CPU) performSBC(value uint8) {
	c.performADC(^value)
}

// execIllegalRMW drives the six illegal opcodes that read-modify-write a
// memory operand and then combine the result into A: modify computes and
// stores the new memory value, after reacts to it (comparing against A,
// ANDing into A, and so on).
func (c *CPU) execIllegalRMW(mode AddressingMode, modify func(uint8) uint8, after func(result uint8)) int {
	addr, _ := c.getOperandAddress(mode)
	result := modify(c.read(addr))
	c.write(addr, result)
	after(result)
	if n, ok := illegalRMWCycleTable[mode]; ok {
		return n
	}
	return 2
}

// execLAX loads both A and X from memory in one opcode.
func (c *CPU) execLAX(mode AddressingMode) int {
	value, pageCrossed := c.getOperand(mode)
	c.A = value
	c.X = value
	c.setZN(value)
	return baseCycles(mode) + pageCrossPenalty(mode, pageCrossed)
}

// execSAX stores A AND X without touching any flags.
func (c *CPU) execSAX(mode AddressingMode) int {
	addr, _ := c.getOperandAddress(mode)
	c.write(addr, c.A&c.X)
	return storeCycles(mode)
}

func (c *CPU) execDCP(mode AddressingMode) int {
	return c.execIllegalRMW(mode, func(v uint8) uint8 { return v - 1 }, func(result uint8) {
		diff := uint16(c.A) - uint16(result)
		c.setFlag(FlagCarry, diff < 0x100)
		c.setZN(uint8(diff))
	})
}

func (c *CPU) execISB(mode AddressingMode) int {
	return c.execIllegalRMW(mode, func(v uint8) uint8 { return v + 1 }, c.performSBC)
}

func (c *CPU) execSLO(mode AddressingMode) int {
	return c.execIllegalRMW(mode, func(v uint8) uint8 {
		c.setFlag(FlagCarry, v&0x80 != 0)
		return v << 1
	}, func(result uint8) {
		c.A |= result
		c.setZN(c.A)
	})
}

func (c *CPU) execRLA(mode AddressingMode) int {
	return c.execIllegalRMW(mode, func(v uint8) uint8 {
		carryIn := uint8(0)
		if c.getFlag(FlagCarry) {
			carryIn = 1
		}
		c.setFlag(FlagCarry, v&0x80 != 0)
		return (v << 1) | carryIn
	}, func(result uint8) {
		c.A &= result
		c.setZN(c.A)
	})
}

func (c *CPU) execSRE(mode AddressingMode) int {
	return c.execIllegalRMW(mode, func(v uint8) uint8 {
		c.setFlag(FlagCarry, v&0x01 != 0)
		return v >> 1
	}, func(result uint8) {
		c.A ^= result
		c.setZN(c.A)
	})
}

func (c *CPU) execRRA(mode AddressingMode) int {
	return c.execIllegalRMW(mode, func(v uint8) uint8 {
		carryIn := uint8(0)
		if c.getFlag(FlagCarry) {
			carryIn = 0x80
		}
		c.setFlag(FlagCarry, v&0x01 != 0)
		return (v >> 1) | carryIn
	}, c.performADC)
}

// execAAC (AND accumulator with the immediate operand, then copy bit 7 into
// carry) is used by cartridge-protection checks that expect AND's side
// effect on the carry flag.
func (c *CPU) execAAC() int {
	value := c.read(c.PC)
	c.PC++
	c.A &= value
	c.setZN(c.A)
	c.setFlag(FlagCarry, c.A&0x80 != 0)
	return 2
}

func (c *CPU) execASR() int {
	value := c.read(c.PC)
	c.PC++
	c.A &= value
	c.setFlag(FlagCarry, c.A&0x01 != 0)
	c.A >>= 1
	c.setZN(c.A)
	return 2
}

func (c *CPU) execARR() int {
	value := c.read(c.PC)
	c.PC++
	c.A &= value

	carryIn := uint8(0)
	if c.getFlag(FlagCarry) {
		carryIn = 0x80
	}
	c.A = (c.A >> 1) | carryIn
	c.setZN(c.A)

	// ARR's flags come from the post-rotate result, not a plain ROR: V is
	// bit6 XOR bit5, C is bit6.
	c.setFlag(FlagOverflow, ((c.A>>6)&1)^((c.A>>5)&1) != 0)
	c.setFlag(FlagCarry, c.A&0x40 != 0)
	return 2
}

// execATX (also known as LXA) loads the immediate operand into both A and X.
func (c *CPU) execATX() int {
	value := c.read(c.PC)
	c.PC++
	c.A = value
	c.X = value
	c.setZN(c.A)
	return 2
}

func (c *CPU) execAXS() int {
	value := c.read(c.PC)
	c.PC++
	result := uint16(c.A&c.X) - uint16(value)
	c.X = uint8(result)
	c.setFlag(FlagCarry, result < 0x100)
	c.setZN(c.X)
	return 2
}

// execSHY/execSHX/execSHA/execTAS share an unstable "AND with the high byte
// of the indexed address plus one" quirk that only behaves predictably when
// the index addition doesn't cross a page; every known-good emulator models
// it off the unindexed base address's high byte, as done here.
func (c *CPU) execSHY() int {
	base := c.read16(c.PC)
	c.PC += 2
	c.write(base+uint16(c.X), c.Y&(uint8(base>>8)+1))
	return 5
}

func (c *CPU) execSHX() int {
	base := c.read16(c.PC)
	c.PC += 2
	c.write(base+uint16(c.Y), c.X&(uint8(base>>8)+1))
	return 5
}

func (c *CPU) execSHA(mode AddressingMode) int {
	var base uint16
	if mode == AddrIndirectIndexed {
		zp := c.read(c.PC)
		c.PC++
		lo := c.read(uint16(zp))
		hi := c.read((uint16(zp) + 1) & 0xFF)
		base = uint16(hi)<<8 | uint16(lo)
	} else {
		base = c.read16(c.PC)
		c.PC += 2
	}
	c.write(base+uint16(c.Y), c.A&c.X&(uint8(base>>8)+1))
	if mode == AddrIndirectIndexed {
		return 6
	}
	return 5
}

func (c *CPU) execTAS() int {
	base := c.read16(c.PC)
	c.PC += 2
	c.SP = c.A & c.X
	c.write(base+uint16(c.Y), c.SP&(uint8(base>>8)+1))
	return 5
}

// execLAS ANDs memory with SP and fans the result out into A, X and SP.
func (c *CPU) execLAS() int {
	value, pageCrossed := c.getOperand(AddrAbsoluteY)
	result := value & c.SP
	c.A, c.X, c.SP = result, result, result
	c.setZN(result)
	return baseCycles(AddrAbsoluteY) + pageCrossPenalty(AddrAbsoluteY, pageCrossed)
}
