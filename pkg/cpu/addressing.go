package cpu

// AddressingMode identifies one of the 6502's operand-addressing schemes.
type AddressingMode int

const (
	AddrImplied AddressingMode = iota
	AddrAccumulator
	AddrImmediate
	AddrZeroPage
	AddrZeroPageX
	AddrZeroPageY
	AddrRelative
	AddrAbsolute
	AddrAbsoluteX
	AddrAbsoluteY
	AddrIndirect
	AddrIndexedIndirect
	AddrIndirectIndexed
)

// indexedOperand computes an (possibly page-crossing) indexed address and
// performs the dummy read real 6502 hardware issues to the unfixed address
// whenever the index addition carries into the high byte.
func (c *CPU) indexedOperand(base uint16, index uint8) (uint16, bool) {
	addr := base + uint16(index)
	pageCrossed := (base & 0xFF00) != (addr & 0xFF00)
	if pageCrossed {
		dummy := (base & 0xFF00) | ((base + uint16(index)) & 0xFF)
		c.read(dummy)
	}
	return addr, pageCrossed
}

// getOperandAddress resolves the operand address for an addressing mode,
// consuming the operand bytes that follow the opcode from PC as it goes.
func (c *CPU) getOperandAddress(mode AddressingMode) (uint16, bool) {
	switch mode {
	case AddrImplied, AddrAccumulator:
		return 0, false

	case AddrImmediate:
		addr := c.PC
		c.PC++
		return addr, false

	case AddrZeroPage:
		addr := uint16(c.read(c.PC))
		c.PC++
		return addr, false

	case AddrZeroPageX:
		addr := uint16(c.read(c.PC) + c.X)
		c.PC++
		return addr & 0xFF, false

	case AddrZeroPageY:
		addr := uint16(c.read(c.PC) + c.Y)
		c.PC++
		return addr & 0xFF, false

	case AddrRelative:
		offset := int8(c.read(c.PC))
		c.PC++
		addr := uint16(int32(c.PC) + int32(offset))
		return addr, (c.PC & 0xFF00) != (addr & 0xFF00)

	case AddrAbsolute:
		addr := c.read16(c.PC)
		c.PC += 2
		return addr, false

	case AddrAbsoluteX:
		base := c.read16(c.PC)
		c.PC += 2
		return c.indexedOperand(base, c.X)

	case AddrAbsoluteY:
		base := c.read16(c.PC)
		c.PC += 2
		return c.indexedOperand(base, c.Y)

	case AddrIndirect:
		// JMP only. The indirect vector never actually crosses a page on
		// real hardware: if the low byte of ptr is $FF, the high byte of
		// the target is fetched from the start of the same page, not the
		// next one.
		ptr := c.read16(c.PC)
		c.PC += 2
		if ptr&0xFF == 0xFF {
			lo := c.read(ptr)
			hi := c.read(ptr & 0xFF00)
			return uint16(hi)<<8 | uint16(lo), false
		}
		return c.read16(ptr), false

	case AddrIndexedIndirect: // (zp,X)
		base := c.read(c.PC)
		c.PC++
		ptr := (uint16(base) + uint16(c.X)) & 0xFF
		lo := c.read(ptr)
		hi := c.read((ptr + 1) & 0xFF)
		return uint16(hi)<<8 | uint16(lo), false

	case AddrIndirectIndexed: // (zp),Y
		base := c.read(c.PC)
		c.PC++
		lo := c.read(uint16(base))
		hi := c.read((uint16(base) + 1) & 0xFF)
		return c.indexedOperand(uint16(hi)<<8|uint16(lo), c.Y)
	}

	return 0, false
}

// getOperand fetches the operand value itself; accumulator mode reads A
// directly instead of going through memory.
func (c *CPU) getOperand(mode AddressingMode) (uint8, bool) {
	if mode == AddrAccumulator {
		return c.A, false
	}
	addr, pageCrossed := c.getOperandAddress(mode)
	return c.read(addr), pageCrossed
}
