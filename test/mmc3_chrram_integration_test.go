package test

import (
	"testing"

	"github.com/yoshiomiyamaegones/pkg/cartridge"
	"github.com/yoshiomiyamaegones/pkg/cartridge/mapper"
	"github.com/yoshiomiyamaegones/pkg/nes"
)

const mmc3CHRRAMSize = 32 * 1024

// newBigCHRRAMCart builds a cartridge backed by MMC3 (mapper 4) with a
// 32KB CHR-RAM bank, matching the shape of the mmc3bigchrram.nes test ROM.
func newBigCHRRAMCart(prgROM []uint8) (*cartridge.Cartridge, *mapper.Mapper4) {
	if prgROM == nil {
		prgROM = make([]uint8, mmc3CHRRAMSize)
	}
	chrRAM := make([]uint8, mmc3CHRRAMSize)
	cartData := &mapper.CartridgeData{PRGROM: prgROM, CHRRAM: chrRAM}
	cart := &cartridge.Cartridge{
		PRGROM: prgROM,
		CHRRAM: chrRAM,
		Mapper: mapper.NewMapper4(cartData),
	}
	return cart, cart.Mapper.(*mapper.Mapper4)
}

// selectPRGBank issues the two MMC3 bank-select/bank-data writes needed to
// point register R0 (CHR bank at PPU $0000) at the given 1KB bank index.
func selectPRGBank(m *mapper.Mapper4, bank uint8) {
	m.WritePRG(0x8000, 0x00)
	m.WritePRG(0x8001, bank)
}

func assertCHRPattern(t *testing.T, label string, m *mapper.Mapper4, pattern []uint8) {
	t.Helper()
	for i, want := range pattern {
		if got := m.ReadCHR(uint16(i)); got != want {
			t.Errorf("%s: offset %d = $%02X, want $%02X", label, i, got, want)
		}
	}
}

func TestMMC3BankSwitchingPreservesCHRRAMPerBank(t *testing.T) {
	prgROM := make([]uint8, mmc3CHRRAMSize)
	testCode := []uint8{
		// wait out the PPU's post-reset write-ignore window
		0x2C, 0x02, 0x20, 0x10, 0xFB, // BIT $2002 ; BPL -5 (first VBlank)
		0x2C, 0x02, 0x20, 0x10, 0xFB, // BIT $2002 ; BPL -5 (second VBlank)

		0xA9, 0x00, 0x8D, 0x06, 0x20, // LDA #$00 ; STA $2006 (PPUADDR high)
		0xA9, 0x00, 0x8D, 0x06, 0x20, // LDA #$00 ; STA $2006 (PPUADDR low)

		// write the Rijndael S-box prefix to CHR $0000-$000F
		0xA9, 0x03, 0x8D, 0x07, 0x20,
		0xA9, 0x05, 0x8D, 0x07, 0x20,
		0xA9, 0x0F, 0x8D, 0x07, 0x20,
		0xA9, 0x11, 0x8D, 0x07, 0x20,
		0xA9, 0x33, 0x8D, 0x07, 0x20,
		0xA9, 0x55, 0x8D, 0x07, 0x20,
		0xA9, 0xFF, 0x8D, 0x07, 0x20,
		0xA9, 0x1A, 0x8D, 0x07, 0x20,
		0xA9, 0x2E, 0x8D, 0x07, 0x20,
		0xA9, 0x72, 0x8D, 0x07, 0x20,
		0xA9, 0x96, 0x8D, 0x07, 0x20,
		0xA9, 0xA1, 0x8D, 0x07, 0x20,
		0xA9, 0xF8, 0x8D, 0x07, 0x20,
		0xA9, 0x13, 0x8D, 0x07, 0x20,
		0xA9, 0x35, 0x8D, 0x07, 0x20,
		0xA9, 0x5F, 0x8D, 0x07, 0x20,

		0xA9, 0x00, 0x8D, 0x00, 0x80, // select R0
		0xA9, 0x02, 0x8D, 0x01, 0x80, // R0 = bank 2

		0xA9, 0x00, 0x8D, 0x06, 0x20,
		0xA9, 0x00, 0x8D, 0x06, 0x20,
		0xA9, 0x20, 0x8D, 0x07, 0x20,
		0xA9, 0x21, 0x8D, 0x07, 0x20,
		0xA9, 0x22, 0x8D, 0x07, 0x20,
		0xA9, 0x23, 0x8D, 0x07, 0x20,

		0xA9, 0x00, 0x8D, 0x00, 0x80,
		0xA9, 0x06, 0x8D, 0x01, 0x80, // R0 = bank 6

		0xA9, 0x00, 0x8D, 0x06, 0x20,
		0xA9, 0x00, 0x8D, 0x06, 0x20,
		0xA9, 0x60, 0x8D, 0x07, 0x20,
		0xA9, 0x61, 0x8D, 0x07, 0x20,
		0xA9, 0x62, 0x8D, 0x07, 0x20,
		0xA9, 0x63, 0x8D, 0x07, 0x20,

		0xA9, 0x00, 0x8D, 0x00, 0x80,
		0xA9, 0x00, 0x8D, 0x01, 0x80, // back to bank 0

		0xA9, 0x00, 0x8D, 0x06, 0x20,
		0xA9, 0x00, 0x8D, 0x06, 0x20,

		0x4C, 0x0A, 0x80, // JMP $800A (loop without repeating the wait)
	}
	// At power-on MMC3 maps the second-to-last 8KB PRG bank at $8000.
	copy(prgROM[0x4000:], testCode)
	prgROM[0x7FFC], prgROM[0x7FFD] = 0x00, 0x80

	cart, mapper4 := newBigCHRRAMCart(prgROM)
	system := nes.NewNES()
	system.LoadCartridge(cart)
	system.Reset()

	for i := 0; i < 20000; i++ {
		system.Step()
	}

	bank0Pattern := []uint8{0x03, 0x05, 0x0F, 0x11, 0x33, 0x55, 0xFF, 0x1A, 0x2E, 0x72, 0x96, 0xA1, 0xF8, 0x13, 0x35, 0x5F}
	selectPRGBank(mapper4, 0x00)
	assertCHRPattern(t, "bank 0 (initial)", mapper4, bank0Pattern)

	for i := 0; i < 2000; i++ {
		system.Step()
	}

	selectPRGBank(mapper4, 0x02)
	bank2Value := mapper4.ReadCHR(0x0000)
	t.Logf("bank 2 offset 0 = $%02X (expected $20)", bank2Value)
	for i := 0; i < 4; i++ {
		t.Logf("bank 2 offset %d: $%02X", i, mapper4.ReadCHR(uint16(i)))
	}

	selectPRGBank(mapper4, 0x06)
	bank6Value := mapper4.ReadCHR(0x0000)
	t.Logf("bank 6 offset 0 = $%02X (expected $60)", bank6Value)
	for i := 0; i < 4; i++ {
		t.Logf("bank 6 offset %d: $%02X", i, mapper4.ReadCHR(uint16(i)))
	}

	selectPRGBank(mapper4, 0x00)
	assertCHRPattern(t, "bank 0 (after switching away and back)", mapper4, bank0Pattern)

	t.Logf("bank 0=$%02X bank 2=$%02X bank 6=$%02X", bank0Pattern[0], bank2Value, bank6Value)
}

func TestMMC3DirectCHRRAMWriteBypassingCPU(t *testing.T) {
	cart, mapper4 := newBigCHRRAMCart(nil)
	system := nes.NewNES()
	system.LoadCartridge(cart)
	mem := system.Memory

	selectPRGBank(mapper4, 0x00)
	mem.Write(0x2006, 0x00)
	mem.Write(0x2006, 0x00)

	bank0Pattern := []uint8{0x03, 0x05, 0x0F, 0x11}
	for _, value := range bank0Pattern {
		mem.Write(0x2007, value)
	}
	assertCHRPattern(t, "bank 0", mapper4, bank0Pattern)

	selectPRGBank(mapper4, 0x02)
	mem.Write(0x2006, 0x00)
	mem.Write(0x2006, 0x00)

	bank2Pattern := []uint8{0x20, 0x21, 0x22, 0x23}
	for _, value := range bank2Pattern {
		mem.Write(0x2007, value)
	}
	assertCHRPattern(t, "bank 2", mapper4, bank2Pattern)

	selectPRGBank(mapper4, 0x00)
	assertCHRPattern(t, "bank 0 (preserved)", mapper4, bank0Pattern)
}

func TestMMC3PPURegisterAccessThroughCPUMemoryMap(t *testing.T) {
	cart, mapper4 := newBigCHRRAMCart(nil)
	system := nes.NewNES()
	system.LoadCartridge(cart)
	mem := system.Memory

	mem.Write(0x2006, 0x00)
	mem.Write(0x2006, 0x00)

	pattern := []uint8{0x03, 0x05, 0x0F, 0x11}
	for _, value := range pattern {
		mem.Write(0x2007, value)
	}

	mem.Write(0x2006, 0x00)
	mem.Write(0x2006, 0x00)
	mem.Read(0x2007) // prime the PPUDATA read buffer
	for i, want := range pattern {
		if got := mem.Read(0x2007); got != want {
			t.Errorf("PPUDATA read %d = $%02X, want $%02X", i, got, want)
		}
	}

	selectPRGBank(mapper4, 0x02)
	mem.Write(0x2006, 0x00)
	mem.Write(0x2006, 0x00)
	mem.Write(0x2007, 0x20)
	mem.Write(0x2007, 0x21)

	selectPRGBank(mapper4, 0x00)
	mem.Write(0x2006, 0x00)
	mem.Write(0x2006, 0x00)
	mem.Read(0x2007) // prime the PPUDATA read buffer

	if got := mem.Read(0x2007); got != pattern[0] {
		t.Errorf("bank 0 data lost after bank switch: got $%02X, want $%02X", got, pattern[0])
	}
}
