package mapper

import "testing"

func newMapper3ROM(t *testing.T, chr []uint8, fill func(i int) uint8) (*Mapper3, *CartridgeData) {
	t.Helper()
	data := &CartridgeData{PRGROM: testPRGROM32KB, CHRROM: chr}
	for i := range data.CHRROM {
		data.CHRROM[i] = fill(i)
	}
	return NewMapper3(data), data
}

func TestMapper3CHRBankSwitch(t *testing.T) {
	m, _ := newMapper3ROM(t, testCHRROM32KB, func(i int) uint8 { return uint8(i/8192) + 1 })

	if got := m.ReadCHR(0x0000); got != 0x01 {
		t.Fatalf("bank 0 read = $%02X, want $01", got)
	}

	m.WritePRG(0x8000, 0x02)
	if got := m.ReadCHR(0x0000); got != 0x03 {
		t.Fatalf("after select bank 2, read = $%02X, want $03", got)
	}
	if got := m.ReadCHR(0x1000); got != 0x03 {
		t.Fatalf("mid-bank read = $%02X, want $03 (same bank)", got)
	}
}

func TestMapper3PRGFixed32KB(t *testing.T) {
	m, data := newMapper3ROM(t, testCHRROM32KB, func(i int) uint8 { return 0 })

	if got := m.ReadPRG(0x8000); got != data.PRGROM[0] {
		t.Fatalf("$8000 = $%02X, want $%02X", got, data.PRGROM[0])
	}
	if got := m.ReadPRG(0xFFFF); got != data.PRGROM[len(data.PRGROM)-1] {
		t.Fatalf("$FFFF = $%02X, want last PRG byte", got)
	}

	data.PRGROM[0x4000] = 0xAA
	if got := m.ReadPRG(0xC000); got != 0xAA {
		t.Fatalf("$C000 should read the 16KB offset directly, got $%02X", got)
	}

	before := m.ReadPRG(0x9000)
	m.WritePRG(0x9000, 0xFF) // selects a CHR bank, must not touch PRG
	if after := m.ReadPRG(0x9000); before != after {
		t.Fatalf("PRG changed after a CHR-select write: $%02X -> $%02X", before, after)
	}
}

func TestMapper3CHRBankWraps(t *testing.T) {
	chr := make([]uint8, 16*1024) // 2 banks
	m, _ := newMapper3ROM(t, chr, func(i int) uint8 { return uint8(i/8192) + 0x10 })

	cases := []struct {
		write uint8
		want  uint8
	}{
		{0x01, 0x11},
		{0x03, 0x11}, // 2-bank ROM: bank 3 wraps to bank 1
		{0x00, 0x10},
	}
	for _, c := range cases {
		m.WritePRG(0x8000, c.write)
		if got := m.ReadCHR(0x0000); got != c.want {
			t.Errorf("select %d: read = $%02X, want $%02X", c.write, got, c.want)
		}
	}
}

func TestMapper3AnyAddressSelectsBank(t *testing.T) {
	m, _ := newMapper3ROM(t, testCHRROM32KB, func(i int) uint8 { return uint8(i/8192) + 0x20 })

	for i, addr := range []uint16{0x8000, 0x9000, 0xA000, 0xB000, 0xC000, 0xD000, 0xE000, 0xF000} {
		bank := uint8(i % 4)
		m.WritePRG(addr, bank)
		want := 0x20 + bank
		if got := m.ReadCHR(0x0000); got != want {
			t.Errorf("write to $%04X: read = $%02X, want $%02X", addr, got, want)
		}
	}
}

func TestMapper3CHRRAMIsWritableAndUnbanked(t *testing.T) {
	rom, _ := newMapper3ROM(t, testCHRROM32KB, func(i int) uint8 { return 0 })
	before := rom.ReadCHR(0x1000)
	rom.WriteCHR(0x1000, 0xFF)
	if after := rom.ReadCHR(0x1000); before != after {
		t.Fatalf("CHR ROM write should be ignored: $%02X -> $%02X", before, after)
	}

	ram := NewMapper3(&CartridgeData{PRGROM: testPRGROM32KB, CHRRAM: make([]uint8, 8*1024)})
	ram.WriteCHR(0x1000, 0xAA)
	if got := ram.ReadCHR(0x1000); got != 0xAA {
		t.Fatalf("CHR RAM read after write = $%02X, want $AA", got)
	}
	ram.WritePRG(0x8000, 0x01)
	if got := ram.ReadCHR(0x1000); got != 0xAA {
		t.Fatalf("CHR RAM value changed by a bank-select write: $%02X", got)
	}
}

func TestMapper3BusConflicts(t *testing.T) {
	m, data := newMapper3ROM(t, testCHRROM32KB, func(i int) uint8 { return uint8(i/8192) + 0x40 })
	data.PRGROM[0x0000] = 0x03 // $8000
	data.PRGROM[0x1000] = 0x02 // $9000
	data.PRGROM[0x2000] = 0x01 // $A000

	m.SetBusConflictMode(true)

	m.WritePRG(0x8000, 0x03) // 0x03 & 0x03 = 0x03
	if got := m.GetCurrentCHRBank(); got != 0x03 {
		t.Errorf("conflict at $8000: bank = %d, want 3", got)
	}
	m.WritePRG(0x9000, 0x03) // 0x03 & 0x02 = 0x02
	if got := m.GetCurrentCHRBank(); got != 0x02 {
		t.Errorf("conflict at $9000: bank = %d, want 2", got)
	}
	m.WritePRG(0xA000, 0x03) // 0x03 & 0x01 = 0x01
	if got := m.GetCurrentCHRBank(); got != 0x01 {
		t.Errorf("conflict at $A000: bank = %d, want 1", got)
	}

	m.SetBusConflictMode(false)
	m.WritePRG(0xA000, 0x03) // no masking now
	if got := m.GetCurrentCHRBank(); got != 0x03 {
		t.Errorf("no-conflict mode: bank = %d, want 3", got)
	}
}

func TestMapper3FullAddressRangePerBank(t *testing.T) {
	m, _ := newMapper3ROM(t, testCHRROM32KB, func(i int) uint8 { return uint8(i & 0xFF) })

	addrs := []uint16{0x0000, 0x0800, 0x1000, 0x1800, 0x1FFF}
	for bank := uint8(0); bank < 4; bank++ {
		m.WritePRG(0x8000, bank)
		for _, addr := range addrs {
			want := uint8((uint32(bank)*8192 + uint32(addr)) & 0xFF)
			if got := m.ReadCHR(addr); got != want {
				t.Errorf("bank %d addr $%04X: read = $%02X, want $%02X", bank, addr, got, want)
			}
		}
	}
}
