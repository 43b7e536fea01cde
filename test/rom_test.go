package test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yoshiomiyamaegones/pkg/cartridge"
	"github.com/yoshiomiyamaegones/pkg/nes"
)

// romRunSummary captures how far a headless ROM run got before stopping.
type romRunSummary struct {
	cartLoadErr error
	cycles      uint64
	elapsed     time.Duration
}

func openROM(name string) (*cartridge.Cartridge, error) {
	path := filepath.Join("roms", name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("ROM file not found: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ROM file: %w", err)
	}
	return cartridge.LoadFromReader(bytes.NewReader(data))
}

// driveROM loads and runs a ROM for up to maxCycles, logging progress every
// 10000 cycles so a hang is visible in test output instead of a plain timeout.
func driveROM(t *testing.T, name string, maxCycles uint64) romRunSummary {
	t.Helper()
	start := time.Now()
	summary := romRunSummary{}
	defer func() { summary.elapsed = time.Since(start) }()

	cart, err := openROM(name)
	if err != nil {
		summary.cartLoadErr = err
		return summary
	}

	system := nes.NewNES()
	system.LoadCartridge(cart)
	system.Reset()

	for system.Cycles < maxCycles {
		system.Step()
		if system.Cycles%10000 == 0 {
			t.Logf("%s: %d cycles completed", name, system.Cycles)
		}
	}
	summary.cycles = system.Cycles
	return summary
}

func TestROMDirectoryRunsEveryNESFileWithoutCrashing(t *testing.T) {
	const dir = "roms"
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Skip("roms directory not found, skipping")
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir(%q) error = %v", dir, err)
	}
	if len(files) == 0 {
		t.Skip("no ROM files found in roms directory")
	}

	for _, file := range files {
		if filepath.Ext(file.Name()) != ".nes" {
			continue
		}
		t.Run(file.Name(), func(t *testing.T) {
			summary := driveROM(t, file.Name(), 100000)
			if summary.cartLoadErr != nil {
				t.Fatalf("load error: %v", summary.cartLoadErr)
			}
			t.Logf("%s completed in %d cycles (%v)", file.Name(), summary.cycles, summary.elapsed)
		})
	}
}

// knownTestROMs names the blargg-style conformance ROMs this suite knows
// about; each is skipped rather than failed when the ROM file is absent.
var knownTestROMs = []struct {
	label     string
	file      string
	maxCycles uint64
}{
	{"nestest", "nestest.nes", 1000000},
	{"instr_basics", "01-basics.nes", 2000000},
	{"instr_implied", "02-implied.nes", 2000000},
	{"instr_immediate", "03-immediate.nes", 2000000},
	{"instr_zero_page", "04-zero_page.nes", 2000000},
	{"cpu_dummy_reads", "cpu_dummy_reads.nes", 1000000},
	{"ppu_sprite_hit_basics", "sprite_hit_01_basics.nes", 2000000},
}

func TestKnownConformanceROMs(t *testing.T) {
	for _, rom := range knownTestROMs {
		rom := rom
		t.Run(rom.label, func(t *testing.T) {
			if _, err := openROM(rom.file); err != nil {
				t.Skipf("%s not available: %v", rom.file, err)
			}
			summary := driveROM(t, rom.file, rom.maxCycles)
			if summary.cartLoadErr != nil {
				t.Fatalf("load error: %v", summary.cartLoadErr)
			}
			t.Logf("%s completed in %d cycles (%v)", rom.label, summary.cycles, summary.elapsed)
		})
	}
}

// buildMMC1SmokeTestROM assembles an iNES image with two 16KB PRG banks and
// embeds program directly, exercising MMC1 control/bank-select register
// writes via shift-register (5 LSR-then-STA) sequences.
func buildMMC1SmokeTestROM(program []uint8) []byte {
	rom := make([]byte, 0, 16+32768+16384)
	rom = append(rom,
		0x4E, 0x45, 0x53, 0x1A,
		0x02, 0x02,
		0x10, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	)

	prg := make([]byte, 32768)
	copy(prg, program)
	copy(prg[16384:], program)
	for _, base := range []int{0x3FFA, 0x7FFA} {
		prg[base] = 0x00
		prg[base+1] = 0x80
		prg[base+2] = 0x00
		prg[base+3] = 0x80
		prg[base+4] = 0x00
		prg[base+5] = 0x80
	}
	rom = append(rom, prg...)

	chr := make([]byte, 16384)
	for i := range chr {
		chr[i] = uint8(i % 256)
	}
	rom = append(rom, chr...)

	return rom
}

func TestMMC1BankSwitchingSmoke(t *testing.T) {
	// resets MMC1, sets 16KB-PRG/4KB-CHR control mode bit by bit, switches
	// to PRG bank 1, then writes a sentinel byte and spins in place.
	program := []uint8{
		0xA9, 0x80, 0x8D, 0x00, 0x80, // LDA #$80 ; STA $8000 (reset)
		0xA9, 0x0F, // LDA #$0F
		0x8D, 0x00, 0x80, 0x4A, // STA $8000 ; LSR A (bit 0)
		0x8D, 0x00, 0x80, 0x4A, // STA $8000 ; LSR A (bit 1)
		0x8D, 0x00, 0x80, 0x4A, // STA $8000 ; LSR A (bit 2)
		0x8D, 0x00, 0x80, 0x4A, // STA $8000 ; LSR A (bit 3)
		0x8D, 0x00, 0x80, // STA $8000 (bit 4)
		0xA9, 0x01, // LDA #$01
		0x8D, 0x00, 0xE0, 0x4A, // STA $E000 ; LSR A (bit 0)
		0x8D, 0x00, 0xE0, // STA $E000 (bit 1)
		0x8D, 0x00, 0xE0, // STA $E000 (bit 2)
		0x8D, 0x00, 0xE0, // STA $E000 (bit 3)
		0x8D, 0x00, 0xE0, // STA $E000 (bit 4)
		0xA9, 0x42, 0x85, 0x00, // LDA #$42 ; STA $00
		0x4C, 0x2A, 0x80, // JMP $802A (spin)
	}

	cart, err := cartridge.LoadFromReader(bytes.NewReader(buildMMC1SmokeTestROM(program)))
	if err != nil {
		t.Fatalf("LoadFromReader() error = %v", err)
	}
	if cart.Header.Flags6&0xF0 != 0x10 {
		t.Fatalf("expected mapper 1, flags6 = %#02x", cart.Header.Flags6)
	}

	system := nes.NewNES()
	system.LoadCartridge(cart)
	system.Reset()

	const haltPC = 0x802A
	const maxCycles = uint64(50000)
	for system.Cycles < maxCycles && system.CPU.PC != haltPC {
		system.Step()
	}

	t.Logf("stopped after %d cycles at PC=%#04x", system.Cycles, system.CPU.PC)

	if system.CPU.PC != haltPC {
		t.Errorf("PC = %#04x, want %#04x (program never reached its spin loop)", system.CPU.PC, haltPC)
	}
	if got := system.Memory.Read(0x00); got != 0x42 {
		t.Errorf("memory[0x00] = %#02x, want 0x42", got)
	}
}

func BenchmarkNestestFixedCycles(b *testing.B) {
	cart, err := openROM("nestest.nes")
	if err != nil {
		b.Skipf("ROM not found: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		system := nes.NewNES()
		system.LoadCartridge(cart)
		system.Reset()

		const targetCycles = uint64(10000)
		for system.Cycles < targetCycles {
			system.Step()
		}
	}
}
