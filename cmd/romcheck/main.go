// Command romcheck loads an iNES ROM and reports its header, mapper, and
// memory layout without running the emulator. Exit codes: 0 on success, 1
// if the ROM fails to load, 2 if no ROM path is given.
package main

import (
	"fmt"
	"os"

	"github.com/yoshiomiyamaegones/pkg/cartridge"
	"github.com/yoshiomiyamaegones/pkg/cartridge/mapper"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: romcheck <rom-path>")
		os.Exit(2)
	}

	romFile := os.Args[1]

	file, err := os.Open(romFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "romcheck: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	cart, err := cartridge.LoadFromReader(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "romcheck: %v\n", err)
		os.Exit(1)
	}

	mapperNumber := (cart.Header.Flags6 >> 4) | (cart.Header.Flags7 & 0xF0)

	fmt.Printf("file: %s\n", romFile)
	fmt.Printf("prg-rom: %d KB\n", int(cart.Header.PRGROMSize)*16)
	fmt.Printf("chr-rom: %d KB\n", int(cart.Header.CHRROMSize)*8)
	fmt.Printf("mapper: %d\n", mapperNumber)
	fmt.Printf("trainer: %v\n", cart.Header.Flags6&0x04 != 0)
	fmt.Printf("battery-backed: %v\n", cart.Header.Flags6&0x02 != 0)

	switch {
	case cart.Header.Flags6&0x08 != 0:
		fmt.Println("mirroring: four-screen")
	case cart.Header.Flags6&0x01 != 0:
		fmt.Println("mirroring: vertical")
	default:
		fmt.Println("mirroring: horizontal")
	}

	if len(cart.CHRROM) > 0 {
		fmt.Printf("chr-ram: none (CHR ROM present)\n")
	} else {
		fmt.Printf("chr-ram: %d KB\n", len(cart.CHRRAM)/1024)
	}
	if len(cart.PRGRAM) > 0 {
		fmt.Printf("prg-ram: %d KB\n", len(cart.PRGRAM)/1024)
	}

	switch m := cart.Mapper.(type) {
	case *mapper.Mapper4:
		banks := m.GetCurrentPRGBanks()
		fmt.Println("mmc3-initial-banks:")
		fmt.Printf("  $8000-$9FFF: bank %d\n", banks[0])
		fmt.Printf("  $A000-$BFFF: bank %d\n", banks[1])
		fmt.Printf("  $C000-$DFFF: bank %d (fixed)\n", banks[2])
		fmt.Printf("  $E000-$FFFF: bank %d (fixed)\n", banks[3])
	case *mapper.Mapper2:
		fmt.Printf("uxrom-initial-bank: %d ($8000-$BFFF, $C000-$FFFF fixed to last)\n", m.GetCurrentPRGBank())
	}
}
