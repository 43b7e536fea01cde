package mapper

import "fmt"

// Mapper abstracts a cartridge's bank-switching logic away from the bus: the
// CPU and PPU address spaces route here for anything above $4020 (PRG) and
// the whole CHR space, and the mapper decides which physical bank answers.
type Mapper interface {
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, value uint8)
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, value uint8)

	// Step is called by the PPU once at the start of each visible scanline
	// so mappers with scanline-counting IRQs (MMC3) can track rendering
	// progress; mappers without one ignore it.
	Step()
	IsIRQPending() bool
	ClearIRQ()
}

// CartridgeData is the raw ROM/RAM a mapper banks across. It holds no
// mapper-specific state (bank registers, shift registers, IRQ counters);
// each mapper implementation owns that separately.
type CartridgeData struct {
	PRGROM []uint8
	CHRROM []uint8
	PRGRAM []uint8
	CHRRAM []uint8
}

// mapperFactories are the five boards this implementation supports, indexed
// by the iNES mapper number in the header's Flags6/Flags7 nibble pair.
var mapperFactories = map[uint8]func(*CartridgeData) Mapper{
	0: func(d *CartridgeData) Mapper { return NewMapper0(d) },
	1: func(d *CartridgeData) Mapper { return NewMapper1(d) },
	2: func(d *CartridgeData) Mapper { return NewMapper2(d) },
	3: func(d *CartridgeData) Mapper { return NewMapper3(d) },
	4: func(d *CartridgeData) Mapper { return NewMapper4(d) },
}

// NewMapper instantiates the mapper a cartridge's header declares.
func NewMapper(mapperNumber uint8, data *CartridgeData) (Mapper, error) {
	factory, ok := mapperFactories[mapperNumber]
	if !ok {
		return nil, fmt.Errorf("mapper: unsupported mapper number %d", mapperNumber)
	}
	return factory(data), nil
}
