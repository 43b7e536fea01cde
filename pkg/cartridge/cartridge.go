package cartridge

import (
	"fmt"
	"io"

	"github.com/yoshiomiyamaegones/pkg/cartridge/mapper"
)

// Cartridge is a parsed iNES ROM image plus the mapper hardware it selects.
type Cartridge struct {
	PRGROM []uint8
	CHRROM []uint8
	PRGRAM []uint8
	CHRRAM []uint8

	Header    iNESHeader
	Mapper    mapper.Mapper
	Mirroring MirroringMode
}

// iNESHeader is the 16-byte header every iNES 1.0 file starts with.
type iNESHeader struct {
	Magic      [4]uint8
	PRGROMSize uint8 // 16KB units
	CHRROMSize uint8 // 8KB units
	Flags6     uint8
	Flags7     uint8
	Flags8     uint8
	Flags9     uint8
	Flags10    uint8
	Padding    [5]uint8
}

type MirroringMode int

const (
	MirroringHorizontal MirroringMode = iota
	MirroringVertical
	MirroringFourScreen
	MirroringSingleScreenA
	MirroringSingleScreenB
)

const (
	prgBankSize       = 16384
	chrBankSize       = 8192
	defaultCHRRAMSize = 8192
	mmc3CHRRAMSize    = 32768
	batteryPRGRAMSize = 32768 // several battery-backed boards need more than the nominal 8KB
	trainerSize       = 512
)

// LoadFromReader parses an iNES 1.0 image and constructs its mapper.
// iNES 2.0 images (identified by Flags7 bits 2-3) are rejected outright;
// their header layout beyond Flags6/Flags7 is incompatible with this one.
func LoadFromReader(reader io.Reader) (*Cartridge, error) {
	cart := &Cartridge{}

	if err := cart.readHeader(reader); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if string(cart.Header.Magic[:]) != "NES\x1A" {
		return nil, fmt.Errorf("invalid iNES magic number")
	}
	if cart.Header.Flags7&0x0C == 0x08 {
		return nil, fmt.Errorf("iNES 2.0 ROMs are not supported")
	}

	if cart.Header.Flags6&0x04 != 0 {
		if _, err := io.CopyN(io.Discard, reader, trainerSize); err != nil {
			return nil, fmt.Errorf("failed to read trainer: %w", err)
		}
	}

	cart.PRGROM = make([]uint8, int(cart.Header.PRGROMSize)*prgBankSize)
	if _, err := io.ReadFull(reader, cart.PRGROM); err != nil {
		return nil, fmt.Errorf("failed to read PRG ROM: %w", err)
	}

	mapperNumber := cart.mapperNumber()

	if chrSize := int(cart.Header.CHRROMSize) * chrBankSize; chrSize > 0 {
		cart.CHRROM = make([]uint8, chrSize)
		if _, err := io.ReadFull(reader, cart.CHRROM); err != nil {
			return nil, fmt.Errorf("failed to read CHR ROM: %w", err)
		}
	} else {
		cart.CHRRAM = make([]uint8, chrRAMSizeFor(mapperNumber))
	}

	if cart.Header.Flags6&0x02 != 0 {
		cart.PRGRAM = make([]uint8, batteryPRGRAMSize)
	}

	cart.Mirroring = mirroringFromFlags6(cart.Header.Flags6)

	var err error
	cart.Mapper, err = mapper.NewMapper(mapperNumber, &mapper.CartridgeData{
		PRGROM: cart.PRGROM,
		CHRROM: cart.CHRROM,
		PRGRAM: cart.PRGRAM,
		CHRRAM: cart.CHRRAM,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mapper: %w", err)
	}

	return cart, nil
}

// chrRAMSizeFor sizes CHR RAM for boards that ship none in the header:
// MMC3 (mapper 4) commonly expects 32KB, everything else gets the 8KB the
// PPU's pattern-table window actually addresses.
func chrRAMSizeFor(mapperNumber uint8) int {
	if mapperNumber == 4 {
		return mmc3CHRRAMSize
	}
	return defaultCHRRAMSize
}

func mirroringFromFlags6(flags6 uint8) MirroringMode {
	switch {
	case flags6&0x08 != 0:
		return MirroringFourScreen
	case flags6&0x01 != 0:
		return MirroringVertical
	default:
		return MirroringHorizontal
	}
}

func (c *Cartridge) mapperNumber() uint8 {
	return (c.Header.Flags6 >> 4) | (c.Header.Flags7 & 0xF0)
}

func (c *Cartridge) readHeader(reader io.Reader) error {
	raw := make([]uint8, 16)
	if _, err := io.ReadFull(reader, raw); err != nil {
		return err
	}
	copy(c.Header.Magic[:], raw[0:4])
	c.Header.PRGROMSize = raw[4]
	c.Header.CHRROMSize = raw[5]
	c.Header.Flags6 = raw[6]
	c.Header.Flags7 = raw[7]
	c.Header.Flags8 = raw[8]
	c.Header.Flags9 = raw[9]
	c.Header.Flags10 = raw[10]
	copy(c.Header.Padding[:], raw[11:16])
	return nil
}

func (c *Cartridge) ReadPRG(addr uint16) uint8 {
	if c.Mapper == nil {
		return 0
	}
	return c.Mapper.ReadPRG(addr)
}

func (c *Cartridge) WritePRG(addr uint16, value uint8) {
	if c.Mapper != nil {
		c.Mapper.WritePRG(addr, value)
	}
}

func (c *Cartridge) ReadCHR(addr uint16) uint8 {
	if c.Mapper == nil {
		return 0
	}
	return c.Mapper.ReadCHR(addr)
}

func (c *Cartridge) WriteCHR(addr uint16, value uint8) {
	if c.Mapper != nil {
		c.Mapper.WriteCHR(addr, value)
	}
}

func (c *Cartridge) Step() {
	if c.Mapper != nil {
		c.Mapper.Step()
	}
}

func (c *Cartridge) IsIRQPending() bool {
	return c.Mapper != nil && c.Mapper.IsIRQPending()
}

func (c *Cartridge) ClearIRQ() {
	if c.Mapper != nil {
		c.Mapper.ClearIRQ()
	}
}

// NotifyA12 forwards PPU address-line-12 transitions to mappers that derive
// IRQ timing from them (MMC3); every other mapper simply ignores this.
func (c *Cartridge) NotifyA12(chrAddr uint16, renderingEnabled bool) {
	if mmc3, ok := c.Mapper.(*mapper.Mapper4); ok {
		mmc3.NotifyA12(chrAddr, renderingEnabled)
	}
}

// GetMirroring reports the mirroring mode currently in effect. Mappers that
// can switch mirroring at runtime (MMC1, MMC3) take priority over the
// header's static setting.
func (c *Cartridge) GetMirroring() int {
	if dynamic, ok := c.Mapper.(interface{ GetMirroringMode() uint8 }); ok {
		return int(dynamic.GetMirroringMode())
	}
	if c.Mirroring == MirroringVertical {
		return 1
	}
	if c.Mirroring == MirroringFourScreen {
		return 2 // the PPU treats any unlisted mode as four-screen
	}
	return 0
}
