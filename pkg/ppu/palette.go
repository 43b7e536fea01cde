package ppu

// masterPalette is the NES's fixed 64-entry RGB palette. The PPU itself only
// ever stores 6-bit indices into this table; actual RGB values are a
// property of the reference NTSC decoder the hardware was calibrated
// against, not of the console itself.
var masterPalette = [64][3]uint8{
	// 0x00-0x0F
	{0x80, 0x80, 0x80}, {0x00, 0x3D, 0xA6}, {0x00, 0x12, 0xB0}, {0x44, 0x00, 0x96},
	{0xA1, 0x00, 0x5E}, {0xC7, 0x00, 0x28}, {0xBA, 0x06, 0x00}, {0x8C, 0x17, 0x00},
	{0x5C, 0x2F, 0x00}, {0x10, 0x45, 0x00}, {0x05, 0x4A, 0x00}, {0x00, 0x47, 0x2E},
	{0x00, 0x41, 0x66}, {0x00, 0x00, 0x00}, {0x05, 0x05, 0x05}, {0x05, 0x05, 0x05},

	// 0x10-0x1F
	{0xC7, 0xC7, 0xC7}, {0x00, 0x77, 0xFF}, {0x21, 0x55, 0xFF}, {0x82, 0x37, 0xFA},
	{0xEB, 0x2F, 0xB5}, {0xFF, 0x29, 0x50}, {0xFF, 0x22, 0x00}, {0xD6, 0x32, 0x00},
	{0xC4, 0x62, 0x00}, {0x35, 0x80, 0x00}, {0x05, 0x8F, 0x00}, {0x00, 0x8A, 0x55},
	{0x00, 0x99, 0xCC}, {0x21, 0x21, 0x21}, {0x09, 0x09, 0x09}, {0x09, 0x09, 0x09},

	// 0x20-0x2F
	{0xFF, 0xFF, 0xFF}, {0x0F, 0xD7, 0xFF}, {0x69, 0xA2, 0xFF}, {0xD4, 0x80, 0xFF},
	{0xFF, 0x45, 0xF3}, {0xFF, 0x61, 0x8B}, {0xFF, 0x88, 0x33}, {0xFF, 0x9C, 0x12},
	{0xFA, 0xBC, 0x20}, {0x9F, 0xE3, 0x0E}, {0x2B, 0xF0, 0x35}, {0x0C, 0xF0, 0xA4},
	{0x05, 0xFB, 0xFF}, {0x5E, 0x5E, 0x5E}, {0x0D, 0x0D, 0x0D}, {0x0D, 0x0D, 0x0D},

	// 0x30-0x3F
	{0xFF, 0xFF, 0xFF}, {0xA6, 0xFC, 0xFF}, {0xB3, 0xEC, 0xFF}, {0xDA, 0xAB, 0xEB},
	{0xFF, 0xA8, 0xF9}, {0xFF, 0xAB, 0xB3}, {0xFF, 0xD2, 0xB0}, {0xFF, 0xEF, 0xA6},
	{0xFF, 0xF7, 0x9C}, {0xD7, 0xFF, 0xB3}, {0xC6, 0xFF, 0xDE}, {0xC4, 0xFF, 0xF6},
	{0xC4, 0xF0, 0xFF}, {0xCC, 0xCC, 0xCC}, {0x3C, 0x3C, 0x3C}, {0x3C, 0x3C, 0x3C},
}

// backdropMirror maps the four sprite-backdrop palette slots onto the
// background backdrop slot they're wired to on real hardware.
var backdropMirror = map[uint8]uint8{0x10: 0x00, 0x14: 0x04, 0x18: 0x08, 0x1C: 0x0C}

// PaletteManager holds the PPU's 32-byte palette RAM and the color-emphasis
// bits from PPUMASK, and converts indices into this RAM into ARGB pixels.
type PaletteManager struct {
	RAM      [32]uint8
	Emphasis uint8 // bits 5-7 of PPUMASK
}

// NewPaletteManager builds a palette manager. Palette RAM content is not
// defined by the hardware at power-on; it starts zeroed until the game
// writes its own palettes during boot.
func NewPaletteManager() *PaletteManager {
	return &PaletteManager{}
}

func resolveBackdropMirror(addr uint8) uint8 {
	if real, mirrored := backdropMirror[addr]; mirrored {
		return real
	}
	return addr
}

func (pm *PaletteManager) ReadPalette(addr uint8) uint8 {
	return pm.RAM[resolveBackdropMirror(addr&0x1F)]
}

func (pm *PaletteManager) WritePalette(addr uint8, value uint8) {
	pm.RAM[resolveBackdropMirror(addr&0x1F)] = value & 0x3F
}

// GetBackgroundColor resolves a background tile's (palette, colorIndex)
// pair to an ARGB pixel. Color index 0 in every background palette aliases
// the single universal backdrop color.
func (pm *PaletteManager) GetBackgroundColor(palette, colorIndex uint8) uint32 {
	if palette > 3 || colorIndex > 3 {
		return 0xFF000000
	}
	addr := palette*4 + colorIndex
	if colorIndex == 0 {
		addr = 0
	}
	return pm.resolveColor(pm.ReadPalette(addr))
}

// GetSpriteColor resolves a sprite tile's (palette, colorIndex) pair.
// Sprite color index 0 is always transparent rather than a backdrop color.
func (pm *PaletteManager) GetSpriteColor(palette, colorIndex uint8) uint32 {
	if palette > 3 || colorIndex > 3 || colorIndex == 0 {
		return 0x00000000
	}
	addr := 0x10 + palette*4 + colorIndex
	return pm.resolveColor(pm.ReadPalette(addr))
}

func (pm *PaletteManager) resolveColor(paletteIndex uint8) uint32 {
	if paletteIndex >= 64 {
		paletteIndex = 0
	}
	rgb := masterPalette[paletteIndex]
	r, g, b := rgb[0], rgb[1], rgb[2]
	if pm.Emphasis != 0 {
		r, g, b = dimUnemphasized(r, g, b, pm.Emphasis)
	}
	return 0xFF000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// dimUnemphasized approximates the NTSC PPU's color-emphasis behavior:
// channels not selected by bits 5-7 of PPUMASK are attenuated.
func dimUnemphasized(r, g, b, emphasis uint8) (uint8, uint8, uint8) {
	if emphasis&0x20 == 0 {
		r = uint8(float32(r) * 0.75)
	}
	if emphasis&0x40 == 0 {
		g = uint8(float32(g) * 0.75)
	}
	if emphasis&0x80 == 0 {
		b = uint8(float32(b) * 0.75)
	}
	return r, g, b
}

func (pm *PaletteManager) SetEmphasis(emphasis uint8) {
	pm.Emphasis = emphasis & 0xE0
}

// GetPaletteDebugInfo renders every background and sprite color currently
// in palette RAM, for the ROM-inspection tools.
func (pm *PaletteManager) GetPaletteDebugInfo() map[string]interface{} {
	resolveAll := func(get func(uint8, uint8) uint32) [][]uint32 {
		out := make([][]uint32, 4)
		for palette := range out {
			out[palette] = make([]uint32, 4)
			for color := range out[palette] {
				out[palette][color] = get(uint8(palette), uint8(color))
			}
		}
		return out
	}

	return map[string]interface{}{
		"background_palettes": resolveAll(pm.GetBackgroundColor),
		"sprite_palettes":      resolveAll(pm.GetSpriteColor),
		"emphasis":             pm.Emphasis,
		"palette_ram":          pm.RAM,
	}
}
