package mapper

// Shared ROM fixtures for the mapper test files. Each is filled with a
// repeating byte-index pattern so a test can tell which offset it read back
// from. The two PRG fixtures also carry a reset vector pointing at $8000 in
// their last two bytes, so a mapper under test looks like a bootable
// cartridge if something exercises that path.
var (
	testPRGROM16KB = patternROM(16 * 1024)
	testPRGROM32KB = patternROM(32 * 1024)
	testCHRROM8KB  = patternROM(8 * 1024)
	testCHRROM32KB = patternROM(32 * 1024)
)

func patternROM(size int) []uint8 {
	rom := make([]uint8, size)
	for i := range rom {
		rom[i] = uint8(i)
	}
	return rom
}

func init() {
	setResetVector(testPRGROM16KB)
	setResetVector(testPRGROM32KB)
}

// setResetVector writes $8000 into the last two bytes of a PRG ROM image,
// the $FFFC/$FFFD slot the real hardware reset sequence reads from.
func setResetVector(rom []uint8) {
	if len(rom) < 2 {
		return
	}
	rom[len(rom)-2] = 0x00
	rom[len(rom)-1] = 0x80
}
