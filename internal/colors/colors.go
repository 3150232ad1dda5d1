// Package colors maps team and constructor names to their display colors.
package colors

import (
	"fmt"
	"strings"
)

// RGB is a 24-bit color, 0xRRGGBB.
type RGB uint32

// Default is returned for empty or unknown team names.
const Default RGB = 0xFF5733

// Components splits the color into its channels.
func (c RGB) Components() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Hex formats the color as #RRGGBB.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%06X", uint32(c)&0xFFFFFF)
}

// TeamColor is one entry of the team table. Several names may share a color.
type TeamColor struct {
	Name  string
	Color RGB
}

// teams is scanned in order for partial matches, so the order decides which
// entry wins for short or ambiguous names.
var teams = []TeamColor{
	{"Red Bull", 0x0600EF},
	{"Ferrari", 0xDC0000},
	{"Mercedes", 0x00D2BE},
	{"McLaren", 0xFF8700},
	{"Aston Martin", 0x006F62},
	{"Alpine", 0x0090FF},
	{"Williams", 0x005AFF},
	{"AlphaTauri", 0x2B4562},
	{"Alfa Romeo", 0x900000},
	{"Haas F1 Team", 0xFFFFFF},
	{"Racing Point", 0xF596C8},
	{"Renault", 0xFFF500},
	{"Toro Rosso", 0x469BFF},
	{"Sauber", 0x9B0000},
	{"Force India", 0xFF5F0F},
	{"Manor Marussia", 0x6E0000},
	{"Lotus F1", 0x000000},
	{"Marussia", 0x6E0000},
	{"Caterham", 0x006C00},
	{"HRT", 0x686868},
	{"Virgin", 0x323232},
	{"Brawn", 0xF0F0F0},
	{"Honda", 0x006633},
	{"Super Aguri", 0xE20B00},
	{"BMW Sauber", 0x6CD3BF},
	{"Spyker", 0xF24013},
	{"Midland", 0x9E0000},
	{"Jordan", 0xF9CB46},
	{"Jaguar", 0x358C75},
	{"BAR", 0xFDB000},
	{"Arrows", 0xFF8000},
	{"Minardi", 0x000000},
	{"Prost", 0x00005F},
	{"Benetton", 0x00841F},
	{"Stewart", 0xFFFFFF},
	{"Tyrrell", 0x3A36DB},
	{"Footwork", 0xFF8000},
	{"Ligier", 0x00007D},
	{"Simtek", 0xFFFFFF},
	{"Larrousse", 0xFFFFFF},
	{"Brabham", 0x487890},
	{"Fondmetal", 0xFFFFFF},
	{"March", 0x8D0060},
	{"Forti", 0xFF7F00},
	{"Pacific", 0x006633},
	{"RB F1 Team", 0x0600EF},
	{"Racing Bulls", 0x0600EF},
	{"Haas", 0xFFFFFF},
	{"AlphaTauri RB", 0x0600EF},
}

// Teams returns a copy of the team table in resolution order.
func Teams() []TeamColor {
	out := make([]TeamColor, len(teams))
	copy(out, teams)
	return out
}

// Resolve returns the color for a team name. An exact match wins, then the
// first table entry that contains the name or is contained by it, ignoring
// case.
func Resolve(name string) RGB {
	if name == "" {
		return Default
	}

	for _, t := range teams {
		if t.Name == name {
			return t.Color
		}
	}

	lower := strings.ToLower(name)
	for _, t := range teams {
		team := strings.ToLower(t.Name)
		if strings.Contains(lower, team) || strings.Contains(team, lower) {
			return t.Color
		}
	}

	return Default
}
