package colors

var swatches = []struct {
	emoji string
	color RGB
}{
	{"🟥", 0xDD2E44},
	{"🟧", 0xF4900C},
	{"🟨", 0xFDCB58},
	{"🟩", 0x78B159},
	{"🟦", 0x55ACEE},
	{"🟪", 0xAA8ED6},
	{"🟫", 0xC1694F},
	{"⬛", 0x31373D},
	{"⬜", 0xE6E7E8},
}

// Swatch returns the colored square emoji closest to c. Chat clients without
// colored message accents show it in front of the title.
func Swatch(c RGB) string {
	r, g, b := c.Components()

	best, bestDist := swatches[0].emoji, -1
	for _, s := range swatches {
		sr, sg, sb := s.color.Components()
		dr, dg, db := int(r)-int(sr), int(g)-int(sg), int(b)-int(sb)
		dist := dr*dr + dg*dg + db*db
		if bestDist < 0 || dist < bestDist {
			best, bestDist = s.emoji, dist
		}
	}
	return best
}
