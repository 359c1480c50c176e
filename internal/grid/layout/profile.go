package layout

// BuildProfile derives the display profile from the container width and
// the width consumed by fixed chrome (selection gutter, borders).
// The effective width never goes negative; a degenerate container still
// yields a usable narrow profile.
func BuildProfile(totalWidth, chromeWidth int, t Tuning) Profile {
	effective := totalWidth - chromeWidth
	if effective < 0 {
		effective = 0
	}

	tier := TierWide
	switch {
	case totalWidth < t.NarrowBelow:
		tier = TierNarrow
	case totalWidth < t.MediumBelow:
		tier = TierMedium
	}

	return Profile{
		Tier:           tier,
		TotalWidth:     totalWidth,
		EffectiveWidth: effective,
	}
}
