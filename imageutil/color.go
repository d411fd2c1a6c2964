package imageutil

// Lightness thresholds used to classify hardsub pixels. Subtitle glyphs are
// rendered bright white with a dark outline, so classification works on
// HSL lightness and saturation rather than on raw channels.
const (
	NearlyWhiteLightness   = 0.95
	CloselyWhiteLightness  = 0.80
	SomewhatWhiteLightness = 0.35
	SomewhatWhiteSat       = 0.20
	CloselyBlackLightness  = 0.20
	GreyishSat             = 0.25
)

// HSL converts the colour to hue, saturation and lightness, each in [0, 1].
func (rgb RGB) HSL() (h, s, l float64) {
	r := float64(rgb.R) / 255
	g := float64(rgb.G) / 255
	b := float64(rgb.B) / 255
	maxC := max(r, g, b)
	minC := min(r, g, b)
	l = (maxC + minC) / 2

	if maxC == minC {
		return 0, 0, l // achromatic
	}

	d := maxC - minC
	if l > 0.5 {
		s = d / (2 - maxC - minC)
	} else {
		s = d / (maxC + minC)
	}
	switch maxC {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h / 6, s, l
}

// Lightness returns the HSL lightness of the colour.
func (rgb RGB) Lightness() float64 {
	_, _, l := rgb.HSL()
	return l
}

// Saturation returns the HSL saturation of the colour.
func (rgb RGB) Saturation() float64 {
	_, s, _ := rgb.HSL()
	return s
}

// IsBlack reports whether the colour is exactly black, the value frame
// differencing writes for unchanged pixels.
func (rgb RGB) IsBlack() bool {
	return rgb == Black
}

// IsNearlyWhite reports whether the pixel can seed a glyph selection.
func (rgb RGB) IsNearlyWhite() bool {
	return rgb.Lightness() > NearlyWhiteLightness
}

// IsCloselyWhite reports whether the pixel is bright regardless of hue.
func (rgb RGB) IsCloselyWhite() bool {
	return rgb.Lightness() > CloselyWhiteLightness
}

// IsSomewhatWhite reports whether the pixel is bright or a light, washed
// out colour. Glyph selections grow through these pixels.
func (rgb RGB) IsSomewhatWhite() bool {
	_, s, l := rgb.HSL()
	return l > CloselyWhiteLightness ||
		(s < SomewhatWhiteSat && l > SomewhatWhiteLightness)
}

// IsGreyish reports whether the pixel is a low saturation tone that is not
// dark enough to count as outline. Anti-aliased glyph edges land here.
func (rgb RGB) IsGreyish() bool {
	_, s, l := rgb.HSL()
	return s < GreyishSat && l > CloselyBlackLightness
}

// IsCloselyBlack reports whether the pixel belongs to a dark glyph outline.
func (rgb RGB) IsCloselyBlack() bool {
	return rgb.Lightness() <= CloselyBlackLightness
}

// Coverage maps the colour to ink coverage in [0, 1]: the normalised mean
// of the three channels.
func (rgb RGB) Coverage() float32 {
	return (float32(rgb.R) + float32(rgb.G) + float32(rgb.B)) / (255 * 3)
}

// CoverageColor renders coverage back as a grey level.
func CoverageColor(c float32) RGB {
	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	v := uint8(255 * c)
	return RGB{R: v, G: v, B: v}
}
