package imageutil

// Synthetic frames for tests. They mimic hardsub rendering: bright glyph
// ink, a black outline and whatever background the test needs.

// CreateSolidImage creates a solid color image.
func CreateSolidImage(width, height int, c RGB) *RGBAImage {
	img := NewRGBAImage(width, height)
	img.Fill(c)
	return img
}

// FillRect paints the inclusive rectangle (x0, y0)-(x1, y1), clipped to the
// image.
func FillRect(img *RGBAImage, x0, y0, x1, y1 int, c RGB) {
	for y := max(y0, 0); y <= min(y1, img.Height()-1); y++ {
		for x := max(x0, 0); x <= min(x1, img.Width()-1); x++ {
			img.SetRGB(x, y, c)
		}
	}
}

// FillCircle paints a filled disc of radius r centred at (cx, cy).
func FillCircle(img *RGBAImage, cx, cy, r int, c RGB) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy > r*r {
				continue
			}
			if x >= 0 && y >= 0 && x < img.Width() && y < img.Height() {
				img.SetRGB(x, y, c)
			}
		}
	}
}

// OutlinedCircle paints a disc of ink colour surrounded by a ring of
// outline colour of the given thickness.
func OutlinedCircle(img *RGBAImage, cx, cy, r, thickness int, ink, outline RGB) {
	FillCircle(img, cx, cy, r+thickness, outline)
	FillCircle(img, cx, cy, r, ink)
}

// OutlinedRect paints an inclusive rectangle of ink colour surrounded by a
// frame of outline colour of the given thickness.
func OutlinedRect(img *RGBAImage, x0, y0, x1, y1, thickness int, ink, outline RGB) {
	FillRect(img, x0-thickness, y0-thickness, x1+thickness, y1+thickness, outline)
	FillRect(img, x0, y0, x1, y1, ink)
}

// MaskFrom returns a copy of img where every pixel that is not exactly bg
// keeps its colour and every bg pixel is black, which is what frame
// differencing against a bg-only frame would produce.
func MaskFrom(img *RGBAImage, bg RGB) *RGBAImage {
	mask := NewRGBAImage(img.Width(), img.Height())
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			if c := img.GetRGB(x, y); c != bg {
				mask.SetRGB(x, y, c)
			}
		}
	}
	return mask
}
