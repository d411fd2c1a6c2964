package subocr

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/subocr/subocr/imageutil"
)

// CharacterImage draws a character's shape with the template of its best
// reading's first glyph to the right of it, both on black.
func (r *Recognizer) CharacterImage(c Character) *imageutil.RGBAImage {
	tmpl := Shape{Bounds: EmptyBounds}
	if best, ok := c.Best(); ok {
		if ch, _ := utf8.DecodeRuneInString(best.Label); r.cache.Has(ch) {
			tmpl = r.cache.Templates(ch)[best.Shift]
		}
	}

	img := imageutil.NewRGBAImage(
		c.Shape.Width()+tmpl.Width(),
		max(c.Shape.Height(), tmpl.Height(), 1),
	)
	img.Fill(imageutil.Black)
	draw := func(s Shape, x0 int) {
		for y := 0; y < s.Height(); y++ {
			for x := 0; x < s.Width(); x++ {
				img.SetRGB(x0+x, y, imageutil.CoverageColor(s.At(x, y)))
			}
		}
	}
	draw(c.Shape, 0)
	draw(tmpl, c.Shape.Width())
	return img
}

// DumpCharacters writes one CharacterImage PNG per recognised character
// into dir, enlarged by scale with nearest-neighbour sampling.
func (r *Recognizer) DumpCharacters(res *Result, dir string, scale int) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for i, c := range res.Characters {
		name := fmt.Sprintf("char_%03d_%x.png", i, c.Label())
		img := imageutil.Upscale(r.CharacterImage(c), scale, imageutil.InterpolationNearest)
		if err := imageutil.SaveImage(img, filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("failed to save %s: %w", name, err)
		}
	}
	return nil
}
