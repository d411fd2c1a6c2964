// Package subocr reads burned-in subtitles from video frames without a
// trained model.
//
// A frame is paired with a change mask (the pixels that changed since the
// previous frame). Nearly white mask pixels seed a flood fill over the
// frame that collects each glyph as a blob; blobs touching colours that
// are neither white, grey nor black are treated as scenery and dropped.
// Blobs become coverage Shapes, detached dots are merged into their
// letters, and every shape is scored against rendered font templates at
// several sub-pixel shifts. Shapes that no single glyph explains well are
// split into prefix and suffix glyphs, which handles touching pairs such
// as "rn". Characters are finally grouped into lines with spaces inserted
// at wide gaps.
//
// Basic use:
//
//	cache, err := subocr.NewGlyphCache(subocr.DefaultRasterizer())
//	if err != nil {
//		return err
//	}
//	res, err := subocr.NewRecognizer(cache).Recognize(frame, mask)
//	if err != nil {
//		return err
//	}
//	fmt.Println(res.Text())
package subocr
