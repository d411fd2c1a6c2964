package imageutil

import (
	"image"

	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationNearest keeps every source pixel a crisp block.
	InterpolationNearest Interpolation = iota

	// InterpolationLinear uses bilinear interpolation.
	InterpolationLinear

	// InterpolationCatmullRom uses the Catmull-Rom kernel.
	InterpolationCatmullRom
)

func (interp Interpolation) scaler() draw.Scaler {
	switch interp {
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationCatmullRom:
		return draw.CatmullRom
	default:
		return draw.NearestNeighbor
	}
}

// Resize resizes an RGBA image to the specified dimensions using the
// given interpolation method.
func Resize(img *RGBAImage, width, height int, interp Interpolation) *RGBAImage {
	dst := NewRGBAImage(width, height)
	interp.scaler().Scale(dst.RGBA, image.Rect(0, 0, width, height), img.RGBA, img.Bounds(), draw.Src, nil)
	return dst
}

// Upscale enlarges img by an integer factor. Factors below 2 return img
// unchanged.
func Upscale(img *RGBAImage, factor int, interp Interpolation) *RGBAImage {
	if factor < 2 {
		return img
	}
	return Resize(img, img.Width()*factor, img.Height()*factor, interp)
}
