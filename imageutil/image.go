// Package imageutil provides the pure Go raster plumbing used by the
// recognizer: colour classification, frame buffers, image codecs and frame
// differencing.
package imageutil

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrRasterSize is returned when a packed pixel buffer does not hold
// exactly width*height*3 bytes.
var ErrRasterSize = errors.New("imageutil: raster byte length mismatch")

// Black is the colour of untouched pixels in masks and debug output.
var Black = RGB{}

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// ToColor returns the opaque color.RGBA for rgb.
func (rgb RGB) ToColor() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// RGBAImage wraps image.RGBA with convenience methods for pixel access.
type RGBAImage struct {
	*image.RGBA
}

// NewRGBAImage creates a new RGBAImage with the specified dimensions.
func NewRGBAImage(width, height int) *RGBAImage {
	return &RGBAImage{
		RGBA: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// RGBAImageFromImage converts any image.Image to RGBAImage.
func RGBAImageFromImage(img image.Image) *RGBAImage {
	bounds := img.Bounds()
	rgba := NewRGBAImage(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rgba.Set(x-bounds.Min.X, y-bounds.Min.Y, img.At(x, y))
		}
	}
	return rgba
}

// Width returns the image width.
func (img *RGBAImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *RGBAImage) Height() int {
	return img.Bounds().Dy()
}

// GetRGB returns the RGB value at (x, y).
func (img *RGBAImage) GetRGB(x, y int) RGB {
	c := img.RGBAAt(x, y)
	return RGB{R: c.R, G: c.G, B: c.B}
}

// SetRGB sets the RGB value at (x, y).
func (img *RGBAImage) SetRGB(x, y int, c RGB) {
	img.SetRGBA(x, y, c.ToColor())
}

// Fill paints every pixel with c.
func (img *RGBAImage) Fill(c RGB) {
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			img.SetRGB(x, y, c)
		}
	}
}

// Clone creates a deep copy of the image.
func (img *RGBAImage) Clone() *RGBAImage {
	clone := NewRGBAImage(img.Width(), img.Height())
	copy(clone.Pix, img.Pix)
	return clone
}

// RGBBuffer is a packed, row-major raster with 3 bytes per pixel and no
// alpha, the layout produced by video decoders and binary PPM files.
type RGBBuffer struct {
	width  int
	height int
	pix    []byte
}

// NewRGBBuffer wraps pix as a width x height raster. The buffer is not
// copied. It fails with ErrRasterSize unless len(pix) == width*height*3.
func NewRGBBuffer(width, height int, pix []byte) (*RGBBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d",
			ErrRasterSize, width, height)
	}
	if want := width * height * 3; len(pix) != want {
		return nil, fmt.Errorf("%w: %dx%d needs %d bytes, got %d",
			ErrRasterSize, width, height, want, len(pix))
	}
	return &RGBBuffer{width: width, height: height, pix: pix}, nil
}

// NewBlankRGBBuffer allocates an all-black raster.
func NewBlankRGBBuffer(width, height int) *RGBBuffer {
	return &RGBBuffer{
		width:  width,
		height: height,
		pix:    make([]byte, width*height*3),
	}
}

// Width returns the raster width.
func (b *RGBBuffer) Width() int { return b.width }

// Height returns the raster height.
func (b *RGBBuffer) Height() int { return b.height }

// Pix returns the underlying packed bytes.
func (b *RGBBuffer) Pix() []byte { return b.pix }

// ByteIndex returns the offset of the red byte of (x, y).
func (b *RGBBuffer) ByteIndex(x, y int) int {
	return (y*b.width + x) * 3
}

// GetRGB returns the RGB value at (x, y).
func (b *RGBBuffer) GetRGB(x, y int) RGB {
	i := b.ByteIndex(x, y)
	return RGB{R: b.pix[i], G: b.pix[i+1], B: b.pix[i+2]}
}

// SetRGB sets the RGB value at (x, y).
func (b *RGBBuffer) SetRGB(x, y int, c RGB) {
	i := b.ByteIndex(x, y)
	b.pix[i], b.pix[i+1], b.pix[i+2] = c.R, c.G, c.B
}

// ToRGBA converts the buffer into an RGBAImage for encoding.
func (b *RGBBuffer) ToRGBA() *RGBAImage {
	img := NewRGBAImage(b.width, b.height)
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			img.SetRGB(x, y, b.GetRGB(x, y))
		}
	}
	return img
}
