package imageutil

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
)

// Raster is read access to an RGB frame. Both RGBAImage and RGBBuffer
// implement it.
type Raster interface {
	Width() int
	Height() int
	GetRGB(x, y int) RGB
}

// LoadRaster loads a frame from the specified path. Binary PPM files are
// decoded into a packed RGBBuffer; PNG, JPEG, GIF, BMP and TIFF go
// through the image package.
func LoadRaster(path string) (Raster, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".ppm" || ext == ".pnm" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open image: %w", err)
		}
		defer f.Close()

		buf, err := DecodePPM(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		return buf, nil
	}
	return LoadImage(path)
}

// LoadImage loads an image from the specified path.
// Supports PNG, JPEG, GIF, BMP and TIFF formats.
func LoadImage(path string) (*RGBAImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return RGBAImageFromImage(img), nil
}

// SaveRaster saves a raster to the specified path. Format is determined by
// file extension (ppm, png, jpg/jpeg, gif).
func SaveRaster(img Raster, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".ppm" || ext == ".pnm" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		return writeAndClose(f, func(w io.Writer) error {
			return EncodePPM(w, img)
		})
	}

	switch v := img.(type) {
	case *RGBAImage:
		return SaveImage(v.RGBA, path)
	case *RGBBuffer:
		return SaveImage(v.ToRGBA().RGBA, path)
	}
	out := NewRGBAImage(img.Width(), img.Height())
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			out.SetRGB(x, y, img.GetRGB(x, y))
		}
	}
	return SaveImage(out.RGBA, path)
}

// SaveImage saves an image to the specified path.
// Format is determined by file extension (png, jpg/jpeg, gif).
func SaveImage(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	return writeAndClose(f, func(w io.Writer) error {
		switch ext {
		case ".jpg", ".jpeg":
			return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
		case ".gif":
			return gif.Encode(w, img, nil)
		default:
			// PNG for .png and anything unknown
			return png.Encode(w, img)
		}
	})
}

// writeAndClose runs encode against wc and closes it, reporting the
// encode error first and the close error otherwise.
func writeAndClose(wc io.WriteCloser, encode func(io.Writer) error) error {
	if err := encode(wc); err != nil {
		wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}
