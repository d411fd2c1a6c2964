package imageutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewRGBAImage(t *testing.T) {
	img := NewRGBAImage(100, 50)
	if img.Width() != 100 {
		t.Errorf("Expected width 100, got %d", img.Width())
	}
	if img.Height() != 50 {
		t.Errorf("Expected height 50, got %d", img.Height())
	}
	if got := img.GetRGB(3, 3); !got.IsBlack() {
		t.Errorf("New image should be black, got %v", got)
	}
}

func TestRGBAImageGetSetRGB(t *testing.T) {
	img := NewRGBAImage(10, 10)
	c := RGB{R: 100, G: 150, B: 200}
	img.SetRGB(5, 5, c)

	got := img.GetRGB(5, 5)
	if got != c {
		t.Errorf("Expected %v, got %v", c, got)
	}
}

func TestRGBAImageClone(t *testing.T) {
	img := NewRGBAImage(10, 10)
	img.SetRGB(5, 5, RGB{R: 255, G: 0, B: 0})

	clone := img.Clone()
	if clone.GetRGB(5, 5) != img.GetRGB(5, 5) {
		t.Error("Clone should have same pixel values")
	}

	// Modify clone, original should be unchanged
	clone.SetRGB(5, 5, RGB{R: 0, G: 255, B: 0})
	if img.GetRGB(5, 5).G != 0 {
		t.Error("Modifying clone should not affect original")
	}
}

func TestNewRGBBuffer(t *testing.T) {
	pix := make([]byte, 4*3*3)
	buf, err := NewRGBBuffer(4, 3, pix)
	if err != nil {
		t.Fatalf("NewRGBBuffer failed: %v", err)
	}
	buf.SetRGB(3, 2, RGB{R: 1, G: 2, B: 3})
	if got := buf.GetRGB(3, 2); got != (RGB{R: 1, G: 2, B: 3}) {
		t.Errorf("Expected {1 2 3}, got %v", got)
	}
	// Row-major, 3 bytes per pixel: (3,2) starts at (2*4+3)*3 = 33.
	if pix[33] != 1 || pix[34] != 2 || pix[35] != 3 {
		t.Errorf("Buffer layout is not row-major RGB: %v", pix[33:36])
	}
}

func TestNewRGBBufferRejectsWrongLength(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		length        int
	}{
		{"short", 4, 3, 35},
		{"long", 4, 3, 37},
		{"alpha", 4, 3, 48},
		{"zero width", 0, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRGBBuffer(tt.width, tt.height, make([]byte, tt.length))
			if !errors.Is(err, ErrRasterSize) {
				t.Errorf("Expected ErrRasterSize, got %v", err)
			}
		})
	}
}

func TestRGBBufferToRGBA(t *testing.T) {
	buf := NewBlankRGBBuffer(3, 2)
	buf.SetRGB(1, 1, RGB{R: 9, G: 8, B: 7})
	img := buf.ToRGBA()
	if img.Width() != 3 || img.Height() != 2 {
		t.Fatalf("Expected 3x2, got %dx%d", img.Width(), img.Height())
	}
	if got := img.GetRGB(1, 1); got != (RGB{R: 9, G: 8, B: 7}) {
		t.Errorf("Expected {9 8 7}, got %v", got)
	}
}

func TestLoadSaveRaster(t *testing.T) {
	tmpDir := t.TempDir()

	img := CreateSolidImage(16, 8, RGB{R: 10, G: 20, B: 30})
	FillCircle(img, 8, 4, 3, RGB{R: 250, G: 250, B: 250})

	for _, name := range []string{"frame.png", "frame.ppm"} {
		path := filepath.Join(tmpDir, name)
		if err := SaveRaster(img, path); err != nil {
			t.Fatalf("Failed to save %s: %v", name, err)
		}
		loaded, err := LoadRaster(path)
		if err != nil {
			t.Fatalf("Failed to load %s: %v", name, err)
		}
		if loaded.Width() != 16 || loaded.Height() != 8 {
			t.Fatalf("%s: expected 16x8, got %dx%d", name, loaded.Width(), loaded.Height())
		}
		for y := 0; y < 8; y++ {
			for x := 0; x < 16; x++ {
				if loaded.GetRGB(x, y) != img.GetRGB(x, y) {
					t.Fatalf("%s: pixel (%d,%d) = %v, want %v",
						name, x, y, loaded.GetRGB(x, y), img.GetRGB(x, y))
				}
			}
		}
	}
}

func TestLoadRasterMissingFile(t *testing.T) {
	if _, err := LoadRaster(filepath.Join(t.TempDir(), "nope.ppm")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestMaskFrom(t *testing.T) {
	bg := RGB{R: 40, G: 90, B: 40}
	img := CreateSolidImage(10, 10, bg)
	OutlinedRect(img, 4, 4, 5, 5, 1, RGB{R: 255, G: 255, B: 255}, Black)

	mask := MaskFrom(img, bg)
	if !mask.GetRGB(0, 0).IsBlack() {
		t.Error("Background should be masked to black")
	}
	if !mask.GetRGB(4, 4).IsNearlyWhite() {
		t.Error("Ink should survive masking")
	}
}

func TestUpscale(t *testing.T) {
	img := NewRGBAImage(2, 1)
	img.SetRGB(0, 0, RGB{R: 255, G: 255, B: 255})
	img.SetRGB(1, 0, Black)

	big := Upscale(img, 4, InterpolationNearest)
	if big.Width() != 8 || big.Height() != 4 {
		t.Fatalf("Expected 8x4, got %dx%d", big.Width(), big.Height())
	}
	if got := big.GetRGB(3, 3); got != (RGB{R: 255, G: 255, B: 255}) {
		t.Errorf("Expected white block, got %v", got)
	}
	if got := big.GetRGB(4, 0); got != Black {
		t.Errorf("Expected black block, got %v", got)
	}
	if Upscale(img, 1, InterpolationNearest) != img {
		t.Error("Factor 1 should return the input")
	}
}
