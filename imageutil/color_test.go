package imageutil

import (
	"math"
	"testing"
)

func TestHSL(t *testing.T) {
	tests := []struct {
		name    string
		c       RGB
		h, s, l float64
	}{
		{"black", RGB{0, 0, 0}, 0, 0, 0},
		{"white", RGB{255, 255, 255}, 0, 0, 1},
		{"red", RGB{255, 0, 0}, 0, 1, 0.5},
		{"green", RGB{0, 255, 0}, 1.0 / 3, 1, 0.5},
		{"blue", RGB{0, 0, 255}, 2.0 / 3, 1, 0.5},
		{"grey", RGB{128, 128, 128}, 0, 0, 128.0 / 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, l := tt.c.HSL()
			if math.Abs(h-tt.h) > 1e-9 || math.Abs(s-tt.s) > 1e-9 || math.Abs(l-tt.l) > 1e-9 {
				t.Errorf("HSL(%v) = (%f, %f, %f), want (%f, %f, %f)",
					tt.c, h, s, l, tt.h, tt.s, tt.l)
			}
		})
	}
}

func TestPixelClassification(t *testing.T) {
	tests := []struct {
		name                                  string
		c                                     RGB
		nearly, closely, somewhat, grey, dark bool
	}{
		{"pure white", RGB{255, 255, 255}, true, true, true, true, false},
		{"off white", RGB{230, 230, 230}, false, true, true, true, false},
		{"anti-aliased edge", RGB{120, 120, 120}, false, false, true, true, false},
		{"dark grey", RGB{70, 70, 70}, false, false, false, true, false},
		{"outline", RGB{20, 20, 20}, false, false, false, false, true},
		{"black", RGB{0, 0, 0}, false, false, false, false, true},
		{"saturated red", RGB{200, 40, 40}, false, false, false, false, false},
		{"pale yellow", RGB{255, 255, 180}, false, true, true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.IsNearlyWhite(); got != tt.nearly {
				t.Errorf("IsNearlyWhite(%v) = %v, want %v", tt.c, got, tt.nearly)
			}
			if got := tt.c.IsCloselyWhite(); got != tt.closely {
				t.Errorf("IsCloselyWhite(%v) = %v, want %v", tt.c, got, tt.closely)
			}
			if got := tt.c.IsSomewhatWhite(); got != tt.somewhat {
				t.Errorf("IsSomewhatWhite(%v) = %v, want %v", tt.c, got, tt.somewhat)
			}
			if got := tt.c.IsGreyish(); got != tt.grey {
				t.Errorf("IsGreyish(%v) = %v, want %v", tt.c, got, tt.grey)
			}
			if got := tt.c.IsCloselyBlack(); got != tt.dark {
				t.Errorf("IsCloselyBlack(%v) = %v, want %v", tt.c, got, tt.dark)
			}
		})
	}
}

func TestCoverage(t *testing.T) {
	if got := (RGB{255, 255, 255}).Coverage(); got != 1 {
		t.Errorf("White coverage should be 1, got %f", got)
	}
	if got := Black.Coverage(); got != 0 {
		t.Errorf("Black coverage should be 0, got %f", got)
	}
	if got := (RGB{255, 0, 0}).Coverage(); math.Abs(float64(got)-1.0/3) > 1e-6 {
		t.Errorf("Red coverage should be 1/3, got %f", got)
	}
	if got := CoverageColor(1); got != (RGB{255, 255, 255}) {
		t.Errorf("CoverageColor(1) should be white, got %v", got)
	}
	if got := CoverageColor(-3); got != Black {
		t.Errorf("CoverageColor should clamp to black, got %v", got)
	}
}
