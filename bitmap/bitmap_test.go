package bitmap

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/frayproject/fray/types"
)

func TestPixelAccess(t *testing.T) {
	b := New(4, 3)
	if !b.OK() {
		t.Fatal("fresh bitmap not OK")
	}
	b.SetPixel(2, 1, types.RGB(0.5, 0.25, 1))
	if got := b.GetPixel(2, 1); got != types.RGB(0.5, 0.25, 1) {
		t.Fatalf("pixel round trip: got %v", got)
	}

	// out of range access must be harmless
	b.SetPixel(-1, 0, types.RGB(1, 1, 1))
	b.SetPixel(4, 0, types.RGB(1, 1, 1))
	if got := b.GetPixel(9, 9); !got.IsBlack() {
		t.Fatalf("out-of-range pixel: got %v", got)
	}
}

func TestDifferentiate(t *testing.T) {
	b := New(3, 3)
	// a horizontal intensity ramp: 0, 1, 2 across each row
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			v := float32(x)
			b.SetPixel(x, y, types.RGB(v, v, v))
		}
	}
	b.Differentiate()

	// interior pixels: dx = I(x) - I(x+1) = -1, dy = 0
	got := b.GetPixel(0, 1)
	if math.Abs(float64(got[0]+1)) > 1e-6 || math.Abs(float64(got[1])) > 1e-6 {
		t.Fatalf("differentiated interior pixel: got %v", got)
	}

	// last column wraps around: dx = I(2) - I(0) = 2
	got = b.GetPixel(2, 1)
	if math.Abs(float64(got[0]-2)) > 1e-6 {
		t.Fatalf("wraparound pixel: got %v", got)
	}
}

func TestBMPSaveLoadRoundTrip(t *testing.T) {
	b := New(8, 4)
	b.SetPixel(3, 2, types.RGB(1, 0.5, 0))
	b.SetPixel(0, 0, types.RGB(0, 0, 1))

	path := filepath.Join(t.TempDir(), "out.bmp")
	if err := Save(path, b); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Width() != 8 || loaded.Height() != 4 {
		t.Fatalf("dimensions: %dx%d", loaded.Width(), loaded.Height())
	}
	got := loaded.GetPixel(3, 2)
	if math.Abs(float64(got[0]-1)) > 0.01 || math.Abs(float64(got[1]-0.5)) > 0.01 || math.Abs(float64(got[2])) > 0.01 {
		t.Fatalf("pixel after LDR round trip: got %v", got)
	}
}

func TestHDRSaveLoadRoundTrip(t *testing.T) {
	b := New(4, 4)
	b.SetPixel(1, 1, types.RGB(12.5, 0.25, 3))

	path := filepath.Join(t.TempDir(), "out.hdr")
	if err := Save(path, b); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	got := loaded.GetPixel(1, 1)
	// RGBE has a shared exponent, allow a coarse tolerance
	if math.Abs(float64(got[0]-12.5)) > 0.2 || math.Abs(float64(got[2]-3)) > 0.1 {
		t.Fatalf("pixel after HDR round trip: got %v", got)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := Load("scene.txt"); err == nil {
		t.Fatal("expected an error for an unknown extension")
	}
	if err := Save(filepath.Join(t.TempDir(), "x.gif"), New(1, 1)); err == nil {
		t.Fatal("expected an error for an unknown extension")
	}
}
