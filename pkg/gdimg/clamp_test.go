package gdimg

import (
	"errors"
	"testing"
)

func TestClampBlurPasses(t *testing.T) {
	for in, want := range map[int]int{-5: 1, 0: 1, 1: 1, 3: 3, 100: 100} {
		if got := ClampBlurPasses(in); got != want {
			t.Fatalf("ClampBlurPasses(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestClampBrightness(t *testing.T) {
	for in, want := range map[int]int{-500: -255, -255: -255, 0: 0, 255: 255, 500: 255} {
		if got := ClampBrightness(in); got != want {
			t.Fatalf("ClampBrightness(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestClampContrast(t *testing.T) {
	if got := ClampContrast(-500); got != -100 {
		t.Fatalf("ClampContrast(-500) = %d", got)
	}
	if got := ClampContrast(500); got != 100 {
		t.Fatalf("ClampContrast(500) = %d", got)
	}
	if got := ClampContrast(42); got != 42 {
		t.Fatalf("ClampContrast(42) = %d", got)
	}
}

func TestClampSmooth(t *testing.T) {
	for in, want := range map[int]int{0: 1, -3: 1, 1: 1, 7: 7, 5000: 2048} {
		if got := ClampSmooth(in); got != want {
			t.Fatalf("ClampSmooth(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestClampPercent(t *testing.T) {
	for in, want := range map[int]int{-1: 0, 0: 0, 50: 50, 100: 100, 101: 100} {
		if got := ClampPercent(in); got != want {
			t.Fatalf("ClampPercent(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestClampOpacityRatioForm(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0.25, 25},
		{0.5, 50},
		{1, 100},
		{50, 50},
		{150, 100},
		{-0.5, 0},
		{-20, 0},
		{0, 0},
	}
	for _, tc := range cases {
		if got := ClampOpacity(tc.in); got != tc.want {
			t.Fatalf("ClampOpacity(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCheckAngle(t *testing.T) {
	for _, ok := range []float64{0, 90, -90, 359.9, -359.9, 45.5} {
		if err := CheckAngle(ok); err != nil {
			t.Fatalf("CheckAngle(%v) rejected: %v", ok, err)
		}
	}
	for _, bad := range []float64{360, -360, 720, -450} {
		if err := CheckAngle(bad); !errors.Is(err, ErrInvalidAngle) {
			t.Fatalf("CheckAngle(%v): got %v, want angle error", bad, err)
		}
	}
}

func TestParseDirection(t *testing.T) {
	cases := map[string]FlipDirection{
		"x":   FlipX,
		"X":   FlipX,
		"y":   FlipY,
		" Y ": FlipY,
		"xy":  FlipXY,
		"YX":  FlipYX,
	}
	for in, want := range cases {
		got, err := ParseDirection(in)
		if err != nil || got != want {
			t.Fatalf("ParseDirection(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseDirection("diagonal"); !errors.Is(err, ErrInvalidDirection) {
		t.Fatalf("expected direction error, got %v", err)
	}
}
