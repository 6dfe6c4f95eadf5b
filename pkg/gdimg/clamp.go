package gdimg

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAngle reports a rotation angle outside the open interval
// (-360, 360). Rotation is the one parameter that rejects instead of
// clamping: a wrapped-around angle has no canonical meaning here.
var ErrInvalidAngle = errors.New("rotation angle out of range")

// ErrInvalidDirection reports a flip direction other than x, y, xy or yx.
var ErrInvalidDirection = errors.New("invalid flip direction")

// FlipDirection names a flip axis combination.
type FlipDirection string

const (
	FlipX  FlipDirection = "x"
	FlipY  FlipDirection = "y"
	FlipXY FlipDirection = "xy"
	FlipYX FlipDirection = "yx"
)

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampBlurPasses keeps a blur pass count at 1 or more.
func ClampBlurPasses(passes int) int {
	if passes < 1 {
		return 1
	}
	return passes
}

// ClampBrightness keeps a brightness level within -255..255.
func ClampBrightness(level int) int { return clampInt(level, -255, 255) }

// ClampContrast keeps a contrast level within -100..100.
func ClampContrast(level int) int { return clampInt(level, -100, 100) }

// ClampSmooth keeps a smoothing pass count within 1..2048.
func ClampSmooth(passes int) int { return clampInt(passes, 1, 2048) }

// ClampPercent keeps a percentage within 0..100.
func ClampPercent(p int) int { return clampInt(p, 0, 100) }

// ClampOpacity normalizes an opacity value to a percentage in 0..100.
// Inputs of 1 or less are treated as a fraction and scaled by 100 first, so
// both 0.35 and 35 mean thirty-five percent.
func ClampOpacity(o float64) float64 {
	if o <= 1 {
		o *= 100
	}
	return clampFloat(o, 0, 100)
}

// CheckAngle validates a rotation angle, requiring -360 < angle < 360.
func CheckAngle(angle float64) error {
	if angle <= -360 || angle >= 360 {
		return fmt.Errorf("%w: %v is not within (-360, 360)", ErrInvalidAngle, angle)
	}
	return nil
}

// ParseDirection normalizes a flip direction, case-insensitively.
func ParseDirection(dir string) (FlipDirection, error) {
	switch d := FlipDirection(strings.ToLower(strings.TrimSpace(dir))); d {
	case FlipX, FlipY, FlipXY, FlipYX:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q (want x, y, xy or yx)", ErrInvalidDirection, dir)
	}
}
