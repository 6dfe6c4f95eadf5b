package gdimg

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ErrInvalidColorFormat reports a color value whose shape is wrong: a hex
// string that is not exactly six hex digits, a component slice that is not
// 3 or 4 elements long, or an unsupported input type.
var ErrInvalidColorFormat = errors.New("invalid color format")

// ErrInvalidColorComponent reports a color component outside its legal
// range: 0..255 for red/green/blue, 0..127 for alpha.
var ErrInvalidColorComponent = errors.New("color component out of range")

// ColorSpec is a validated RGBA color in the GD alpha domain: R, G, B in
// 0..255 and A in 0..127 where 0 is opaque.
type ColorSpec struct {
	R uint8
	G uint8
	B uint8
	A uint8
}

// NRGBA converts the color to the standard 8-bit straight alpha model.
func (c ColorSpec) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: toStdAlpha(c.A)}
}

// NormalizeColor parses a color given as a hex string ("#RRGGBB" or
// "RRGGBB", exactly six hex digits, alpha defaulting to opaque), as a slice
// of 3 or 4 integers (r, g, b[, a]), or as an existing ColorSpec. The shape
// of the input is validated strictly: wrong string length or slice arity
// fails with ErrInvalidColorFormat, and an out-of-range component fails
// with ErrInvalidColorComponent. Nothing is clamped.
func NormalizeColor(v any) (ColorSpec, error) {
	switch in := v.(type) {
	case string:
		return parseHexColor(in)
	case []int:
		return colorFromComponents(in)
	case ColorSpec:
		if in.A > alphaTransparent {
			return ColorSpec{}, fmt.Errorf("%w: alpha %d exceeds 127", ErrInvalidColorComponent, in.A)
		}
		return in, nil
	default:
		return ColorSpec{}, fmt.Errorf("%w: unsupported value of type %T", ErrInvalidColorFormat, v)
	}
}

func parseHexColor(s string) (ColorSpec, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return ColorSpec{}, fmt.Errorf("%w: %q is not a 6-digit hex color", ErrInvalidColorFormat, s)
	}
	var out ColorSpec
	for i, dst := range []*uint8{&out.R, &out.G, &out.B} {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return ColorSpec{}, fmt.Errorf("%w: %q is not a 6-digit hex color", ErrInvalidColorFormat, s)
		}
		*dst = uint8(v)
	}
	out.A = alphaOpaque
	return out, nil
}

func colorFromComponents(parts []int) (ColorSpec, error) {
	if len(parts) != 3 && len(parts) != 4 {
		return ColorSpec{}, fmt.Errorf("%w: expected 3 or 4 components, got %d", ErrInvalidColorFormat, len(parts))
	}
	for i, p := range parts[:3] {
		if p < 0 || p > 255 {
			return ColorSpec{}, fmt.Errorf("%w: component %d is %d, want 0..255", ErrInvalidColorComponent, i, p)
		}
	}
	a := 0
	if len(parts) == 4 {
		a = parts[3]
		if a < 0 || a > alphaTransparent {
			return ColorSpec{}, fmt.Errorf("%w: alpha is %d, want 0..127", ErrInvalidColorComponent, a)
		}
	}
	return ColorSpec{R: uint8(parts[0]), G: uint8(parts[1]), B: uint8(parts[2]), A: uint8(a)}, nil
}
