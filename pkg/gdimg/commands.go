// Package gdimg: authoritative registry of engine commands.
//
// This file holds the command list and the string dispatcher that maps a
// command name plus textual args onto the engine. Keep the two in sync
// so callers (CLI, docs, help text) can read a single source of truth.

package gdimg

import (
	"fmt"
	"image"
	"os"
	"strconv"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ArgSpec describes a single argument for a command. Fields are textual
// and intended for help/validation UI rather than machine-enforced typing.
type ArgSpec struct {
	Name        string // human name
	Type        string // "int", "float", "string", "enum", "path", "color"
	Required    bool
	Default     string // textual default (for help only)
	Description string
}

// CommandSpec defines a single command and its expected arguments.
type CommandSpec struct {
	Name        string
	Args        []ArgSpec
	Usage       string // short usage string
	Description string // brief description
}

// Commands is the authoritative list of commands the engine dispatches.
var Commands = []CommandSpec{
	{
		Name:        "grayscale",
		Usage:       "grayscale",
		Description: "Convert to grayscale using Rec.601 luma weights.",
	},
	{
		Name:        "sepia",
		Usage:       "sepia",
		Description: "Grayscale followed by a warm colorize pass.",
	},
	{
		Name:        "invert",
		Usage:       "invert",
		Description: "Negate the color channels; alpha is kept.",
	},
	{
		Name:        "emboss",
		Usage:       "emboss",
		Description: "Emboss convolution.",
	},
	{
		Name:        "edges",
		Usage:       "edges",
		Description: "Edge-detect convolution.",
	},
	{
		Name:        "meanremove",
		Usage:       "meanremove",
		Description: "Mean-removal convolution (sharpening).",
	},
	{
		Name:        "sharpen",
		Usage:       "sharpen",
		Description: "Sharpen the image.",
	},
	{
		Name:        "sobel",
		Usage:       "sobel",
		Description: "Replace the image with its Sobel gradient.",
	},
	{
		Name:        "pixelate",
		Args:        []ArgSpec{{"block", "int", true, "", "block size in pixels"}},
		Usage:       "pixelate <block>",
		Description: "Average the image over square blocks.",
	},
	{
		Name: "blur",
		Args: []ArgSpec{
			{"type", "enum", true, "", "selective or gaussian"},
			{"passes", "int", true, "", "number of passes, min 1"},
		},
		Usage:       "blur <type> <passes>",
		Description: "Blur the image; each pass is applied independently.",
	},
	{
		Name:        "boxblur",
		Args:        []ArgSpec{{"radius", "int", true, "", "box radius"}},
		Usage:       "boxblur <radius>",
		Description: "Single box blur of the given radius.",
	},
	{
		Name:        "smooth",
		Args:        []ArgSpec{{"passes", "int", true, "", "passes, clamped to 1..2048"}},
		Usage:       "smooth <passes>",
		Description: "Weighted smoothing convolution.",
	},
	{
		Name:        "brightness",
		Args:        []ArgSpec{{"level", "int", true, "", "additive level, clamped to -255..255"}},
		Usage:       "brightness <level>",
		Description: "Shift all color channels by level.",
	},
	{
		Name:        "contrast",
		Args:        []ArgSpec{{"level", "int", true, "", "level, clamped to -100..100"}},
		Usage:       "contrast <level>",
		Description: "Adjust contrast; positive levels flatten toward gray.",
	},
	{
		Name:        "gamma",
		Args:        []ArgSpec{{"value", "float", true, "", "gamma, 1.0 is identity"}},
		Usage:       "gamma <value>",
		Description: "Gamma correction.",
	},
	{
		Name:        "saturation",
		Args:        []ArgSpec{{"level", "int", true, "", "level, clamped to -100..100"}},
		Usage:       "saturation <level>",
		Description: "Adjust color saturation.",
	},
	{
		Name:        "hue",
		Args:        []ArgSpec{{"degrees", "int", true, "", "hue rotation in degrees"}},
		Usage:       "hue <degrees>",
		Description: "Rotate the hue wheel.",
	},
	{
		Name: "colorize",
		Args: []ArgSpec{
			{"color", "color", true, "", "hex color like #rrggbb"},
			{"opacity", "percent", true, "", "0..100, or a 0..1 ratio"},
		},
		Usage:       "colorize <color> <opacity>",
		Description: "Tint the image toward a color at the given strength.",
	},
	{
		Name:        "desaturate",
		Args:        []ArgSpec{{"percent", "percent", true, "", "0..100, 100 is full grayscale"}},
		Usage:       "desaturate <percent>",
		Description: "Fade the image toward grayscale.",
	},
	{
		Name:        "opacity",
		Args:        []ArgSpec{{"value", "percent", true, "", "0..100, or a 0..1 ratio"}},
		Usage:       "opacity <value>",
		Description: "Re-blend the image at reduced opacity onto a clear canvas.",
	},
	{
		Name:        "fill",
		Args:        []ArgSpec{{"color", "color", true, "", "hex color like #rrggbb"}},
		Usage:       "fill <color>",
		Description: "Flood the whole canvas with one color.",
	},
	{
		Name:        "flip",
		Args:        []ArgSpec{{"direction", "enum", true, "", "x, y, xy or yx"}},
		Usage:       "flip <direction>",
		Description: "Mirror across an axis, or both.",
	},
	{
		Name: "rotate",
		Args: []ArgSpec{
			{"degrees", "float", true, "", "clockwise degrees, exclusive -360..360"},
			{"bgcolor", "color", false, "#000000", "background fill for exposed corners"},
		},
		Usage:       "rotate <degrees> [bgcolor]",
		Description: "Rotate onto a larger canvas; corners fill with bgcolor.",
	},
	{
		Name: "resize",
		Args: []ArgSpec{
			{"width", "int", true, "", "output width"},
			{"height", "int", true, "", "output height"},
		},
		Usage:       "resize <width> <height>",
		Description: "Resample to an exact size using Lanczos.",
	},
	{
		Name:        "fitwidth",
		Args:        []ArgSpec{{"width", "int", true, "", "output width"}},
		Usage:       "fitwidth <width>",
		Description: "Scale to a width, keeping aspect ratio.",
	},
	{
		Name:        "fitheight",
		Args:        []ArgSpec{{"height", "int", true, "", "output height"}},
		Usage:       "fitheight <height>",
		Description: "Scale to a height, keeping aspect ratio.",
	},
	{
		Name: "bestfit",
		Args: []ArgSpec{
			{"maxwidth", "int", true, "", "bounding width"},
			{"maxheight", "int", true, "", "bounding height"},
		},
		Usage:       "bestfit <maxwidth> <maxheight>",
		Description: "Shrink proportionally to fit inside a box; never grows.",
	},
	{
		Name: "thumbnail",
		Args: []ArgSpec{
			{"width", "int", true, "", "output width"},
			{"height", "int", false, "0", "output height, 0 for square"},
		},
		Usage:       "thumbnail <width> [height]",
		Description: "Centered crop-to-cover at an exact size.",
	},
	{
		Name: "crop",
		Args: []ArgSpec{
			{"x1", "int", true, "", "first corner x"},
			{"y1", "int", true, "", "first corner y"},
			{"x2", "int", true, "", "second corner x"},
			{"y2", "int", true, "", "second corner y"},
		},
		Usage:       "crop <x1> <y1> <x2> <y2>",
		Description: "Cut the rectangle spanned by two corners.",
	},
	{
		Name:        "squarecrop",
		Usage:       "squarecrop",
		Description: "Cut the largest centered square.",
	},
	{
		Name: "overlay",
		Args: []ArgSpec{
			{"path", "path", true, "", "image file to blend on top"},
			{"position", "enum", false, "center", "named anchor, e.g. top left"},
			{"opacity", "percent", false, "100", "0..100, or a 0..1 ratio"},
			{"xoffset", "int", false, "0", "horizontal nudge in pixels"},
			{"yoffset", "int", false, "0", "vertical nudge in pixels"},
		},
		Usage:       "overlay <path> [position] [opacity] [xoffset] [yoffset]",
		Description: "Blend another image onto the canvas.",
	},
	{
		Name: "text",
		Args: []ArgSpec{
			{"text", "string", true, "", "string to draw"},
			{"fontpath", "path", false, "", "TTF/OTF file, omit for built-in font"},
			{"size", "float", true, "", "point size for loaded fonts"},
			{"x", "int", true, "", "baseline origin x"},
			{"y", "int", true, "", "baseline origin y"},
			{"color", "color", true, "", "hex color like #rrggbb"},
		},
		Usage:       "text <text> [fontpath] <size> <x> <y> <color>",
		Description: "Draw a string onto the image.",
	},
	{
		Name:        "dilate",
		Args:        []ArgSpec{{"radius", "int", false, "1", "morphology radius"}},
		Usage:       "dilate [radius]",
		Description: "Grow bright regions.",
	},
	{
		Name:        "erode",
		Args:        []ArgSpec{{"radius", "int", false, "1", "morphology radius"}},
		Usage:       "erode [radius]",
		Description: "Shrink bright regions.",
	},
	{
		Name:        "palette",
		Args:        []ArgSpec{{"count", "int", false, "5", "number of colors"}},
		Usage:       "palette [count]",
		Description: "Report the dominant colors (info only, image unchanged).",
	},
	{
		Name:        "histogram",
		Usage:       "histogram",
		Description: "Report per-channel histogram stats (info only, image unchanged).",
	},
	{
		Name:        "identify",
		Usage:       "identify",
		Description: "Report image dimensions and alpha state (info only).",
	},
}

// LookupCommand returns the spec for name, or false when unknown.
func LookupCommand(name string) (CommandSpec, bool) {
	for _, spec := range Commands {
		if spec.Name == name {
			return spec, true
		}
	}
	return CommandSpec{}, false
}

// Apply dispatches a named command with textual arguments. In-place
// commands return the bitmap they were given; geometric commands and the
// opacity/desaturate pair return a different bitmap. Info commands
// (identify, histogram, palette) return a nil bitmap and leave
// presentation to the caller.
func (e *Engine) Apply(bm *Bitmap, commandName string, args []string) (*Bitmap, error) {
	if bm == nil {
		return nil, fmt.Errorf("source bitmap is nil")
	}
	switch commandName {
	case "grayscale":
		return bm, e.Grayscale(bm)

	case "sepia":
		return bm, e.Sepia(bm)

	case "invert":
		return bm, e.Invert(bm)

	case "emboss":
		return bm, e.Emboss(bm)

	case "edges":
		return bm, e.Edges(bm)

	case "meanremove":
		return bm, e.MeanRemove(bm)

	case "sharpen":
		return bm, e.Sharpen(bm)

	case "sobel":
		return bm, e.Sobel(bm)

	case "pixelate":
		if len(args) != 1 {
			return nil, fmt.Errorf("pixelate requires 1 arg: block")
		}
		block, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid block: %w", err)
		}
		return bm, e.Pixelate(bm, block)

	case "blur":
		if len(args) != 2 {
			return nil, fmt.Errorf("blur requires 2 args: type passes")
		}
		passes, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("invalid passes: %w", err)
		}
		return bm, e.Blur(bm, ParseBlurKind(args[0]), passes)

	case "boxblur":
		if len(args) != 1 {
			return nil, fmt.Errorf("boxblur requires 1 arg: radius")
		}
		radius, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid radius: %w", err)
		}
		return bm, e.BoxBlur(bm, radius)

	case "smooth":
		if len(args) != 1 {
			return nil, fmt.Errorf("smooth requires 1 arg: passes")
		}
		passes, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid passes: %w", err)
		}
		return bm, e.Smooth(bm, passes)

	case "brightness":
		if len(args) != 1 {
			return nil, fmt.Errorf("brightness requires 1 arg: level")
		}
		level, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid level: %w", err)
		}
		return bm, e.Brightness(bm, level)

	case "contrast":
		if len(args) != 1 {
			return nil, fmt.Errorf("contrast requires 1 arg: level")
		}
		level, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid level: %w", err)
		}
		return bm, e.Contrast(bm, level)

	case "gamma":
		if len(args) != 1 {
			return nil, fmt.Errorf("gamma requires 1 arg: value")
		}
		gamma, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid gamma: %w", err)
		}
		return bm, e.Gamma(bm, gamma)

	case "saturation":
		if len(args) != 1 {
			return nil, fmt.Errorf("saturation requires 1 arg: level")
		}
		level, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid level: %w", err)
		}
		return bm, e.Saturation(bm, level)

	case "hue":
		if len(args) != 1 {
			return nil, fmt.Errorf("hue requires 1 arg: degrees")
		}
		degrees, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid degrees: %w", err)
		}
		return bm, e.Hue(bm, degrees)

	case "colorize":
		if len(args) != 2 {
			return nil, fmt.Errorf("colorize requires 2 args: color opacity")
		}
		opacity, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid opacity: %w", err)
		}
		return bm, e.Colorize(bm, args[0], opacity)

	case "desaturate":
		if len(args) != 1 {
			return nil, fmt.Errorf("desaturate requires 1 arg: percent")
		}
		percent, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid percent: %w", err)
		}
		return e.Desaturate(bm, percent)

	case "opacity":
		if len(args) != 1 {
			return nil, fmt.Errorf("opacity requires 1 arg: value")
		}
		value, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid opacity: %w", err)
		}
		return e.Opacity(bm, value)

	case "fill":
		if len(args) != 1 {
			return nil, fmt.Errorf("fill requires 1 arg: color")
		}
		return bm, e.Fill(bm, args[0])

	case "flip":
		if len(args) != 1 {
			return nil, fmt.Errorf("flip requires 1 arg: direction")
		}
		return e.Flip(bm, args[0])

	case "rotate":
		if len(args) < 1 || len(args) > 2 {
			return nil, fmt.Errorf("rotate requires 1 or 2 args: degrees [bgcolor]")
		}
		degrees, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid degrees: %w", err)
		}
		bgcolor := "#000000"
		if len(args) == 2 {
			bgcolor = args[1]
		}
		return e.Rotate(bm, degrees, bgcolor)

	case "resize":
		if len(args) != 2 {
			return nil, fmt.Errorf("resize requires 2 args: width height")
		}
		w, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid width: %w", err)
		}
		h, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("invalid height: %w", err)
		}
		return Resize(bm, w, h)

	case "fitwidth":
		if len(args) != 1 {
			return nil, fmt.Errorf("fitwidth requires 1 arg: width")
		}
		w, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid width: %w", err)
		}
		return FitToWidth(bm, w)

	case "fitheight":
		if len(args) != 1 {
			return nil, fmt.Errorf("fitheight requires 1 arg: height")
		}
		h, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid height: %w", err)
		}
		return FitToHeight(bm, h)

	case "bestfit":
		if len(args) != 2 {
			return nil, fmt.Errorf("bestfit requires 2 args: maxwidth maxheight")
		}
		mw, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid maxwidth: %w", err)
		}
		mh, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("invalid maxheight: %w", err)
		}
		return BestFit(bm, mw, mh)

	case "thumbnail":
		if len(args) < 1 || len(args) > 2 {
			return nil, fmt.Errorf("thumbnail requires 1 or 2 args: width [height]")
		}
		w, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid width: %w", err)
		}
		h := 0
		if len(args) == 2 {
			h, err = strconv.Atoi(args[1])
			if err != nil {
				return nil, fmt.Errorf("invalid height: %w", err)
			}
		}
		return Thumbnail(bm, w, h)

	case "crop":
		if len(args) != 4 {
			return nil, fmt.Errorf("crop requires 4 args: x1 y1 x2 y2")
		}
		coords := make([]int, 4)
		for i, arg := range args {
			v, err := strconv.Atoi(arg)
			if err != nil {
				return nil, fmt.Errorf("invalid crop coordinate %q: %w", arg, err)
			}
			coords[i] = v
		}
		return Crop(bm, coords[0], coords[1], coords[2], coords[3])

	case "squarecrop":
		return SquareCrop(bm)

	case "overlay":
		if len(args) < 1 || len(args) > 5 {
			return nil, fmt.Errorf("overlay requires 1 to 5 args: path [position] [opacity] [xoffset] [yoffset]")
		}
		position := "center"
		opacity := 100.0
		xOff, yOff := 0, 0
		var err error
		if len(args) >= 2 {
			position = args[1]
		}
		if len(args) >= 3 {
			opacity, err = strconv.ParseFloat(args[2], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid opacity: %w", err)
			}
		}
		if len(args) >= 4 {
			xOff, err = strconv.Atoi(args[3])
			if err != nil {
				return nil, fmt.Errorf("invalid xoffset: %w", err)
			}
		}
		if len(args) == 5 {
			yOff, err = strconv.Atoi(args[4])
			if err != nil {
				return nil, fmt.Errorf("invalid yoffset: %w", err)
			}
		}
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to open overlay source: %w", err)
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decode overlay source: %w", err)
		}
		return bm, Overlay(bm, FromImage(img), position, opacity, xOff, yOff)

	case "text":
		// text <text> [fontpath] <size> <x> <y> <color>
		if !(len(args) == 5 || len(args) == 6) {
			return nil, fmt.Errorf("text requires 5 args: text size x y color or 6 args: text fontpath size x y color")
		}
		var fontPath string
		rest := args[1:]
		if len(args) == 6 {
			fontPath = args[1]
			rest = args[2:]
		}
		size, err := strconv.ParseFloat(rest[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid size: %w", err)
		}
		x, err := strconv.Atoi(rest[1])
		if err != nil {
			return nil, fmt.Errorf("invalid x: %w", err)
		}
		y, err := strconv.Atoi(rest[2])
		if err != nil {
			return nil, fmt.Errorf("invalid y: %w", err)
		}
		return bm, e.Text(bm, args[0], fontPath, size, x, y, rest[3])

	case "dilate":
		radius, err := morphologyRadius(args)
		if err != nil {
			return nil, err
		}
		return bm, e.Dilate(bm, radius)

	case "erode":
		radius, err := morphologyRadius(args)
		if err != nil {
			return nil, err
		}
		return bm, e.Erode(bm, radius)

	case "palette", "histogram", "identify":
		return nil, nil

	default:
		return nil, fmt.Errorf("unsupported command: %s", commandName)
	}
}

func morphologyRadius(args []string) (int, error) {
	if len(args) > 1 {
		return 0, fmt.Errorf("expected at most 1 arg: radius")
	}
	if len(args) == 0 {
		return 1, nil
	}
	radius, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid radius: %w", err)
	}
	return radius, nil
}
