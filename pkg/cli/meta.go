package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tmarksen/gdfx/pkg/gdimg"
)

// ParamType is a small enum for parameter types used in metadata.
type ParamType string

const (
	ParamTypeInt     ParamType = "int"
	ParamTypeFloat   ParamType = "float"
	ParamTypeBool    ParamType = "bool"
	ParamTypeString  ParamType = "string"
	ParamTypeEnum    ParamType = "enum"
	ParamTypePercent ParamType = "percent"
	ParamTypeColor   ParamType = "color"
	ParamTypePath    ParamType = "path"
)

// ValidationRule is a machine-friendly representation of the constraints
// that a UI or client can use to validate input before invoking a command.
type ValidationRule struct {
	Type        ParamType `json:"type"`
	Required    bool      `json:"required"`
	Min         *float64  `json:"min,omitempty"`
	Max         *float64  `json:"max,omitempty"`
	Unit        string    `json:"unit,omitempty"`
	EnumOptions []string  `json:"enumOptions,omitempty"` // valid when Type == ParamTypeEnum
	Example     string    `json:"example,omitempty"`
	Hint        string    `json:"hint,omitempty"`
}

// parseBoolLikeToString accepts common truthy/falsy forms and returns "true"/"false".
func parseBoolLikeToString(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "y", "yes", "on":
		return "true", nil
	case "0", "f", "false", "n", "no", "off":
		return "false", nil
	default:
		return "", fmt.Errorf("invalid boolean: %q", s)
	}
}

// parsePercentValue parses a percent string like "40%" or a bare number and
// returns the numeric part as a string.
func parsePercentValue(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		raw := strings.TrimSuffix(s, "%")
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return "", fmt.Errorf("invalid percent value: %q", s)
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return "", fmt.Errorf("invalid percent/float value: %q", s)
	}
	return s, nil
}

// GenerateTooltip produces a help string from a command spec.
func GenerateTooltip(c gdimg.CommandSpec) string {
	var sb strings.Builder
	if c.Description != "" {
		sb.WriteString(c.Description)
	} else {
		sb.WriteString("No description")
	}
	if len(c.Args) == 0 {
		sb.WriteString(" (no parameters)")
		return sb.String()
	}
	sb.WriteString(" - parameters:\n")
	for _, a := range c.Args {
		req := "optional"
		if a.Required {
			req = "required"
		}
		sb.WriteString(fmt.Sprintf("- %s (%s, %s)", a.Name, a.Type, req))
		if a.Description != "" {
			sb.WriteString(": " + a.Description)
		}
		if a.Default != "" {
			sb.WriteString(" (default: " + a.Default + ")")
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// GenerateValidationRules creates ValidationRule entries from a command spec.
func GenerateValidationRules(c gdimg.CommandSpec) map[string]ValidationRule {
	rules := make(map[string]ValidationRule, len(c.Args))
	for _, a := range c.Args {
		var t ParamType
		switch strings.ToLower(a.Type) {
		case "int":
			t = ParamTypeInt
		case "float":
			t = ParamTypeFloat
		case "bool":
			t = ParamTypeBool
		case "percent":
			t = ParamTypePercent
		case "enum":
			t = ParamTypeEnum
		case "color":
			t = ParamTypeColor
		case "path":
			t = ParamTypePath
		default:
			t = ParamTypeString
		}
		r := ValidationRule{Type: t, Required: a.Required, Hint: a.Description, Example: a.Default}
		if min, ok := paramMinimums[a.Name]; ok && t == ParamTypeInt {
			m := min
			r.Min = &m
			r.Unit = "px"
		}
		if t == ParamTypeEnum {
			r.EnumOptions = enumOptionsFor(a.Name)
		}
		rules[a.Name] = r
	}
	return rules
}

// MetaStore indexes command specs by name for tooltip and validation lookups.
type MetaStore struct {
	Commands []gdimg.CommandSpec
	byName   map[string]gdimg.CommandSpec
}

// NewMetaStore builds a MetaStore from a command spec list, usually gdimg.Commands.
func NewMetaStore(cmds []gdimg.CommandSpec) *MetaStore {
	m := &MetaStore{Commands: cmds, byName: make(map[string]gdimg.CommandSpec, len(cmds))}
	for _, c := range cmds {
		m.byName[c.Name] = c
	}
	return m
}

// GetTooltip returns the help string for a command.
func (m *MetaStore) GetTooltip(name string) (string, error) {
	c, ok := m.byName[name]
	if !ok {
		return "", fmt.Errorf("unknown command: %s", name)
	}
	return GenerateTooltip(c), nil
}

// GetValidationRules returns validation rules for a command.
func (m *MetaStore) GetValidationRules(name string) (map[string]ValidationRule, error) {
	c, ok := m.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown command: %s", name)
	}
	return GenerateValidationRules(c), nil
}

// GetCommandHelp returns both the tooltip and validation rules for a command.
func (m *MetaStore) GetCommandHelp(name string) (string, map[string]ValidationRule, error) {
	c, ok := m.byName[name]
	if !ok {
		return "", nil, fmt.Errorf("unknown command: %s", name)
	}
	return GenerateTooltip(c), GenerateValidationRules(c), nil
}

// NormalizeArgs validates raw argument strings against a command's metadata
// and returns them in canonical form, one entry per declared parameter.
// Missing optional parameters are filled from their declared defaults, so the
// result always carries the command's full arity.
func NormalizeArgs(store *MetaStore, cmdName string, args []string) ([]string, error) {
	if store == nil {
		return nil, fmt.Errorf("metadata store is nil")
	}
	c, ok := store.byName[cmdName]
	if !ok {
		return nil, fmt.Errorf("unknown command: %s", cmdName)
	}
	rules := GenerateValidationRules(c)
	out := make([]string, len(c.Args))
	for i, a := range c.Args {
		var raw string
		if i < len(args) {
			raw = strings.TrimSpace(args[i])
		}
		if raw == "" {
			if a.Required {
				return nil, fmt.Errorf("missing required parameter: %s", a.Name)
			}
			out[i] = a.Default
			continue
		}
		vr := rules[a.Name]
		switch vr.Type {
		case ParamTypeInt:
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: expected integer, got %q", a.Name, raw)
			}
			if vr.Min != nil && float64(v) < *vr.Min {
				return nil, fmt.Errorf("parameter %s: %d < min %v", a.Name, v, *vr.Min)
			}
			if vr.Max != nil && float64(v) > *vr.Max {
				return nil, fmt.Errorf("parameter %s: %d > max %v", a.Name, v, *vr.Max)
			}
			out[i] = strconv.FormatInt(v, 10)
		case ParamTypeFloat:
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: expected float, got %q", a.Name, raw)
			}
			if vr.Min != nil && f < *vr.Min {
				return nil, fmt.Errorf("parameter %s: %v < min %v", a.Name, f, *vr.Min)
			}
			if vr.Max != nil && f > *vr.Max {
				return nil, fmt.Errorf("parameter %s: %v > max %v", a.Name, f, *vr.Max)
			}
			out[i] = strconv.FormatFloat(f, 'f', -1, 64)
		case ParamTypePercent:
			n, err := parsePercentValue(raw)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %w", a.Name, err)
			}
			out[i] = n
		case ParamTypeBool:
			bs, err := parseBoolLikeToString(raw)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %w", a.Name, err)
			}
			out[i] = bs
		case ParamTypeColor:
			if _, err := gdimg.NormalizeColor(raw); err != nil {
				return nil, fmt.Errorf("parameter %s: %w", a.Name, err)
			}
			out[i] = raw
		case ParamTypeEnum:
			if mapped, ok := canonicalizeEnum(a.Name, raw); ok {
				out[i] = mapped
			} else {
				// unknown values pass through so the engine reports them
				out[i] = raw
			}
		case ParamTypeString, ParamTypePath:
			out[i] = raw
		default:
			return nil, fmt.Errorf("parameter %s: unsupported param type %q", a.Name, vr.Type)
		}
	}
	return out, nil
}

// paramMinimums holds lower bounds for parameters the engine hard-rejects
// rather than clamps. Clamped parameters stay unbounded here on purpose.
var paramMinimums = map[string]float64{
	"width":     1,
	"height":    1,
	"maxwidth":  1,
	"maxheight": 1,
}

// Textual enum maps. Values are the canonical forms the engine accepts;
// keys allow the shorthand and punctuation variants people actually type.
var (
	directionNameToValue = map[string]string{
		"x":          "x",
		"y":          "y",
		"xy":         "xy",
		"yx":         "yx",
		"horizontal": "x",
		"horiz":      "x",
		"h":          "x",
		"vertical":   "y",
		"vert":       "y",
		"v":          "y",
		"both":       "xy",
	}

	blurTypeNameToValue = map[string]string{
		"gaussian":  "gaussian",
		"gauss":     "gaussian",
		"g":         "gaussian",
		"selective": "selective",
		"s":         "selective",
	}

	positionNameToValue = map[string]string{
		"center":      "center",
		"centre":      "center",
		"c":           "center",
		"top":         "top",
		"bottom":      "bottom",
		"left":        "left",
		"right":       "right",
		"topleft":     "topleft",
		"tl":          "topleft",
		"topright":    "topright",
		"tr":          "topright",
		"bottomleft":  "bottomleft",
		"bl":          "bottomleft",
		"bottomright": "bottomright",
		"br":          "bottomright",
	}
)

// canonicalizeEnum translates enum shorthand into the canonical value for the
// named parameter. Hyphens are dropped so "top-left" matches "topleft".
func canonicalizeEnum(paramName, val string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(val))
	v = strings.ReplaceAll(v, "-", "")
	switch strings.ToLower(paramName) {
	case "direction":
		if out, ok := directionNameToValue[v]; ok {
			return out, true
		}
	case "type":
		if out, ok := blurTypeNameToValue[v]; ok {
			return out, true
		}
	case "position":
		v = strings.ReplaceAll(v, " ", "")
		if out, ok := positionNameToValue[v]; ok {
			return out, true
		}
	}
	return "", false
}

// enumOptionsFor lists the canonical values for a known enum parameter.
func enumOptionsFor(paramName string) []string {
	switch strings.ToLower(paramName) {
	case "direction":
		return []string{"x", "y", "xy", "yx"}
	case "type":
		return []string{"gaussian", "selective"}
	case "position":
		return []string{"center", "top", "bottom", "left", "right",
			"topleft", "topright", "bottomleft", "bottomright"}
	}
	return nil
}
