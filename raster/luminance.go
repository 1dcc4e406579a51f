package raster

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// LuminanceModel selects how a mean color reduces to 0..1 brightness.
type LuminanceModel uint8

const (
	// LumFlat is the straight (R+G+B)/3 mean. Default.
	LumFlat LuminanceModel = iota
	// LumRec709 weights channels per ITU-R BT.709.
	LumRec709
	// LumLab is CIE L* via go-colorful, for perceptually even ramps.
	LumLab
)

func (m LuminanceModel) String() string {
	switch m {
	case LumFlat:
		return "flat"
	case LumRec709:
		return "rec709"
	case LumLab:
		return "lab"
	}
	return fmt.Sprintf("luminance(%d)", uint8(m))
}

// ParseLuminanceModel maps config names to models. The empty string selects
// the default flat mean.
func ParseLuminanceModel(name string) (LuminanceModel, error) {
	switch name {
	case "flat", "":
		return LumFlat, nil
	case "rec709":
		return LumRec709, nil
	case "lab":
		return LumLab, nil
	}
	return 0, fmt.Errorf("raster: unknown luminance model %q", name)
}

// luminance reduces mean channel values on the 0..255 scale to brightness.
func (m LuminanceModel) luminance(r, g, b float64) float64 {
	switch m {
	case LumRec709:
		return (0.2126*r + 0.7152*g + 0.0722*b) / 255
	case LumLab:
		l, _, _ := colorful.Color{R: r / 255, G: g / 255, B: b / 255}.Lab()
		if l < 0 {
			l = 0
		} else if l > 1 {
			l = 1
		}
		return l
	default:
		return (r + g + b) / 3 / 255
	}
}
