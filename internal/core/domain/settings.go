package domain

import (
	"math"

	"github.com/go-viper/mapstructure/v2"
	"go.trai.ch/zerr"
)

// Scale methods understood by the built-in packer.
const (
	ScaleNearestNeighbor = "NEAREST_NEIGHBOR"
	ScaleBilinear        = "BILINEAR"
	ScaleBicubic         = "BICUBIC"
	ScaleBezier          = "BEZIER"
)

// PackSettings is the typed view of the packer options the built-in packer honors.
// Unknown option keys are ignored.
type PackSettings struct {
	TextureName         string  `json:"textureName"`
	TextureFormat       string  `json:"textureFormat"`
	Width               int     `json:"width"`
	Height              int     `json:"height"`
	FixedSize           bool    `json:"fixedSize"`
	PowerOfTwo          bool    `json:"powerOfTwo"`
	Padding             int     `json:"padding"`
	Extrude             int     `json:"extrude"`
	AllowRotation       bool    `json:"allowRotation"`
	DetectIdentical     bool    `json:"detectIdentical"`
	AllowTrim           bool    `json:"allowTrim"`
	Scale               float64 `json:"scale"`
	ScaleMethod         string  `json:"scaleMethod"`
	RemoveFileExtension bool    `json:"removeFileExtension"`
	PrependFolderName   bool    `json:"prependFolderName"`
	Exporter            string  `json:"exporter"`
}

// DefaultPackSettings returns the settings applied before options are decoded.
func DefaultPackSettings() PackSettings {
	return PackSettings{
		TextureName:   "texture",
		TextureFormat: "png",
		Width:         2048,
		Height:        2048,
		Scale:         1,
		ScaleMethod:   ScaleBilinear,
		Exporter:      "Pixi",
	}
}

// DecodePackSettings decodes and validates options.
// Numbers and booleans given as strings are accepted.
func DecodePackSettings(opts PackerOptions) (PackSettings, error) {
	settings := DefaultPackSettings()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &settings,
	})
	if err != nil {
		return PackSettings{}, zerr.Wrap(err, ErrInvalidPackerOptions.Error())
	}
	if err := decoder.Decode(map[string]any(opts)); err != nil {
		return PackSettings{}, zerr.Wrap(err, ErrInvalidPackerOptions.Error())
	}

	if err := settings.validate(); err != nil {
		return PackSettings{}, err
	}
	return settings, nil
}

func (s *PackSettings) validate() error {
	invalid := func(option string, value any) error {
		return zerr.With(zerr.With(ErrInvalidPackerOptions, "option", option), "value", value)
	}

	switch {
	case s.Width <= 0:
		return invalid("width", s.Width)
	case s.Height <= 0:
		return invalid("height", s.Height)
	case s.Padding < 0:
		return invalid("padding", s.Padding)
	case s.Extrude < 0:
		return invalid("extrude", s.Extrude)
	case s.Scale <= 0 || math.IsNaN(s.Scale) || math.IsInf(s.Scale, 0):
		return invalid("scale", s.Scale)
	case s.TextureFormat != "png":
		return invalid("textureFormat", s.TextureFormat)
	}

	switch s.ScaleMethod {
	case ScaleNearestNeighbor, ScaleBilinear, ScaleBicubic, ScaleBezier:
	default:
		return invalid("scaleMethod", s.ScaleMethod)
	}

	return nil
}
