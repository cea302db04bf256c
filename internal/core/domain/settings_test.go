package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/atlas/internal/core/domain"
)

func TestDecodePackSettings(t *testing.T) {
	opts := domain.DefaultPackerOptions()
	opts["scale"] = 0.5
	opts["scaleMethod"] = domain.ScaleNearestNeighbor
	opts["width"] = "1024"
	opts["textureName"] = "ui"
	opts["appInfo"] = map[string]any{"version": "dev"}

	settings, err := domain.DecodePackSettings(opts)
	require.NoError(t, err)

	assert.Equal(t, "ui", settings.TextureName)
	assert.InDelta(t, 0.5, settings.Scale, 1e-9)
	assert.Equal(t, domain.ScaleNearestNeighbor, settings.ScaleMethod)
	assert.Equal(t, 1024, settings.Width)
	assert.Equal(t, 2048, settings.Height)
	assert.Equal(t, 1, settings.Padding)
	assert.True(t, settings.AllowTrim)
	assert.True(t, settings.DetectIdentical)
	assert.True(t, settings.RemoveFileExtension)
	assert.True(t, settings.PrependFolderName)
	assert.False(t, settings.FixedSize)
}

func TestDecodePackSettings_Invalid(t *testing.T) {
	tests := []struct {
		name string
		opts domain.PackerOptions
	}{
		{name: "negative padding", opts: domain.PackerOptions{"padding": -1}},
		{name: "zero scale", opts: domain.PackerOptions{"scale": 0}},
		{name: "NaN scale", opts: domain.PackerOptions{"scale": math.NaN()}},
		{name: "infinite scale", opts: domain.PackerOptions{"scale": math.Inf(1)}},
		{name: "unknown scale method", opts: domain.PackerOptions{"scaleMethod": "LANCZOS"}},
		{name: "wrong type", opts: domain.PackerOptions{"width": map[string]any{"x": 1}}},
		{name: "unsupported format", opts: domain.PackerOptions{"textureFormat": "jpg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.DecodePackSettings(tt.opts)
			require.Error(t, err)
			assert.ErrorContains(t, err, domain.ErrInvalidPackerOptions.Error())
		})
	}
}

func TestPackerOptions_Validate(t *testing.T) {
	require.NoError(t, domain.PackerOptions{"scale": 0.5, "nested": map[string]any{"list": []any{1, "x"}}}.Validate())
	require.NoError(t, domain.PackerOptions(nil).Validate())

	err := domain.PackerOptions{"nested": map[string]any{"list": []any{1, math.NaN()}}}.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidPackerOptions.Error())
}
