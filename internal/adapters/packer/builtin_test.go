package packer_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/atlas/internal/adapters/packer"
	"go.trai.ch/atlas/internal/core/domain"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	green = color.NRGBA{G: 255, A: 255}
)

// encodeImage returns a w*h PNG filled with c inside fill and transparent elsewhere.
func encodeImage(t *testing.T, w, h int, fill image.Rectangle, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := fill.Min.Y; y < fill.Max.Y; y++ {
		for x := fill.Min.X; x < fill.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func enemies(t *testing.T) []domain.PackInput {
	t.Helper()
	return []domain.PackInput{
		{Name: "enemies/slime.png", Contents: encodeImage(t, 6, 6, image.Rect(2, 1, 4, 4), green)},
		{Name: "enemies/bat.png", Contents: encodeImage(t, 4, 4, image.Rect(0, 0, 4, 4), red)},
	}
}

func options(overrides domain.PackerOptions) domain.PackerOptions {
	atlas := &domain.AtlasConfig{Name: "enemies", PackerOptions: overrides}
	app := domain.AppInfo{DisplayName: "atlas", URL: "https://go.trai.ch/atlas", Version: "test"}
	return domain.ResolvePackerOptions(nil, atlas, app)
}

type pixiManifest struct {
	Frames map[string]struct {
		Frame struct{ X, Y, W, H int } `json:"frame"`
	} `json:"frames"`
	Meta struct {
		Size struct{ W, H int } `json:"size"`
	} `json:"meta"`
}

func decode(t *testing.T, outputs []domain.OutputAsset) (image.Image, pixiManifest) {
	t.Helper()
	require.Len(t, outputs, 2)

	img, err := png.Decode(bytes.NewReader(outputs[0].Contents))
	require.NoError(t, err)

	var m pixiManifest
	require.NoError(t, json.Unmarshal(outputs[1].Contents, &m))
	return img, m
}

func TestBuiltin_Pack(t *testing.T) {
	outputs, err := packer.NewBuiltin().Pack(t.Context(), enemies(t), options(nil))
	require.NoError(t, err)

	require.Len(t, outputs, 2)
	assert.Equal(t, "enemies.png", outputs[0].Name)
	assert.Equal(t, "enemies.json", outputs[1].Name)

	g := goldie.New(t)
	g.Assert(t, "manifest_enemies", outputs[1].Contents)

	img, _ := decode(t, outputs)
	assert.Equal(t, image.Rect(0, 0, 7, 4), img.Bounds())
	assert.Equal(t, red, color.NRGBAModel.Convert(img.At(0, 0)))
	assert.Equal(t, green, color.NRGBAModel.Convert(img.At(5, 0)))
	assert.Equal(t, uint8(0), color.NRGBAModel.Convert(img.At(4, 0)).(color.NRGBA).A, "padding stays transparent")
}

func TestBuiltin_DetectIdentical(t *testing.T) {
	sprite := encodeImage(t, 3, 3, image.Rect(0, 0, 3, 3), red)
	inputs := []domain.PackInput{
		{Name: "ui/a.png", Contents: sprite},
		{Name: "ui/b.png", Contents: sprite},
	}

	outputs, err := packer.NewBuiltin().Pack(t.Context(), inputs, options(nil))
	require.NoError(t, err)

	img, m := decode(t, outputs)
	assert.Equal(t, image.Rect(0, 0, 3, 3), img.Bounds())
	assert.Equal(t, m.Frames["ui/a"].Frame, m.Frames["ui/b"].Frame)

	outputs, err = packer.NewBuiltin().Pack(t.Context(), inputs, options(domain.PackerOptions{"detectIdentical": false}))
	require.NoError(t, err)
	img, _ = decode(t, outputs)
	assert.Equal(t, image.Rect(0, 0, 7, 3), img.Bounds())
}

func TestBuiltin_Settings(t *testing.T) {
	tests := []struct {
		name      string
		overrides domain.PackerOptions
		size      image.Point
		frames    []string
	}{
		{
			name:      "power of two",
			overrides: domain.PackerOptions{"powerOfTwo": true},
			size:      image.Pt(8, 4),
			frames:    []string{"enemies/bat", "enemies/slime"},
		},
		{
			name:      "fixed size",
			overrides: domain.PackerOptions{"fixedSize": true, "width": 16, "height": 16},
			size:      image.Pt(16, 16),
			frames:    []string{"enemies/bat", "enemies/slime"},
		},
		{
			name:      "narrow width wraps to a new shelf",
			overrides: domain.PackerOptions{"width": 5},
			size:      image.Pt(4, 8),
			frames:    []string{"enemies/bat", "enemies/slime"},
		},
		{
			name:      "no trim keeps source size",
			overrides: domain.PackerOptions{"allowTrim": false, "padding": 0},
			size:      image.Pt(10, 6),
			frames:    []string{"enemies/bat", "enemies/slime"},
		},
		{
			name:      "extrude grows every cell",
			overrides: domain.PackerOptions{"extrude": 1},
			size:      image.Pt(11, 6),
			frames:    []string{"enemies/bat", "enemies/slime"},
		},
		{
			name:      "file names without folder and extension handling",
			overrides: domain.PackerOptions{"prependFolderName": false, "removeFileExtension": false},
			size:      image.Pt(7, 4),
			frames:    []string{"bat.png", "slime.png"},
		},
		{
			name:      "scale halves sprites",
			overrides: domain.PackerOptions{"scale": 0.5, "scaleMethod": domain.ScaleNearestNeighbor, "allowTrim": false},
			size:      image.Pt(6, 3),
			frames:    []string{"enemies/bat", "enemies/slime"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outputs, err := packer.NewBuiltin().Pack(t.Context(), enemies(t), options(tt.overrides))
			require.NoError(t, err)

			img, m := decode(t, outputs)
			assert.Equal(t, tt.size, img.Bounds().Size())
			assert.Equal(t, tt.size.X, m.Meta.Size.W)
			assert.Equal(t, tt.size.Y, m.Meta.Size.H)
			for _, name := range tt.frames {
				assert.Contains(t, m.Frames, name)
			}
		})
	}
}

func TestBuiltin_Errors(t *testing.T) {
	tests := []struct {
		name    string
		inputs  []domain.PackInput
		opts    domain.PackerOptions
		wantErr string
	}{
		{
			name:    "sprite wider than the atlas",
			inputs:  enemies(t),
			opts:    options(domain.PackerOptions{"width": 3}),
			wantErr: domain.ErrAtlasTooSmall.Error(),
		},
		{
			name:    "sprites taller than the atlas",
			inputs:  enemies(t),
			opts:    options(domain.PackerOptions{"width": 5, "height": 6}),
			wantErr: domain.ErrAtlasTooSmall.Error(),
		},
		{
			name:    "undecodable image",
			inputs:  []domain.PackInput{{Name: "broken.png", Contents: []byte("not an image")}},
			opts:    options(nil),
			wantErr: domain.ErrImageDecodeFailed.Error(),
		},
		{
			name:    "invalid option",
			inputs:  enemies(t),
			opts:    options(domain.PackerOptions{"padding": -1}),
			wantErr: domain.ErrInvalidPackerOptions.Error(),
		},
		{
			name:    "unknown exporter",
			inputs:  enemies(t),
			opts:    options(domain.PackerOptions{"exporter": "Phaser3"}),
			wantErr: domain.ErrInvalidPackerOptions.Error(),
		},
		{
			name:    "no inputs",
			opts:    options(nil),
			wantErr: domain.ErrPackFailed.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := packer.NewBuiltin().Pack(t.Context(), tt.inputs, tt.opts)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
