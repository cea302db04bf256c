// Package packer implements the atlas packers: a built-in shelf packer and a
// process packer that delegates to an external command.
package packer

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"path"
	"sort"
	"strconv"
	"strings"

	// Registered source formats.
	_ "image/gif"
	_ "image/jpeg"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/atlas/internal/core/domain"
	"go.trai.ch/zerr"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// Exporters understood by the built-in packer. Both write a JSON hash manifest.
const (
	ExporterPixi     = "Pixi"
	ExporterJSONHash = "JsonHash"
)

// Builtin packs sprites row by row into a single PNG texture and writes a
// JSON hash manifest next to it. Rotation is never applied.
type Builtin struct{}

// NewBuiltin creates the built-in packer.
func NewBuiltin() *Builtin {
	return &Builtin{}
}

type sprite struct {
	name  string
	img   *image.NRGBA
	trim  image.Rectangle
	size  image.Point
	hash  uint64
	frame image.Rectangle
	// alias points at the sprite whose pixels this one shares.
	alias *sprite
}

// Pack implements ports.Packer.
func (b *Builtin) Pack(ctx context.Context, inputs []domain.PackInput, options domain.PackerOptions) ([]domain.OutputAsset, error) {
	settings, err := domain.DecodePackSettings(options)
	if err != nil {
		return nil, err
	}
	if settings.Exporter != ExporterPixi && settings.Exporter != ExporterJSONHash {
		return nil, zerr.With(zerr.With(domain.ErrInvalidPackerOptions, "option", "exporter"), "value", settings.Exporter)
	}
	if len(inputs) == 0 {
		return nil, zerr.Wrap(zerr.New("no inputs"), domain.ErrPackFailed.Error())
	}

	sprites := make([]*sprite, 0, len(inputs))
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := loadSprite(in, &settings)
		if err != nil {
			return nil, err
		}
		sprites = append(sprites, s)
	}

	unique := sprites
	if settings.DetectIdentical {
		unique = dedupe(sprites)
	}

	canvas, err := place(unique, &settings)
	if err != nil {
		return nil, err
	}

	texture := image.NewNRGBA(image.Rectangle{Max: canvas})
	for _, s := range unique {
		blit(texture, s, settings.Extrude)
	}

	var encoded bytes.Buffer
	if err := encodePNG(&encoded, texture); err != nil {
		return nil, zerr.Wrap(err, domain.ErrPackFailed.Error())
	}

	manifest, err := buildManifest(sprites, canvas, &settings, options)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrPackFailed.Error())
	}

	return []domain.OutputAsset{
		{Name: settings.TextureName + ".png", Contents: encoded.Bytes()},
		{Name: settings.TextureName + ".json", Contents: manifest},
	}, nil
}

func loadSprite(in domain.PackInput, settings *domain.PackSettings) (*sprite, error) {
	src, _, err := image.Decode(bytes.NewReader(in.Contents))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrImageDecodeFailed.Error()), "name", in.Name)
	}

	img := toNRGBA(src)
	if settings.Scale != 1 {
		img = scale(img, settings.Scale, settings.ScaleMethod)
	}

	s := &sprite{
		name: frameName(in.Name, settings),
		img:  img,
		trim: img.Bounds(),
		size: img.Bounds().Size(),
	}
	if settings.AllowTrim {
		s.trim = opaqueBounds(img)
	}
	s.hash = pixelHash(img, s.trim)
	return s, nil
}

func frameName(name string, settings *domain.PackSettings) string {
	if settings.RemoveFileExtension {
		name = strings.TrimSuffix(name, path.Ext(name))
	}
	if !settings.PrependFolderName {
		name = path.Base(name)
	}
	return name
}

func toNRGBA(src image.Image) *image.NRGBA {
	if img, ok := src.(*image.NRGBA); ok && img.Bounds().Min == (image.Point{}) {
		return img
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

func scale(img *image.NRGBA, factor float64, method string) *image.NRGBA {
	w := max(1, int(float64(img.Bounds().Dx())*factor+0.5))
	h := max(1, int(float64(img.Bounds().Dy())*factor+0.5))
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	var scaler draw.Scaler
	switch method {
	case domain.ScaleNearestNeighbor:
		scaler = draw.NearestNeighbor
	case domain.ScaleBicubic, domain.ScaleBezier:
		scaler = draw.CatmullRom
	default:
		scaler = draw.BiLinear
	}
	scaler.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// opaqueBounds returns the smallest rectangle holding every pixel with a
// non-zero alpha. Fully transparent images keep a single pixel.
func opaqueBounds(img *image.NRGBA) image.Rectangle {
	b := img.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.NRGBAAt(x, y).A == 0 {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rect(b.Min.X, b.Min.Y, b.Min.X+1, b.Min.Y+1)
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

func pixelHash(img *image.NRGBA, r image.Rectangle) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(strconv.Itoa(r.Dx()) + "x" + strconv.Itoa(r.Dy()))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		start := img.PixOffset(r.Min.X, y)
		_, _ = h.Write(img.Pix[start : start+r.Dx()*4])
	}
	return h.Sum64()
}

// dedupe links sprites with identical trimmed pixels to the first occurrence
// and returns the sprites that need space on the texture.
func dedupe(sprites []*sprite) []*sprite {
	seen := make(map[uint64]*sprite, len(sprites))
	unique := make([]*sprite, 0, len(sprites))
	for _, s := range sprites {
		if first, ok := seen[s.hash]; ok {
			s.alias = first
			continue
		}
		seen[s.hash] = s
		unique = append(unique, s)
	}
	return unique
}

// place assigns frames on shelves, tallest sprites first, and returns the
// texture size.
func place(sprites []*sprite, settings *domain.PackSettings) (image.Point, error) {
	order := append([]*sprite(nil), sprites...)
	sort.SliceStable(order, func(i, j int) bool {
		hi, hj := order[i].trim.Dy(), order[j].trim.Dy()
		if hi != hj {
			return hi > hj
		}
		return order[i].name < order[j].name
	})

	e := settings.Extrude
	var x, y, shelf, usedW, usedH int
	for _, s := range order {
		cw, ch := s.trim.Dx()+2*e, s.trim.Dy()+2*e
		if cw > settings.Width || ch > settings.Height {
			return image.Point{}, zerr.With(domain.ErrAtlasTooSmall, "sprite", s.name)
		}
		if x > 0 && x+cw > settings.Width {
			y += shelf + settings.Padding
			x, shelf = 0, 0
		}
		if y+ch > settings.Height {
			return image.Point{}, zerr.With(domain.ErrAtlasTooSmall, "sprite", s.name)
		}

		s.frame = image.Rect(x+e, y+e, x+e+s.trim.Dx(), y+e+s.trim.Dy())
		usedW, usedH = max(usedW, x+cw), max(usedH, y+ch)
		x += cw + settings.Padding
		shelf = max(shelf, ch)
	}

	switch {
	case settings.FixedSize:
		return image.Pt(settings.Width, settings.Height), nil
	case settings.PowerOfTwo:
		return image.Pt(nextPowerOfTwo(usedW), nextPowerOfTwo(usedH)), nil
	default:
		return image.Pt(usedW, usedH), nil
	}
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// blit copies the trimmed sprite into its frame and repeats the border
// pixels extrude times around it.
func blit(dst *image.NRGBA, s *sprite, extrude int) {
	draw.Draw(dst, s.frame, s.img, s.trim.Min, draw.Src)
	if extrude == 0 {
		return
	}

	f := s.frame
	clamp := func(v, lo, hi int) int { return min(max(v, lo), hi-1) }
	for y := f.Min.Y - extrude; y < f.Max.Y+extrude; y++ {
		for x := f.Min.X - extrude; x < f.Max.X+extrude; x++ {
			if (image.Point{X: x, Y: y}).In(f) {
				continue
			}
			sx := clamp(x, f.Min.X, f.Max.X)
			sy := clamp(y, f.Min.Y, f.Max.Y)
			dst.SetNRGBA(x, y, dst.NRGBAAt(sx, sy))
		}
	}
}

func encodePNG(buf *bytes.Buffer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(buf, img)
}

type rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type size struct {
	W int `json:"w"`
	H int `json:"h"`
}

type frame struct {
	Frame            rect `json:"frame"`
	Rotated          bool `json:"rotated"`
	Trimmed          bool `json:"trimmed"`
	SpriteSourceSize rect `json:"spriteSourceSize"`
	SourceSize       size `json:"sourceSize"`
}

type meta struct {
	App     string `json:"app"`
	Version string `json:"version"`
	Image   string `json:"image"`
	Format  string `json:"format"`
	Size    size   `json:"size"`
	Scale   string `json:"scale"`
}

type manifest struct {
	Frames map[string]frame `json:"frames"`
	Meta   meta             `json:"meta"`
}

func buildManifest(sprites []*sprite, canvas image.Point, settings *domain.PackSettings, options domain.PackerOptions) ([]byte, error) {
	m := manifest{
		Frames: make(map[string]frame, len(sprites)),
		Meta: meta{
			Image:  settings.TextureName + ".png",
			Format: "RGBA8888",
			Size:   size{W: canvas.X, H: canvas.Y},
			Scale:  strconv.FormatFloat(settings.Scale, 'g', -1, 64),
		},
	}
	if app, ok := options[domain.OptionAppInfo].(map[string]any); ok {
		m.Meta.App, _ = app["url"].(string)
		m.Meta.Version, _ = app["version"].(string)
	}

	for _, s := range sprites {
		placed := s
		if s.alias != nil {
			placed = s.alias
		}
		m.Frames[s.name] = frame{
			Frame:   rect{X: placed.frame.Min.X, Y: placed.frame.Min.Y, W: placed.frame.Dx(), H: placed.frame.Dy()},
			Trimmed: s.trim != s.img.Bounds(),
			SpriteSourceSize: rect{
				X: s.trim.Min.X, Y: s.trim.Min.Y, W: s.trim.Dx(), H: s.trim.Dy(),
			},
			SourceSize: size{W: s.size.X, H: s.size.Y},
		}
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
