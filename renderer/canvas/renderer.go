package canvasrenderer

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"os"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/easel/fonts"
	"github.com/ByLCY/easel/layout"
	"github.com/ByLCY/easel/logging"
	"github.com/ByLCY/easel/renderer"
)

// Renderer rasterises layout plans via github.com/tdewolff/canvas and
// provides the glyph metrics used by the layout phase.
//
// The canvas is set up at one millimetre per unit and rasterised at one dot
// per millimetre, so every canvas unit is exactly one output pixel.
type Renderer struct {
	baseDir     string
	defaultFont layout.Font
	text        layout.TextOptions
	scaler      layout.Scaler

	// injected resources
	fontBlobs  map[string][]byte // by unique name
	imageBlobs map[string][]byte // by unique name

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Compositor = (*Renderer)(nil)
	_ layout.Typesetter   = (*Renderer)(nil)
	_ layout.ImageLoader  = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir     string
	DefaultFont layout.Font         // zero value: embedded Go Regular at layout.DefaultFontSize
	Text        *layout.TextOptions // nil: layout.DefaultWrapMargin, no right inset
	Scaler      layout.Scaler       // nil: imageio.Scale
	Fonts       map[string]Resource // built-in fonts accessible via built-in:<name>
	Images      map[string]Resource // built-in images accessible via built-in:<name>
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving assets.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		defaultFont:  opts.DefaultFont,
		text:         layout.TextOptions{WrapMargin: layout.DefaultWrapMargin},
		scaler:       opts.Scaler,
		fontBlobs:    ingest(opts.Fonts),
		imageBlobs:   ingest(opts.Images),
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	if r.defaultFont.Src == "" && r.defaultFont.Name == "" {
		r.defaultFont.Src = "embed:" + fonts.Default
	}
	if r.defaultFont.Size <= 0 {
		r.defaultFont.Size = layout.DefaultFontSize
	}
	if opts.Text != nil {
		r.text = *opts.Text
	}
	return r
}

func ingest(resources map[string]Resource) map[string][]byte {
	out := map[string][]byte{}
	for name, res := range resources {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			out[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, err := os.ReadFile(res.Path) // caught when the resource is actually used
			if err != nil {
				logging.Logger().Warn("built-in resource unreadable", slog.String("name", name), slog.Any("err", err))
				continue
			}
			out[name] = data
		}
	}
	return out
}

// BuildOptions returns the phase-one options backed by this renderer's metrics.
func (r *Renderer) BuildOptions() layout.BuildOptions {
	return layout.BuildOptions{
		Typesetter:  r,
		Scaler:      r.scaler,
		DefaultFont: r.defaultFont,
		Text:        r.text,
	}
}

// Compose resolves the scene and renders it. On error no partial canvas is returned.
func (r *Renderer) Compose(scene *layout.Scene) (*image.RGBA, error) {
	plan, err := layout.Resolve(scene, r.BuildOptions())
	if err != nil {
		return nil, err
	}
	return r.Render(plan)
}

// Render executes the plan's commands in order on a canvas pre-filled with
// the background colour.
func (r *Renderer) Render(plan *layout.Plan) (*image.RGBA, error) {
	if plan == nil {
		return nil, errors.New("渲染计划为空")
	}
	if plan.Width <= 0 || plan.Height <= 0 {
		return nil, fmt.Errorf("canvas %dx%d: %w", plan.Width, plan.Height, layout.ErrInvalidDimension)
	}

	dst := image.NewRGBA(image.Rect(0, 0, plan.Width, plan.Height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(plan.Background), image.Point{}, draw.Src)

	// Vector commands are batched onto one canvas layer; a raster image ends the
	// batch so that z-order is kept across both kinds.
	var layer *vectorLayer
	flush := func() {
		if layer != nil {
			layer.composite(dst)
			layer = nil
		}
	}
	for _, cmd := range plan.Commands {
		if img, ok := cmd.(layout.ImageCommand); ok {
			flush()
			drawImage(dst, img)
			continue
		}
		if layer == nil {
			layer = newVectorLayer(plan.Width, plan.Height)
		}
		switch c := cmd.(type) {
		case layout.RectCommand:
			drawRect(layer.ctx, c)
		case layout.EllipseCommand:
			drawEllipse(layer.ctx, c)
		case layout.TextCommand:
			r.drawText(layer.ctx, c)
		default:
			logging.Logger().Warn("skip unknown command", slog.String("type", fmt.Sprintf("%T", cmd)))
		}
	}
	flush()
	return dst, nil
}

type vectorLayer struct {
	c   *canvas.Canvas
	ctx *canvas.Context
}

func newVectorLayer(width, height int) *vectorLayer {
	c := canvas.New(float64(width), float64(height))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
	return &vectorLayer{c: c, ctx: ctx}
}

func (l *vectorLayer) composite(dst *image.RGBA) {
	src := rasterizer.Draw(l.c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Over)
}

// drawImage blits the pre-scaled source; parts outside the canvas are clipped.
func drawImage(dst *image.RGBA, c layout.ImageCommand) {
	if c.Source == nil {
		return
	}
	b := c.Source.Bounds()
	rect := image.Rect(c.X, c.Y, c.X+b.Dx(), c.Y+b.Dy())
	draw.Draw(dst, rect, c.Source, b.Min, draw.Over)
}
