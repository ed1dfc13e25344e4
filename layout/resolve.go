package layout

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ByLCY/easel/logging"
)

// ErrInvalidDimension 表示画布或元素尺寸非法（画布非正、图片覆盖尺寸只设一边等）。
var ErrInvalidDimension = errors.New("layout: invalid dimension")

// Resolve 是合成的第一阶段：按插入顺序把场景中的元素解析为绝对坐标绘制指令。
// 不修改 scene；默认字体只在局部副本中替换。
func Resolve(scene *Scene, opts BuildOptions) (*Plan, error) {
	if scene == nil {
		return nil, errors.New("layout: nil scene")
	}
	if scene.Width <= 0 || scene.Height <= 0 {
		return nil, fmt.Errorf("canvas %dx%d: %w", scene.Width, scene.Height, ErrInvalidDimension)
	}
	if opts.Typesetter == nil {
		return nil, errors.New("layout: BuildOptions.Typesetter is required")
	}

	r := resolver{scene: scene, opts: opts, log: logging.Logger()}
	plan := &Plan{
		Width:      scene.Width,
		Height:     scene.Height,
		Background: scene.Background,
		Commands:   make([]Command, 0, len(scene.Items)),
	}
	for i, p := range scene.Items {
		cmds, err := r.resolve(p)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		r.log.Debug("resolved item", slog.Int("index", i), slog.String("kind", itemKind(p.Item)), slog.Int("commands", len(cmds)))
		plan.Commands = append(plan.Commands, cmds...)
	}
	return plan, nil
}

type resolver struct {
	scene *Scene
	opts  BuildOptions
	log   *slog.Logger
}

func (r resolver) point(p Placement, w, h int) (int, int) {
	return ResolvePoint(p.X, p.Y, r.scene.Width, r.scene.Height, w, h)
}

func (r resolver) resolve(p Placement) ([]Command, error) {
	switch it := p.Item.(type) {
	case Text:
		return r.text(p, it), nil
	case *Text:
		return r.text(p, *it), nil
	case Image:
		return r.image(p, it)
	case *Image:
		return r.image(p, *it)
	case Rectangle:
		return r.rect(p, it)
	case *Rectangle:
		return r.rect(p, *it)
	case Ellipse:
		return r.ellipse(p, it)
	case *Ellipse:
		return r.ellipse(p, *it)
	case nil:
		return nil, errors.New("layout: nil item")
	default:
		return nil, fmt.Errorf("layout: unsupported item %T", p.Item)
	}
}

func (r resolver) text(p Placement, t Text) []Command {
	font := r.textFont(t.Font)
	block := LayoutText(r.opts.Typesetter, t, font, r.opts.Text)
	if block.Font.Size != font.Size {
		r.log.Debug("text auto-scaled", slog.Int("from", font.Size), slog.Int("to", block.Font.Size))
	}
	bx, by := r.point(p, block.Width, block.Height)

	cmds := make([]Command, 0, len(block.Lines)+1)
	cmds = append(cmds, RectCommand{X: bx, Y: by, Width: block.Width, Height: block.Height, Fill: t.Background})
	pad := t.Padding
	for i, line := range block.Lines {
		var x int
		switch t.Align {
		case AlignMiddle:
			x = bx + pad.Left + (block.Width-pad.Left-pad.Right-line.Width)/2
		case AlignRight:
			x = bx + block.Width - pad.Right - line.Width - r.opts.Text.RightInset
		default:
			x = bx + pad.Left
		}
		cmds = append(cmds, TextCommand{
			X:       x,
			Y:       by + pad.Top + block.LineHeight*i,
			Ascent:  block.Ascent,
			Width:   line.Width,
			Content: line.Content,
			Font:    block.Font,
			Color:   t.Color,
		})
	}
	return cmds
}

// textFont 把未指定的字段补为默认字体。
func (r resolver) textFont(f Font) Font {
	def := r.opts.defaultFont()
	if f.Name == "" && f.Src == "" {
		f.Name, f.Src = def.Name, def.Src
		if f.Style == "" {
			f.Style = def.Style
		}
	}
	if f.Size <= 0 {
		f.Size = def.Size
	}
	return f
}

func (r resolver) image(p Placement, img Image) ([]Command, error) {
	if img.Source == nil {
		return nil, errors.New("layout: image without source")
	}
	if (img.Width == 0) != (img.Height == 0) || img.Width < 0 || img.Height < 0 {
		return nil, fmt.Errorf("image size %dx%d: %w", img.Width, img.Height, ErrInvalidDimension)
	}
	src := img.Source
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	if img.Width > 0 {
		w, h = img.Width, img.Height
		if b := src.Bounds(); b.Dx() != w || b.Dy() != h {
			src = r.opts.scaler().Scale(src, w, h)
		}
	}
	x, y := r.point(p, w, h)
	return []Command{ImageCommand{X: x, Y: y, Width: w, Height: h, Source: src}}, nil
}

func (r resolver) rect(p Placement, s Rectangle) ([]Command, error) {
	if s.Width < 0 || s.Height < 0 || s.StrokeWidth < 0 {
		return nil, fmt.Errorf("rectangle %dx%d: %w", s.Width, s.Height, ErrInvalidDimension)
	}
	x, y := r.point(p, s.Width, s.Height)
	return []Command{RectCommand{
		X: x, Y: y, Width: s.Width, Height: s.Height,
		Fill: s.Fill, StrokeWidth: s.StrokeWidth, StrokeColor: s.StrokeColor, CornerRadius: s.CornerRadius,
	}}, nil
}

func (r resolver) ellipse(p Placement, s Ellipse) ([]Command, error) {
	if s.Width < 0 || s.Height < 0 || s.StrokeWidth < 0 {
		return nil, fmt.Errorf("ellipse %dx%d: %w", s.Width, s.Height, ErrInvalidDimension)
	}
	x, y := r.point(p, s.Width, s.Height)
	return []Command{EllipseCommand{
		X: x, Y: y, Width: s.Width, Height: s.Height,
		Fill: s.Fill, StrokeWidth: s.StrokeWidth, StrokeColor: s.StrokeColor,
	}}, nil
}

func itemKind(it Item) string {
	switch it.(type) {
	case Text, *Text:
		return "text"
	case Image, *Image:
		return "image"
	case Rectangle, *Rectangle:
		return "rect"
	case Ellipse, *Ellipse:
		return "ellipse"
	default:
		return fmt.Sprintf("%T", it)
	}
}

// StrokeGeometry 返回描边形状的填充几何：四边各内缩 strokeWidth/2，
// 使描边（以填充边界为中心）后的外轮廓仍为 width x height。
func StrokeGeometry(x, y, width, height, strokeWidth int) (fx, fy, fw, fh float64) {
	half := float64(strokeWidth) / 2
	fw = float64(width) - float64(strokeWidth)
	fh = float64(height) - float64(strokeWidth)
	if fw < 0 {
		fw = 0
	}
	if fh < 0 {
		fh = 0
	}
	return float64(x) + half, float64(y) + half, fw, fh
}
