package layout

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/ByLCY/easel/binding"
	"github.com/ByLCY/easel/dsl"
)

// ResourceSet 收集 resources 段声明的字体、颜色、图片与样式。
type ResourceSet struct {
	Fonts  map[string]Font   `json:"fonts"`
	Colors map[string]Color  `json:"colors"`
	Images map[string]string `json:"images"` // 名称 -> src
	Styles map[string]Style  `json:"styles"`
}

// Style 是可继承的文本属性集合；Attrs 已合并父样式，元素上的内联属性优先。
type Style struct {
	Name    string       `json:"name"`
	Extends string       `json:"extends,omitempty"`
	Attrs   dsl.TextAttr `json:"-"`
}

// FromDocument 把解析后的 DSL 文档转换为 Scene。
// data 用于 ${path} 插值；loader 负责按 src 加载图片，文档不含图片时可为 nil。
func FromDocument(doc *dsl.Document, data any, loader ImageLoader) (*Scene, error) {
	if doc == nil {
		return nil, errors.New("文档为空")
	}
	canvas := doc.Canvas()
	if canvas == nil {
		return nil, errors.New("文档缺少 canvas 段")
	}
	res, err := collectResources(doc)
	if err != nil {
		return nil, err
	}

	width := ParseRawLengthStr(canvas.Width).Px(0)
	height := ParseRawLengthStr(canvas.Height).Px(0)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%s: canvas %dx%d: %w", canvas.Pos, width, height, ErrInvalidDimension)
	}
	bg := White
	if canvas.Background != nil {
		if bg, err = resolveColor(canvas.Background, res); err != nil {
			return nil, fmt.Errorf("%s: background: %w", canvas.Pos, err)
		}
	}

	b := NewBuilder(width, height, bg).Meta(collectMeta(doc, data))
	d := docBuilder{res: res, data: data, loader: loader, width: width, height: height}
	for _, it := range canvas.Items {
		x, y, item, err := d.item(it)
		if err != nil {
			return nil, err
		}
		b.Add(x, y, item)
	}
	return b.Build()
}

type docBuilder struct {
	res           ResourceSet
	data          any
	loader        ImageLoader
	width, height int
}

func (d docBuilder) item(it *dsl.Item) (Axis, Axis, Item, error) {
	switch {
	case it.Text != nil:
		x, y, t, err := d.text(it.Text)
		if err != nil {
			return x, y, nil, fmt.Errorf("%s: text: %w", it.Text.Pos, err)
		}
		return x, y, t, nil
	case it.Image != nil:
		x, y, img, err := d.image(it.Image)
		if err != nil {
			return x, y, nil, fmt.Errorf("%s: image: %w", it.Image.Pos, err)
		}
		return x, y, img, nil
	case it.Rect != nil:
		var a dsl.ShapeAttr
		for _, attr := range it.Rect.Attrs {
			overlay(&a, attr)
		}
		r := NewRectangle(d.px(a.Width, d.width), d.px(a.Height, d.height))
		if err := d.shapeStyle(a, &r.Fill, &r.StrokeColor, &r.StrokeWidth); err != nil {
			return Axis{}, Axis{}, nil, fmt.Errorf("%s: rect: %w", it.Rect.Pos, err)
		}
		r.CornerRadius = d.px(a.Radius, 0)
		return d.axis(a.X, d.width), d.axis(a.Y, d.height), r, nil
	case it.Ellipse != nil:
		var a dsl.ShapeAttr
		for _, attr := range it.Ellipse.Attrs {
			overlay(&a, attr)
		}
		if a.R != nil && !it.Ellipse.Circle {
			return Axis{}, Axis{}, nil, fmt.Errorf("%s: ellipse: r 只适用于 circle", it.Ellipse.Pos)
		}
		w, h := d.px(a.Width, d.width), d.px(a.Height, d.height)
		if a.R != nil {
			w = 2 * d.px(a.R, 0)
			h = w
		}
		e := NewEllipse(w, h)
		if err := d.shapeStyle(a, &e.Fill, &e.StrokeColor, &e.StrokeWidth); err != nil {
			return Axis{}, Axis{}, nil, fmt.Errorf("%s: ellipse: %w", it.Ellipse.Pos, err)
		}
		return d.axis(a.X, d.width), d.axis(a.Y, d.height), e, nil
	default:
		return Axis{}, Axis{}, nil, errors.New("空元素")
	}
}

// text 先叠加引用的样式，再叠加内联属性，最后按固定顺序应用（字体先于字号）。
func (d docBuilder) text(item *dsl.TextItem) (Axis, Axis, Text, error) {
	var a dsl.TextAttr
	for _, attr := range item.Attrs {
		if attr.Style == nil {
			continue
		}
		s, ok := d.res.Styles[*attr.Style]
		if !ok {
			return Axis{}, Axis{}, Text{}, fmt.Errorf("style %s 未定义", *attr.Style)
		}
		overlay(&a, &s.Attrs)
	}
	for _, attr := range item.Attrs {
		overlay(&a, attr)
	}

	content := extractText(item.Content)
	if content == "" && a.Content != nil {
		content = string(*a.Content)
	}
	t := NewText(binding.Interpolate(content, d.data), Black)

	var err error
	if a.Color != nil {
		if t.Color, err = resolveColor(a.Color, d.res); err != nil {
			return Axis{}, Axis{}, t, err
		}
	}
	if a.Background != nil {
		if t.Background, err = resolveColor(a.Background, d.res); err != nil {
			return Axis{}, Axis{}, t, err
		}
	}
	if a.Font != nil {
		f, ok := d.res.Fonts[*a.Font]
		if !ok {
			return Axis{}, Axis{}, t, fmt.Errorf("字体 %s 未定义", *a.Font)
		}
		t.Font = f
	}
	if a.Size != nil {
		t.Font.Size = d.px(a.Size, 0)
	}
	if a.FontStyle != nil {
		t.Font.Style = *a.FontStyle
	}
	if a.Padding != nil {
		t.Padding = Uniform(d.px(a.Padding, 0))
	}
	for _, side := range []struct {
		v   *string
		dst *int
	}{
		{a.PaddingTop, &t.Padding.Top}, {a.PaddingLeft, &t.Padding.Left},
		{a.PaddingRight, &t.Padding.Right}, {a.PaddingBottom, &t.Padding.Bottom},
	} {
		if side.v != nil {
			*side.dst = d.px(side.v, 0)
		}
	}
	if a.Align != nil {
		t.Align = ParseTextAlign(*a.Align)
	}
	t.Width = d.px(a.Width, d.width)
	t.Height = d.px(a.Height, d.height)
	if a.AutoScale != nil {
		t.AutoScale = bool(*a.AutoScale)
	}
	return d.axis(a.X, d.width), d.axis(a.Y, d.height), t, nil
}

func (d docBuilder) image(item *dsl.ImageItem) (Axis, Axis, Image, error) {
	var a dsl.ImageAttr
	for _, attr := range item.Attrs {
		overlay(&a, attr)
	}
	var src string
	switch {
	case item.Source.Name != nil:
		s, ok := d.res.Images[*item.Source.Name]
		if !ok {
			return Axis{}, Axis{}, Image{}, fmt.Errorf("图片资源 %s 未定义", *item.Source.Name)
		}
		src = s
	case item.Source.Path != nil:
		src = string(*item.Source.Path)
	}
	src = binding.Interpolate(src, d.data)
	if d.loader == nil {
		return Axis{}, Axis{}, Image{}, fmt.Errorf("无法加载图片 %s：未配置图片加载器", src)
	}
	pix, err := d.loader.LoadImage(src)
	if err != nil {
		return Axis{}, Axis{}, Image{}, err
	}
	img := Image{Source: pix, Width: d.px(a.Width, d.width), Height: d.px(a.Height, d.height)}
	return d.axis(a.X, d.width), d.axis(a.Y, d.height), img, nil
}

func (d docBuilder) shapeStyle(a dsl.ShapeAttr, fill, stroke *Color, strokeWidth *int) error {
	var err error
	if a.Fill != nil {
		if *fill, err = resolveColor(a.Fill, d.res); err != nil {
			return err
		}
	}
	if a.Stroke != nil {
		if *stroke, err = resolveColor(a.Stroke, d.res); err != nil {
			return err
		}
	}
	*strokeWidth = d.px(a.StrokeWidth, 0)
	return nil
}

// axis 解析 x/y：锚点关键字或长度（百分比相对画布尺寸）；未指定时为 0。
func (d docBuilder) axis(c *dsl.Coord, reference int) Axis {
	if c == nil {
		return At(0)
	}
	if c.Anchor != nil {
		if a, ok := ParseAnchor(*c.Anchor); ok {
			return Axis{Anchor: a}
		}
	}
	return At(d.px(c.Offset, reference))
}

func (d docBuilder) px(v *string, reference int) int {
	if v == nil {
		return 0
	}
	return ParseRawLengthStr(*v).Px(reference)
}

// overlay 把 src 中已设置的属性覆盖到 dst 上，后出现的属性优先。
// 属性结构体的字段均为指针，nil 表示未设置。
func overlay[T any](dst, src *T) {
	if src == nil {
		return
	}
	dv, sv := reflect.ValueOf(dst).Elem(), reflect.ValueOf(src).Elem()
	for i := 0; i < sv.NumField(); i++ {
		if f := sv.Field(i); f.Kind() == reflect.Pointer && !f.IsNil() {
			dv.Field(i).Set(f)
		}
	}
}

func collectResources(doc *dsl.Document) (ResourceSet, error) {
	res := ResourceSet{
		Fonts:  map[string]Font{},
		Colors: map[string]Color{},
		Images: map[string]string{},
		Styles: map[string]Style{},
	}
	rawStyles := map[string]*dsl.StyleDecl{}

	for _, section := range doc.Sections {
		if section.Resources == nil {
			continue
		}
		for _, decl := range section.Resources.Decls {
			switch {
			case decl.Font != nil:
				res.Fonts[decl.Font.Name] = parseFontResource(decl.Font)
			case decl.Color != nil:
				c, err := ParseColor(decl.Color.Value)
				if err != nil {
					return res, fmt.Errorf("%s: color %s: %w", decl.Color.Pos, decl.Color.Name, err)
				}
				res.Colors[decl.Color.Name] = c
			case decl.Image != nil:
				res.Images[decl.Image.Name] = string(decl.Image.Src)
			case decl.Style != nil:
				for _, attr := range decl.Style.Attrs {
					if attr.Style != nil {
						return res, fmt.Errorf("%s: style %s: 样式内不能引用样式，请使用 extends", decl.Style.Pos, decl.Style.Name)
					}
				}
				rawStyles[decl.Style.Name] = decl.Style
			}
		}
	}

	resolved, err := resolveStyles(rawStyles)
	if err != nil {
		return res, err
	}
	res.Styles = resolved
	return res, nil
}

func collectMeta(doc *dsl.Document, data any) Meta {
	var meta Meta
	for _, section := range doc.Sections {
		if section.Meta == nil {
			continue
		}
		for _, f := range section.Meta.Fields {
			v := binding.Interpolate(string(f.Value), data)
			switch f.Key {
			case "title":
				meta.Title = v
			case "author":
				meta.Author = v
			}
		}
	}
	return meta
}

func parseFontResource(decl *dsl.FontDecl) Font {
	f := Font{Name: decl.Name}
	for _, p := range decl.Props {
		switch {
		case p.Src != nil:
			f.Src = string(*p.Src)
		case p.Size != nil:
			f.Size = ParseRawLengthStr(*p.Size).Px(0)
		case p.Style != nil:
			f.Style = *p.Style
		}
	}
	return f
}

// resolveStyles 展开 extends 链：父样式属性在前，子样式覆盖；检测循环继承。
func resolveStyles(styles map[string]*dsl.StyleDecl) (map[string]Style, error) {
	resolved := map[string]Style{}
	visiting := map[string]bool{}

	var dfs func(name string) (Style, error)
	dfs = func(name string) (Style, error) {
		if style, ok := resolved[name]; ok {
			return style, nil
		}
		decl, ok := styles[name]
		if !ok {
			return Style{}, fmt.Errorf("style %s 未定义", name)
		}
		if visiting[name] {
			return Style{}, fmt.Errorf("style 继承存在循环：%s", name)
		}
		visiting[name] = true

		style := Style{Name: name, Extends: decl.Extends}
		if decl.Extends != "" {
			parent, err := dfs(decl.Extends)
			if err != nil {
				return Style{}, err
			}
			style.Attrs = parent.Attrs
		}
		for _, attr := range decl.Attrs {
			overlay(&style.Attrs, attr)
		}
		resolved[name] = style
		delete(visiting, name)
		return style, nil
	}

	for name := range styles {
		if _, err := dfs(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

func extractText(lines []*dsl.TextLiteral) string {
	var builder strings.Builder
	for _, l := range lines {
		builder.WriteString(string(l.Value))
	}
	return builder.String()
}

// resolveColor 依次尝试颜色资源名、transparent/none 与十六进制字面量。
func resolveColor(ref *dsl.ColorRef, res ResourceSet) (Color, error) {
	if ref.Hex != nil {
		return ParseColor(*ref.Hex)
	}
	name := ref.String()
	if c, ok := res.Colors[name]; ok {
		return c, nil
	}
	switch strings.ToLower(name) {
	case "transparent", "none":
		return Transparent, nil
	}
	return Color{}, fmt.Errorf("颜色 %s 未定义", name)
}
