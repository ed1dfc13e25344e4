package layout

import (
	"image"
	"image/color"
)

// 该文件定义场景（输入）与绘制计划（输出）的数据模型，供解析、排版、渲染与调试 JSON 共用。

// Color 使用 0-255 的 RGBA 分量（非预乘 alpha）。
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// 常用颜色。
var (
	Transparent = Color{}
	Black       = Color{A: 255}
	White       = Color{R: 255, G: 255, B: 255, A: 255}
	Blue        = Color{B: 255, A: 255}
	Yellow      = Color{R: 255, G: 255, A: 255}
)

// RGBA 实现 color.Color。
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// IsTransparent 报告颜色是否完全透明。
func (c Color) IsTransparent() bool { return c.A == 0 }

// Font 是字体引用；零值表示使用画布默认字体。
// Src 可以是文件路径、embed:<name> 或 built-in:<name>，Size 以像素为单位。
type Font struct {
	Name  string `json:"name,omitempty"`
	Src   string `json:"src,omitempty"`
	Style string `json:"style,omitempty"`
	Size  int    `json:"size"`
}

// IsZero 报告是否未指定字体。
func (f Font) IsZero() bool { return f.Name == "" && f.Src == "" && f.Style == "" && f.Size == 0 }

// Anchor 是单个轴上的语义位置。
type Anchor int

const (
	AnchorNone   Anchor = iota // 使用显式偏移
	AnchorStart                // 左 / 上
	AnchorMiddle               // 居中
	AnchorEnd                  // 右 / 下
)

func (a Anchor) String() string {
	switch a {
	case AnchorStart:
		return "start"
	case AnchorMiddle:
		return "middle"
	case AnchorEnd:
		return "end"
	default:
		return "none"
	}
}

// Axis 描述一个轴上的定位：Anchor 不为 AnchorNone 时优先于 Offset。
type Axis struct {
	Anchor Anchor `json:"anchor"`
	Offset int    `json:"offset"`
}

// At 返回显式像素偏移。
func At(offset int) Axis { return Axis{Offset: offset} }

// Start 返回贴齐起始边（左/上）的定位。
func Start() Axis { return Axis{Anchor: AnchorStart} }

// Middle 返回居中定位。
func Middle() Axis { return Axis{Anchor: AnchorMiddle} }

// End 返回贴齐结束边（右/下）的定位。
func End() Axis { return Axis{Anchor: AnchorEnd} }

// TextAlign 是文本行在自身文本框内的水平对齐方式。
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignMiddle
	AlignRight
)

func (a TextAlign) String() string {
	switch a {
	case AlignMiddle:
		return "middle"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Padding 以像素为单位。
type Padding struct {
	Top    int `json:"top"`
	Left   int `json:"left"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Uniform 返回四边相同的内边距。
func Uniform(v int) Padding { return Padding{Top: v, Left: v, Right: v, Bottom: v} }

// Item 是可绘制元素的封闭和类型：Text、Image、Rectangle、Ellipse。
type Item interface {
	isItem()
}

// Text 是一个多行文本块，Width > 0 时启用折行或自动缩放字体。
type Text struct {
	Content    string    `json:"content"`
	Color      Color     `json:"color"`
	Background Color     `json:"background"`
	Font       Font      `json:"font"`
	Padding    Padding   `json:"padding"`
	Align      TextAlign `json:"align"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	AutoScale  bool      `json:"autoScale"`
}

// Image 引用一张已解码的图片；Width/Height 为缩放尺寸，必须同时设置或同时为 0。
type Image struct {
	Source image.Image `json:"-"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
}

// Rectangle 是可带描边与圆角的矩形；StrokeWidth 为 0 表示不描边。
type Rectangle struct {
	Width        int   `json:"width"`
	Height       int   `json:"height"`
	Fill         Color `json:"fill"`
	StrokeWidth  int   `json:"strokeWidth"`
	StrokeColor  Color `json:"strokeColor"`
	CornerRadius int   `json:"cornerRadius"`
}

// Ellipse 是外接于 Width x Height 的椭圆。
type Ellipse struct {
	Width       int   `json:"width"`
	Height      int   `json:"height"`
	Fill        Color `json:"fill"`
	StrokeWidth int   `json:"strokeWidth"`
	StrokeColor Color `json:"strokeColor"`
}

func (Text) isItem()      {}
func (Image) isItem()     {}
func (Rectangle) isItem() {}
func (Ellipse) isItem()   {}

// NewText 返回左对齐、透明背景的文本。
func NewText(content string, col Color) Text {
	return Text{Content: content, Color: col, Align: AlignLeft}
}

// NewImage 返回按原始尺寸绘制的图片。
func NewImage(src image.Image) Image { return Image{Source: src} }

// NewRectangle 返回蓝色填充、黑色描边色（未描边）的矩形。
func NewRectangle(width, height int) Rectangle {
	return Rectangle{Width: width, Height: height, Fill: Blue, StrokeColor: Black}
}

// NewEllipse 返回蓝色填充、黑色描边色（未描边）的椭圆。
func NewEllipse(width, height int) Ellipse {
	return Ellipse{Width: width, Height: height, Fill: Blue, StrokeColor: Black}
}

// Placement 把元素与两个轴的定位绑定在一起，插入顺序即绘制顺序。
type Placement struct {
	X    Axis `json:"x"`
	Y    Axis `json:"y"`
	Item Item `json:"item"`
}

// Scene 是一次合成所需的全部输入：画布尺寸、背景色与冻结的元素列表。
type Scene struct {
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Background Color       `json:"background"`
	Items      []Placement `json:"items"`
	Meta       Meta        `json:"meta"`
}

// Meta 保存场景元信息，仅用于调试输出。
type Meta struct {
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
}

// Command 是第一阶段产出的绝对坐标绘制指令，封闭和类型：
// RectCommand、EllipseCommand、TextCommand、ImageCommand。
type Command interface {
	isCommand()
}

// RectCommand 绘制（圆角）矩形。
type RectCommand struct {
	X            int   `json:"x"`
	Y            int   `json:"y"`
	Width        int   `json:"width"`
	Height       int   `json:"height"`
	Fill         Color `json:"fill"`
	StrokeWidth  int   `json:"strokeWidth"`
	StrokeColor  Color `json:"strokeColor"`
	CornerRadius int   `json:"cornerRadius"`
}

// EllipseCommand 绘制椭圆。
type EllipseCommand struct {
	X           int   `json:"x"`
	Y           int   `json:"y"`
	Width       int   `json:"width"`
	Height      int   `json:"height"`
	Fill        Color `json:"fill"`
	StrokeWidth int   `json:"strokeWidth"`
	StrokeColor Color `json:"strokeColor"`
}

// TextCommand 绘制单行文本，(X, Y) 为行顶部左侧，基线位于 Y + Ascent。
type TextCommand struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Ascent  int    `json:"ascent"`
	Width   int    `json:"width"`
	Content string `json:"content"`
	Font    Font   `json:"font"`
	Color   Color  `json:"color"`
}

// ImageCommand 在 (X, Y) 处贴入已缩放好的像素源。
type ImageCommand struct {
	X      int         `json:"x"`
	Y      int         `json:"y"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Source image.Image `json:"-"`
}

func (RectCommand) isCommand()    {}
func (EllipseCommand) isCommand() {}
func (TextCommand) isCommand()    {}
func (ImageCommand) isCommand()   {}

// Plan 是第一阶段的结果：按发出顺序排列的绘制指令。
type Plan struct {
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Background Color     `json:"background"`
	Commands   []Command `json:"commands"`
}

// TextLine 表示排版后的一行文本及其像素宽度。
type TextLine struct {
	Content string `json:"content"`
	Width   int    `json:"width"`
}

// TextBlock 是文本排版引擎的输出。
type TextBlock struct {
	Lines      []TextLine `json:"lines"`
	Font       Font       `json:"font"`
	LineHeight int        `json:"lineHeight"`
	Ascent     int        `json:"ascent"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
}
