package layout

import (
	"image"

	"github.com/ByLCY/easel/imageio"
)

// DefaultWrapMargin 是折行时额外预留的像素，用于吸收字宽测量的取整误差。
const DefaultWrapMargin = 20

// DefaultFontSize 是未指定字号时使用的像素字号。
const DefaultFontSize = 12

// BuildOptions 配置第一阶段所需的依赖与可调参数。
type BuildOptions struct {
	Typesetter  Typesetter
	Scaler      Scaler // 为空时使用 imageio.Scale
	DefaultFont Font
	Text        TextOptions
}

// TextOptions 是文本排版的可调常量。
type TextOptions struct {
	WrapMargin int // 折行安全余量（像素）
	RightInset int // 右对齐时距右内边距的额外留白（像素）
}

// DefaultBuildOptions 返回带默认参数的配置，调用方仍需提供 Typesetter。
func DefaultBuildOptions(ts Typesetter) BuildOptions {
	return BuildOptions{
		Typesetter:  ts,
		DefaultFont: Font{Size: DefaultFontSize},
		Text:        TextOptions{WrapMargin: DefaultWrapMargin},
	}
}

// Typesetter 提供字形度量：给定字体与字符串，返回像素宽度与行高。
// 实现必须是纯函数式的（同样输入同样输出），且不得返回错误。
type Typesetter interface {
	MeasureWidth(font Font, s string) int
	LineHeight(font Font) int
	Ascent(font Font) int
	DeriveFont(font Font, size int) Font
}

// Scaler 把像素源缩放到指定尺寸。
type Scaler interface {
	Scale(src image.Image, width, height int) image.Image
}

// ScalerFunc 让普通函数实现 Scaler。
type ScalerFunc func(src image.Image, width, height int) image.Image

func (f ScalerFunc) Scale(src image.Image, width, height int) image.Image {
	return f(src, width, height)
}

// ImageLoader 按资源名或路径加载并解码图片，供 DSL 场景使用。
type ImageLoader interface {
	LoadImage(src string) (image.Image, error)
}

func (o BuildOptions) scaler() Scaler {
	if o.Scaler != nil {
		return o.Scaler
	}
	return ScalerFunc(imageio.Scale)
}

func (o BuildOptions) defaultFont() Font {
	f := o.DefaultFont
	if f.Size <= 0 {
		f.Size = DefaultFontSize
	}
	return f
}
