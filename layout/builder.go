package layout

import (
	"fmt"
	"image"
)

// Builder 以链式调用累积画布元素，Build 时冻结为 Scene。
//
//	scene, err := layout.NewBuilder(500, 500, layout.Yellow).
//		Add(layout.Middle(), layout.At(70), layout.Image{Source: photo, Width: 300, Height: 300}).
//		Add(layout.Middle(), layout.End(), caption).
//		Build()
//
// 构造过程中的第一个错误会被记录，由 Build 返回。
type Builder struct {
	scene Scene
	err   error
}

// NewBuilder 创建指定尺寸与背景色的画布构建器。
func NewBuilder(width, height int, background Color) *Builder {
	b := &Builder{scene: Scene{Width: width, Height: height, Background: background}}
	if width <= 0 || height <= 0 {
		b.err = fmt.Errorf("canvas %dx%d: %w", width, height, ErrInvalidDimension)
	}
	return b
}

// Meta 设置场景元信息。
func (b *Builder) Meta(m Meta) *Builder {
	b.scene.Meta = m
	return b
}

// Add 追加一个元素，插入顺序即绘制顺序（后加入的在上层）。
// 指针元素按值复制保存，之后修改原对象不影响场景。
func (b *Builder) Add(x, y Axis, item Item) *Builder {
	item = byValue(item)
	if err := validateItem(item); err != nil && b.err == nil {
		b.err = fmt.Errorf("item %d: %w", len(b.scene.Items), err)
	}
	b.scene.Items = append(b.scene.Items, Placement{X: x, Y: y, Item: item})
	return b
}

// AddImage 以原始尺寸追加图片。
func (b *Builder) AddImage(x, y Axis, src image.Image) *Builder {
	return b.Add(x, y, NewImage(src))
}

// Err 返回已记录的第一个错误。
func (b *Builder) Err() error { return b.err }

// Build 返回场景的独立副本；之后对 Builder 的修改不会影响已返回的场景。
func (b *Builder) Build() (*Scene, error) {
	if b.err != nil {
		return nil, b.err
	}
	s := b.scene
	s.Items = append([]Placement(nil), b.scene.Items...)
	return &s, nil
}

// byValue 把指针元素解引用为值；nil 指针返回 nil。
func byValue(item Item) Item {
	switch it := item.(type) {
	case *Text:
		if it != nil {
			return *it
		}
	case *Image:
		if it != nil {
			return *it
		}
	case *Rectangle:
		if it != nil {
			return *it
		}
	case *Ellipse:
		if it != nil {
			return *it
		}
	default:
		return item
	}
	return nil
}

func validateItem(item Item) error {
	switch it := item.(type) {
	case nil:
		return fmt.Errorf("nil item: %w", ErrInvalidDimension)
	case Image:
		if it.Source == nil {
			return fmt.Errorf("image without source")
		}
		if (it.Width == 0) != (it.Height == 0) || it.Width < 0 || it.Height < 0 {
			return fmt.Errorf("image size %dx%d: %w", it.Width, it.Height, ErrInvalidDimension)
		}
	case Rectangle:
		if it.Width < 0 || it.Height < 0 || it.StrokeWidth < 0 {
			return fmt.Errorf("rectangle %dx%d: %w", it.Width, it.Height, ErrInvalidDimension)
		}
	case Ellipse:
		if it.Width < 0 || it.Height < 0 || it.StrokeWidth < 0 {
			return fmt.Errorf("ellipse %dx%d: %w", it.Width, it.Height, ErrInvalidDimension)
		}
	}
	return nil
}
