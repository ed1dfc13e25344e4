package layout

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/ByLCY/easel/dsl"
)

type mapLoader map[string]image.Image

func (m mapLoader) LoadImage(src string) (image.Image, error) {
	if img, ok := m[src]; ok {
		return img, nil
	}
	return nil, errors.New("not found: " + src)
}

const posterDSL = `
doc Poster v1 {
  meta {
    title: "Pigeon"
    author: "easel"
  }

  resources {
    font Title {
      src: "embed:go-bold"
      size: 36
    }
    image photo = "photos/${bird}.jpg"
    color Ink = #222222
    style Base {
      color Ink
      padding 10
      align right
    }
    style Caption extends Base {
      font Title
      align center
    }
  }

  canvas 500 500 background #FFFF00 {
    image photo x center y 70 width 300 height 300
    text style Caption x center y bottom width 60% autoscale true { "Hello, ${user.name}!" }
    rect x -10 y 10 width 50 height 50 stroke #000 stroke-width 10 radius 8
    ellipse x right y top width 40 height 40 fill Ink
    circle x 5 y 5 r 10 fill transparent stroke Ink stroke-width 2
  }
}
`

func buildDoc(t *testing.T, src string, data any, loader ImageLoader) (*Scene, error) {
	t.Helper()
	doc, err := dsl.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	return FromDocument(doc, data, loader)
}

func TestFromDocumentPoster(t *testing.T) {
	photo := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	data := map[string]any{"bird": "pigeon", "user": map[string]any{"name": "Ada"}}
	scene, err := buildDoc(t, posterDSL, data, mapLoader{"photos/pigeon.jpg": photo})
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}

	if scene.Width != 500 || scene.Height != 500 || scene.Background != Yellow {
		t.Fatalf("unexpected canvas %dx%d %+v", scene.Width, scene.Height, scene.Background)
	}
	if scene.Meta.Title != "Pigeon" || scene.Meta.Author != "easel" {
		t.Fatalf("unexpected meta %+v", scene.Meta)
	}
	if len(scene.Items) != 5 {
		t.Fatalf("期望 5 个元素，实际 %d", len(scene.Items))
	}

	img := scene.Items[0]
	if img.X != Middle() || img.Y != At(70) {
		t.Fatalf("unexpected image placement %+v", img)
	}
	if it := img.Item.(Image); it.Source != image.Image(photo) || it.Width != 300 || it.Height != 300 {
		t.Fatalf("unexpected image %+v", it)
	}

	txt := scene.Items[1]
	if txt.X != Middle() || txt.Y != End() {
		t.Fatalf("unexpected text placement %+v", txt)
	}
	text := txt.Item.(Text)
	ink := Color{R: 0x22, G: 0x22, B: 0x22, A: 255}
	if text.Content != "Hello, Ada!" || text.Color != ink || text.Padding != Uniform(10) ||
		text.Align != AlignMiddle || text.Width != 300 || !text.AutoScale {
		t.Fatalf("unexpected text %+v", text)
	}
	if text.Font.Src != "embed:go-bold" || text.Font.Size != 36 || text.Font.Name != "Title" {
		t.Fatalf("unexpected font %+v", text.Font)
	}

	rect := scene.Items[2]
	r := rect.Item.(Rectangle)
	if rect.X != At(-10) || r.Width != 50 || r.StrokeWidth != 10 || r.CornerRadius != 8 || r.Fill != Blue || r.StrokeColor != Black {
		t.Fatalf("unexpected rect %+v %+v", rect, r)
	}

	el := scene.Items[3]
	if el.X != End() || el.Y != Start() || el.Item.(Ellipse).Fill != ink {
		t.Fatalf("unexpected ellipse %+v", el)
	}
	circle := scene.Items[4].Item.(Ellipse)
	if circle.Width != 20 || circle.Height != 20 || !circle.Fill.IsTransparent() || circle.StrokeWidth != 2 {
		t.Fatalf("unexpected circle %+v", circle)
	}
}

func TestFromDocumentResolvesWithStub(t *testing.T) {
	scene, err := buildDoc(t, `doc Min {
  canvas 200 100 {
    text x 10 y 20 size 10 { "abc" }
  }
}`, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if scene.Background != White {
		t.Fatalf("默认背景为白色: %+v", scene.Background)
	}
	plan, err := Resolve(scene, stubOptions())
	if err != nil {
		t.Fatal(err)
	}
	line := plan.Commands[1].(TextCommand)
	if line.X != 10 || line.Y != 20 || line.Width != 30 {
		t.Fatalf("unexpected line %+v", line)
	}
}

func TestFromDocumentErrors(t *testing.T) {
	cases := map[string]string{
		"no canvas":     "doc X {\n  meta {\n    title: \"x\"\n  }\n}",
		"zero canvas":   "doc X {\n  canvas 0 100 { }\n}",
		"bad color":     "doc X {\n  canvas 10 10 {\n    rect x 1 y 1 width 2 height 2 fill Nope\n  }\n}",
		"unknown font":  "doc X {\n  canvas 10 10 {\n    text x 1 y 1 font Nope { \"a\" }\n  }\n}",
		"style cycle":   "doc X {\n  resources {\n    style A extends B { }\n    style B extends A { }\n  }\n  canvas 10 10 { }\n}",
		"unknown style": "doc X {\n  canvas 10 10 {\n    text style Nope { \"a\" }\n  }\n}",
		"nested style":  "doc X {\n  resources {\n    style A { }\n    style B { style A }\n  }\n  canvas 10 10 { }\n}",
		"unknown image": "doc X {\n  canvas 10 10 {\n    image photo x 1 y 1\n  }\n}",
		"r on ellipse":  "doc X {\n  canvas 10 10 {\n    ellipse r 3\n  }\n}",
		"missing image": "doc X {\n  canvas 10 10 {\n    image \"a.png\" x 1 y 1\n  }\n}",
		"half image":    "doc X {\n  canvas 10 10 {\n    image \"a.png\" x 1 y 1 width 5\n  }\n}",
	}
	loader := mapLoader{"a.png": image.NewNRGBA(image.Rect(0, 0, 1, 1))}
	for name, src := range cases {
		l := ImageLoader(loader)
		if name == "missing image" {
			l = mapLoader{}
		}
		if _, err := buildDoc(t, src, nil, l); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	if _, err := buildDoc(t, cases["zero canvas"], nil, nil); !errors.Is(err, ErrInvalidDimension) {
		t.Fatalf("expected ErrInvalidDimension, got %v", err)
	}
}

func TestFromDocumentInlineAttributesWinOverStyle(t *testing.T) {
	scene, err := buildDoc(t, `doc S {
  resources {
    font Body {
      src: "embed:go-regular"
      size: 20
    }
    style Base { font Body; color #FF0000; padding 4 }
  }
  canvas 100 100 {
    text size 9 color #00FF00 style Base padding-left 1 content "c"
  }
}`, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	text := scene.Items[0].Item.(Text)
	if text.Font.Name != "Body" || text.Font.Size != 9 {
		t.Fatalf("字号应覆盖样式字体的字号，与属性顺序无关: %+v", text.Font)
	}
	if text.Color != (Color{G: 255, A: 255}) {
		t.Fatalf("内联颜色应优先: %+v", text.Color)
	}
	if text.Padding != (Padding{Top: 4, Left: 1, Right: 4, Bottom: 4}) {
		t.Fatalf("unexpected padding %+v", text.Padding)
	}
	if text.Content != "c" || scene.Items[0].X != At(0) || scene.Items[0].Y != At(0) {
		t.Fatalf("unexpected text %+v at %+v", text, scene.Items[0])
	}
}
