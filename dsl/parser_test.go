package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/easel/dsl"
)

const sampleDSL = `
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

    color Ink = #0F62FE
    image photo = "photos/${bird}.jpg"
    style Caption extends Base { font Title; color Ink; align center }
  }

  // z-order follows statement order
  canvas 500 500 background #FFFF00 {
    image photo x center y 70 width 300 height 300
    text style Caption x center y bottom width 300 autoscale true { "Hello, ${user.name}!" }
    rect x -10 y 10 width 50 height 50 fill #80FF0000 stroke-width 10
    circle x 5 y 5 r 10 fill transparent /* inline */ stroke Ink
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Name != "Poster" || doc.Version != "v1" {
		t.Fatalf("unexpected header %q %q", doc.Name, doc.Version)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(doc.Sections))
	}
	kinds := []string{doc.Sections[0].Kind(), doc.Sections[1].Kind(), doc.Sections[2].Kind()}
	if strings.Join(kinds, ",") != "meta,resources,canvas" {
		t.Fatalf("unexpected section kinds: %v", kinds)
	}

	meta := doc.Sections[0].Meta.Fields
	if len(meta) != 2 || meta[0].Key != "title" || meta[0].Value != "Pigeon" || meta[1].Key != "author" {
		t.Fatalf("unexpected meta %+v", meta)
	}

	res := doc.Sections[1].Resources.Decls
	if len(res) != 4 {
		t.Fatalf("expected 4 resources, got %d", len(res))
	}
	font := res[0].Font
	if font == nil || font.Name != "Title" || len(font.Props) != 2 || string(*font.Props[0].Src) != "embed:go-bold" || *font.Props[1].Size != "36" {
		t.Fatalf("unexpected font resource: %+v", font)
	}
	if c := res[1].Color; c == nil || c.Name != "Ink" || c.Value != "#0F62FE" {
		t.Fatalf("six-digit colour should lex as one token: %+v", c)
	}
	if img := res[2].Image; img == nil || img.Name != "photo" || img.Src != "photos/${bird}.jpg" {
		t.Fatalf("unexpected image resource: %+v", img)
	}
	style := res[3].Style
	if style == nil || style.Name != "Caption" || style.Extends != "Base" || len(style.Attrs) != 3 {
		t.Fatalf("unexpected style resource: %+v", style)
	}
	if a := style.Attrs[2].Align; a == nil || *a != "center" {
		t.Fatalf("align should take an anchor keyword: %+v", style.Attrs[2])
	}

	canvas := doc.Canvas()
	if canvas == nil {
		t.Fatal("canvas section missing")
	}
	if canvas.Width != "500" || canvas.Height != "500" || canvas.Background.String() != "#FFFF00" {
		t.Fatalf("unexpected canvas header %+v", canvas)
	}
	if len(canvas.Items) != 4 {
		t.Fatalf("expected 4 canvas items, got %d", len(canvas.Items))
	}

	img := canvas.Items[0].Image
	if img == nil || img.Source.Name == nil || *img.Source.Name != "photo" || len(img.Attrs) != 4 {
		t.Fatalf("expected image item, got %+v", canvas.Items[0])
	}
	if x := img.Attrs[0].X; x == nil || x.Anchor == nil || *x.Anchor != "center" {
		t.Fatalf("x center should be an anchor: %+v", img.Attrs[0])
	}
	if y := img.Attrs[1].Y; y == nil || y.Offset == nil || *y.Offset != "70" {
		t.Fatalf("y 70 should be an offset: %+v", img.Attrs[1])
	}

	text := canvas.Items[1].Text
	if text == nil || len(text.Attrs) != 5 || *text.Attrs[0].Style != "Caption" {
		t.Fatalf("expected text item, got %+v", canvas.Items[1])
	}
	if as := text.Attrs[4].AutoScale; as == nil || !bool(*as) {
		t.Fatalf("autoscale true not captured: %+v", text.Attrs[4])
	}
	if len(text.Content) != 1 || !strings.Contains(string(text.Content[0].Value), "${user.name}") {
		t.Fatalf("expected interpolation in text literal, got %+v", text.Content)
	}

	rect := canvas.Items[2].Rect
	if rect == nil || len(rect.Attrs) != 6 {
		t.Fatalf("expected rect item, got %+v", canvas.Items[2])
	}
	if x := rect.Attrs[0].X; x == nil || x.Offset == nil || *x.Offset != "-10" {
		t.Fatalf("negative offset should lex as a length: %+v", rect.Attrs[0])
	}
	if f := rect.Attrs[4].Fill; f == nil || f.Hex == nil || *f.Hex != "#80FF0000" {
		t.Fatalf("eight-digit colour expected: %+v", rect.Attrs[4])
	}

	circle := canvas.Items[3].Ellipse
	if circle == nil || !circle.Circle || len(circle.Attrs) != 5 {
		t.Fatalf("expected circle item, got %+v", canvas.Items[3])
	}
	if f := circle.Attrs[3].Fill; f == nil || f.Name == nil || *f.Name != "transparent" {
		t.Fatalf("named colour expected: %+v", circle.Attrs[3])
	}
}

func TestParseOptionalParts(t *testing.T) {
	doc, err := dsl.ParseString("doc Min {\n  canvas 10 10 {\n    ellipse; rect width 2 height 2\n    text content \"x\"\n  }\n}")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Version != "" {
		t.Fatalf("version is optional, got %q", doc.Version)
	}
	items := doc.Canvas().Items
	if len(items) != 3 || items[0].Ellipse == nil || items[0].Ellipse.Circle || items[1].Rect == nil || items[2].Text == nil {
		t.Fatalf("unexpected items %+v", items)
	}
	if doc.Canvas().Background != nil {
		t.Fatal("background is optional")
	}
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown section": "doc Bad v1 {\n  page A4 { }\n}",
		"unknown item":    "doc Bad {\n  canvas 10 10 {\n    triangle x 1\n  }\n}",
		"unknown attr":    "doc Bad {\n  canvas 10 10 {\n    rect depth 3\n  }\n}",
		"bad align":       "doc Bad {\n  canvas 10 10 {\n    text align 5\n  }\n}",
		"bad autoscale":   "doc Bad {\n  canvas 10 10 {\n    text autoscale yes\n  }\n}",
		"unknown meta":    "doc Bad {\n  meta {\n    subject: \"x\"\n  }\n}",
		"short colour":    "doc Bad {\n  canvas 10 10 background #1234 { }\n}",
	}
	for name, src := range cases {
		if _, err := dsl.ParseString(src); err == nil {
			t.Fatalf("%s: expected parse error", name)
		}
	}
}
