package layout

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func resolveScene(t *testing.T, b *Builder) *Plan {
	t.Helper()
	scene, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	plan, err := Resolve(scene, stubOptions())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return plan
}

func TestResolvePosterScenario(t *testing.T) {
	caption := NewText("Pigeon", Black)
	caption.Width = 300
	caption.Font = Font{Size: 20}
	caption.Padding = Uniform(10)

	plan := resolveScene(t, NewBuilder(500, 500, Yellow).
		Add(Middle(), At(70), Image{Source: fill(10, 10, color.White), Width: 300, Height: 300}).
		Add(Middle(), End(), caption))

	if len(plan.Commands) != 3 {
		t.Fatalf("期望 3 条指令，实际 %d", len(plan.Commands))
	}
	img, ok := plan.Commands[0].(ImageCommand)
	if !ok || img.X != 100 || img.Y != 70 || img.Width != 300 || img.Height != 300 {
		t.Fatalf("unexpected image command %+v", plan.Commands[0])
	}
	if b := img.Source.Bounds(); b.Dx() != 300 || b.Dy() != 300 {
		t.Fatalf("图片应在第一阶段缩放，实际 %v", b)
	}

	bg, ok := plan.Commands[1].(RectCommand)
	wantH := 22 + 20
	if !ok || bg.X != 100 || bg.Y != 500-wantH || bg.Width != 300 || bg.Height != wantH {
		t.Fatalf("unexpected text background %+v", plan.Commands[1])
	}
	if !bg.Fill.IsTransparent() {
		t.Fatalf("文本背景默认透明: %+v", bg.Fill)
	}
	line := plan.Commands[2].(TextCommand)
	if line.X != 110 || line.Y != 500-wantH+10 || line.Ascent != 20 || line.Content != "Pigeon" {
		t.Fatalf("unexpected text line %+v", line)
	}
}

func TestResolveKeepsInsertionOrder(t *testing.T) {
	two := NewText("a\nb", Black)
	plan := resolveScene(t, NewBuilder(100, 100, White).
		Add(At(0), At(0), NewRectangle(10, 10)).
		Add(At(0), At(0), two).
		Add(At(0), At(0), NewEllipse(10, 10)))

	kinds := ""
	for _, c := range plan.Commands {
		kinds += commandKind(c) + " "
	}
	if kinds != "rect rect text text ellipse " {
		t.Fatalf("unexpected command order: %s", kinds)
	}
}

func TestResolveTextAlignment(t *testing.T) {
	base := NewText("abc", Black)
	base.Font = ten
	base.Width = 100
	base.Padding = Uniform(5)

	opts := stubOptions()
	opts.Text.RightInset = 3
	cases := map[TextAlign]int{AlignLeft: 7 + 5, AlignMiddle: 7 + 5 + (100-10-30)/2, AlignRight: 7 + 100 - 5 - 30 - 3}
	for align, want := range cases {
		text := base
		text.Align = align
		scene, err := NewBuilder(200, 200, White).Add(At(7), At(9), text).Build()
		if err != nil {
			t.Fatal(err)
		}
		plan, err := Resolve(scene, opts)
		if err != nil {
			t.Fatal(err)
		}
		line := plan.Commands[1].(TextCommand)
		if line.X != want || line.Y != 9+5 {
			t.Fatalf("%v: 期望 x=%d，实际 (%d,%d)", align, want, line.X, line.Y)
		}
	}
}

func TestResolveLineSpacing(t *testing.T) {
	text := NewText("a\nb\nc", Black)
	text.Font = ten
	text.Padding = Padding{Top: 4}
	plan := resolveScene(t, NewBuilder(100, 100, White).Add(At(0), At(10), text))
	for i := 1; i <= 3; i++ {
		line := plan.Commands[i].(TextCommand)
		if want := 10 + 4 + 12*(i-1); line.Y != want {
			t.Fatalf("line %d: 期望 y=%d，实际 %d", i, want, line.Y)
		}
	}
}

func TestResolveDefaultFontDoesNotMutateItem(t *testing.T) {
	text := NewText("abc", Black)
	scene, err := NewBuilder(100, 100, White).Add(At(0), At(0), text).Build()
	if err != nil {
		t.Fatal(err)
	}
	opts := stubOptions()
	opts.DefaultFont = Font{Name: "body", Size: 16}
	plan, err := Resolve(scene, opts)
	if err != nil {
		t.Fatal(err)
	}
	line := plan.Commands[1].(TextCommand)
	if line.Font.Size != 16 || line.Font.Name != "body" {
		t.Fatalf("默认字体未生效: %+v", line.Font)
	}
	if got := scene.Items[0].Item.(Text).Font; !got.IsZero() {
		t.Fatalf("场景中的元素不应被修改: %+v", got)
	}
}

func TestResolveAutoScaledFontReachesCommands(t *testing.T) {
	text := NewText("0123456789", Black)
	text.Font = ten
	text.Width = 60
	text.AutoScale = true
	plan := resolveScene(t, NewBuilder(100, 100, White).Add(At(0), At(0), text))
	if got := plan.Commands[1].(TextCommand).Font.Size; got != 5 {
		t.Fatalf("期望缩放后的字号 5，实际 %d", got)
	}
}

func TestResolveImageNaturalSize(t *testing.T) {
	src := fill(30, 20, color.Black)
	plan := resolveScene(t, NewBuilder(100, 100, White).Add(End(), End(), NewImage(src)))
	img := plan.Commands[0].(ImageCommand)
	if img.X != 70 || img.Y != 80 || img.Width != 30 || img.Height != 20 || img.Source != image.Image(src) {
		t.Fatalf("unexpected image command %+v", img)
	}
}

func TestResolveStrokeGeometry(t *testing.T) {
	x, y, w, h := StrokeGeometry(0, 0, 50, 50, 10)
	if x != 5 || y != 5 || w != 40 || h != 40 {
		t.Fatalf("unexpected inset geometry %v %v %v %v", x, y, w, h)
	}
	if _, _, w, h := StrokeGeometry(0, 0, 4, 4, 10); w != 0 || h != 0 {
		t.Fatalf("过粗的描边不应产生负尺寸: %v %v", w, h)
	}
}

func TestResolveErrors(t *testing.T) {
	if _, err := Resolve(&Scene{Width: 0, Height: 10}, stubOptions()); !errors.Is(err, ErrInvalidDimension) {
		t.Fatalf("expected ErrInvalidDimension, got %v", err)
	}
	half := &Scene{Width: 10, Height: 10, Items: []Placement{{Item: Image{Source: fill(1, 1, color.Black), Height: 4}}}}
	if _, err := Resolve(half, stubOptions()); !errors.Is(err, ErrInvalidDimension) {
		t.Fatalf("expected ErrInvalidDimension, got %v", err)
	}
	if _, err := Resolve(&Scene{Width: 10, Height: 10}, BuildOptions{}); err == nil {
		t.Fatal("missing typesetter should fail")
	}
}

func TestResolveAcceptsPointerItems(t *testing.T) {
	r := NewRectangle(10, 10)
	plan, err := Resolve(&Scene{Width: 50, Height: 50, Items: []Placement{{X: Middle(), Y: Middle(), Item: &r}}}, stubOptions())
	if err != nil {
		t.Fatal(err)
	}
	if c := plan.Commands[0].(RectCommand); c.X != 20 || c.Y != 20 {
		t.Fatalf("unexpected rect %+v", c)
	}
}
