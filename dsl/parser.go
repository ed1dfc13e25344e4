package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	// Anchor keywords are their own token so that x/y and align can accept
	// them without being confused with resource names. An identifier that
	// starts with an anchor word followed by '-' (e.g. "end-cap") therefore
	// cannot be used as a resource name.
	sceneLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "Comment", Pattern: `//[^\n]*|/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "Length", Pattern: `-?(?:\d+\.\d+|\d+)(?:px|pt|mm|cm|in|%)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Anchor", Pattern: `\b(?:left|top|start|center|centre|middle|right|bottom|end)\b`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[{}:;=]`},
	})

	sceneParser = participle.MustBuild[Document](
		participle.Lexer(sceneLexer),
		participle.Elide("Whitespace", "Comment"),
	)
)

// Document is the root AST node for an easel scene file.
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'doc' @Ident"`
	Version  string         `parser:"@Ident?"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section is one of meta, resources or canvas.
type Section struct {
	Meta      *MetaSection      `parser:"  @@"`
	Resources *ResourcesSection `parser:"| @@"`
	Canvas    *CanvasSection    `parser:"| @@"`
}

// Kind returns the section keyword.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Resources != nil:
		return "resources"
	case s.Canvas != nil:
		return "canvas"
	default:
		return "unknown"
	}
}

// Canvas returns the first canvas section, or nil.
func (d *Document) Canvas() *CanvasSection {
	for _, s := range d.Sections {
		if s.Canvas != nil {
			return s.Canvas
		}
	}
	return nil
}

// MetaSection holds `title: "..."` and `author: "..."` fields.
type MetaSection struct {
	Fields []*MetaField `parser:"'meta' '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

type MetaField struct {
	Key   string        `parser:"@( 'title' | 'author' )"`
	Value StringLiteral `parser:"':' @String"`
}

// ResourcesSection declares named fonts, colours, images and text styles.
type ResourcesSection struct {
	Decls []*Resource `parser:"'resources' '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

type Resource struct {
	Font  *FontDecl  `parser:"  @@"`
	Color *ColorDecl `parser:"| @@"`
	Image *ImageDecl `parser:"| @@"`
	Style *StyleDecl `parser:"| @@"`
}

// FontDecl: font Title { src: "embed:go-bold"; size: 36; style: bold }
type FontDecl struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"'font' @Ident"`
	Props []*FontProp    `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

type FontProp struct {
	Src   *StringLiteral `parser:"  'src' ':' @String"`
	Size  *string        `parser:"| 'size' ':' @Length"`
	Style *string        `parser:"| 'style' ':' @Ident"`
}

// ColorDecl: color Ink = #222222
type ColorDecl struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"'color' @Ident"`
	Value string         `parser:"'=' @Color"`
}

// ImageDecl: image photo = "photos/${bird}.jpg"
type ImageDecl struct {
	Name string        `parser:"'image' @Ident"`
	Src  StringLiteral `parser:"'=' @String"`
}

// StyleDecl is a reusable set of text attributes, optionally extending another style.
type StyleDecl struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    string         `parser:"'style' @Ident"`
	Extends string         `parser:"( 'extends' @Ident )?"`
	Attrs   []*TextAttr    `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// CanvasSection: canvas <width> <height> [background <colour>] { items... }
// Items are drawn in the order they appear.
type CanvasSection struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Width      string         `parser:"'canvas' @Length"`
	Height     string         `parser:"@Length"`
	Background *ColorRef      `parser:"( 'background' @@ )?"`
	Items      []*Item        `parser:"Newline* '{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Item is one drawable on the canvas.
type Item struct {
	Text    *TextItem    `parser:"  @@"`
	Image   *ImageItem   `parser:"| @@"`
	Rect    *RectItem    `parser:"| @@"`
	Ellipse *EllipseItem `parser:"| @@"`
}

// TextItem: text [attrs...] [{ "line" ... }]
type TextItem struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Attrs   []*TextAttr    `parser:"'text' @@*"`
	Content []*TextLiteral `parser:"( '{' Newline* ( @@ Newline* )* '}' )?"`
}

// TextLiteral is one quoted string inside a text body; the strings are concatenated.
type TextLiteral struct {
	Value StringLiteral `parser:"@String"`
}

type TextAttr struct {
	X             *Coord         `parser:"  'x' @@"`
	Y             *Coord         `parser:"| 'y' @@"`
	Style         *string        `parser:"| 'style' @Ident"`
	Content       *StringLiteral `parser:"| 'content' @String"`
	Color         *ColorRef      `parser:"| 'color' @@"`
	Background    *ColorRef      `parser:"| 'background' @@"`
	Font          *string        `parser:"| 'font' @Ident"`
	Size          *string        `parser:"| 'size' @Length"`
	FontStyle     *string        `parser:"| 'font-style' @Ident"`
	Padding       *string        `parser:"| 'padding' @Length"`
	PaddingTop    *string        `parser:"| 'padding-top' @Length"`
	PaddingLeft   *string        `parser:"| 'padding-left' @Length"`
	PaddingRight  *string        `parser:"| 'padding-right' @Length"`
	PaddingBottom *string        `parser:"| 'padding-bottom' @Length"`
	Align         *string        `parser:"| 'align' @Anchor"`
	Width         *string        `parser:"| 'width' @Length"`
	Height        *string        `parser:"| 'height' @Length"`
	AutoScale     *Boolean       `parser:"| 'autoscale' @( 'true' | 'false' )"`
}

// ImageItem: image <resource|"path"> [x ..] [y ..] [width .. height ..]
type ImageItem struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Source *ImageSource   `parser:"'image' @@"`
	Attrs  []*ImageAttr   `parser:"@@*"`
}

// ImageSource names an image resource or gives a path directly.
type ImageSource struct {
	Name *string        `parser:"  @Ident"`
	Path *StringLiteral `parser:"| @String"`
}

type ImageAttr struct {
	X      *Coord  `parser:"  'x' @@"`
	Y      *Coord  `parser:"| 'y' @@"`
	Width  *string `parser:"| 'width' @Length"`
	Height *string `parser:"| 'height' @Length"`
}

type RectItem struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Attrs []*ShapeAttr   `parser:"( 'rect' | 'rectangle' ) @@*"`
}

// EllipseItem covers both `ellipse` and `circle`; only circles accept `r`.
type EllipseItem struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Circle bool           `parser:"( 'ellipse' | @'circle' )"`
	Attrs  []*ShapeAttr   `parser:"@@*"`
}

type ShapeAttr struct {
	X           *Coord    `parser:"  'x' @@"`
	Y           *Coord    `parser:"| 'y' @@"`
	Width       *string   `parser:"| 'width' @Length"`
	Height      *string   `parser:"| 'height' @Length"`
	R           *string   `parser:"| 'r' @Length"`
	Radius      *string   `parser:"| 'radius' @Length"`
	Fill        *ColorRef `parser:"| 'fill' @@"`
	Stroke      *ColorRef `parser:"| 'stroke' @@"`
	StrokeWidth *string   `parser:"| 'stroke-width' @Length"`
}

// Coord is one axis of a position: an anchor keyword or a length.
type Coord struct {
	Anchor *string `parser:"  @Anchor"`
	Offset *string `parser:"| @Length"`
}

// ColorRef is a literal colour or the name of a colour resource
// (also "transparent" / "none").
type ColorRef struct {
	Hex  *string `parser:"  @Color"`
	Name *string `parser:"| @Ident"`
}

// String returns the literal or name as written.
func (c *ColorRef) String() string {
	switch {
	case c == nil:
		return ""
	case c.Hex != nil:
		return *c.Hex
	case c.Name != nil:
		return *c.Name
	default:
		return ""
	}
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Boolean captures the keywords true / false.
type Boolean bool

// Capture implements participle.Capture.
func (b *Boolean) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("boolean capture requires value")
	}
	*b = values[0] == "true"
	return nil
}

// Parse parses scene DSL content from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return sceneParser.Parse("", r)
}

// ParseString parses DSL content from a string.
func ParseString(input string) (*Document, error) {
	return sceneParser.ParseString("", input)
}
