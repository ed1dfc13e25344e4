package canvasrenderer

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/easel/fonts"
	"github.com/ByLCY/easel/layout"
	"github.com/ByLCY/easel/logging"
)

// MeasureWidth 实现 layout.Typesetter：返回字符串的像素宽度（四舍五入）。
func (r *Renderer) MeasureWidth(font layout.Font, s string) int {
	if s == "" {
		return 0
	}
	return int(math.Round(r.face(font, layout.Black).TextWidth(s)))
}

// LineHeight 实现 layout.Typesetter：行高向上取整。
func (r *Renderer) LineHeight(font layout.Font) int {
	return int(math.Ceil(r.face(font, layout.Black).Metrics().LineHeight))
}

// Ascent 实现 layout.Typesetter：行顶到基线的距离，向上取整。
func (r *Renderer) Ascent(font layout.Font) int {
	return int(math.Ceil(r.face(font, layout.Black).Metrics().Ascent))
}

// DeriveFont 实现 layout.Typesetter：同一字体的另一字号。
func (r *Renderer) DeriveFont(font layout.Font, size int) layout.Font {
	font.Size = size
	return font
}

// drawText 在 (X, Y+Ascent) 处以左对齐绘制一行文本，Ascent 来自排版阶段。
func (r *Renderer) drawText(ctx *canvas.Context, c layout.TextCommand) {
	if c.Content == "" || c.Color.IsTransparent() {
		return
	}
	face := r.face(c.Font, c.Color)
	line := canvas.NewTextLine(face, c.Content, canvas.Left)
	ctx.DrawText(float64(c.X), float64(c.Y+c.Ascent), line)
}

// face 返回字号为 font.Size 像素的字体面；1 像素 = 1 毫米，需要换算为 pt。
func (r *Renderer) face(font layout.Font, col layout.Color) *canvas.FontFace {
	size := font.Size
	if size <= 0 {
		size = r.defaultFont.Size
	}
	family, style := r.ensureFontFamily(font)
	return family.Face(float64(size)*layout.MmToPt, col, style, canvas.FontNormal)
}

// ensureFontFamily 加载并缓存字体；加载失败时记录告警并回退到默认字体，度量永不失败。
func (r *Renderer) ensureFontFamily(font layout.Font) (*canvas.FontFamily, canvas.FontStyle) {
	if font.Src == "" && font.Name == "" {
		font.Src = r.defaultFont.Src
		font.Name = r.defaultFont.Name
		if font.Style == "" {
			font.Style = r.defaultFont.Style
		}
	}
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style
	}

	style := parseFontStyle(font.Style)
	familyName := font.Name
	if familyName == "" {
		familyName = font.Src
	}
	family := canvas.NewFontFamily(familyName)

	if err := r.loadFontIntoFamily(family, font, style); err != nil {
		logging.Logger().Warn("font unavailable, using fallback",
			slog.String("name", font.Name), slog.String("src", font.Src), slog.Any("err", err))
		fallback := r.fallback()
		r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: canvas.FontRegular}
		return fallback, canvas.FontRegular
	}

	r.fontFamilies[key] = &fontFamilyEntry{family: family, style: style}
	return family, style
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, font layout.Font, style canvas.FontStyle) error {
	data, err := r.loadFontBytes(font)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, style)
}

func (r *Renderer) loadFontBytes(font layout.Font) ([]byte, error) {
	src := font.Src
	if src == "" {
		src = r.defaultFont.Src
	}
	if src == "" {
		return nil, fmt.Errorf("字体 %s 缺少 src", font.Name)
	}
	if name, ok := builtinName(src); ok {
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path, err := r.assetPath(src)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// fallback 返回内置 Go Regular 字体，调用方需持有 fontMu。
func (r *Renderer) fallback() *canvas.FontFamily {
	if r.fallbackFamily != nil {
		return r.fallbackFamily
	}
	data, err := fonts.Load(fonts.Default)
	if err != nil {
		panic(err) // bundled font is compiled in
	}
	family := canvas.NewFontFamily("easel-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		panic(fmt.Sprintf("bundled font %s: %v", fonts.Default, err))
	}
	r.fallbackFamily = family
	return family
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	var result canvas.FontStyle
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	default:
		result = canvas.FontRegular
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.Font) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}

func builtinName(src string) (string, bool) {
	for _, prefix := range []string{"built-in:", "builtin:"} {
		if strings.HasPrefix(src, prefix) {
			return strings.TrimPrefix(src, prefix), true
		}
	}
	return "", false
}

// assetPath 解析相对 baseDir 的资源路径；未设置 baseDir 时只允许绝对路径。
func (r *Renderer) assetPath(src string) (string, error) {
	if filepath.IsAbs(src) {
		return src, nil
	}
	if r.baseDir == "" {
		return "", fmt.Errorf("未指定资源目录时不允许直接使用路径：%s（请改用 built-in: 或 embed:）", src)
	}
	return filepath.Join(r.baseDir, src), nil
}
