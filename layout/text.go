package layout

import (
	"strings"

	"github.com/rivo/uniseg"
)

// LayoutText 把文本排成若干行并计算文本框尺寸，纯函数且不会失败。
//
// Width > 0 且 AutoScale 时逐字号缩小字体直到每一行都能放下（最小 1），不折行；
// Width > 0 且未开启 AutoScale 时按字素簇贪心折行；Width <= 0 时保持原始行。
func LayoutText(ts Typesetter, t Text, font Font, opts TextOptions) TextBlock {
	raw := splitLines(t.Content)
	inner := t.Width - t.Padding.Left - t.Padding.Right

	var lines []string
	switch {
	case t.Width > 0 && t.AutoScale:
		font = shrinkToFit(ts, raw, font, inner)
		lines = raw
	case t.Width > 0:
		limit := inner - opts.WrapMargin
		for _, line := range raw {
			lines = append(lines, wrapLine(ts, font, line, limit)...)
		}
	default:
		lines = raw
	}

	block := TextBlock{
		Font:       font,
		LineHeight: ts.LineHeight(font),
		Ascent:     ts.Ascent(font),
		Lines:      make([]TextLine, 0, len(lines)),
	}
	maxWidth := 0
	for _, line := range lines {
		w := ts.MeasureWidth(font, line)
		if w > maxWidth {
			maxWidth = w
		}
		block.Lines = append(block.Lines, TextLine{Content: line, Width: w})
	}

	if t.Width > 0 {
		block.Width = t.Width
	} else {
		block.Width = maxWidth + t.Padding.Left + t.Padding.Right
	}
	block.Height = block.LineHeight*len(lines) + t.Padding.Top + t.Padding.Bottom
	if t.Height > block.Height {
		block.Height = t.Height
	}
	return block
}

// splitLines 按 "\n" 切分，丢弃 "\r"；空串得到一个空行，末尾空行保留。
func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r", ""), "\n")
}

// shrinkToFit 返回使所有行宽度都小于 limit 的最大字号（不大于原字号，最小 1）。
// 缩小后的字体对后续行继续生效。
func shrinkToFit(ts Typesetter, lines []string, font Font, limit int) Font {
	for _, line := range lines {
		for font.Size > 1 && ts.MeasureWidth(font, line) >= limit {
			font = ts.DeriveFont(font, font.Size-1)
		}
	}
	return font
}

// wrapLine 按字素簇贪心折行：缓冲区非空且追加后宽度超过 limit 时先输出缓冲区。
// 每一行至少包含一个字素簇，因此 limit 很小时也能终止。
func wrapLine(ts Typesetter, font Font, line string, limit int) []string {
	if line == "" {
		return []string{""}
	}
	var (
		out   []string
		buf   strings.Builder
		state = -1
	)
	rest := line
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if buf.Len() > 0 && ts.MeasureWidth(font, buf.String()+cluster) > limit {
			out = append(out, buf.String())
			buf.Reset()
		}
		buf.WriteString(cluster)
	}
	return append(out, buf.String())
}
