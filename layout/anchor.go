package layout

import "strings"

// ResolveAxis 把单轴定位换算为绝对像素坐标。只参考容器（画布）尺寸与内容尺寸，
// 居中使用整数除法（向零截断），AnchorNone 原样返回 offset（允许负数或越界）。
func ResolveAxis(anchor Anchor, offset, container, content int) int {
	switch anchor {
	case AnchorStart:
		return 0
	case AnchorMiddle:
		return (container - content) / 2
	case AnchorEnd:
		return container - content
	default:
		return offset
	}
}

// ResolvePoint 对两个轴分别调用 ResolveAxis。
func ResolvePoint(x, y Axis, canvasW, canvasH, width, height int) (int, int) {
	return ResolveAxis(x.Anchor, x.Offset, canvasW, width),
		ResolveAxis(y.Anchor, y.Offset, canvasH, height)
}

// ParseAnchor 解析 DSL 中的锚点关键字，未知关键字返回 false。
func ParseAnchor(s string) (Anchor, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "top", "start":
		return AnchorStart, true
	case "center", "centre", "middle":
		return AnchorMiddle, true
	case "right", "bottom", "end":
		return AnchorEnd, true
	}
	return AnchorNone, false
}

// ParseTextAlign 解析文本对齐关键字，未知关键字回退为左对齐。
func ParseTextAlign(s string) TextAlign {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "center", "centre", "middle":
		return AlignMiddle
	case "right", "end":
		return AlignRight
	default:
		return AlignLeft
	}
}
