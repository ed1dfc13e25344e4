package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseColor 解析十六进制颜色：#RGB、#RRGGBB（不透明）与 #AARRGGBB（带 alpha，ARGB 顺序）。
// 前导 # 可省略。
func ParseColor(value string) (Color, error) {
	v := strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(v) {
	case 3:
		r, err1 := hexByte(strings.Repeat(v[0:1], 2))
		g, err2 := hexByte(strings.Repeat(v[1:2], 2))
		b, err3 := hexByte(strings.Repeat(v[2:3], 2))
		if err := firstErr(err1, err2, err3); err != nil {
			return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
		}
		return Color{R: r, G: g, B: b, A: 255}, nil
	case 6:
		n, err := strconv.ParseUint(v, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
		}
		return Color{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 255}, nil
	case 8:
		n, err := strconv.ParseUint(v, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
		}
		return Color{A: uint8(n >> 24), R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
}

// MustParseColor 用于包级常量或测试，解析失败时 panic。
func MustParseColor(value string) Color {
	c, err := ParseColor(value)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex 以 #RRGGBB 或（非不透明时）#AARRGGBB 形式输出颜色。
func (c Color) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.A, c.R, c.G, c.B)
}

func hexByte(s string) (uint8, error) {
	n, err := strconv.ParseUint(s, 16, 8)
	return uint8(n), err
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
