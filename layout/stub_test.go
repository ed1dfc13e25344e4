package layout

import (
	"image"
	"image/color"
	"unicode/utf8"
)

// stubTypesetter 是仅用于测试的等宽度量：每个字符宽度等于字号，行高为字号 + 2。
// 避免引入 renderer 造成循环依赖。
type stubTypesetter struct{}

func (stubTypesetter) MeasureWidth(f Font, s string) int { return utf8.RuneCountInString(s) * f.Size }
func (stubTypesetter) LineHeight(f Font) int             { return f.Size + 2 }
func (stubTypesetter) Ascent(f Font) int                 { return f.Size }
func (stubTypesetter) DeriveFont(f Font, size int) Font {
	f.Size = size
	return f
}

func stubOptions() BuildOptions { return DefaultBuildOptions(stubTypesetter{}) }

func fill(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}
