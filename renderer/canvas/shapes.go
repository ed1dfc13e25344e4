package canvasrenderer

import (
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/easel/layout"
)

// drawRect 绘制矩形；有描边时填充区域四边内缩 strokeWidth/2，整体外轮廓保持 Width x Height。
func drawRect(ctx *canvas.Context, c layout.RectCommand) {
	if c.Width <= 0 || c.Height <= 0 {
		return
	}
	x, y, w, h := layout.StrokeGeometry(c.X, c.Y, c.Width, c.Height, c.StrokeWidth)
	var p *canvas.Path
	if c.CornerRadius > 0 {
		p = canvas.RoundedRectangle(w, h, float64(c.CornerRadius))
	} else {
		p = canvas.Rectangle(w, h)
	}
	applyShapeStyle(ctx, c.Fill, c.StrokeColor, c.StrokeWidth)
	ctx.DrawPath(x, y, p)
}

// drawEllipse 绘制外接于 (X, Y, Width, Height) 的椭圆，描边规则同矩形。
func drawEllipse(ctx *canvas.Context, c layout.EllipseCommand) {
	if c.Width <= 0 || c.Height <= 0 {
		return
	}
	x, y, w, h := layout.StrokeGeometry(c.X, c.Y, c.Width, c.Height, c.StrokeWidth)
	applyShapeStyle(ctx, c.Fill, c.StrokeColor, c.StrokeWidth)
	ctx.DrawPath(x, y, ellipseInBox(w, h))
}

// ellipseInBox 返回以 (0,0)-(w,h) 为外接框的椭圆路径。
func ellipseInBox(w, h float64) *canvas.Path {
	rx, ry := w/2, h/2
	p := &canvas.Path{}
	p.MoveTo(w, ry)
	p.ArcTo(rx, ry, 0, false, true, 0, ry)
	p.ArcTo(rx, ry, 0, false, true, w, ry)
	p.Close()
	return p
}

func applyShapeStyle(ctx *canvas.Context, fill, stroke layout.Color, strokeWidth int) {
	ctx.SetFillColor(fill)
	if strokeWidth > 0 && !stroke.IsTransparent() {
		ctx.SetStrokeColor(stroke)
		ctx.SetStrokeWidth(float64(strokeWidth))
		return
	}
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.SetStrokeWidth(0)
}
