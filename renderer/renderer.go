package renderer

import (
	"image"

	"github.com/ByLCY/easel/layout"
)

// Renderer 执行第一阶段产出的绘制计划，返回完整的 RGBA 画布。
type Renderer interface {
	Render(plan *layout.Plan) (*image.RGBA, error)
}

// Compositor 把场景一次性合成为画布（Resolve + Render）。
type Compositor interface {
	Renderer
	Compose(scene *layout.Scene) (*image.RGBA, error)
}
