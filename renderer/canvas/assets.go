package canvasrenderer

import (
	"fmt"
	"image"
	"strings"

	"github.com/ByLCY/easel/imageio"
)

// LoadImage 实现 layout.ImageLoader：built-in:<name> 优先，其次是相对 baseDir 的路径。
func (r *Renderer) LoadImage(src string) (image.Image, error) {
	if name, ok := builtinName(src); ok {
		blob, ok := r.imageBlobs[name]
		if !ok {
			return nil, fmt.Errorf("找不到内置图片资源 built-in:%s", name)
		}
		img, err := imageio.DecodeBytes(blob)
		if err != nil {
			return nil, fmt.Errorf("解码内置图片 built-in:%s 失败: %w", name, err)
		}
		return img, nil
	}
	if strings.HasPrefix(src, "embed:") {
		return nil, fmt.Errorf("图片资源 %s 未找到（embed 仅支持内置字体）", src)
	}
	path, err := r.assetPath(src)
	if err != nil {
		return nil, err
	}
	return imageio.Open(path)
}
