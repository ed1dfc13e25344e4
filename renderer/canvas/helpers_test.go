package canvasrenderer

import (
	"testing"

	"github.com/ByLCY/easel/imageio"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	data, err := imageio.EncodeBytes(solid(3, 3, green), imageio.PNG, 0)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return data
}
