// Package imageio 负责图片的解码、缩放与编码输出。
package imageio

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // 注册 WebP 解码器

	"github.com/ByLCY/easel/logging"
)

var (
	ErrDecode            = errors.New("imageio: decode failed")
	ErrEncode            = errors.New("imageio: encode failed")
	ErrUnsupportedFormat = errors.New("imageio: unsupported format")
)

// DefaultJPEGQuality 与 imaging 的默认值一致。
const DefaultJPEGQuality = 95

// Format 是输出格式。
type Format = imaging.Format

const (
	PNG  = imaging.PNG
	JPEG = imaging.JPEG
	GIF  = imaging.GIF
	TIFF = imaging.TIFF
	BMP  = imaging.BMP
)

// ParseFormat 解析格式名或带扩展名的文件名（png、jpg、jpeg、gif、tif、tiff、bmp）。
func ParseFormat(name string) (Format, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if !strings.Contains(n, ".") {
		n = "." + n
	}
	f, err := imaging.FormatFromFilename(n)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", name, ErrUnsupportedFormat)
	}
	return f, nil
}

// Decode 解码图片并按 EXIF 方向自动旋转。支持 PNG、JPEG、GIF、BMP、TIFF 与 WebP。
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	b := img.Bounds()
	logging.Logger().Debug("image decoded", slog.Int("width", b.Dx()), slog.Int("height", b.Dy()))
	return img, nil
}

// DecodeBytes 是 Decode 的字节切片版本。
func DecodeBytes(data []byte) (image.Image, error) {
	return Decode(bytes.NewReader(data))
}

// Open 从文件读取并解码图片。
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrDecode, err)
	}
	return img, nil
}

// Scale 将图片缩放到 width x height（双线性插值）；非正尺寸返回原图。
func Scale(src image.Image, width, height int) image.Image {
	if src == nil || width <= 0 || height <= 0 {
		return src
	}
	return imaging.Resize(src, width, height, imaging.Linear)
}

// Encode 以指定格式写出图片；quality 仅对 JPEG 生效，<= 0 时使用默认质量。
func Encode(w io.Writer, img image.Image, format Format, quality int) error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrEncode)
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	if err := imaging.Encode(w, img, format, imaging.JPEGQuality(quality)); err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			return fmt.Errorf("%v: %w", format, ErrUnsupportedFormat)
		}
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return nil
}

// EncodeBytes 返回编码后的字节。
func EncodeBytes(img image.Image, format Format, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, format, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeBase64 返回编码后字节的标准 base64 字符串。
func EncodeBase64(img image.Image, format Format, quality int) (string, error) {
	data, err := EncodeBytes(img, format, quality)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Save 根据文件扩展名选择格式写出图片。
func Save(path string, img image.Image, quality int) error {
	format, err := ParseFormat(path)
	if err != nil {
		return err
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("%s (%v): %w: %v", path, format, ErrEncode, err)
	}
	return nil
}
