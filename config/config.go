// Package config 读取 easel 的 YAML 配置文件。
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/easel/fonts"
	"github.com/ByLCY/easel/imageio"
	"github.com/ByLCY/easel/layout"
)

// Config 是配置文件的结构，未出现的字段保留 Default 中的值。
type Config struct {
	Font   Font   `yaml:"font"`
	Text   Text   `yaml:"text"`
	Output Output `yaml:"output"`
	Assets Assets `yaml:"assets"`
}

// Font 是默认字体。
type Font struct {
	Src   string `yaml:"src"`
	Style string `yaml:"style"`
	Size  int    `yaml:"size"`
}

// Text 对应 layout.TextOptions。
type Text struct {
	WrapMargin int `yaml:"wrapMargin"`
	RightInset int `yaml:"rightInset"`
}

// Output 控制编码格式。
type Output struct {
	Format      string `yaml:"format"`
	JPEGQuality int    `yaml:"jpegQuality"`
}

// Assets 指定相对路径资源的根目录；为空时使用场景文件所在目录。
type Assets struct {
	BaseDir string `yaml:"baseDir"`
}

// Default 返回内置默认配置。
func Default() Config {
	return Config{
		Font:   Font{Src: "embed:" + fonts.Default, Size: layout.DefaultFontSize},
		Text:   Text{WrapMargin: layout.DefaultWrapMargin},
		Output: Output{Format: "png", JPEGQuality: imageio.DefaultJPEGQuality},
	}
}

// Load 读取 YAML 配置文件并叠加到默认配置上。
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse 从 reader 解析配置；空输入得到默认配置。
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 检查取值范围。
func (c Config) Validate() error {
	if c.Font.Size <= 0 {
		return fmt.Errorf("font.size 必须为正数: %d", c.Font.Size)
	}
	if c.Text.WrapMargin < 0 || c.Text.RightInset < 0 {
		return fmt.Errorf("text.wrapMargin/rightInset 不能为负数")
	}
	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		return fmt.Errorf("output.jpegQuality 超出范围 1-100: %d", c.Output.JPEGQuality)
	}
	if _, err := imageio.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	return nil
}

// DefaultFont 返回配置中的默认字体。
func (c Config) DefaultFont() layout.Font {
	return layout.Font{Name: "default", Src: c.Font.Src, Style: c.Font.Style, Size: c.Font.Size}
}

// BuildOptions 把配置转换为第一阶段参数。
func (c Config) BuildOptions(ts layout.Typesetter) layout.BuildOptions {
	opts := layout.DefaultBuildOptions(ts)
	opts.DefaultFont = c.DefaultFont()
	opts.Text = layout.TextOptions{WrapMargin: c.Text.WrapMargin, RightInset: c.Text.RightInset}
	return opts
}
