package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ByLCY/easel/config"
	"github.com/ByLCY/easel/dsl"
	"github.com/ByLCY/easel/imageio"
	"github.com/ByLCY/easel/layout"
	"github.com/ByLCY/easel/logging"
	canvasrenderer "github.com/ByLCY/easel/renderer/canvas"
)

func main() {
	input := flag.String("in", "examples/poster.easel", "场景 DSL 文件路径")
	output := flag.String("out", "output/poster.png", "图片输出路径，扩展名决定格式（-format 未指定时）")
	format := flag.String("format", "", "输出格式：png/jpg/gif/tiff/bmp，覆盖配置文件")
	quality := flag.Int("quality", 0, "JPEG 质量 1-100，覆盖配置文件")
	asBase64 := flag.Bool("base64", false, "以 base64 文本输出到 -out（为 - 时写到标准输出）")
	debug := flag.String("debug", "", "绘制计划调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到 DSL 的 JSON 数据")
	configPath := flag.String("config", "", "YAML 配置文件路径")
	verbose := flag.Bool("v", false, "在标准错误输出调试日志")
	flag.Parse()

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("读取配置失败: %v", err)
		}
	}
	if *format != "" {
		cfg.Output.Format = *format
	} else if *output != "-" {
		if _, err := imageio.ParseFormat(*output); err == nil {
			cfg.Output.Format = filepath.Ext(*output)
		}
	}
	if *quality > 0 {
		cfg.Output.JPEGQuality = *quality
	}
	if cfg.Assets.BaseDir == "" {
		cfg.Assets.BaseDir = filepath.Dir(*input)
	}

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	text := cfg.BuildOptions(nil).Text
	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir:     cfg.Assets.BaseDir,
		DefaultFont: cfg.DefaultFont(),
		Text:        &text,
	})
	img, err := run(*input, *debug, inputData, r)
	if err != nil {
		log.Fatalf("生成图片失败: %v", err)
	}
	if err := write(img, *output, *asBase64, cfg.Output); err != nil {
		log.Fatalf("输出图片失败: %v", err)
	}
	if *output != "-" {
		fmt.Printf("已生成图片：%s\n", *output)
	}
}

// run 串联解析、布局与渲染。
func run(inputPath, debugPath string, data any, r *canvasrenderer.Renderer) (*image.RGBA, error) {
	if r == nil {
		return nil, fmt.Errorf("renderer 不能为空")
	}
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("无法打开 DSL 文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("解析 DSL 失败: %w", err)
	}
	scene, err := layout.FromDocument(doc, data, r)
	if err != nil {
		return nil, fmt.Errorf("构建场景失败: %w", err)
	}

	plan, err := layout.Resolve(scene, r.BuildOptions())
	if err != nil {
		return nil, fmt.Errorf("布局计算失败: %w", err)
	}
	if debugPath != "" {
		if err := writeDebug(plan, debugPath); err != nil {
			return nil, err
		}
	}
	return r.Render(plan)
}

func write(img *image.RGBA, outputPath string, asBase64 bool, out config.Output) error {
	format, err := imageio.ParseFormat(out.Format)
	if err != nil {
		return err
	}
	var data []byte
	if asBase64 {
		s, err := imageio.EncodeBase64(img, format, out.JPEGQuality)
		if err != nil {
			return err
		}
		data = []byte(s)
	} else if data, err = imageio.EncodeBytes(img, format, out.JPEGQuality); err != nil {
		return err
	}
	if outputPath == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("写入图片文件失败: %w", err)
	}
	return nil
}

func writeDebug(plan *layout.Plan, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(plan, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
