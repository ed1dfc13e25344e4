package layout

import (
	"encoding/json"
	"os"
)

// debugCommand 为每条指令附加 kind 字段，便于阅读。
type debugCommand struct {
	Kind    string  `json:"kind"`
	Command Command `json:"command"`
}

type debugPlan struct {
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Background string         `json:"background"`
	Commands   []debugCommand `json:"commands"`
}

// MarshalDebugJSON 将绘制计划编码为带缩进的 JSON。
func MarshalDebugJSON(plan *Plan) ([]byte, error) {
	out := debugPlan{Width: plan.Width, Height: plan.Height, Background: plan.Background.Hex()}
	for _, c := range plan.Commands {
		out.Commands = append(out.Commands, debugCommand{Kind: commandKind(c), Command: c})
	}
	return json.MarshalIndent(out, "", "  ")
}

// WriteDebugJSON 将绘制计划输出为 JSON，便于调试或可视化。
func WriteDebugJSON(plan *Plan, path string) error {
	if plan == nil {
		return nil
	}
	data, err := MarshalDebugJSON(plan)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func commandKind(c Command) string {
	switch c.(type) {
	case RectCommand:
		return "rect"
	case EllipseCommand:
		return "ellipse"
	case TextCommand:
		return "text"
	case ImageCommand:
		return "image"
	default:
		return "unknown"
	}
}
