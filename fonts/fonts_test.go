package fonts

import (
	"bytes"
	"testing"
)

func TestLoadBundled(t *testing.T) {
	for _, name := range []string{"go-regular", "embed:go-bold", "GO-Mono.ttf", ""} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		// TrueType 文件以 0x00010000 开头
		if !bytes.HasPrefix(data, []byte{0, 1, 0, 0}) {
			t.Fatalf("Load(%q) 返回的不是 TrueType 数据", name)
		}
	}
}

func TestLoadUnknown(t *testing.T) {
	if _, err := Load("embed:Inter-Regular"); err == nil {
		t.Fatal("未知字体应返回错误")
	}
	if len(Names()) != 7 {
		t.Fatalf("内置字体数量不符: %v", Names())
	}
}
