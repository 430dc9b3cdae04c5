// Package fonts 提供按字重组织的字体数据，默认使用 Go 字体。
package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
)

// 字重名称，与 layout.Weight 的取值一致。
const (
	Regular = "regular"
	Medium  = "medium"
	Bold    = "bold"
)

var builtin = map[string][]byte{
	"goregular": goregular.TTF,
	"gomedium":  gomedium.TTF,
	"gobold":    gobold.TTF,
}

// Set 按字重保存 TrueType 字体数据。
type Set struct {
	Regular []byte
	Medium  []byte
	Bold    []byte
}

// Default 返回 Go Regular / Medium / Bold。
func Default() Set {
	return Set{Regular: goregular.TTF, Medium: gomedium.TTF, Bold: gobold.TTF}
}

// Bytes 返回指定字重的字体数据。Medium 缺失时退回 Bold。
func (s Set) Bytes(weight string) ([]byte, error) {
	var data []byte
	switch weight {
	case Regular:
		data = s.Regular
	case Medium:
		data = s.Medium
		if len(data) == 0 {
			data = s.Bold
		}
	case Bold:
		data = s.Bold
	default:
		return nil, fmt.Errorf("未知字重 %q", weight)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("字重 %s 没有字体数据", weight)
	}
	return data, nil
}

// Set 设置指定字重的字体数据。
func (s *Set) Set(weight string, data []byte) error {
	switch weight {
	case Regular:
		s.Regular = data
	case Medium:
		s.Medium = data
	case Bold:
		s.Bold = data
	default:
		return fmt.Errorf("未知字重 %q", weight)
	}
	return nil
}

// Load 返回内置字体的字节数据，name 可写为 "builtin:gobold" 或直接 "gobold"。
func Load(name string) ([]byte, error) {
	clean := strings.TrimPrefix(name, "builtin:")
	data, ok := builtin[clean]
	if !ok {
		return nil, fmt.Errorf("找不到内置字体 %s", name)
	}
	return data, nil
}
