package renderer

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/image/font/sfnt"

	"github.com/ByLCY/cvpress/fonts"
	"github.com/ByLCY/cvpress/layout"
)

// ErrMissingGlyph 表示字体中没有某个字符的字形，绘制时只会得到方框。
var ErrMissingGlyph = errors.New("glyph not in font")

// Coverage 检查字体集是否包含文本中每个字符的字形。
// 每个字重的字体只解析一次；可被多个 goroutine 共享。
type Coverage struct {
	fonts fonts.Set

	mu     sync.Mutex
	parsed map[layout.Weight]*sfnt.Font
}

// NewCoverage 基于 set 创建字形检查器。
func NewCoverage(set fonts.Set) *Coverage {
	return &Coverage{fonts: set, parsed: map[layout.Weight]*sfnt.Font{}}
}

// Check 在 text 中任一字符缺少字形时返回 ErrMissingGlyph。
func (c *Coverage) Check(text string, weight layout.Weight) error {
	f, err := c.font(weight)
	if err != nil {
		return err
	}
	var buf sfnt.Buffer
	for _, r := range text {
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil {
			return fmt.Errorf("查找字形 U+%04X 失败: %w", r, err)
		}
		if idx == 0 {
			return fmt.Errorf("%w: %q (U+%04X, %s)", ErrMissingGlyph, r, r, weight)
		}
	}
	return nil
}

func (c *Coverage) font(weight layout.Weight) (*sfnt.Font, error) {
	if weight == "" {
		weight = layout.WeightRegular
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if f, ok := c.parsed[weight]; ok {
		return f, nil
	}
	data, err := c.fonts.Bytes(string(weight))
	if err != nil {
		return nil, err
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", weight, err)
	}
	c.parsed[weight] = f
	return f, nil
}
