// Package generator 串联排版与渲染：Record -> layout.Result -> PDF 字节。
package generator

import (
	"fmt"

	"github.com/ByLCY/cvpress/assets"
	"github.com/ByLCY/cvpress/layout"
	"github.com/ByLCY/cvpress/renderer"
	canvasrenderer "github.com/ByLCY/cvpress/renderer/canvas"
	fpdfrenderer "github.com/ByLCY/cvpress/renderer/fpdf"
	"github.com/ByLCY/cvpress/resume"
)

// FileName 是下载时使用的固定文件名。
const FileName = "Resume.pdf"

// Output 是一次生成的产物。
type Output struct {
	PDF    []byte
	Layout *layout.Result
}

// Generator 持有只读的后端与图标表，可被多个 goroutine 共享。
type Generator struct {
	backend renderer.Backend
	icons   assets.IconTable
}

// New 使用给定后端创建 Generator。
func New(backend renderer.Backend, icons assets.IconTable) *Generator {
	return &Generator{backend: backend, icons: icons}
}

// NewBackend 按名称创建渲染后端，空名称使用 fpdf。
func NewBackend(name string, bundle assets.Bundle) (renderer.Backend, error) {
	switch name {
	case "", renderer.NameFPDF:
		return fpdfrenderer.NewRenderer(fpdfrenderer.Options{Fonts: bundle.Fonts, Icons: bundle.Icons}), nil
	case renderer.NameCanvas:
		return canvasrenderer.NewRenderer(canvasrenderer.Options{Fonts: bundle.Fonts, Icons: bundle.Icons}), nil
	default:
		return nil, fmt.Errorf("未知的渲染后端 %q（可选 fpdf、canvas）", name)
	}
}

// FromBundle 是 NewBackend 与 New 的组合。
func FromBundle(name string, bundle assets.Bundle) (*Generator, error) {
	backend, err := NewBackend(name, bundle)
	if err != nil {
		return nil, err
	}
	return New(backend, bundle.Icons), nil
}

// Layout 只执行排版阶段。
func (g *Generator) Layout(rec resume.Record) (*layout.Result, error) {
	res, err := layout.Build(rec.Normalize(), layout.BuildOptions{Measurer: g.backend})
	if err != nil {
		return nil, fmt.Errorf("排版失败: %w", err)
	}
	return res, nil
}

// Generate 排版并渲染 rec。任何非空联系方式缺少图标时在绘制前返回 ErrResourceMissing。
func (g *Generator) Generate(rec resume.Record) (*Output, error) {
	res, err := g.Layout(rec)
	if err != nil {
		return nil, err
	}
	if err := g.icons.Require(res.Icons()...); err != nil {
		return nil, err
	}
	data, err := g.backend.Render(res)
	if err != nil {
		return nil, fmt.Errorf("渲染失败: %w", err)
	}
	return &Output{PDF: data, Layout: res}, nil
}

// GenerateJSON 解码 JSON 简历数据后生成 PDF。
func (g *Generator) GenerateJSON(data []byte) (*Output, error) {
	rec, err := resume.Decode(data)
	if err != nil {
		return nil, err
	}
	return g.Generate(rec)
}
