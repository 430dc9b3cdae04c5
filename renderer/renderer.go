// Package renderer 定义把排版结果绘制为 PDF 的后端接口。
package renderer

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/ByLCY/cvpress/assets"
	"github.com/ByLCY/cvpress/layout"
)

// Renderer 将布局结果输出为最终文件，例如 PDF 或图像。
// Render 返回生成的二进制数据（例如 PDF 字节切片）以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// Backend 同时提供文本测量与绘制，保证排版与渲染使用同一套字体度量。
type Backend interface {
	layout.Measurer
	Renderer
}

// 可选的后端名称。
const (
	NameFPDF   = "fpdf"
	NameCanvas = "canvas"
)

// DecodeIcon 从图标表中取出并解码图片。
func DecodeIcon(icons assets.IconTable, icon assets.Icon) (image.Image, string, error) {
	data, err := icons.Lookup(icon)
	if err != nil {
		return nil, "", err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("解码图标 %s 失败: %w", icon, err)
	}
	return img, format, nil
}

// CheckResult 校验结果可渲染。
func CheckResult(result *layout.Result) error {
	if result == nil {
		return fmt.Errorf("渲染结果为空")
	}
	if result.Page.Width <= 0 || result.Page.Height <= 0 {
		return fmt.Errorf("页面尺寸无效: %gx%g", result.Page.Width, result.Page.Height)
	}
	return nil
}
