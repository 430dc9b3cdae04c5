package layout

// BuildOptions 配置排版阶段所需的依赖与页面尺寸。
type BuildOptions struct {
	Measurer Measurer
	// 页面尺寸（mm），<=0 时使用 A4。
	PageWidth  float64
	PageHeight float64
}

// Measurer 是文本测量后端：返回 text 在给定字体下的渲染宽度（mm）。
// 渲染后端实现该接口，使排版与绘制使用同一套字体度量。
type Measurer interface {
	TextWidth(text string, font Font) (float64, error)
}
