package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/cvpress/assets"
	"github.com/ByLCY/cvpress/fonts"
	"github.com/ByLCY/cvpress/layout"
	"github.com/ByLCY/cvpress/renderer"
)

const defaultRuleWidth = 0.2

// Renderer draws layout results via github.com/tdewolff/canvas.
// Link targets on text runs are kept in the layout but not written as annotations.
type Renderer struct {
	fonts  fonts.Set
	icons  assets.IconTable
	glyphs *renderer.Coverage

	fontMu       sync.Mutex
	fontFamilies map[layout.Weight]*fontFamilyEntry
}

var _ renderer.Backend = (*Renderer)(nil)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	Fonts fonts.Set
	Icons assets.IconTable
}

// NewRenderer creates a canvas-based renderer. Empty font data falls back to the Go fonts.
func NewRenderer(opts Options) *Renderer {
	set := opts.Fonts
	def := fonts.Default()
	if len(set.Regular) == 0 {
		set.Regular = def.Regular
	}
	if len(set.Bold) == 0 {
		set.Bold = def.Bold
	}
	return &Renderer{
		fonts:        set,
		icons:        opts.Icons,
		glyphs:       renderer.NewCoverage(set),
		fontFamilies: map[layout.Weight]*fontFamilyEntry{},
	}
}

// TextWidth implements layout.Measurer. The returned width is in mm.
func (r *Renderer) TextWidth(text string, font layout.Font) (float64, error) {
	if err := r.glyphs.Check(text, font.Weight); err != nil {
		return 0, err
	}
	face, err := r.fontFace(font, layout.Color{})
	if err != nil {
		return 0, err
	}
	return face.TextWidth(text), nil
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if err := renderer.CheckResult(result); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	page := result.Page
	writer := pdf.New(&buf, page.Width, page.Height, nil)
	r.applyMeta(writer, result.Meta)

	c := canvas.New(page.Width, page.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	for i, ins := range result.Instructions {
		if err := r.draw(ctx, ins); err != nil {
			return nil, fmt.Errorf("绘制第 %d 条指令失败: %w", i, err)
		}
	}
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

func (r *Renderer) draw(ctx *canvas.Context, ins layout.Instruction) error {
	switch v := ins.(type) {
	case layout.TextRun:
		return r.drawText(ctx, v)
	case layout.Paragraph:
		return r.drawParagraph(ctx, v)
	case layout.Image:
		return r.drawImage(ctx, v)
	case layout.Rule:
		r.drawRule(ctx, v)
		return nil
	default:
		return fmt.Errorf("未知的绘制指令 %T", ins)
	}
}

func (r *Renderer) drawText(ctx *canvas.Context, run layout.TextRun) error {
	if run.Content == "" {
		return nil
	}
	face, err := r.fontFace(run.Font, run.Color)
	if err != nil {
		return err
	}
	align := canvas.Left
	if run.Align == layout.AlignCenter {
		align = canvas.Center
	}
	// Y 即基线
	ctx.DrawText(run.X, run.Y, canvas.NewTextLine(face, run.Content, align))
	return nil
}

func (r *Renderer) drawParagraph(ctx *canvas.Context, p layout.Paragraph) error {
	face, err := r.fontFace(p.Font, p.Color)
	if err != nil {
		return err
	}
	for _, line := range p.Lines {
		if line.Content == "" {
			continue
		}
		ctx.DrawText(line.X, line.Y, canvas.NewTextLine(face, line.Content, canvas.Left))
	}
	return nil
}

func (r *Renderer) drawImage(ctx *canvas.Context, img layout.Image) error {
	decoded, _, err := renderer.DecodeIcon(r.icons, img.Icon)
	if err != nil {
		return err
	}
	width := img.Width
	if width <= 0 {
		width = float64(decoded.Bounds().Dx()) / 4.0
	}
	dpmm := float64(decoded.Bounds().Dx()) / width
	if dpmm <= 0 {
		dpmm = 1
	}
	ctx.DrawImage(img.X, img.Y, decoded, canvas.DPMM(dpmm))
	return nil
}

func (r *Renderer) drawRule(ctx *canvas.Context, rule layout.Rule) {
	w := rule.Width
	if w <= 0 {
		w = defaultRuleWidth
	}
	ctx.SetStrokeColor(colorFromLayout(rule.Color))
	ctx.SetStrokeWidth(w)
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(rule.X2-rule.X1, rule.Y2-rule.Y1)
	ctx.DrawPath(rule.X1, rule.Y1, p)
}

func (r *Renderer) fontFace(font layout.Font, col layout.Color) (*canvas.FontFace, error) {
	if font.Size <= 0 {
		return nil, fmt.Errorf("字号无效: %g", font.Size)
	}
	family, style, err := r.ensureFontFamily(font.Weight)
	if err != nil {
		return nil, err
	}
	return family.Face(font.Size, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(weight layout.Weight) (*canvas.FontFamily, canvas.FontStyle, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[weight]; ok {
		return entry.family, entry.style, nil
	}

	data, err := r.fonts.Bytes(string(weight))
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	style := parseFontStyle(weight)
	family := canvas.NewFontFamily("cvpress-" + string(weight))
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, canvas.FontRegular, fmt.Errorf("加载字体 %s 失败: %w", weight, err)
	}
	r.fontFamilies[weight] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

func parseFontStyle(weight layout.Weight) canvas.FontStyle {
	switch weight {
	case layout.WeightBold:
		return canvas.FontBold
	case layout.WeightMedium:
		return canvas.FontMedium
	default:
		return canvas.FontRegular
	}
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
