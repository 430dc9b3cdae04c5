// Package fpdfrenderer draws layout results with codeberg.org/go-pdf/fpdf.
// Text runs carrying a Link become clickable URI annotations.
package fpdfrenderer

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"time"

	"codeberg.org/go-pdf/fpdf"

	"github.com/ByLCY/cvpress/assets"
	"github.com/ByLCY/cvpress/fonts"
	"github.com/ByLCY/cvpress/layout"
	"github.com/ByLCY/cvpress/renderer"
)

const (
	defaultRuleWidth = 0.2
	// 链接热区相对字号的上沿比例
	linkAscent = 0.8
)

// 固定的创建时间使相同输入产生相同字节。
var creationDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Renderer implements renderer.Backend on top of fpdf.
type Renderer struct {
	fonts  fonts.Set
	icons  assets.IconTable
	glyphs *renderer.Coverage

	// 测量专用文档，只加载字体，不输出
	measureMu  sync.Mutex
	measureDoc *fpdf.Fpdf
}

var _ renderer.Backend = (*Renderer)(nil)

// Options configures the fpdf renderer.
type Options struct {
	Fonts fonts.Set
	Icons assets.IconTable
}

// NewRenderer creates an fpdf-based renderer. Empty font data falls back to the Go fonts.
func NewRenderer(opts Options) *Renderer {
	set := opts.Fonts
	def := fonts.Default()
	if len(set.Regular) == 0 {
		set.Regular = def.Regular
	}
	if len(set.Bold) == 0 {
		set.Bold = def.Bold
	}
	return &Renderer{fonts: set, icons: opts.Icons, glyphs: renderer.NewCoverage(set)}
}

// familyFor 把字重映射为 fpdf 的字体族与样式。Medium 单独注册为一个族。
func familyFor(weight layout.Weight) (family, style string) {
	switch weight {
	case layout.WeightBold:
		return "cvpress", "B"
	case layout.WeightMedium:
		return "cvpress-medium", ""
	default:
		return "cvpress", ""
	}
}

func (r *Renderer) newDocument(w, h float64) (*fpdf.Fpdf, error) {
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: w, Ht: h},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCreationDate(creationDate)
	doc.SetModificationDate(creationDate)
	doc.SetCatalogSort(true)
	for _, weight := range []layout.Weight{layout.WeightRegular, layout.WeightMedium, layout.WeightBold} {
		data, err := r.fonts.Bytes(string(weight))
		if err != nil {
			return nil, err
		}
		family, style := familyFor(weight)
		doc.AddUTF8FontFromBytes(family, style, data)
	}
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("加载字体失败: %w", err)
	}
	return doc, nil
}

// TextWidth implements layout.Measurer. The returned width is in mm.
func (r *Renderer) TextWidth(text string, font layout.Font) (float64, error) {
	if font.Size <= 0 {
		return 0, fmt.Errorf("字号无效: %g", font.Size)
	}
	// fpdf 对缺失字形按默认宽度计算，不会报错
	if err := r.glyphs.Check(text, font.Weight); err != nil {
		return 0, err
	}
	r.measureMu.Lock()
	defer r.measureMu.Unlock()

	if r.measureDoc == nil {
		doc, err := r.newDocument(layout.A4Width, layout.A4Height)
		if err != nil {
			return 0, err
		}
		r.measureDoc = doc
	}
	family, style := familyFor(font.Weight)
	r.measureDoc.SetFont(family, style, font.Size)
	w := r.measureDoc.GetStringWidth(text)
	if err := r.measureDoc.Error(); err != nil {
		return 0, err
	}
	return w, nil
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if err := renderer.CheckResult(result); err != nil {
		return nil, err
	}
	doc, err := r.newDocument(result.Page.Width, result.Page.Height)
	if err != nil {
		return nil, err
	}
	applyMeta(doc, result.Meta)
	doc.AddPage()

	for i, ins := range result.Instructions {
		if err := r.draw(doc, ins); err != nil {
			return nil, fmt.Errorf("绘制第 %d 条指令失败: %w", i, err)
		}
		if err := doc.Error(); err != nil {
			return nil, fmt.Errorf("绘制第 %d 条指令失败: %w", i, err)
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func applyMeta(doc *fpdf.Fpdf, meta layout.DocumentMeta) {
	doc.SetTitle(meta.Title, true)
	doc.SetAuthor(meta.Author, true)
	doc.SetSubject(meta.Subject, true)
	doc.SetCreator(meta.Creator, true)
	doc.SetProducer(meta.Creator, true)
	if len(meta.Keywords) > 0 {
		doc.SetKeywords(strings.Join(meta.Keywords, ", "), true)
	}
}

func (r *Renderer) draw(doc *fpdf.Fpdf, ins layout.Instruction) error {
	switch v := ins.(type) {
	case layout.TextRun:
		drawText(doc, v)
		return nil
	case layout.Paragraph:
		drawParagraph(doc, v)
		return nil
	case layout.Image:
		return r.drawImage(doc, v)
	case layout.Rule:
		drawRule(doc, v)
		return nil
	default:
		return fmt.Errorf("未知的绘制指令 %T", ins)
	}
}

func useFont(doc *fpdf.Fpdf, font layout.Font, c layout.Color) {
	family, style := familyFor(font.Weight)
	doc.SetFont(family, style, font.Size)
	doc.SetTextColor(c.R, c.G, c.B)
}

func drawText(doc *fpdf.Fpdf, run layout.TextRun) {
	if run.Content == "" {
		return
	}
	useFont(doc, run.Font, run.Color)
	width := run.Width
	if width <= 0 {
		width = doc.GetStringWidth(run.Content)
	}
	x := run.X
	if run.Align == layout.AlignCenter {
		x -= width / 2
	}
	doc.Text(x, run.Y, run.Content)
	if run.Link != "" {
		h := layout.ToMM(run.Font.Size)
		doc.LinkString(x, run.Y-h*linkAscent, width, h, run.Link)
	}
}

func drawParagraph(doc *fpdf.Fpdf, p layout.Paragraph) {
	useFont(doc, p.Font, p.Color)
	for _, line := range p.Lines {
		if line.Content == "" {
			continue
		}
		doc.Text(line.X, line.Y, line.Content)
	}
}

func (r *Renderer) drawImage(doc *fpdf.Fpdf, img layout.Image) error {
	data, err := r.icons.Lookup(img.Icon)
	if err != nil {
		return err
	}
	// 先完整解码一次，确保数据可用并取得格式
	_, format, err := renderer.DecodeIcon(r.icons, img.Icon)
	if err != nil {
		return err
	}
	name := "icon-" + string(img.Icon)
	opts := fpdf.ImageOptions{ImageType: strings.ToUpper(format)}
	if info := doc.GetImageInfo(name); info == nil {
		doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	}
	doc.ImageOptions(name, img.X, img.Y, img.Width, img.Height, false, opts, 0, "")
	return nil
}

func drawRule(doc *fpdf.Fpdf, rule layout.Rule) {
	w := rule.Width
	if w <= 0 {
		w = defaultRuleWidth
	}
	doc.SetDrawColor(rule.Color.R, rule.Color.G, rule.Color.B)
	doc.SetLineWidth(w)
	doc.Line(rule.X1, rule.Y1, rule.X2, rule.Y2)
}
