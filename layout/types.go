package layout

import "github.com/ByLCY/cvpress/assets"

// 该文件定义排版结果：按顺序排列、已定位的绘制指令，供渲染与调试 JSON 共用。
// 所有坐标单位为毫米，原点在页面左上角；文本的 Y 为基线位置。字号单位为 pt。

// Column 标识指令所属的栏。
type Column string

const (
	ColumnHeader Column = "header"
	ColumnLeft   Column = "left"
	ColumnRight  Column = "right"
)

// Weight 是字重。Medium 用于“次一级加粗”的文本（例如学校名称）。
type Weight string

const (
	WeightRegular Weight = "regular"
	WeightMedium  Weight = "medium"
	WeightBold    Weight = "bold"
)

// Font 描述文本样式。Size 以 pt 计。
type Font struct {
	Weight Weight  `json:"weight"`
	Size   float64 `json:"size"`
}

// Align 为文本在锚点上的水平对齐方式。
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
)

// Color 采用 0-255 的 RGB 数值，零值为黑色。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Kind 区分绘制指令的变体。
type Kind string

const (
	KindText      Kind = "text"
	KindParagraph Kind = "paragraph"
	KindImage     Kind = "image"
	KindRule      Kind = "rule"
)

// Instruction 是已定位、带样式的绘制原语：TextRun | Paragraph | Image | Rule。
// 未导出的方法使该接口在包外封闭，渲染器对其做穷举的类型分派。
type Instruction interface {
	Kind() Kind
	instruction()
}

// TextRun 是单行文本。Align 为 center 时 X 是中心点。
type TextRun struct {
	Column  Column  `json:"column"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Content string  `json:"content"`
	Font    Font    `json:"font"`
	Align   Align   `json:"align,omitempty"`
	Width   float64 `json:"width"`
	Link    string  `json:"link,omitempty"`
	Color   Color   `json:"color"`
}

// Paragraph 是已经折行的文本块，每一行自带坐标，续行可以与首行不同缩进。
type Paragraph struct {
	Column     Column     `json:"column"`
	Font       Font       `json:"font"`
	LineHeight float64    `json:"lineHeight"`
	Lines      []TextLine `json:"lines"`
	Color      Color      `json:"color"`
}

// TextLine 表示排版后的一行文本及其位置和测量宽度。
type TextLine struct {
	Content string  `json:"content"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
}

// Image 引用图标表中的一项，X/Y 为左上角。
type Image struct {
	Column Column      `json:"column"`
	Icon   assets.Icon `json:"icon"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
}

// Rule 表示一条线段（分隔线、下划线）。Width 为线宽（mm），<=0 时由渲染器给默认值。
type Rule struct {
	Column Column  `json:"column"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
	Width  float64 `json:"width"`
	Color  Color   `json:"color"`
}

func (TextRun) Kind() Kind   { return KindText }
func (Paragraph) Kind() Kind { return KindParagraph }
func (Image) Kind() Kind     { return KindImage }
func (Rule) Kind() Kind      { return KindRule }

func (TextRun) instruction()   {}
func (Paragraph) instruction() {}
func (Image) instruction()     {}
func (Rule) instruction()      {}

// Result 保存一次排版的全部输出。
type Result struct {
	Page         Page          `json:"page"`
	Instructions []Instruction `json:"-"`
	Cursor       Cursor        `json:"cursor"`
	Trace        []CursorStep  `json:"trace"`
	// Overflow 表示某一栏越过了下边距；只输出单页，超出部分不会分页。
	Overflow bool         `json:"overflow"`
	Meta     DocumentMeta `json:"meta"`
}

// Page 记录页面尺寸（mm）。
type Page struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Cursor 是排版结束时各游标的位置。
type Cursor struct {
	Header float64 `json:"header"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// CursorStep 记录一次游标推进。
type CursorStep struct {
	Column Column  `json:"column"`
	From   float64 `json:"from"`
	To     float64 `json:"to"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}

// Icons 返回结果中引用到的图标（按首次出现顺序去重）。
func (r *Result) Icons() []assets.Icon {
	if r == nil {
		return nil
	}
	seen := map[assets.Icon]bool{}
	var out []assets.Icon
	for _, ins := range r.Instructions {
		img, ok := ins.(Image)
		if !ok || seen[img.Icon] {
			continue
		}
		seen[img.Icon] = true
		out = append(out, img.Icon)
	}
	return out
}
