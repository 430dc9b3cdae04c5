package layout

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/ByLCY/cvpress/assets"
	"github.com/ByLCY/cvpress/resume"
)

// ErrMeasurement 表示测量后端无法测量某段文本。
var ErrMeasurement = errors.New("text measurement failed")

const (
	marginX       = 10.0
	bottomMargin  = 10.0
	columnGutter  = 10.0
	leftShare     = 0.66
	rightShare    = 0.34
	nameBaseline  = 20.0
	nameAdvance   = 10.0
	contactStartX = 20.0
	iconSize      = 5.0
	iconLabelGap  = 2.0
	contactGutter = 15.0
	contactLine   = 8.0
	headerGap     = 10.0
	ruleWidth     = 0.2

	skillLine       = 6.0
	entryLine       = 6.0
	dutyIndent      = 5.0
	dutyLine        = 4.0
	underlineOffset = 2.0
	experienceGap   = 10.0
	compactLine     = 4.0
	educationGap    = 6.0
	honorMetaLine   = 6.0
	honorGap        = 2.0
	projectGap      = 4.0

	bullet = "• "
)

var (
	fontName        = Font{Weight: WeightBold, Size: 24}
	fontTitle       = Font{Weight: WeightBold, Size: 14}
	fontDegree      = Font{Weight: WeightBold, Size: 12}
	fontStrong      = Font{Weight: WeightBold, Size: 10}
	fontInstitution = Font{Weight: WeightMedium, Size: 10}
	fontBody        = Font{Weight: WeightRegular, Size: 10}
)

// sectionSpec 描述区块的固定位置与间距。
type sectionSpec struct {
	title        string
	column       Column
	titleAdvance float64
	gapAfter     float64
}

var sectionSpecs = map[resume.SectionKind]sectionSpec{
	resume.SectionSkills:     {title: "Skills & Technologies", column: ColumnLeft, titleAdvance: 8, gapAfter: 4},
	resume.SectionExperience: {title: "Experience", column: ColumnLeft, titleAdvance: 6},
	resume.SectionEducation:  {title: "Education", column: ColumnRight, titleAdvance: 8},
	resume.SectionHonors:     {title: "Honors and Awards", column: ColumnRight, titleAdvance: 6},
	resume.SectionProjects:   {title: "Personal Projects", column: ColumnRight, titleAdvance: 8},
}

// Build 根据简历数据计算单页两栏布局，返回按绘制顺序排列的指令。
// 两个栏游标只属于本次调用，互不影响。
func Build(rec resume.Record, opts BuildOptions) (*Result, error) {
	if opts.Measurer == nil {
		return nil, fmt.Errorf("layout: 缺少文本测量后端 Measurer")
	}
	width := opts.PageWidth
	if width <= 0 {
		width = A4Width
	}
	height := opts.PageHeight
	if height <= 0 {
		height = A4Height
	}

	e := newEngine(opts.Measurer, width, height)
	if err := e.header(rec); err != nil {
		return nil, err
	}
	for _, sec := range rec.Sections() {
		if err := e.section(sec); err != nil {
			return nil, err
		}
	}
	return e.result(rec), nil
}

// cursor 保存三个纵向游标：页眉共用一个，左右两栏各一个。
type cursor struct {
	header float64
	left   float64
	right  float64
}

type engine struct {
	measurer Measurer
	page     Page

	leftX, leftWidth   float64
	rightX, rightWidth float64

	cur   cursor
	out   []Instruction
	trace []CursorStep
}

func newEngine(m Measurer, width, height float64) *engine {
	leftWidth := width * leftShare
	return &engine{
		measurer:   m,
		page:       Page{Width: width, Height: height},
		leftX:      marginX,
		leftWidth:  leftWidth,
		rightX:     marginX + leftWidth,
		rightWidth: width * rightShare,
		cur:        cursor{header: nameBaseline},
	}
}

func (e *engine) result(rec resume.Record) *Result {
	limit := e.page.Height - bottomMargin
	return &Result{
		Page:         e.page,
		Instructions: e.out,
		Cursor:       Cursor{Header: e.cur.header, Left: e.cur.left, Right: e.cur.right},
		Trace:        e.trace,
		Overflow:     e.cur.left > limit || e.cur.right > limit,
		Meta: DocumentMeta{
			Title:   "Resume",
			Author:  rec.Name,
			Subject: "Resume",
			Creator: "cvpress",
		},
	}
}

// header 排版姓名、联系方式行与分隔线，最后让两栏从同一高度开始。
func (e *engine) header(rec resume.Record) error {
	nameWidth, err := e.measure(rec.Name, fontName)
	if err != nil {
		return err
	}
	e.emit(TextRun{
		Column:  ColumnHeader,
		X:       e.page.Width / 2,
		Y:       e.cur.header,
		Content: rec.Name,
		Font:    fontName,
		Align:   AlignCenter,
		Width:   nameWidth,
	})
	e.advance(ColumnHeader, nameAdvance)

	items := contactItems(rec)
	x := contactStartX
	y := e.cur.header
	for _, it := range items {
		labelWidth, err := e.measure(it.label, fontBody)
		if err != nil {
			return err
		}
		e.emit(Image{Column: ColumnHeader, Icon: it.icon, X: x, Y: y, Width: iconSize, Height: iconSize})
		e.emit(TextRun{
			Column:  ColumnHeader,
			X:       x + iconSize + iconLabelGap,
			Y:       y + iconSize/2 + 1,
			Content: it.label,
			Font:    fontBody,
			Width:   labelWidth,
			Link:    it.link,
		})
		x += labelWidth + contactGutter
	}
	e.advance(ColumnHeader, contactLine)

	if len(items) > 0 {
		e.emit(Rule{
			Column: ColumnHeader,
			X1:     marginX,
			Y1:     e.cur.header,
			X2:     e.page.Width - marginX,
			Y2:     e.cur.header,
			Width:  ruleWidth,
		})
	}
	e.advance(ColumnHeader, headerGap)

	e.cur.left = e.cur.header
	e.cur.right = e.cur.header
	return nil
}

type contactItem struct {
	icon  assets.Icon
	label string
	link  string
}

// contactItems 按固定顺序返回非空的联系方式。
func contactItems(rec resume.Record) []contactItem {
	var items []contactItem
	if rec.Email != "" {
		items = append(items, contactItem{icon: assets.IconEmail, label: rec.Email, link: "mailto:" + rec.Email})
	}
	if rec.Phone != "" {
		items = append(items, contactItem{icon: assets.IconPhone, label: rec.Phone, link: "tel:" + rec.Phone})
	}
	if rec.LinkedIn != "" {
		items = append(items, contactItem{icon: assets.IconLinkedIn, label: ProfileHandle(rec.LinkedIn), link: rec.LinkedIn})
	}
	if rec.GitHub != "" {
		items = append(items, contactItem{icon: assets.IconGitHub, label: ProfileHandle(rec.GitHub), link: rec.GitHub})
	}
	return items
}

// ProfileHandle 返回链接的最后一段路径：先去掉一个结尾的 "/"，再取最后一个 "/" 之后的部分。
// 空链接得到空字符串。
func ProfileHandle(url string) string {
	trimmed := strings.TrimSuffix(url, "/")
	return trimmed[strings.LastIndex(trimmed, "/")+1:]
}

// SplitTechnologies 按逗号拆分技术列表并去掉每项首尾空白，空项被丢弃。
func SplitTechnologies(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if tok := strings.TrimSpace(part); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// section 输出区块标题与全部条目；空区块不输出标题也不推进游标。
func (e *engine) section(sec resume.Section) error {
	if len(sec.Entries) == 0 {
		return nil
	}
	spec, ok := sectionSpecs[sec.Kind]
	if !ok {
		return fmt.Errorf("layout: 未知区块 %q", sec.Kind)
	}
	col := spec.column
	x, _ := e.columnBox(col)
	if _, err := e.text(col, x, spec.title, fontTitle); err != nil {
		return err
	}
	e.advance(col, spec.titleAdvance)

	for _, entry := range sec.Entries {
		var err error
		switch en := entry.(type) {
		case resume.Skill:
			err = e.skill(col, en)
		case resume.Experience:
			err = e.experience(col, en)
		case resume.Education:
			err = e.education(col, en)
		case resume.Honor:
			err = e.honor(col, en)
		case resume.Project:
			err = e.project(col, en)
		default:
			err = fmt.Errorf("layout: 未知条目类型 %T", entry)
		}
		if err != nil {
			return err
		}
	}
	e.advance(col, spec.gapAfter)
	return nil
}

// skill 在同一行输出 "名称 | "（加粗）、第一项技术，以及其余技术的项目符号列表。
func (e *engine) skill(col Column, s resume.Skill) error {
	x, _ := e.columnBox(col)
	headWidth, err := e.text(col, x, s.Name+" | ", fontStrong)
	if err != nil {
		return err
	}
	tokens := SplitTechnologies(s.Technologies)
	if len(tokens) == 0 {
		e.advance(col, skillLine)
		return nil
	}
	firstX := x + headWidth
	if _, err := e.text(col, firstX, tokens[0], fontBody); err != nil {
		return err
	}
	if len(tokens) == 1 {
		e.advance(col, skillLine)
		return nil
	}

	gap, err := e.measure(tokens[0]+" ", fontBody)
	if err != nil {
		return err
	}
	restX := firstX + gap
	items := make([]string, 0, len(tokens)-1)
	for _, tok := range tokens[1:] {
		items = append(items, bullet+tok)
	}
	lines, err := e.wrapTokens(items, fontBody, e.rightEdge(col)-restX)
	if err != nil {
		return err
	}
	para := Paragraph{Column: col, Font: fontBody, LineHeight: skillLine}
	for _, ln := range lines {
		ln.X = restX
		ln.Y = e.y(col)
		para.Lines = append(para.Lines, ln)
		e.advance(col, skillLine)
	}
	e.emit(para)
	return nil
}

// experience 输出职位（带下划线）、公司行、可选的项目名称行与职责列表。
// 职责续行与项目符号后的文字对齐，而不是与项目符号对齐。
func (e *engine) experience(col Column, ex resume.Experience) error {
	x, _ := e.columnBox(col)
	y := e.y(col)
	headWidth, err := e.text(col, x, fmt.Sprintf("%s (%s)", ex.Position, ex.Technologies), fontStrong)
	if err != nil {
		return err
	}
	e.emit(Rule{
		Column: col,
		X1:     x,
		Y1:     y + underlineOffset,
		X2:     x + headWidth,
		Y2:     y + underlineOffset,
		Width:  ruleWidth,
	})
	e.advance(col, entryLine)

	if _, err := e.text(col, x, fmt.Sprintf("%s, %s, %s", ex.CompanyName, ex.Duration, ex.City), fontBody); err != nil {
		return err
	}
	e.advance(col, entryLine)

	if ex.SoftwareName != "" {
		if _, err := e.text(col, x, ex.SoftwareName, fontStrong); err != nil {
			return err
		}
		e.advance(col, entryLine)
	}

	if len(ex.Duties) > 0 {
		bulletWidth, err := e.measure(bullet, fontBody)
		if err != nil {
			return err
		}
		dutyX := x + dutyIndent
		textX := dutyX + bulletWidth
		for _, duty := range ex.Duties {
			lines, err := e.wrap(duty, fontBody, e.rightEdge(col)-textX)
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				continue
			}
			para := Paragraph{Column: col, Font: fontBody, LineHeight: dutyLine}
			for i, ln := range lines {
				ln.Y = e.y(col)
				ln.X = textX
				if i == 0 {
					ln.X = dutyX
					ln.Content = bullet + ln.Content
					ln.Width += bulletWidth
				}
				para.Lines = append(para.Lines, ln)
				e.advance(col, dutyLine)
			}
			e.emit(para)
		}
	}
	e.advance(col, experienceGap)
	return nil
}

func (e *engine) education(col Column, ed resume.Education) error {
	x, _ := e.columnBox(col)
	if _, err := e.text(col, x, ed.Degree, fontDegree); err != nil {
		return err
	}
	e.advance(col, compactLine)
	if _, err := e.text(col, x, ed.Institution, fontInstitution); err != nil {
		return err
	}
	e.advance(col, compactLine)
	if _, err := e.text(col, x, fmt.Sprintf("%s | CGPA: %s", ed.YearCompleted, ed.CGPA), fontBody); err != nil {
		return err
	}
	e.advance(col, compactLine)
	e.advance(col, educationGap)
	return nil
}

func (e *engine) honor(col Column, h resume.Honor) error {
	x, _ := e.columnBox(col)
	if _, err := e.text(col, x, h.Name, fontStrong); err != nil {
		return err
	}
	e.advance(col, compactLine)
	if _, err := e.text(col, x, fmt.Sprintf("%s | %s", h.Year, h.Location), fontBody); err != nil {
		return err
	}
	e.advance(col, honorMetaLine)
	if err := e.paragraph(col, x, h.Detail); err != nil {
		return err
	}
	e.advance(col, honorGap)
	return nil
}

func (e *engine) project(col Column, p resume.Project) error {
	x, _ := e.columnBox(col)
	if _, err := e.text(col, x, p.ProjectName, fontStrong); err != nil {
		return err
	}
	e.advance(col, compactLine)
	if err := e.paragraph(col, x, p.Description); err != nil {
		return err
	}
	e.advance(col, projectGap)
	return nil
}

// paragraph 将正文折行到栏宽内，每行推进一个紧凑行高。
func (e *engine) paragraph(col Column, x float64, content string) error {
	lines, err := e.wrap(content, fontBody, e.rightEdge(col)-x)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	para := Paragraph{Column: col, Font: fontBody, LineHeight: compactLine}
	for _, ln := range lines {
		ln.X = x
		ln.Y = e.y(col)
		para.Lines = append(para.Lines, ln)
		e.advance(col, compactLine)
	}
	e.emit(para)
	return nil
}

// text 在当前栏游标处输出一行文本，返回其测量宽度。
func (e *engine) text(col Column, x float64, content string, font Font) (float64, error) {
	width, err := e.measure(content, font)
	if err != nil {
		return 0, err
	}
	e.emit(TextRun{Column: col, X: x, Y: e.y(col), Content: content, Font: font, Width: width})
	return width, nil
}

func (e *engine) measure(text string, font Font) (float64, error) {
	if !utf8.ValidString(text) {
		return 0, fmt.Errorf("%w: %q 不是合法的 UTF-8", ErrMeasurement, text)
	}
	if text == "" {
		return 0, nil
	}
	w, err := e.measurer.TextWidth(text, font)
	if err != nil {
		return 0, fmt.Errorf("%w: %q (%s %gpt): %w", ErrMeasurement, text, font.Weight, font.Size, err)
	}
	if w < 0 || math.IsNaN(w) {
		return 0, fmt.Errorf("%w: %q 的宽度无效 (%g)", ErrMeasurement, text, w)
	}
	return w, nil
}

func (e *engine) emit(ins Instruction) {
	e.out = append(e.out, ins)
}

func (e *engine) y(col Column) float64 {
	switch col {
	case ColumnLeft:
		return e.cur.left
	case ColumnRight:
		return e.cur.right
	default:
		return e.cur.header
	}
}

// advance 推进指定栏的游标并记录轨迹。
func (e *engine) advance(col Column, dy float64) {
	if dy == 0 {
		return
	}
	var target *float64
	switch col {
	case ColumnLeft:
		target = &e.cur.left
	case ColumnRight:
		target = &e.cur.right
	default:
		target = &e.cur.header
	}
	from := *target
	*target += dy
	e.trace = append(e.trace, CursorStep{Column: col, From: from, To: *target})
}

func (e *engine) columnBox(col Column) (float64, float64) {
	switch col {
	case ColumnRight:
		return e.rightX, e.rightWidth
	case ColumnLeft:
		return e.leftX, e.leftWidth
	default:
		return marginX, e.page.Width - 2*marginX
	}
}

// rightEdge 是栏内文字允许到达的最右位置。
func (e *engine) rightEdge(col Column) float64 {
	x, width := e.columnBox(col)
	return x + width - columnGutter
}
