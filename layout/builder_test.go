package layout

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ByLCY/cvpress/assets"
	"github.com/ByLCY/cvpress/resume"
)

// stubMeasurer 是测试用的等宽测量：每个字符宽 Size*0.2 mm。
type stubMeasurer struct {
	calls int
	fail  string
}

func (s *stubMeasurer) TextWidth(text string, font Font) (float64, error) {
	s.calls++
	if s.fail != "" && strings.Contains(text, s.fail) {
		return 0, errors.New("glyph not found")
	}
	return float64(utf8.RuneCountInString(text)) * font.Size * 0.2, nil
}

func build(t *testing.T, rec resume.Record) *Result {
	t.Helper()
	res, err := Build(rec.Normalize(), BuildOptions{Measurer: &stubMeasurer{}})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	return res
}

func textRuns(res *Result, col Column) []TextRun {
	var out []TextRun
	for _, ins := range res.Instructions {
		if run, ok := ins.(TextRun); ok && run.Column == col {
			out = append(out, run)
		}
	}
	return out
}

func paragraphs(res *Result, col Column) []Paragraph {
	var out []Paragraph
	for _, ins := range res.Instructions {
		if p, ok := ins.(Paragraph); ok && p.Column == col {
			out = append(out, p)
		}
	}
	return out
}

// columnAdvance 汇总某栏的游标推进量。
func columnAdvance(res *Result, col Column) float64 {
	total := 0.0
	for _, step := range res.Trace {
		if step.Column == col {
			total += step.To - step.From
		}
	}
	return total
}

const columnStart = nameBaseline + nameAdvance + contactLine + headerGap

func TestBuildEmptyRecord(t *testing.T) {
	res := build(t, resume.Record{})
	if len(res.Instructions) != 1 {
		t.Fatalf("expected only the name line, got %d instructions: %+v", len(res.Instructions), res.Instructions)
	}
	name, ok := res.Instructions[0].(TextRun)
	if !ok || name.Content != "" || name.Align != AlignCenter {
		t.Fatalf("expected empty centered name run, got %+v", res.Instructions[0])
	}
	if res.Cursor.Left != columnStart || res.Cursor.Right != columnStart {
		t.Fatalf("expected cursors at %g, got %+v", columnStart, res.Cursor)
	}
	if res.Overflow {
		t.Fatalf("empty record must not overflow")
	}
}

func TestBuildRequiresMeasurer(t *testing.T) {
	if _, err := Build(resume.Record{}, BuildOptions{}); err == nil {
		t.Fatalf("expected error without measurer")
	}
}

func TestSkillDecomposition(t *testing.T) {
	res := build(t, resume.Record{Skills: []resume.Skill{{Name: "Languages", Technologies: "Go, Rust, C++"}}})

	runs := textRuns(res, ColumnLeft)
	// 标题 + "Languages | " + "Go"
	if len(runs) != 3 {
		t.Fatalf("expected 3 text runs, got %+v", runs)
	}
	if runs[0].Content != "Skills & Technologies" {
		t.Fatalf("unexpected title %q", runs[0].Content)
	}
	head, first := runs[1], runs[2]
	if head.Content != "Languages | " || head.Font.Weight != WeightBold {
		t.Fatalf("unexpected head run %+v", head)
	}
	if first.Content != "Go" || first.Font.Weight != WeightRegular {
		t.Fatalf("unexpected first token run %+v", first)
	}
	if first.X != head.X+head.Width {
		t.Fatalf("first token should follow the head: %g != %g", first.X, head.X+head.Width)
	}

	paras := paragraphs(res, ColumnLeft)
	if len(paras) != 1 || len(paras[0].Lines) != 1 {
		t.Fatalf("expected one bullet line, got %+v", paras)
	}
	if got := paras[0].Lines[0].Content; got != "• Rust • C++" {
		t.Fatalf("unexpected bullet line %q", got)
	}
}

func TestSplitTechnologies(t *testing.T) {
	got := SplitTechnologies(" Go ,Rust,, C++ ,")
	want := []string{"Go", "Rust", "C++"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitTechnologies = %q, want %q", got, want)
	}
	if got := SplitTechnologies(""); len(got) != 0 {
		t.Fatalf("expected no tokens, got %q", got)
	}
}

func TestExperienceWithoutDuties(t *testing.T) {
	base := resume.Experience{CompanyName: "Acme", Technologies: "Go", Position: "Engineer", Duration: "2020", City: "Oslo"}

	res := build(t, resume.Record{Experience: []resume.Experience{base}})
	if len(paragraphs(res, ColumnLeft)) != 0 {
		t.Fatalf("expected no bullet paragraphs")
	}
	// 标题 6 + 职位 6 + 公司 6 + 间距 10
	if got, want := columnAdvance(res, ColumnLeft), 6.0+6+6+10; got != want {
		t.Fatalf("left advance = %g, want %g", got, want)
	}

	withSoftware := base
	withSoftware.SoftwareName = "Billing"
	res = build(t, resume.Record{Experience: []resume.Experience{withSoftware}})
	if got, want := columnAdvance(res, ColumnLeft), 6.0+6+6+6+10; got != want {
		t.Fatalf("left advance with software = %g, want %g", got, want)
	}
}

func TestExperienceHeadingIsUnderlined(t *testing.T) {
	res := build(t, resume.Record{Experience: []resume.Experience{{Position: "Engineer", Technologies: "Go"}}})
	var head TextRun
	for _, run := range textRuns(res, ColumnLeft) {
		if run.Content == "Engineer (Go)" {
			head = run
		}
	}
	if head.Content == "" {
		t.Fatalf("heading run not found")
	}
	for _, ins := range res.Instructions {
		if rule, ok := ins.(Rule); ok && rule.Column == ColumnLeft {
			if rule.X1 != head.X || rule.X2 != head.X+head.Width || rule.Y1 != head.Y+underlineOffset {
				t.Fatalf("underline %+v does not match heading %+v", rule, head)
			}
			return
		}
	}
	t.Fatalf("expected an underline rule")
}

func TestDutyWrapIndentation(t *testing.T) {
	duty := strings.Repeat("responsibility ", 20)
	res := build(t, resume.Record{Experience: []resume.Experience{{Position: "Engineer", Duties: []string{duty}}}})

	paras := paragraphs(res, ColumnLeft)
	if len(paras) != 1 {
		t.Fatalf("expected one duty paragraph, got %d", len(paras))
	}
	lines := paras[0].Lines
	if len(lines) < 2 {
		t.Fatalf("expected wrapped duty, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0].Content, bullet) {
		t.Fatalf("first line should start with bullet: %q", lines[0].Content)
	}
	bulletWidth := float64(utf8.RuneCountInString(bullet)) * fontBody.Size * 0.2
	dutyX := marginX + dutyIndent
	if lines[0].X != dutyX {
		t.Fatalf("bullet x = %g, want %g", lines[0].X, dutyX)
	}
	for i, ln := range lines[1:] {
		if ln.X != dutyX+bulletWidth {
			t.Fatalf("continuation %d x = %g, want %g", i+1, ln.X, dutyX+bulletWidth)
		}
		if strings.HasPrefix(ln.Content, bullet) {
			t.Fatalf("continuation %d must not repeat the bullet", i+1)
		}
	}
	limit := marginX + A4Width*leftShare - columnGutter
	for i, ln := range lines {
		if ln.X+ln.Width > limit+1e-9 {
			t.Fatalf("line %d exceeds column: %g > %g", i, ln.X+ln.Width, limit)
		}
		if i > 0 && ln.Y-lines[i-1].Y != dutyLine {
			t.Fatalf("line %d spacing = %g, want %g", i, ln.Y-lines[i-1].Y, dutyLine)
		}
	}
}

func TestProfileHandle(t *testing.T) {
	cases := map[string]string{
		"https://linkedin.com/in/jdoe/": "jdoe",
		"https://linkedin.com/in/jdoe":  "jdoe",
		"https://github.com/jdoe":       "jdoe",
		"jdoe":                          "jdoe",
		"":                              "",
	}
	for in, want := range cases {
		if got := ProfileHandle(in); got != want {
			t.Fatalf("ProfileHandle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestContactRowOnlyNonEmptyFields(t *testing.T) {
	res := build(t, resume.Record{Name: "Jane", Email: "jane@example.com", LinkedIn: "https://linkedin.com/in/jdoe/"})
	want := []assets.Icon{assets.IconEmail, assets.IconLinkedIn}
	if got := res.Icons(); !reflect.DeepEqual(got, want) {
		t.Fatalf("icons = %v, want %v", got, want)
	}
	runs := textRuns(res, ColumnHeader)
	if len(runs) != 3 {
		t.Fatalf("expected name + 2 labels, got %+v", runs)
	}
	if runs[1].Link != "mailto:jane@example.com" || runs[2].Content != "jdoe" || runs[2].Link != "https://linkedin.com/in/jdoe/" {
		t.Fatalf("unexpected contact runs %+v", runs[1:])
	}
	if runs[2].X <= runs[1].X+runs[1].Width {
		t.Fatalf("contact labels overlap: %+v", runs[1:])
	}
}

func sampleRecord() resume.Record {
	return resume.Record{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Phone:    "+1 555 0100",
		LinkedIn: "https://linkedin.com/in/janedoe/",
		GitHub:   "https://github.com/janedoe",
		Skills: []resume.Skill{
			{Name: "Languages", Technologies: "Go, TypeScript, SQL"},
			{Name: "Tools", Technologies: "Docker, Kubernetes"},
		},
		Education: []resume.Education{{Institution: "TU", Degree: "BSc", YearCompleted: "2020", CGPA: "3.8"}},
		Experience: []resume.Experience{{
			CompanyName: "Acme", Technologies: "Go", Position: "Engineer", Duration: "2021-2024", City: "Berlin",
			Duties: []string{"Built the billing pipeline", "Ran the on-call rotation"},
		}},
		Honors:   []resume.Honor{{Name: "Hackathon", Detail: "First place", Year: "2019", Location: "Munich"}},
		Projects: []resume.Project{{ProjectName: "cvpress", Description: "PDF resumes"}},
	}
}

func TestBuildIsCallIsolated(t *testing.T) {
	rec := sampleRecord().Normalize()
	isolated := build(t, rec)

	m := &stubMeasurer{}
	first, err := Build(rec, BuildOptions{Measurer: m})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	second, err := Build(rec, BuildOptions{Measurer: m})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	for i, res := range []*Result{first, second} {
		if !reflect.DeepEqual(res.Trace, isolated.Trace) {
			t.Fatalf("render %d trace differs from isolated render", i)
		}
		if !reflect.DeepEqual(res.Instructions, isolated.Instructions) {
			t.Fatalf("render %d instructions differ from isolated render", i)
		}
	}
}

func TestSectionOrderPerColumn(t *testing.T) {
	res := build(t, sampleRecord())

	titles := map[Column][]string{}
	titleY := map[string]float64{}
	for _, ins := range res.Instructions {
		run, ok := ins.(TextRun)
		if !ok || run.Font != fontTitle {
			continue
		}
		titles[run.Column] = append(titles[run.Column], run.Content)
		titleY[run.Content] = run.Y
	}
	if want := []string{"Skills & Technologies", "Experience"}; !reflect.DeepEqual(titles[ColumnLeft], want) {
		t.Fatalf("left titles = %q, want %q", titles[ColumnLeft], want)
	}
	if want := []string{"Education", "Honors and Awards", "Personal Projects"}; !reflect.DeepEqual(titles[ColumnRight], want) {
		t.Fatalf("right titles = %q, want %q", titles[ColumnRight], want)
	}
	if !(titleY["Skills & Technologies"] < titleY["Experience"]) {
		t.Fatalf("skills must be above experience")
	}
	if !(titleY["Education"] < titleY["Honors and Awards"] && titleY["Honors and Awards"] < titleY["Personal Projects"]) {
		t.Fatalf("right column out of order: %v", titleY)
	}
	// 两栏从同一高度开始
	if titleY["Skills & Technologies"] != columnStart || titleY["Education"] != columnStart {
		t.Fatalf("columns should start at %g: %v", columnStart, titleY)
	}
	for _, ins := range res.Instructions {
		if run, ok := ins.(TextRun); ok && run.Column == ColumnRight && run.X < marginX+A4Width*leftShare {
			t.Fatalf("right column run placed in left column: %+v", run)
		}
	}
}

func TestEmptySectionsAreSkipped(t *testing.T) {
	res := build(t, resume.Record{Projects: []resume.Project{{ProjectName: "cvpress"}}})
	runs := textRuns(res, ColumnRight)
	if len(runs) == 0 || runs[0].Content != "Personal Projects" || runs[0].Y != columnStart {
		t.Fatalf("projects should be first in the right column: %+v", runs)
	}
	if len(textRuns(res, ColumnLeft)) != 0 {
		t.Fatalf("left column should be empty")
	}
}

func TestMeasurementErrors(t *testing.T) {
	_, err := Build(resume.Record{Name: "Jane"}, BuildOptions{Measurer: &stubMeasurer{fail: "Jane"}})
	if !errors.Is(err, ErrMeasurement) {
		t.Fatalf("expected ErrMeasurement, got %v", err)
	}

	_, err = Build(resume.Record{Name: "bad \xff"}, BuildOptions{Measurer: &stubMeasurer{}})
	if !errors.Is(err, ErrMeasurement) {
		t.Fatalf("expected ErrMeasurement for invalid UTF-8, got %v", err)
	}
}

func TestOverflowIsReported(t *testing.T) {
	var projects []resume.Project
	for i := 0; i < 40; i++ {
		projects = append(projects, resume.Project{ProjectName: "p", Description: "a short description"})
	}
	res := build(t, resume.Record{Projects: projects})
	if !res.Overflow {
		t.Fatalf("expected overflow, right cursor at %g", res.Cursor.Right)
	}
	if math.Abs(res.Cursor.Left-columnStart) > 1e-9 {
		t.Fatalf("left cursor should be untouched, got %g", res.Cursor.Left)
	}
}

func TestEmptyTextIsNotMeasured(t *testing.T) {
	m := &stubMeasurer{}
	if _, err := Build(resume.Record{}, BuildOptions{Measurer: m}); err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if m.calls != 0 {
		t.Fatalf("expected no measurer calls for empty record, got %d", m.calls)
	}
}
