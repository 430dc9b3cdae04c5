package generator

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"

	"github.com/ByLCY/cvpress/assets"
	"github.com/ByLCY/cvpress/layout"
	"github.com/ByLCY/cvpress/renderer"
	"github.com/ByLCY/cvpress/resume"
)

func loadRecord(t *testing.T) resume.Record {
	t.Helper()
	data, err := os.ReadFile("testdata/record.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	rec, err := resume.Decode(data)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return rec
}

func newGenerator(t *testing.T, backend string) *Generator {
	t.Helper()
	bundle, err := assets.Default()
	if err != nil {
		t.Fatalf("default assets: %v", err)
	}
	g, err := FromBundle(backend, bundle)
	if err != nil {
		t.Fatalf("FromBundle(%q): %v", backend, err)
	}
	return g
}

func extractText(t *testing.T, data []byte) string {
	t.Helper()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open pdf: %v", err)
	}
	if n := reader.NumPage(); n != 1 {
		t.Fatalf("expected exactly one page, got %d", n)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		t.Fatalf("extract text: %v", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		t.Fatalf("read text: %v", err)
	}
	return buf.String()
}

func TestGenerateEndToEnd(t *testing.T) {
	for _, backend := range []string{renderer.NameFPDF, renderer.NameCanvas} {
		t.Run(backend, func(t *testing.T) {
			out, err := newGenerator(t, backend).Generate(loadRecord(t))
			if err != nil {
				t.Fatalf("Generate error: %v", err)
			}
			if !bytes.HasPrefix(out.PDF, []byte("%PDF")) {
				t.Fatalf("output is not a PDF")
			}
			if out.Layout == nil || out.Layout.Overflow {
				t.Fatalf("expected fitting layout, got %+v", out.Layout)
			}
			if backend != renderer.NameFPDF {
				return
			}
			text := extractText(t, out.PDF)
			// 绘制顺序：姓名、左栏、右栏
			order := []string{"Jane", "Skills", "Experience", "Acme", "Education", "Honors", "Personal"}
			last := -1
			for _, word := range order {
				idx := strings.Index(text, word)
				if idx < 0 {
					t.Fatalf("expected %q in extracted text %q", word, text)
				}
				if idx < last {
					t.Fatalf("expected %q after previous heading in %q", word, text)
				}
				last = idx
			}
		})
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	g := newGenerator(t, renderer.NameFPDF)
	rec := loadRecord(t)
	a, err := g.Generate(rec)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	b, err := g.Generate(rec)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if !bytes.Equal(a.PDF, b.PDF) {
		t.Fatalf("expected identical PDFs for identical input")
	}
}

func TestGenerateMissingIconFailsBeforeRendering(t *testing.T) {
	bundle, err := assets.Default()
	if err != nil {
		t.Fatalf("default assets: %v", err)
	}
	delete(bundle.Icons, assets.IconGitHub)
	g, err := FromBundle(renderer.NameFPDF, bundle)
	if err != nil {
		t.Fatalf("FromBundle: %v", err)
	}

	if _, err := g.Generate(loadRecord(t)); !errors.Is(err, assets.ErrResourceMissing) {
		t.Fatalf("expected ErrResourceMissing, got %v", err)
	}

	// 没有 github 字段时不需要该图标
	rec := loadRecord(t)
	rec.GitHub = ""
	if _, err := g.Generate(rec); err != nil {
		t.Fatalf("expected success without github contact, got %v", err)
	}
}

func TestGenerateJSONRejectsMalformedInput(t *testing.T) {
	g := newGenerator(t, renderer.NameFPDF)
	if _, err := g.GenerateJSON([]byte(`{"experience":{"position":"x"}}`)); !errors.Is(err, resume.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestNewBackendRejectsUnknownName(t *testing.T) {
	if _, err := NewBackend("svg", assets.Bundle{}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestGenerateRejectsGlyphsMissingFromFonts(t *testing.T) {
	records := map[string]resume.Record{
		"name":  {Name: "张伟"},
		"skill": {Name: "Jane Doe", Skills: []resume.Skill{{Name: "Languages", Technologies: "Go, 日本語"}}},
	}
	for _, backend := range []string{renderer.NameFPDF, renderer.NameCanvas} {
		g := newGenerator(t, backend)
		for label, rec := range records {
			out, err := g.Generate(rec)
			if !errors.Is(err, layout.ErrMeasurement) {
				t.Fatalf("%s/%s: expected ErrMeasurement, got %v", backend, label, err)
			}
			if !errors.Is(err, renderer.ErrMissingGlyph) {
				t.Fatalf("%s/%s: expected ErrMissingGlyph in chain, got %v", backend, label, err)
			}
			if out != nil {
				t.Fatalf("%s/%s: expected no output", backend, label)
			}
		}
	}
}
