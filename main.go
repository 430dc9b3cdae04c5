package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ByLCY/cvpress/assets"
	"github.com/ByLCY/cvpress/generator"
	"github.com/ByLCY/cvpress/layout"
)

func main() {
	input := flag.String("in", "examples/resume.json", "简历 JSON 文件路径")
	output := flag.String("out", "output/"+generator.FileName, "PDF 输出路径")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	manifest := flag.String("assets", "", "资源清单路径，缺省使用内置字体与图标")
	backend := flag.String("backend", "fpdf", "渲染后端：fpdf 或 canvas")
	flag.Parse()

	res, err := run(*input, *output, *debug, *manifest, *backend)
	if err != nil {
		log.Fatalf("生成 PDF 失败: %v", err)
	}
	if res.Overflow {
		log.Printf("警告：内容超出单页（左栏 %.1fmm，右栏 %.1fmm，页高 %.1fmm），超出部分已被截断",
			res.Cursor.Left, res.Cursor.Right, res.Page.Height)
	}
	fmt.Printf("已生成 PDF：%s\n", *output)
}

// run 串联解码、排版与渲染。
func run(inputPath, outputPath, debugPath, manifestPath, backend string) (*layout.Result, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("无法读取简历文件 %s: %w", inputPath, err)
	}

	bundle, err := loadBundle(manifestPath)
	if err != nil {
		return nil, err
	}
	gen, err := generator.FromBundle(backend, bundle)
	if err != nil {
		return nil, err
	}

	out, err := gen.GenerateJSON(data)
	if err != nil {
		return nil, err
	}

	if debugPath != "" {
		if err := writeDebug(out.Layout, debugPath); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(outputPath, out.PDF, 0o644); err != nil {
		return nil, fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return out.Layout, nil
}

func loadBundle(manifestPath string) (assets.Bundle, error) {
	if manifestPath == "" {
		return assets.Default()
	}
	bundle, err := assets.LoadManifest(manifestPath)
	if err != nil {
		return assets.Bundle{}, fmt.Errorf("加载资源清单失败: %w", err)
	}
	return bundle, nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
