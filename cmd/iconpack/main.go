package main

// 把 PNG 图标目录打包为 JSON：
//   go run ./cmd/iconpack -dir icons -out icons.json
// 不指定 -dir 时输出内置徽章图标。

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ByLCY/cvpress/assets"
)

func main() {
	dir := flag.String("dir", "", "PNG 图标目录")
	output := flag.String("out", "icons.json", "JSON 输出路径")
	flag.Parse()

	var (
		table assets.IconTable
		err   error
	)
	if *dir == "" {
		table, err = assets.DefaultIcons()
	} else {
		table, err = assets.LoadDir(*dir)
	}
	if err != nil {
		log.Fatalf("读取图标失败: %v", err)
	}
	if len(table) == 0 {
		log.Fatalf("目录 %s 中没有 PNG 图标", *dir)
	}

	data, err := assets.WriteJSON(table)
	if err != nil {
		log.Fatalf("编码图标失败: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(*output), 0o755); err != nil {
		log.Fatalf("创建输出目录失败: %v", err)
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		log.Fatalf("写入 %s 失败: %v", *output, err)
	}
	fmt.Printf("已写入 %d 个图标：%s\n", len(table), *output)
}
