package assets

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const pngDataURIPrefix = "data:image/png;base64,"

// LoadDir 读取目录下全部 *.png 文件，以去掉扩展名的文件名作为图标键。
func LoadDir(dir string) (IconTable, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("读取图标目录 %s 失败: %w", dir, err)
	}
	table := IconTable{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".png") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取图标 %s 失败: %w", path, err)
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		table[Icon(name)] = data
	}
	return table, nil
}

// WriteJSON 将图标表编码为 {name: "data:image/png;base64,..."} 形式的 JSON。
func WriteJSON(t IconTable) ([]byte, error) {
	out := make(map[string]string, len(t))
	for name, data := range t {
		out[string(name)] = pngDataURIPrefix + base64.StdEncoding.EncodeToString(data)
	}
	return json.MarshalIndent(out, "", "  ")
}

// ReadJSON 解析 WriteJSON 生成的 JSON。值也可以是不带前缀的纯 base64。
func ReadJSON(data []byte) (IconTable, error) {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("解析图标 JSON 失败: %w", err)
	}
	table := make(IconTable, len(raw))
	for name, uri := range raw {
		payload := uri
		if i := strings.Index(uri, ";base64,"); strings.HasPrefix(uri, "data:") && i != -1 {
			payload = uri[i+len(";base64,"):]
		}
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("解码图标 %s 失败: %w", name, err)
		}
		table[Icon(name)] = decoded
	}
	return table, nil
}
