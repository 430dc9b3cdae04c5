package resume

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedInput 表示输入文档形状不符合约定，例如应为数组的字段不是数组。
var ErrMalformedInput = errors.New("malformed resume input")

// listFields 是必须为数组（或缺省/null）的顶层字段。
var listFields = []string{"skills", "education", "experience", "honorsAndAwards", "personalProjects"}

// Decode 解析 JSON 文档为 Record。
// 先在通用 JSON 树上校验数组形状，再做结构化解码；缺省的序列统一为空切片。
func Decode(data []byte) (Record, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if err := validateShape(raw); err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return rec.Normalize(), nil
}

func validateShape(raw any) error {
	if _, ok := raw.(map[string]any); !ok {
		return fmt.Errorf("%w: 文档必须是 JSON 对象，实际为 %s", ErrMalformedInput, kindOf(raw))
	}
	for _, field := range listFields {
		val, ok := descendMap(raw, field)
		if !ok || val == nil {
			continue
		}
		items, ok := val.([]any)
		if !ok {
			return fmt.Errorf("%w: %s 必须是数组，实际为 %s", ErrMalformedInput, field, kindOf(val))
		}
		for i := range items {
			item, _ := descendArray(val, i)
			if _, ok := item.(map[string]any); !ok {
				return fmt.Errorf("%w: %s[%d] 必须是对象，实际为 %s", ErrMalformedInput, field, i, kindOf(item))
			}
			if field != "experience" {
				continue
			}
			duties, ok := descendMap(item, "duties")
			if !ok || duties == nil {
				continue
			}
			list, ok := duties.([]any)
			if !ok {
				return fmt.Errorf("%w: experience[%d].duties 必须是数组，实际为 %s", ErrMalformedInput, i, kindOf(duties))
			}
			for j, d := range list {
				if _, ok := d.(string); !ok {
					return fmt.Errorf("%w: experience[%d].duties[%d] 必须是字符串，实际为 %s", ErrMalformedInput, i, j, kindOf(d))
				}
			}
		}
	}
	return nil
}

func descendMap(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		val, ok := c[key]
		return val, ok
	default:
		return nil, false
	}
}

func descendArray(current any, idx int) (any, bool) {
	switch c := current.(type) {
	case []any:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	default:
		return nil, false
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
