package layout

import (
	"encoding/json"
	"os"
)

type debugInstruction struct {
	Kind Kind        `json:"kind"`
	Data Instruction `json:"data"`
}

type debugResult struct {
	*Result
	Instructions []debugInstruction `json:"instructions"`
}

// MarshalDebugJSON 将布局结果编码为带指令类型标签的 JSON。
func MarshalDebugJSON(res *Result) ([]byte, error) {
	out := debugResult{Result: res, Instructions: make([]debugInstruction, 0, len(res.Instructions))}
	for _, ins := range res.Instructions {
		out.Instructions = append(out.Instructions, debugInstruction{Kind: ins.Kind(), Data: ins})
	}
	return json.MarshalIndent(out, "", "  ")
}

// WriteDebugJSON 将布局结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := MarshalDebugJSON(res)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
