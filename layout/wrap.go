package layout

import "strings"

// wrap 按空白拆分 content 后贪心折行，显式换行符强制断行。
// 只在词与词之间断开，不在词内拆分；单个超宽的词独占一行。
// 全空白的内容不产生任何行。
func (e *engine) wrap(content string, font Font, limit float64) ([]TextLine, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}
	var lines []TextLine
	for _, para := range strings.Split(strings.ReplaceAll(content, "\r", ""), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, TextLine{})
			continue
		}
		wrapped, err := e.wrapTokens(words, font, limit)
		if err != nil {
			return nil, err
		}
		lines = append(lines, wrapped...)
	}
	return lines, nil
}

// wrapTokens 把不可拆分的 tokens 以单个空格连接，并在宽度超过 limit 前断行。
// 每一行都以整段测量宽度判断，而不是逐词累加，以便把字距计算在内。
func (e *engine) wrapTokens(tokens []string, font Font, limit float64) ([]TextLine, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	var lines []TextLine
	current := tokens[0]
	currentWidth, err := e.measure(current, font)
	if err != nil {
		return nil, err
	}
	for _, tok := range tokens[1:] {
		candidate := current + " " + tok
		w, err := e.measure(candidate, font)
		if err != nil {
			return nil, err
		}
		if w <= limit {
			current, currentWidth = candidate, w
			continue
		}
		lines = append(lines, TextLine{Content: current, Width: currentWidth})
		current = tok
		if currentWidth, err = e.measure(tok, font); err != nil {
			return nil, err
		}
	}
	lines = append(lines, TextLine{Content: current, Width: currentWidth})
	return lines, nil
}
