package netlist

import "strings"

// line is a logical netlist line and the source line it starts on
type line struct {
	num  int
	text string
}

// preprocess drops blank and comment lines and folds '+' continuations into
// the preceding line. It runs before any statement is recognised.
func (p *Parser) preprocess(input string) []line {
	var out []line
	for i, raw := range strings.Split(input, "\n") {
		text := strings.TrimSpace(raw)
		if text == "" || text[0] == '*' {
			continue
		}

		if text[0] == '+' {
			if len(out) == 0 {
				p.log.Debug("dropping continuation without a preceding line", "line", i+1)
				continue
			}
			last := &out[len(out)-1]
			last.text = strings.TrimSpace(last.text + " " + strings.TrimSpace(text[1:]))
			continue
		}

		out = append(out, line{num: i + 1, text: text})
	}
	return out
}
