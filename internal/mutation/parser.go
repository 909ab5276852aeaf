package mutation

import (
	"bufio"
	"strings"
)

// Directive is one oracle-proposed file rewrite. FilePath is relative to the
// app root; Rationale is the free text the oracle gave for the change.
type Directive struct {
	FilePath  string
	Rationale string
}

// The plan response grammar is line-oriented: a marker line opens a
// directive, subsequent non-blank lines are its rationale, and anything
// before the first marker is silently dropped.
type lineKind int

const (
	lineMarker lineKind = iota
	lineBody
	lineBlank
)

const directiveMarker = "File:"

type planLine struct {
	kind lineKind
	text string // marker: the path; body: the raw line
}

func classifyLine(raw string) planLine {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return planLine{kind: lineBlank}
	}
	if strings.HasPrefix(trimmed, directiveMarker) {
		return planLine{kind: lineMarker, text: strings.TrimSpace(trimmed[len(directiveMarker):])}
	}
	return planLine{kind: lineBody, text: trimmed}
}

// ParseDirectives folds the classified lines into directives. A second
// directive for the same path overwrites the first (same position in the
// sequence); a marker with an empty path opens nothing, so its body lines
// are dropped like leading text. A malformed response simply yields zero
// directives, which is not an error.
func ParseDirectives(text string) []Directive {
	var (
		ordered []Directive
		index   = map[string]int{}
		current = -1
	)

	flushInto := func(pos int, rationale []string) {
		ordered[pos].Rationale = strings.Join(rationale, "\n")
	}

	var rationale []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := classifyLine(scanner.Text())
		switch line.kind {
		case lineMarker:
			if current >= 0 {
				flushInto(current, rationale)
			}
			rationale = nil
			if line.text == "" {
				current = -1
				continue
			}
			if pos, seen := index[line.text]; seen {
				current = pos
				continue
			}
			ordered = append(ordered, Directive{FilePath: line.text})
			index[line.text] = len(ordered) - 1
			current = len(ordered) - 1
		case lineBody:
			if current >= 0 {
				rationale = append(rationale, line.text)
			}
		case lineBlank:
			// Separator only; rationale keeps accumulating until the
			// next marker.
		}
	}
	if current >= 0 {
		flushInto(current, rationale)
	}

	return ordered
}
