package xmlf

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")
	blankLines  = regexp.MustCompile(`\n\s*\n`)
	tagBoundary = strings.NewReplacer("><", ">\n<")

	classifyLine = ClassifyLine
)

// Beautify re-indents markup one nesting level per start tag. The pass
// only inspects ASCII markup characters, so text in legacy single-byte
// encodings passes through unchanged. It never fails: if the pass cannot
// run, the input is returned with a line break between adjacent tags and
// no indentation.
func Beautify(src string, opts ...Option) string {
	cfg := newFormatConfig(opts)
	out, err := beautify(src, cfg)
	if err != nil {
		cfg.fallback(ModeBeautify, err)
		return tagBoundary.Replace(src)
	}
	return out
}

func beautify(src string, cfg formatConfig) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = &FormatError{Op: "beautify", Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	text := lineEndings.Replace(src)
	text = blankLines.ReplaceAllString(text, "\n")
	text = strings.TrimSpace(text)
	text = tagBoundary.Replace(text)

	var b strings.Builder
	b.Grow(len(text) + len(text)/4)
	level := 0
	first := true
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		kind := classifyLine(line)
		if kind.Dedents() && level > 0 {
			level--
		}
		if !first {
			b.WriteByte('\n')
		}
		first = false
		writeIndent(&b, level*cfg.indent)
		b.WriteString(line)
		if kind.Indents() {
			level++
		}
	}
	return b.String(), nil
}

func writeIndent(b *strings.Builder, n int) {
	const spaces = "                                "
	for n > len(spaces) {
		b.WriteString(spaces)
		n -= len(spaces)
	}
	b.WriteString(spaces[:n])
}
