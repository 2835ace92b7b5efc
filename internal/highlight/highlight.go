// Package highlight colors formatted output for terminals.
package highlight

import (
	"fmt"
	"io"
	"sort"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/alecthomas/chroma/v2/styles"

	"pkt.systems/xmlf"
)

const formatter = "terminal256"

// DefaultStyle is used when no style is configured.
const DefaultStyle = "monokai"

// LexerFor returns the chroma lexer name for output produced by mode.
func LexerFor(mode xmlf.Mode) string {
	if mode == xmlf.ModeJSON {
		return "json"
	}
	return "xml"
}

// Styles returns the available style names, sorted.
func Styles() []string {
	names := styles.Names()
	sort.Strings(names)
	return names
}

// HasStyle reports whether name is a registered style.
func HasStyle(name string) bool {
	_, ok := styles.Registry[name]
	return ok
}

// Highlight writes src to w with ANSI colors.
func Highlight(w io.Writer, src, lexer, style string) error {
	if style == "" {
		style = DefaultStyle
	}
	if !HasStyle(style) {
		return fmt.Errorf("highlight: unknown style %q", style)
	}
	if err := quick.Highlight(w, src, lexer, formatter, style); err != nil {
		return fmt.Errorf("highlight: %w", err)
	}
	return nil
}
