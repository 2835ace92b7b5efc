package xmlf

import (
	"regexp"
	"strings"

	"github.com/muesli/reflow/ansi"
)

var (
	// Whitespace that touches a tag and spans a line break is layout,
	// on either side of a text run.
	layoutAfterTag  = regexp.MustCompile(`>[ \t]*\n\s*`)
	layoutBeforeTag = regexp.MustCompile(`\s*\n[ \t]*<`)
	interTagSpace   = regexp.MustCompile(`>\s+<`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
	fragment        = regexp.MustCompile(`<[^>]*>?|[^<]+`)
)

// Compress removes formatting whitespace and packs tags and text runs
// onto lines of at most the configured width. A fragment wider than the
// limit is never split and occupies a line of its own. A text run that
// starts or ends with a space stays on the line of the tag it touches,
// so compressing the output again yields the same text.
func Compress(src string, opts ...Option) string {
	cfg := newFormatConfig(opts)
	return compress(src, cfg)
}

func compress(src string, cfg formatConfig) string {
	text := collapseWhitespace(src)
	if text == "" {
		return ""
	}
	var (
		lines []string
		cur   strings.Builder
		width int
	)
	for _, unit := range packUnits(fragment.FindAllString(text, -1)) {
		w := ansi.PrintableRuneWidth(unit)
		if cur.Len() > 0 && width+w > cfg.maxWidth {
			lines = append(lines, cur.String())
			cur.Reset()
			width = 0
		}
		cur.WriteString(unit)
		width += w
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return strings.Join(lines, "\n")
}

// packUnits joins fragments that cannot be separated by a line break.
// A break next to a space would be read back as layout and drop it.
func packUnits(frags []string) []string {
	units := make([]string, 0, len(frags))
	for _, frag := range frags {
		if n := len(units); n > 0 && !breakable(units[n-1], frag) {
			units[n-1] += frag
			continue
		}
		units = append(units, frag)
	}
	return units
}

func breakable(prev, next string) bool {
	return !strings.HasSuffix(prev, " ") && !strings.HasPrefix(next, " ")
}

func collapseWhitespace(src string) string {
	text := lineEndings.Replace(src)
	text = layoutAfterTag.ReplaceAllString(text, ">")
	text = layoutBeforeTag.ReplaceAllString(text, "<")
	text = interTagSpace.ReplaceAllString(text, "><")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
