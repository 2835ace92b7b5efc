package xmlf

import (
	"regexp"
	"strings"
)

// LineKind classifies one trimmed line of markup by its lexical shape.
type LineKind uint8

const (
	// LineText is anything that is not recognized as markup.
	LineText LineKind = iota
	// LineMixed is an opening tag, inline text and a closing tag on one line.
	LineMixed
	// LineClosing is an end tag such as </a>.
	LineClosing
	// LineSelfClosing is an empty-element tag such as <a/>.
	LineSelfClosing
	// LineProcessingInstruction is a <?...?> line, including the XML declaration.
	LineProcessingInstruction
	// LineComment is a <!-- ... --> line.
	LineComment
	// LineCDATA is a <![CDATA[ ... ]]> line.
	LineCDATA
	// LineDeclaration is a DTD markup declaration such as <!DOCTYPE ...>.
	LineDeclaration
	// LineOpening is a start tag.
	LineOpening
)

var lineKindNames = [...]string{
	LineText:                  "text",
	LineMixed:                 "mixed",
	LineClosing:               "closing",
	LineSelfClosing:           "self-closing",
	LineProcessingInstruction: "processing-instruction",
	LineComment:               "comment",
	LineCDATA:                 "cdata",
	LineDeclaration:           "declaration",
	LineOpening:               "opening",
}

func (k LineKind) String() string {
	if int(k) < len(lineKindNames) {
		return lineKindNames[k]
	}
	return "unknown"
}

// Indents reports whether lines after this one are nested one level deeper.
func (k LineKind) Indents() bool {
	return k == LineOpening
}

// Dedents reports whether this line is emitted one level shallower.
func (k LineKind) Dedents() bool {
	return k == LineClosing
}

var mixedLine = regexp.MustCompile(`^(<[^>]+>)([^<]+)(</[^>]+>)$`)

var declarationPrefixes = []string{"<!DOCTYPE", "<!ELEMENT", "<!ATTLIST", "<!ENTITY", "<!NOTATION"}

// ClassifyLine returns the kind of a trimmed line. Checks run in a fixed
// order because several shapes share a prefix: mixed content is tested
// before end tags, and every markup kind before the generic start tag.
func ClassifyLine(line string) LineKind {
	switch {
	case mixedLine.MatchString(line):
		return LineMixed
	case strings.HasPrefix(line, "</"):
		return LineClosing
	case strings.HasSuffix(line, "/>"):
		return LineSelfClosing
	case strings.HasPrefix(line, "<?"):
		return LineProcessingInstruction
	case strings.HasPrefix(line, "<!--"):
		return LineComment
	case strings.HasPrefix(line, "<![CDATA["):
		return LineCDATA
	case isDeclaration(line):
		return LineDeclaration
	case strings.HasPrefix(line, "<"):
		return LineOpening
	default:
		return LineText
	}
}

func isDeclaration(line string) bool {
	for _, prefix := range declarationPrefixes {
		if len(line) >= len(prefix) && strings.EqualFold(line[:len(prefix)], prefix) {
			return true
		}
	}
	return false
}
