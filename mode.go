package xmlf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Mode selects the transform applied by Format.
type Mode uint8

const (
	// ModeBeautify re-indents markup.
	ModeBeautify Mode = iota
	// ModeCompress strips formatting whitespace and packs lines.
	ModeCompress
	// ModeJSON projects the document into JSON.
	ModeJSON
)

func (m Mode) String() string {
	switch m {
	case ModeBeautify:
		return "beautify"
	case ModeCompress:
		return "compress"
	case ModeJSON:
		return "json"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

var modeNames = map[string]Mode{
	"beautify": ModeBeautify,
	"format":   ModeBeautify,
	"pretty":   ModeBeautify,
	"indent":   ModeBeautify,
	"compress": ModeCompress,
	"minify":   ModeCompress,
	"compact":  ModeCompress,
	"json":     ModeJSON,
	"tojson":   ModeJSON,
}

var modeCandidates = func() []string {
	names := make([]string, 0, len(modeNames))
	for name := range modeNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}()

// AvailableModes returns the canonical mode names.
func AvailableModes() []string {
	return []string{ModeBeautify.String(), ModeCompress.String(), ModeJSON.String()}
}

// ParseMode resolves a mode by name or alias. Unknown names are matched
// fuzzily, so "beau" or "cmp" resolve to the closest mode.
func ParseMode(name string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return ModeBeautify, fmt.Errorf("mode: empty name")
	}
	if m, ok := modeNames[key]; ok {
		return m, nil
	}
	matches := fuzzy.Find(key, modeCandidates)
	if len(matches) == 0 {
		return ModeBeautify, fmt.Errorf("mode: unknown %q (want one of %s)", name, strings.Join(AvailableModes(), ", "))
	}
	return modeNames[matches[0].Str], nil
}
