package xmlf

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"github.com/tidwall/pretty"
	"golang.org/x/net/html/charset"
)

// JSONErrorMessage is the value of the "error" key in the object ToJSON
// returns when the input cannot be parsed.
const JSONErrorMessage = "Failed to convert XML to JSON"

var (
	errNoRoot        = errors.New("document has no root element")
	errMisplacedText = errors.New("text outside the root element")
)

// ToJSON parses src as XML and returns the root element projected as an
// indented JSON object keyed by the root tag. Attributes are grouped
// under "attributes" with "@"-prefixed names, trimmed text under "text"
// and child elements under "children"; a tag that repeats becomes a list.
//
// Invalid documents yield {"error": "Failed to convert XML to JSON"}.
func ToJSON(src string, opts ...Option) string {
	cfg := newFormatConfig(opts)
	out, err := toJSON(src, cfg)
	if err != nil {
		cfg.fallback(ModeJSON, err)
		return jsonErrorObject(cfg)
	}
	return out
}

func toJSON(src string, cfg formatConfig) (string, error) {
	if err := checkWellFormed(src); err != nil {
		return "", &FormatError{Op: "json", Err: errors.Wrap(err, "parse xml")}
	}
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromString(src); err != nil {
		return "", &FormatError{Op: "json", Err: errors.Wrap(err, "parse xml")}
	}
	root := doc.Root()
	if root == nil {
		return "", &FormatError{Op: "json", Err: errNoRoot}
	}
	top := &jsonObject{}
	top.set(root.FullTag(), projectElement(root))
	out, err := encodeJSON(top, cfg.indent)
	if err != nil {
		return "", &FormatError{Op: "json", Err: err}
	}
	return out, nil
}

// checkWellFormed walks the token stream with a strict decoder, which
// rejects mismatched and unclosed elements. The decoder accepts several
// top-level elements and stray text, so depth 0 is checked here.
func checkWellFormed(src string) error {
	dec := xml.NewDecoder(strings.NewReader(src))
	dec.CharsetReader = charset.NewReaderLabel
	var depth, roots int
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					return errors.Errorf("second root element <%s>", tok.Name.Local)
				}
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(tok)) > 0 {
				return errMisplacedText
			}
		}
	}
}

func projectElement(el *etree.Element) *jsonObject {
	obj := &jsonObject{}
	if len(el.Attr) > 0 {
		attrs := &jsonObject{}
		for _, a := range el.Attr {
			attrs.set("@"+a.FullKey(), a.Value)
		}
		obj.set("attributes", attrs)
	}
	var (
		texts    []string
		children *jsonObject
	)
	for _, tok := range el.Child {
		switch tok := tok.(type) {
		case *etree.CharData:
			if text := strings.TrimSpace(tok.Data); text != "" {
				texts = append(texts, text)
				if len(texts) == 1 {
					obj.set("text", "")
				}
			}
		case *etree.Element:
			if children == nil {
				children = &jsonObject{}
				obj.set("children", children)
			}
			children.appendChild(tok.FullTag(), projectElement(tok))
		}
	}
	if len(texts) > 0 {
		obj.set("text", strings.Join(texts, " "))
	}
	return obj
}

// jsonObject keeps keys in insertion order, matching document order.
type jsonObject struct {
	keys   []string
	values map[string]any
}

func (o *jsonObject) set(key string, value any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *jsonObject) appendChild(key string, child *jsonObject) {
	switch prev := o.values[key].(type) {
	case nil:
		o.set(key, child)
	case *jsonObject:
		o.set(key, []any{prev, child})
	case []any:
		o.set(key, append(prev, child))
	}
}

func jsonErrorObject(cfg formatConfig) string {
	obj := &jsonObject{}
	obj.set("error", JSONErrorMessage)
	out, err := encodeJSON(obj, cfg.indent)
	if err != nil {
		return `{"error": "` + JSONErrorMessage + `"}`
	}
	return out
}

// MarshalJSON writes the keys in insertion order.
func (o *jsonObject) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		if err := writeJSON(&b, key); err != nil {
			return nil, err
		}
		b.WriteByte(':')
		if err := writeJSON(&b, o.values[key]); err != nil {
			return nil, err
		}
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// writeJSON appends the compact encoding of v without HTML escaping.
func writeJSON(b *bytes.Buffer, v any) error {
	enc := json.NewEncoder(b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	b.Truncate(b.Len() - 1)
	return nil
}

func encodeJSON(v any, indent int) (string, error) {
	var b bytes.Buffer
	if err := writeJSON(&b, v); err != nil {
		return "", errors.Wrap(err, "encode json")
	}
	out := pretty.PrettyOptions(b.Bytes(), &pretty.Options{
		Indent:   strings.Repeat(" ", indent),
		SortKeys: false,
	})
	return string(bytes.TrimSuffix(out, []byte("\n"))), nil
}
