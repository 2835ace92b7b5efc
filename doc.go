// Package xmlf reflows markup for display.
//
// The package offers three transforms over markup-like text:
//
//   - Beautify re-indents tags line by line using only lexical cues. No
//     parse tree is built, so malformed input still formats.
//   - Compress strips formatting whitespace and packs tags and text onto
//     lines no wider than a soft column limit.
//   - ToJSON parses the document and projects elements, attributes and
//     text into an indented JSON object.
//
// None of the transforms fail: Beautify degrades to plain line breaks
// between tags and ToJSON returns a fixed error object. Use
// WithFallbackHandler to observe those cases.
//
// Example:
//
//	err := xmlf.Format(xmlf.FormatRequest{
//		Reader: strings.NewReader(`<a x="1"><b>t</b></a>`),
//		Writer: os.Stdout,
//		Mode:   xmlf.ModeBeautify,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
package xmlf
