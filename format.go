package xmlf

import (
	"fmt"
	"io"
)

// FormatRequest configures Format.
type FormatRequest struct {
	Reader  io.Reader
	Writer  io.Writer
	Mode    Mode
	Options []Option
}

// Format reads a whole document from Reader, applies Mode and writes the
// result to Writer followed by a newline. Only I/O failures, binary input
// and an unknown mode are reported as errors; transform failures degrade
// as described on Beautify and ToJSON.
func Format(req FormatRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("format: reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("format: writer is nil")
	}
	src, err := io.ReadAll(req.Reader)
	if err != nil {
		return fmt.Errorf("format: read: %w", err)
	}
	if err := detectBinary(src); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	out, err := Transform(req.Mode, string(trimBOM(src)), req.Options...)
	if err != nil {
		return err
	}
	if out == "" {
		return nil
	}
	if _, err := io.WriteString(req.Writer, out+"\n"); err != nil {
		return fmt.Errorf("format: write: %w", err)
	}
	return nil
}

// Transform applies mode to src. It fails only for an unknown mode.
func Transform(mode Mode, src string, opts ...Option) (string, error) {
	switch mode {
	case ModeBeautify:
		return Beautify(src, opts...), nil
	case ModeCompress:
		return Compress(src, opts...), nil
	case ModeJSON:
		return ToJSON(src, opts...), nil
	default:
		return "", fmt.Errorf("format: unknown %v", mode)
	}
}
