package xmlf

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 reports invalid UTF-8 input.
	ErrInvalidUTF8 = errors.New("invalid utf-8 input")
	// ErrBinaryInput reports input that appears to be binary.
	ErrBinaryInput = errors.New("binary input detected")
)

const (
	minBinarySample = 64
	maxControlPct   = 2
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FormatError records a transform that could not produce its regular
// output. The public transforms never return it; it is passed to the
// handler registered with WithFallbackHandler.
type FormatError struct {
	Op  string
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// ValidateInput returns an error if the input is not valid UTF-8 or appears binary.
func ValidateInput(src []byte) error {
	if err := detectBinary(src); err != nil {
		return err
	}
	if !utf8.Valid(src) {
		return ErrInvalidUTF8
	}
	return nil
}

// detectBinary only looks at control bytes, so documents in legacy
// single-byte encodings still pass.
func detectBinary(src []byte) error {
	var total, control int
	for _, b := range src {
		total++
		if b == 0x00 {
			return ErrBinaryInput
		}
		if isControlByte(b) {
			control++
		}
	}
	if total >= minBinarySample && control*100 >= total*maxControlPct {
		return ErrBinaryInput
	}
	return nil
}

func isControlByte(b byte) bool {
	if b < 0x09 {
		return true
	}
	if b > 0x0D && b < 0x20 {
		return true
	}
	if b == 0x7F {
		return true
	}
	return false
}

func trimBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, utf8BOM)
}
