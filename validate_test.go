package xmlf

import (
	"bytes"
	"errors"
	"testing"
)

func TestValidateInputRejectsInvalidUTF8(t *testing.T) {
	data := []byte{0xff, 0xfe, 0xfd}
	if err := ValidateInput(data); err != ErrInvalidUTF8 {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestValidateInputRejectsBinary(t *testing.T) {
	data := append([]byte("<a>hello</a>"), 0x00)
	if err := ValidateInput(data); err != ErrBinaryInput {
		t.Fatalf("expected ErrBinaryInput, got %v", err)
	}
	noisy := bytes.Repeat([]byte{'<', 0x01, 'a', '>'}, 32)
	if err := ValidateInput(noisy); err != ErrBinaryInput {
		t.Fatalf("expected ErrBinaryInput for control-heavy input, got %v", err)
	}
}

func TestValidateInputAcceptsMarkup(t *testing.T) {
	if err := ValidateInput([]byte("<a>\n\t<b>ü</b>\r\n</a>")); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
}

func TestFormatErrorUnwraps(t *testing.T) {
	err := &FormatError{Op: "beautify", Err: ErrInvalidUTF8}
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected FormatError to unwrap")
	}
	if err.Error() != "beautify: invalid utf-8 input" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
