package xmlf

import (
	"bytes"
	"io"
	"testing"
)

func TestFormatAllocations(t *testing.T) {
	src := []byte(readTestdata(t, "testdata/catalog.xml"))
	for _, mode := range []Mode{ModeBeautify, ModeCompress} {
		allocs := testing.AllocsPerRun(100, func() {
			_ = Format(FormatRequest{
				Reader: bytes.NewReader(src),
				Writer: io.Discard,
				Mode:   mode,
			})
		})
		if allocs > 2000 {
			t.Fatalf("too many allocations per %s Format: got %.2f", mode, allocs)
		}
	}
}
