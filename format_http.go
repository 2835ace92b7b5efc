package xmlf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// DefaultMaxFetchBytes caps documents fetched by HTTPFormat.
const DefaultMaxFetchBytes = 32 << 20

// ErrTooLarge reports a fetched document above the size limit.
var ErrTooLarge = errors.New("document exceeds size limit")

const acceptMarkup = "application/xml, text/xml;q=0.9, application/*+xml;q=0.9, text/*;q=0.5, */*;q=0.1"

// HTTPFormatRequest configures HTTPFormat.
type HTTPFormatRequest struct {
	URL    string
	Client *http.Client
	Writer io.Writer
	Mode   Mode
	// MaxBytes limits the response body; <= 0 uses DefaultMaxFetchBytes.
	MaxBytes int64
	Options  []Option
}

// HTTPFormat fetches a document over HTTP(S) and formats it. Responses
// with a non-2xx status, a media type that cannot hold markup, or a body
// larger than MaxBytes are rejected before anything is written.
func HTTPFormat(ctx context.Context, req HTTPFormatRequest) error {
	if req.Writer == nil {
		return fmt.Errorf("format http: Writer is nil")
	}
	httpReq, err := newFetchRequest(ctx, req.URL)
	if err != nil {
		return err
	}
	client := req.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("format http: request: %w", err)
	}
	defer resp.Body.Close()
	if err := checkResponse(resp); err != nil {
		return err
	}
	body, err := readLimited(resp.Body, req.MaxBytes)
	if err != nil {
		return fmt.Errorf("format http: %s: %w", req.URL, err)
	}
	return Format(FormatRequest{
		Reader:  bytes.NewReader(body),
		Writer:  req.Writer,
		Mode:    req.Mode,
		Options: req.Options,
	})
}

func newFetchRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("format http: URL is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("format http: build request: %w", err)
	}
	if httpReq.URL.Scheme != "http" && httpReq.URL.Scheme != "https" {
		return nil, fmt.Errorf("format http: unsupported scheme %q", httpReq.URL.Scheme)
	}
	httpReq.Header.Set("Accept", acceptMarkup)
	return httpReq, nil
}

func checkResponse(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("format http: status %s", resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !markupMediaType(ct) {
		return fmt.Errorf("format http: unexpected content type %q", ct)
	}
	return nil
}

// markupMediaType accepts text, XML and generic byte streams. Unparseable
// values are let through; binary detection in Format still applies.
func markupMediaType(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return true
	}
	switch {
	case strings.HasPrefix(mt, "text/"),
		strings.HasSuffix(mt, "/xml"),
		strings.HasSuffix(mt, "+xml"),
		mt == "application/octet-stream":
		return true
	}
	return false
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultMaxFetchBytes
	}
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, limit)
	}
	return body, nil
}
