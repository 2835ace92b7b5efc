package xmlf

const (
	// DefaultIndent is the number of spaces per nesting level.
	DefaultIndent = 2
	// DefaultMaxWidth is the soft line limit used by Compress.
	DefaultMaxWidth = 120
)

// Option configures formatting behavior.
type Option func(*formatConfig)

type formatConfig struct {
	indent     int
	maxWidth   int
	onFallback func(Mode, error)
}

func newFormatConfig(opts []Option) formatConfig {
	cfg := formatConfig{indent: DefaultIndent, maxWidth: DefaultMaxWidth}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithIndent sets the number of spaces per nesting level. Negative values are ignored.
func WithIndent(spaces int) Option {
	return func(cfg *formatConfig) {
		if spaces >= 0 {
			cfg.indent = spaces
		}
	}
}

// WithMaxWidth sets the soft line limit for Compress. Values <= 0 are ignored.
func WithMaxWidth(width int) Option {
	return func(cfg *formatConfig) {
		if width > 0 {
			cfg.maxWidth = width
		}
	}
}

// WithFallbackHandler registers fn to be called when a transform returns
// degraded output instead of failing.
func WithFallbackHandler(fn func(Mode, error)) Option {
	return func(cfg *formatConfig) {
		cfg.onFallback = fn
	}
}

func (cfg formatConfig) fallback(mode Mode, err error) {
	if cfg.onFallback != nil {
		cfg.onFallback(mode, err)
	}
}
