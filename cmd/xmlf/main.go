package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"pkt.systems/version"

	"pkt.systems/xmlf"
	"pkt.systems/xmlf/internal/config"
	"pkt.systems/xmlf/internal/highlight"
)

const defaultWidth = xmlf.DefaultMaxWidth

func init() {
	version.SetDefaultModule("pkt.systems/xmlf")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		cfgPath    string
		outPath    string
		listThemes bool
		listModes  bool
		verbose    bool
	)

	flags := pflag.NewFlagSet("xmlf", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringP("mode", "m", xmlf.ModeBeautify.String(), "Transform: beautify|compress|json")
	flags.IntP("indent", "i", xmlf.DefaultIndent, "Spaces per nesting level")
	flags.IntP("width", "w", defaultWidth, "Soft line limit for compress (0 uses terminal width if available)")
	flags.StringP("color", "c", "auto", "Syntax highlighting: auto|on|off")
	flags.StringP("theme", "t", highlight.DefaultStyle, "Highlight style")
	flags.StringVar(&cfgPath, "config", "", "Path to config file (toml|yaml|json)")
	flags.StringVarP(&outPath, "output", "o", "", "Output file instead of stdout")
	flags.BoolVar(&listThemes, "list-themes", false, "List available highlight styles")
	flags.BoolVar(&listModes, "list-modes", false, "List available modes")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log debug details to stderr")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: xmlf [flags] [inputs...]\n")
		fmt.Fprintln(stderr, "\nIf no input is provided, markup is read from stdin.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	if listThemes {
		for _, name := range highlight.Styles() {
			fmt.Fprintln(stdout, name)
		}
		return 0
	}
	if listModes {
		for _, name := range xmlf.AvailableModes() {
			fmt.Fprintln(stdout, name)
		}
		return 0
	}

	v := viper.New()
	if cfgPath != "" {
		v.SetConfigFile(normalizePath(cfgPath))
	}
	if err := config.Load(v, flags); err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 2
	}
	cfg, err := config.Resolve(v)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}

	log := newLogger(stderr, cfg.LogLevel, verbose)
	if used := v.ConfigFileUsed(); used != "" {
		log.WithField("path", used).Debug("loaded config")
	}

	sources, err := openInputs(flags.Args())
	if err != nil {
		fmt.Fprintf(stderr, "open input: %v\n", err)
		return 1
	}

	out, err := openOutput(outPath, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "open output: %v\n", err)
		return 1
	}
	defer out.discard()

	colorOn, err := resolveColor(cfg.Color, out)
	if err != nil {
		fmt.Fprintf(stderr, "invalid --color %q: %v\n", cfg.Color, err)
		return 2
	}

	opts := []xmlf.Option{
		xmlf.WithIndent(cfg.Indent),
		xmlf.WithMaxWidth(resolveWidth(cfg.Width, out)),
		xmlf.WithFallbackHandler(func(mode xmlf.Mode, err error) {
			log.WithField("mode", mode.String()).WithError(err).Warn("input could not be fully formatted")
		}),
	}

	ctx := context.Background()
	for _, src := range sources {
		log.WithFields(logrus.Fields{"input": src.name, "mode": cfg.Mode.String()}).Debug("formatting")
		var buf bytes.Buffer
		if err := src.format(ctx, stdin, &buf, cfg.Mode, opts); err != nil {
			fmt.Fprintf(stderr, "format %s: %v\n", src.name, err)
			return 1
		}
		if err := emit(out, buf.String(), cfg.Mode, colorOn, cfg.Theme); err != nil {
			fmt.Fprintf(stderr, "write: %v\n", err)
			return 1
		}
	}
	if err := out.commit(); err != nil {
		fmt.Fprintf(stderr, "write output: %v\n", err)
		return 1
	}
	if out.path != "" {
		log.WithField("path", out.path).Debug("wrote output")
	}
	return 0
}

func newLogger(w io.Writer, level logrus.Level, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	return log
}

func emit(w io.Writer, text string, mode xmlf.Mode, colorOn bool, theme string) error {
	if !colorOn || text == "" {
		_, err := io.WriteString(w, text)
		return err
	}
	return highlight.Highlight(w, text, highlight.LexerFor(mode), theme)
}

// resolveWidth picks the compress width: an explicit value, the width of
// the terminal receiving the output, COLUMNS, then the default. Output
// redirected to a file or pipe never takes the terminal's width.
func resolveWidth(width int, w io.Writer) int {
	if width > 0 {
		return width
	}
	if fd, ok := terminalFd(w); ok {
		if cols, _, err := term.GetSize(fd); err == nil && cols > 0 {
			return cols
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if cols, err := strconv.Atoi(value); err == nil && cols > 0 {
			return cols
		}
	}
	return defaultWidth
}

func resolveColor(mode string, w io.Writer) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return isTerminal(w), nil
	case "on", "true", "1", "yes", "always":
		return true, nil
	case "off", "false", "0", "no", "never":
		return false, nil
	default:
		return false, fmt.Errorf("expected auto|on|off")
	}
}

type inputSource struct {
	name   string
	format func(ctx context.Context, stdin io.Reader, w io.Writer, mode xmlf.Mode, opts []xmlf.Option) error
}

func openInputs(args []string) ([]inputSource, error) {
	if len(args) == 0 {
		return []inputSource{{
			name: "stdin",
			format: func(_ context.Context, stdin io.Reader, w io.Writer, mode xmlf.Mode, opts []xmlf.Option) error {
				return xmlf.Format(xmlf.FormatRequest{Reader: stdin, Writer: w, Mode: mode, Options: opts})
			},
		}}, nil
	}
	sources := make([]inputSource, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(raw)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func makeInputSource(raw string) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, fmt.Errorf("empty input argument")
	}
	if raw == "-" {
		srcs, _ := openInputs(nil)
		return srcs[0], nil
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return inputSource{name: raw, format: func(ctx context.Context, _ io.Reader, w io.Writer, mode xmlf.Mode, opts []xmlf.Option) error {
				return xmlf.HTTPFormat(ctx, xmlf.HTTPFormatRequest{URL: raw, Writer: w, Mode: mode, Options: opts})
			}}, nil
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			return fileSource(raw, path), nil
		}
	}
	return fileSource(raw, raw), nil
}

func fileSource(name, path string) inputSource {
	return inputSource{name: name, format: func(_ context.Context, _ io.Reader, w io.Writer, mode xmlf.Mode, opts []xmlf.Option) error {
		f, err := os.Open(normalizePath(path))
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		return xmlf.Format(xmlf.FormatRequest{Reader: f, Writer: w, Mode: mode, Options: opts})
	}}
}

// output is where formatted documents go. A file target is written to a
// temporary sibling and only renamed over the destination by commit, so a
// failed run leaves an existing file untouched.
type output struct {
	io.Writer
	path string
	tmp  *os.File
}

func openOutput(path string, stdout io.Writer) (*output, error) {
	if strings.TrimSpace(path) == "" {
		return &output{Writer: stdout}, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(clean)+".*")
	if err != nil {
		return nil, err
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, err
	}
	return &output{Writer: tmp, path: clean, tmp: tmp}, nil
}

func (o *output) commit() error {
	if o.tmp == nil {
		return nil
	}
	tmp := o.tmp
	o.tmp = nil
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), o.path); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}

// discard drops an uncommitted temporary file. It is a no-op after commit.
func (o *output) discard() {
	if o.tmp == nil {
		return
	}
	_ = o.tmp.Close()
	_ = os.Remove(o.tmp.Name())
	o.tmp = nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}

func isTerminal(w io.Writer) bool {
	_, ok := terminalFd(w)
	return ok
}

// terminalFd unwraps w to a terminal file descriptor, if it is one.
func terminalFd(w io.Writer) (int, bool) {
	if o, ok := w.(*output); ok {
		w = o.Writer
	}
	f, ok := w.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}
