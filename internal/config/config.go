// Package config resolves xmlf settings from defaults, a config file,
// XMLF_* environment variables and command-line flags.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"pkt.systems/xmlf"
	"pkt.systems/xmlf/internal/highlight"
)

// Option describes one configuration key.
type Option struct {
	Key     string
	Default any
	Comment string
}

// Options returns every configuration key with its default.
func Options() []Option {
	return []Option{
		{Key: "mode", Default: xmlf.ModeBeautify.String(), Comment: "Transform: beautify|compress|json (aliases and prefixes accepted)"},
		{Key: "indent", Default: xmlf.DefaultIndent, Comment: "Spaces per nesting level"},
		{Key: "width", Default: xmlf.DefaultMaxWidth, Comment: "Soft line limit for compress (0 uses terminal width)"},
		{Key: "color", Default: "auto", Comment: "Syntax highlighting: auto|on|off"},
		{Key: "theme", Default: highlight.DefaultStyle, Comment: "Highlight style name"},
		{Key: "log_level", Default: "warn", Comment: "Log level: debug|info|warn|error"},
	}
}

// Config is the resolved configuration.
type Config struct {
	Mode     xmlf.Mode
	Indent   int
	Width    int
	Color    string
	Theme    string
	LogLevel logrus.Level
}

// Load resolves configuration with precedence defaults < file < env < flags.
// Flags are only consulted when they were set on the command line.
func Load(v *viper.Viper, flags *pflag.FlagSet) error {
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "xmlf"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "xmlf"))
		}
		v.AddConfigPath(".")
	}
	for _, o := range Options() {
		v.SetDefault(o.Key, o.Default)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Wrap(err, "read config")
		}
	}
	v.SetEnvPrefix("xmlf")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return errors.Wrap(err, "bind flags")
		}
	}
	return nil
}

// Resolve validates v and returns the typed configuration.
func Resolve(v *viper.Viper) (Config, error) {
	if err := Validate(v); err != nil {
		return Config{}, err
	}
	mode, _ := xmlf.ParseMode(v.GetString("mode"))
	level, _ := logrus.ParseLevel(v.GetString("log_level"))
	return Config{
		Mode:     mode,
		Indent:   v.GetInt("indent"),
		Width:    v.GetInt("width"),
		Color:    strings.ToLower(strings.TrimSpace(v.GetString("color"))),
		Theme:    v.GetString("theme"),
		LogLevel: level,
	}, nil
}

// Validate reports every invalid key at once.
func Validate(v *viper.Viper) error {
	var problems []string
	if _, err := xmlf.ParseMode(v.GetString("mode")); err != nil {
		problems = append(problems, err.Error())
	}
	if v.GetInt("indent") < 0 {
		problems = append(problems, "indent must not be negative")
	}
	if v.GetInt("width") < 0 {
		problems = append(problems, "width must not be negative")
	}
	switch strings.ToLower(strings.TrimSpace(v.GetString("color"))) {
	case "auto", "on", "off":
	default:
		problems = append(problems, "color must be auto, on or off")
	}
	if !highlight.HasStyle(v.GetString("theme")) {
		problems = append(problems, "unknown theme "+v.GetString("theme"))
	}
	if _, err := logrus.ParseLevel(v.GetString("log_level")); err != nil {
		problems = append(problems, "invalid log_level "+v.GetString("log_level"))
	}
	if len(problems) > 0 {
		return errors.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
