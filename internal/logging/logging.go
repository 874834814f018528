// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// Options controls logger setup. The same keys are accepted from a
// logging configuration file.
type Options struct {
	Level      string `mapstructure:"level"`       // I, D, W, E or a zerolog level name
	Format     string `mapstructure:"format"`      // auto, console, json
	Output     string `mapstructure:"output"`      // stderr, stdout or a file path
	TimeFormat string `mapstructure:"time_format"` // console timestamp layout
}

// DefaultTimeFormat matches the timestamp layout of the console writer.
const DefaultTimeFormat = "2006-01-02 15:04:05.000"

var levels = map[string]zerolog.Level{
	"I": zerolog.InfoLevel,
	"D": zerolog.DebugLevel,
	"W": zerolog.WarnLevel,
	"E": zerolog.ErrorLevel,
}

// ParseLevel accepts the short level letters (I, D, W, E) and zerolog level
// names. Empty selects warn.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return zerolog.WarnLevel, nil
	}
	if lvl, ok := levels[strings.ToUpper(s)]; ok && len(s) == 1 {
		return lvl, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q (valid: I, D, W, E)", s)
	}
	return lvl, nil
}

// LoadOptions reads logging options from a JSON or YAML file.
func LoadOptions(path string) (Options, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Options{}, fmt.Errorf("error reading log config: %w", err)
	}

	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return Options{}, fmt.Errorf("error unmarshaling log config: %w", err)
	}
	return opts, nil
}

// Init configures the global logger. The returned function releases any
// file opened for output.
func Init(opts Options) (func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	out, closer, err := openOutput(opts.Output)
	if err != nil {
		return nil, err
	}

	timeFormat := opts.TimeFormat
	if timeFormat == "" {
		timeFormat = DefaultTimeFormat
	}

	var w io.Writer = out
	switch strings.ToLower(opts.Format) {
	case "json":
	case "console":
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: timeFormat, NoColor: !isTerminal(out)}
	case "", "auto":
		if isTerminal(out) {
			w = zerolog.ConsoleWriter{Out: out, TimeFormat: timeFormat}
		}
	default:
		closer()
		return nil, fmt.Errorf("invalid log format %q (valid: auto, console, json)", opts.Format)
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return closer, nil
}

// For returns a logger tagged with a component name.
func For(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}

func openOutput(output string) (io.Writer, func() error, error) {
	noop := func() error { return nil }
	switch output {
	case "", "stderr":
		return os.Stderr, noop, nil
	case "stdout":
		return os.Stdout, noop, nil
	}

	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, f.Close, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
