package logging

import (
	"fmt"
	"os"
	"strings"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

type Sink string

const (
	SinkStderr Sink = "stderr"
	SinkFile   Sink = "file"
	SinkNone   Sink = "none"
)

const (
	EnvLogLevel  = "TICKETDASH_LOG_LEVEL"
	EnvLogFormat = "TICKETDASH_LOG_FORMAT"
	EnvLogSink   = "TICKETDASH_LOG_SINK"
	EnvLogFile   = "TICKETDASH_LOG_FILE"
)

// Config is the logging section of the config file. Nil fields take the
// default.
type Config struct {
	Level  *string `yaml:"level,omitempty"`
	Format *string `yaml:"format,omitempty"`
	Sink   *string `yaml:"sink,omitempty"`
	File   *string `yaml:"file,omitempty"`

	MaxSizeMB  *int `yaml:"max_size_mb,omitempty"`
	MaxBackups *int `yaml:"max_backups,omitempty"`
}

// DefaultConfig logs info and above to a rotating file: the dashboard owns
// the terminal.
func DefaultConfig() Config {
	level := "info"
	format := string(FormatText)
	sink := string(SinkFile)
	maxSizeMB := 10
	maxBackups := 3
	return Config{
		Level:      &level,
		Format:     &format,
		Sink:       &sink,
		MaxSizeMB:  &maxSizeMB,
		MaxBackups: &maxBackups,
	}
}

// Merge returns c with every non-nil field of override applied.
func (c Config) Merge(override Config) Config {
	if override.Level != nil {
		c.Level = override.Level
	}
	if override.Format != nil {
		c.Format = override.Format
	}
	if override.Sink != nil {
		c.Sink = override.Sink
	}
	if override.File != nil {
		c.File = override.File
	}
	if override.MaxSizeMB != nil {
		c.MaxSizeMB = override.MaxSizeMB
	}
	if override.MaxBackups != nil {
		c.MaxBackups = override.MaxBackups
	}
	return c
}

func (c Config) WithEnv() Config {
	apply := func(dst **string, env string) {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*dst = &v
		}
	}
	apply(&c.Level, EnvLogLevel)
	apply(&c.Format, EnvLogFormat)
	apply(&c.Sink, EnvLogSink)
	apply(&c.File, EnvLogFile)
	return c
}

func (c Config) Normalize() (Config, error) {
	lower := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := strings.ToLower(strings.TrimSpace(*s))
		if v == "" {
			return nil
		}
		return &v
	}
	c.Level = lower(c.Level)
	c.Format = lower(c.Format)
	c.Sink = lower(c.Sink)
	if c.File != nil {
		v := strings.TrimSpace(*c.File)
		if v == "" {
			c.File = nil
		} else {
			c.File = &v
		}
	}
	for _, n := range []**int{&c.MaxSizeMB, &c.MaxBackups} {
		if *n != nil && **n < 0 {
			zero := 0
			*n = &zero
		}
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if c.Level != nil {
		switch *c.Level {
		case "debug", "info", "warn", "warning", "error":
		default:
			return fmt.Errorf("logging.level: invalid %q", *c.Level)
		}
	}
	if c.Format != nil {
		switch Format(*c.Format) {
		case FormatText, FormatJSON:
		default:
			return fmt.Errorf("logging.format: invalid %q", *c.Format)
		}
	}
	if c.Sink != nil {
		switch Sink(*c.Sink) {
		case SinkStderr, SinkFile, SinkNone:
		default:
			return fmt.Errorf("logging.sink: invalid %q", *c.Sink)
		}
	}
	return nil
}
