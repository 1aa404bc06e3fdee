package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Config describes how the application logs.
type Config struct {
	Level          string                 `yaml:"level,omitempty" validate:"oneof=debug info warn error disabled"`
	Format         string                 `yaml:"format,omitempty" validate:"oneof=json console"`
	OutputTarget   string                 `yaml:"output_target,omitempty" validate:"oneof=stdout stderr file"`
	FilePath       string                 `yaml:"file_path,omitempty" validate:"required_if=OutputTarget file"`
	TimeFormat     string                 `yaml:"time_format,omitempty"` // console only
	ServiceName    string                 `yaml:"service_name,omitempty"`
	ServiceVersion string                 `yaml:"service_version,omitempty"`
	WithCaller     bool                   `yaml:"with_caller,omitempty"`
	Fields         map[string]interface{} `yaml:"fields,omitempty"`
}

// New builds a logger writing to the configured target. The returned
// closer releases the log file, if any.
func New(cfg *Config) (zerolog.Logger, io.Closer, error) {
	cfg.SetDefaults()
	if err := Validate(cfg); err != nil {
		return zerolog.Nop(), nil, err
	}

	var out io.Writer
	var closer io.Closer = nopCloser{}
	switch cfg.OutputTarget {
	case "stderr":
		out = os.Stderr
	case "file":
		// make sure directory exists
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	default:
		out = os.Stdout
	}

	logger, err := NewWithWriter(cfg, out)
	if err != nil {
		closer.Close()
		return zerolog.Nop(), nil, err
	}
	return logger, closer, nil
}

// NewWithWriter builds a logger that writes to w regardless of OutputTarget.
func NewWithWriter(cfg *Config, w io.Writer) (zerolog.Logger, error) {
	cfg.SetDefaults()
	if err := Validate(cfg); err != nil {
		return zerolog.Nop(), err
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: cfg.TimeFormat}
	}

	ctx := zerolog.New(w).Level(level).With().Timestamp()

	logger := ctx.
		Str("service", cfg.ServiceName).
		Str("version", cfg.ServiceVersion).
		Logger()

	if cfg.WithCaller {
		logger = logger.With().Caller().Logger()
	}
	if len(cfg.Fields) > 0 {
		logger = logger.With().Fields(cfg.Fields).Logger()
	}
	return logger, nil
}

// SetDefaults fills empty fields.
func (c *Config) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "json"
	}
	if c.OutputTarget == "" {
		c.OutputTarget = "stderr"
	}
	if c.TimeFormat == "" {
		c.TimeFormat = "15:04:05"
	}
	if c.ServiceName == "" {
		c.ServiceName = "userfeed"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "0.1.0"
	}
	if c.Fields == nil {
		c.Fields = make(map[string]interface{})
	}
}

var validate = validator.New()

// Validate checks the config against its struct tags.
func Validate(c *Config) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("logger config validation error: %w", err)
	}
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
