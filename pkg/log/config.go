package log

import (
	"fmt"
	"os"
	"strings"
)

// Config declares how to build a process logger.
type Config struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // text|json
	Output string `json:"output" yaml:"output"` // stderr|stdout|null
	// Redact lists field keys whose values are replaced before output.
	Redact []string `json:"redact,omitempty" yaml:"redact,omitempty"`
	// SampleInitial/SampleThereafter enable per-message sampling when SampleThereafter > 0.
	SampleInitial    int `json:"sampleInitial,omitempty" yaml:"sampleInitial,omitempty"`
	SampleThereafter int `json:"sampleThereafter,omitempty" yaml:"sampleThereafter,omitempty"`
}

// ApplyConfig builds a Logger from cfg. A nil cfg yields info/text/stderr.
func ApplyConfig(cfg *Config) (Logger, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var formatter Formatter
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		formatter = &TextFormatter{}
	case "json":
		formatter = &JSONFormatter{}
	default:
		return nil, fmt.Errorf("log: unknown format %q", cfg.Format)
	}

	var out Output
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		out = NewConsoleOutput()
	case "stdout":
		out = WriterOutput{W: os.Stdout}
	case "null":
		out = NullOutput{}
	default:
		return nil, fmt.Errorf("log: unknown output %q", cfg.Output)
	}

	return NewLogger(
		WithLevel(level),
		WithFormatter(formatter),
		WithOutput(out),
		WithRedactions(cfg.Redact...),
		WithSampling(cfg.SampleInitial, cfg.SampleThereafter),
	), nil
}
