package dbind

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/calumari/dbind/internal/logattr"
)

type processConfig struct {
	binder   *Binder
	registry *Registry
	logger   *slog.Logger
}

// ProcessOption configures Process and ProcessFiles.
type ProcessOption func(c *processConfig)

// WithBinder sets the binder. Default is the flat binder with marker "d".
func WithBinder(b *Binder) ProcessOption {
	return func(c *processConfig) {
		if b != nil {
			c.binder = b
		}
	}
}

// WithRegistry sets the data format registry. Default DefaultRegistry.
func WithRegistry(r *Registry) ProcessOption {
	return func(c *processConfig) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithLogger sets the logger used for debug output. Default discards.
func WithLogger(l *slog.Logger) ProcessOption {
	return func(c *processConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

func newProcessConfig(opts []ProcessOption) *processConfig {
	c := &processConfig{
		binder:   defaultBinder,
		registry: DefaultRegistry,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProcessFiles reads the data file and the input HTML, binds them and writes
// the result to output. The output file is only written once binding has
// completed. Missing keys are reported in the Result, not as an error.
func ProcessFiles(input, data, output string, opts ...ProcessOption) (*Result, error) {
	c := newProcessConfig(opts)
	start := time.Now()

	raw, err := os.ReadFile(data)
	if err != nil {
		return nil, fmt.Errorf("read data %q: %w", data, err)
	}
	val, err := c.registry.LoadFile(data, raw)
	if err != nil {
		return nil, fmt.Errorf("decode data %q: %w", data, err)
	}

	src, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("read input %q: %w", input, err)
	}
	out, res, err := process(string(src), val, c)
	if err != nil {
		return nil, fmt.Errorf("process input %q: %w", input, err)
	}

	if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
		return nil, fmt.Errorf("write output %q: %w", output, err)
	}

	c.logger.Debug("processed files",
		logattr.Path("input", input),
		logattr.Path("data", data),
		logattr.Path("output", output),
		logattr.Count("bound", res.Bound),
		logattr.Count("missing", len(res.Missing)),
		logattr.Elapsed(start),
	)
	return res, nil
}

// Process binds data, decoded with the named format, into the HTML source src
// and returns the rendered result. An empty format means DefaultFormat.
func Process(src string, data []byte, format string, opts ...ProcessOption) (string, *Result, error) {
	c := newProcessConfig(opts)
	if format == "" {
		format = DefaultFormat
	}
	val, err := c.registry.Load(format, data)
	if err != nil {
		return "", nil, fmt.Errorf("decode data: %w", err)
	}
	return process(src, val, c)
}

func process(src string, data any, c *processConfig) (string, *Result, error) {
	m, err := ParseHTML(src)
	if err != nil {
		return "", nil, err
	}
	res, err := c.binder.Bind(m, data)
	if err != nil {
		return "", nil, err
	}
	var buf bytes.Buffer
	if err := m.Render(&buf); err != nil {
		return "", nil, err
	}
	out := buf.String()
	c.logger.Debug("bound document",
		slog.String("strategy", string(c.binder.Strategy())),
		logattr.Count("bound", res.Bound),
		logattr.Keys(res.Missing),
	)
	return out, res, nil
}
