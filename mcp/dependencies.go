package mcp

import (
	"context"
	"time"

	"github.com/ludo-technologies/libfinder/app"
	"github.com/ludo-technologies/libfinder/domain"
	"github.com/ludo-technologies/libfinder/service"
)

// Dependencies is shared by every tool call. Use cases are rebuilt per call
// because the explicit argument set differs between calls.
type Dependencies struct {
	fileReader  domain.FileReader
	formatter   domain.MatchOutputFormatter
	configPath  string
	callTimeout time.Duration
}

// Option customizes Dependencies.
type Option func(*Dependencies)

// WithFileReader replaces the filesystem reader.
func WithFileReader(fr domain.FileReader) Option {
	return func(d *Dependencies) { d.fileReader = fr }
}

// WithCallTimeout bounds every tool call; zero leaves calls unbounded.
func WithCallTimeout(timeout time.Duration) Option {
	return func(d *Dependencies) { d.callTimeout = timeout }
}

// NewDependencies uses configPath for every call, or discovers
// .libfinder.toml from the target path when it is empty.
func NewDependencies(configPath string, opts ...Option) *Dependencies {
	d := &Dependencies{
		fileReader: service.NewFileReader(),
		formatter:  service.NewMatchOutputFormatter(),
		configPath: configPath,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dependencies) ConfigPath() string {
	return d.configPath
}

// callContext applies the per-call timeout, if any.
func (d *Dependencies) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.callTimeout)
}

// BuildMatchUseCase wires a use case whose config loader lets the names in
// explicit win over configuration file values.
func (d *Dependencies) BuildMatchUseCase(explicit map[string]bool) (*app.MatchUseCase, error) {
	svc := service.NewMatchService(d.fileReader, nil)
	// stdout carries JSON-RPC
	svc.SetWarningWriter(nil)

	return app.NewMatchUseCaseBuilder().
		WithService(svc).
		WithFileReader(d.fileReader).
		WithFormatter(d.formatter).
		WithConfigLoader(service.NewConfigurationLoaderWithFlags(explicit)).
		Build()
}
