// Package app provides the application context and dependency management for
// the quantstrap CLI. It centralizes configuration, logging, and the
// quantstrap client behind one struct that commands receive as an interface.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/spongeengine/quantstrap"
	"github.com/spongeengine/quantstrap/pkg/errors"
)

// App represents the quantstrap CLI with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Client instance (lazy-initialized, singleton)
	mu     sync.RWMutex
	client quantstrap.Client
}

// New creates a new App instance with the given version information.
// The app is initialized with configuration loaded from the environment,
// which can be customized using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "load configuration", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Output
}

// Verbose reports whether verbose output was requested.
func (a *App) Verbose() bool {
	return a.config.Verbose
}

// Quantstrap returns the quantstrap client.
// When called without options it returns the default cached instance,
// creating it lazily from the app configuration. When called with options it
// creates a new instance from the app configuration plus the given options.
func (a *App) Quantstrap(opts ...quantstrap.Option) (quantstrap.Client, error) {
	if len(opts) > 0 {
		return quantstrap.New(append(a.baseOptions(), opts...)...)
	}

	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.client != nil {
		return a.client, nil
	}

	client, err := quantstrap.New(a.baseOptions()...)
	if err != nil {
		return nil, err
	}
	a.client = client
	return client, nil
}

// baseOptions constructs client options from the app configuration.
func (a *App) baseOptions() []quantstrap.Option {
	var opts []quantstrap.Option
	if a.config.WorkDir != "" {
		opts = append(opts, quantstrap.WithWorkDir(a.config.WorkDir))
	}
	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom quantstrap client (useful for testing).
func WithClient(client quantstrap.Client) Option {
	return func(a *App) error {
		a.client = client
		return nil
	}
}
