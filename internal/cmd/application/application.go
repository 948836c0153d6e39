// Package application provides the application interface for quantstrap
// commands.
//
// The Application interface defines the contract between the application
// layer and command implementations, enabling dependency injection and
// testability.
//
// Design Principles:
//   - Accept interfaces, return structs (Go proverb)
//   - Define interfaces where they're used, not where they're implemented
//   - Keep interfaces small and focused
//
// Usage in Commands:
//
//	import (
//	    "github.com/spongeengine/quantstrap/internal/cmd/application"
//	)
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            client, err := app.Quantstrap()
//	            if err != nil {
//	                return err
//	            }
//	            return client.Up(cmd.Context())
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    QuantstrapFunc: func(opts ...quantstrap.Option) (quantstrap.Client, error) {
//	        return testClient, nil
//	    },
//	}
//	cmd := NewCommand(mock)
//	// ... test command behavior
package application

import (
	"github.com/rs/zerolog"

	"github.com/spongeengine/quantstrap"
)

// Application provides the application interface that commands need.
// The App struct from cmd/quantstrap/app automatically implements this
// interface, providing dependency injection for commands while maintaining
// testability.
//
// Commands should accept this interface rather than the concrete App type,
// allowing for easier testing with mock implementations.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Quantstrap returns the quantstrap client.
	// When called without options, returns the default cached instance
	// (lazy-initialized, thread-safe). When called with options, creates a
	// new instance layered over the app configuration (no caching).
	//
	// Examples:
	//   client, err := app.Quantstrap()                 // default instance (cached)
	//   client, err := app.Quantstrap(opt1, opt2)       // custom instance (new)
	Quantstrap(opts ...quantstrap.Option) (quantstrap.Client, error)

	// Logger returns the configured logger instance.
	// Commands should use this for all logging operations.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table).
	// Commands that support different output formats should use this.
	OutputFormat() string

	// Verbose reports whether verbose output was requested.
	Verbose() bool

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
