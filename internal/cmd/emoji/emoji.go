// Package emoji provides symbol constants for CLI output.
// These symbols create a consistent visual language across all command-line commands.
package emoji

// Symbol constants for CLI output provide a consistent visual language across commands.
// These symbols are used for status indicators and user feedback in terminal output.
const (
	// Success represents successful completion of an operation.
	// Used for: completed steps, resolved tools, passing checks.
	Success = "✓"

	// Error represents failures or missing required components.
	// Used for: failed steps, missing runtimes, checksum mismatches.
	Error = "✗"

	// Warning represents warnings or non-critical issues.
	// Used for: components that will be provisioned, degraded modes.
	Warning = "!"

	// Optional represents optional or skipped components.
	// Used for: GPU-only repositories on CPU hosts, skipped steps.
	Optional = "-"

	// Unknown represents unknown or indeterminate states.
	// Used for: unprobed hardware, undetected versions.
	Unknown = "?"

	// Info represents informational messages.
	// Used for: general information, tips, context.
	Info = "i"
)
