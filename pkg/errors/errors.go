// Package errors provides custom error types for the quantstrap system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the application.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the quantstrap system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrPathInvalid indicates that the installation path cannot be used
	ErrPathInvalid = errors.New("path invalid")

	// ErrChecksumMismatch indicates that a downloaded artifact failed integrity verification
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrChecksumUnverified indicates that no verification mechanism could check an artifact
	ErrChecksumUnverified = errors.New("checksum unverified")

	// ErrDownloadFailed indicates that a network fetch did not complete
	ErrDownloadFailed = errors.New("download failed")

	// ErrInstallFailed indicates that an installer or package install exited abnormally
	ErrInstallFailed = errors.New("install failed")

	// ErrEnvironmentMissing indicates that the runtime or dependency environment is unusable
	ErrEnvironmentMissing = errors.New("environment missing")

	// ErrBuildToolUnresolved indicates that no acceptable build tool could be located
	ErrBuildToolUnresolved = errors.New("build tool unresolved")

	// ErrExtractionFailed indicates that an archive could not be unpacked
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrCloneOrBuildFailed indicates that an external project could not be acquired or compiled
	ErrCloneOrBuildFailed = errors.New("clone or build failed")

	// ErrInvalidChoice indicates that interactive menu input was out of range
	ErrInvalidChoice = errors.New("invalid choice")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// PathError reports an unusable installation path
type PathError struct {
	Path   string
	Reason string
}

// Error implements the error interface
func (e *PathError) Error() string {
	return fmt.Sprintf("path %q cannot be used: %s", e.Path, e.Reason)
}

// Is implements errors.Is support
func (e *PathError) Is(target error) bool {
	return target == ErrPathInvalid
}

// NewPathError creates a new PathError
func NewPathError(path, reason string) *PathError {
	return &PathError{Path: path, Reason: reason}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ChecksumError reports an artifact whose digest did not match the pinned value,
// or one that no available mechanism could verify at all.
type ChecksumError struct {
	Path      string
	Want      string
	Got       string
	Mechanism string // verifier that produced the result, empty when none could run
}

// Error implements the error interface
func (e *ChecksumError) Error() string {
	if e.Mechanism == "" {
		return fmt.Sprintf("no checksum mechanism available to verify %s", e.Path)
	}
	return fmt.Sprintf("checksum mismatch for %s (%s): want %s, got %s", e.Path, e.Mechanism, e.Want, e.Got)
}

// Is implements errors.Is support
func (e *ChecksumError) Is(target error) bool {
	if e.Mechanism == "" {
		return target == ErrChecksumUnverified
	}
	return target == ErrChecksumMismatch
}

// NewChecksumError creates a new ChecksumError
func NewChecksumError(path, want, got, mechanism string) *ChecksumError {
	return &ChecksumError{Path: path, Want: want, Got: got, Mechanism: mechanism}
}

// DownloadError represents a failed network fetch
type DownloadError struct {
	URL    string
	Status int
	Err    error
}

// Error implements the error interface
func (e *DownloadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("download of %s failed with status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("download of %s failed: %v", e.URL, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *DownloadError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *DownloadError) Is(target error) bool {
	return target == ErrDownloadFailed
}

// NewDownloadError creates a new DownloadError
func NewDownloadError(url string, status int, err error) *DownloadError {
	return &DownloadError{URL: url, Status: status, Err: err}
}

// InstallError represents a failed installer or package installation
type InstallError struct {
	Component string // "miniconda", "environment", "packages"
	Output    string
	Err       error
}

// Error implements the error interface
func (e *InstallError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("installation of %s failed: %v\nOutput: %s", e.Component, e.Err, e.Output)
	}
	return fmt.Sprintf("installation of %s failed: %v", e.Component, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *InstallError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *InstallError) Is(target error) bool {
	return target == ErrInstallFailed
}

// NewInstallError creates a new InstallError
func NewInstallError(component, output string, err error) *InstallError {
	return &InstallError{Component: component, Output: output, Err: err}
}

// EnvironmentError reports a runtime or dependency environment that is
// missing or unresponsive after provisioning.
type EnvironmentError struct {
	Path    string
	Message string
}

// Error implements the error interface
func (e *EnvironmentError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("environment at %s unusable: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("environment unusable: %s", e.Message)
}

// Is implements errors.Is support
func (e *EnvironmentError) Is(target error) bool {
	return target == ErrEnvironmentMissing
}

// NewEnvironmentError creates a new EnvironmentError
func NewEnvironmentError(path, message string) *EnvironmentError {
	return &EnvironmentError{Path: path, Message: message}
}

// BuildToolError reports that the build tool could not be resolved by any tier
type BuildToolError struct {
	Tool  string
	Want  string
	Found string // version found on PATH, if any
	Err   error
}

// Error implements the error interface
func (e *BuildToolError) Error() string {
	if e.Found != "" {
		return fmt.Sprintf("%s %s required but %s found: %v", e.Tool, e.Want, e.Found, e.Err)
	}
	return fmt.Sprintf("%s %s could not be resolved: %v", e.Tool, e.Want, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *BuildToolError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *BuildToolError) Is(target error) bool {
	return target == ErrBuildToolUnresolved
}

// NewBuildToolError creates a new BuildToolError
func NewBuildToolError(tool, want, found string, err error) *BuildToolError {
	return &BuildToolError{Tool: tool, Want: want, Found: found, Err: err}
}

// ExtractError reports an archive that no extraction strategy could unpack
type ExtractError struct {
	Archive  string
	Attempts []string // extractor names tried, in order
	Err      error
}

// Error implements the error interface
func (e *ExtractError) Error() string {
	if len(e.Attempts) > 0 {
		return fmt.Sprintf("extraction of %s failed (tried %s): %v", e.Archive, strings.Join(e.Attempts, ", "), e.Err)
	}
	return fmt.Sprintf("extraction of %s failed: %v", e.Archive, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ExtractError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ExtractError) Is(target error) bool {
	return target == ErrExtractionFailed
}

// NewExtractError creates a new ExtractError
func NewExtractError(archive string, attempts []string, err error) *ExtractError {
	return &ExtractError{Archive: archive, Attempts: attempts, Err: err}
}

// RepoError represents a failure acquiring or building an external project
type RepoError struct {
	Repo      string
	Operation string // "clone", "checkout", "configure", "build", "install"
	Err       error
}

// Error implements the error interface
func (e *RepoError) Error() string {
	return fmt.Sprintf("%s of %s failed: %v", e.Operation, e.Repo, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *RepoError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *RepoError) Is(target error) bool {
	return target == ErrCloneOrBuildFailed
}

// NewRepoError creates a new RepoError
func NewRepoError(repo, operation string, err error) *RepoError {
	return &RepoError{Repo: repo, Operation: operation, Err: err}
}

// ChoiceError reports interactive menu input that maps to no option
type ChoiceError struct {
	Prompt  string
	Input   string
	Choices int
}

// Error implements the error interface
func (e *ChoiceError) Error() string {
	return fmt.Sprintf("invalid choice %q for %s: expected 1-%d", e.Input, e.Prompt, e.Choices)
}

// Is implements errors.Is support
func (e *ChoiceError) Is(target error) bool {
	return target == ErrInvalidChoice
}

// NewChoiceError creates a new ChoiceError
func NewChoiceError(prompt, input string, choices int) *ChoiceError {
	return &ChoiceError{Prompt: prompt, Input: input, Choices: choices}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// TimeoutError represents an operation timeout
type TimeoutError struct {
	Operation string
	Duration  string
	Message   string
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	if e.Duration != "" {
		return fmt.Sprintf("operation %s timed out after %s: %s", e.Operation, e.Duration, e.Message)
	}
	return fmt.Sprintf("operation %s timed out: %s", e.Operation, e.Message)
}

// Is implements errors.Is support
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(operation, duration, message string) *TimeoutError {
	return &TimeoutError{Operation: operation, Duration: duration, Message: message}
}

// ProcessError represents an error from an external process or command
type ProcessError struct {
	Operation string // What operation was being performed
	Command   string // The command that was executed
	Output    string // Stdout/stderr output from the process
	ExitCode  int    // Exit code if available
	Err       error  // Underlying error
}

// Error implements the error interface
func (e *ProcessError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("process error during %s (command: %s): %v\nOutput: %s", e.Operation, e.Command, e.Err, e.Output)
	}
	return fmt.Sprintf("process error during %s (command: %s): %v", e.Operation, e.Command, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ProcessError) Unwrap() error {
	return e.Err
}

// NewProcessError creates a new ProcessError
func NewProcessError(operation, command, output string, err error) *ProcessError {
	return &ProcessError{
		Operation: operation,
		Command:   command,
		Output:    output,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsPathInvalid checks if an error indicates an unusable installation path
func IsPathInvalid(err error) bool {
	return errors.Is(err, ErrPathInvalid)
}

// IsChecksumMismatch checks if an error is an integrity verification failure
func IsChecksumMismatch(err error) bool {
	return errors.Is(err, ErrChecksumMismatch)
}

// IsChecksumUnverified checks if an error indicates no verifier could run
func IsChecksumUnverified(err error) bool {
	return errors.Is(err, ErrChecksumUnverified)
}

// IsDownloadFailed checks if an error is a failed network fetch
func IsDownloadFailed(err error) bool {
	return errors.Is(err, ErrDownloadFailed)
}

// IsInstallFailed checks if an error is a failed installation
func IsInstallFailed(err error) bool {
	return errors.Is(err, ErrInstallFailed)
}

// IsEnvironmentMissing checks if an error indicates an unusable environment
func IsEnvironmentMissing(err error) bool {
	return errors.Is(err, ErrEnvironmentMissing)
}

// IsBuildToolUnresolved checks if an error indicates no acceptable build tool
func IsBuildToolUnresolved(err error) bool {
	return errors.Is(err, ErrBuildToolUnresolved)
}

// IsExtractionFailed checks if an error is a failed archive unpack
func IsExtractionFailed(err error) bool {
	return errors.Is(err, ErrExtractionFailed)
}

// IsCloneOrBuildFailed checks if an error is a failed project acquire or build
func IsCloneOrBuildFailed(err error) bool {
	return errors.Is(err, ErrCloneOrBuildFailed)
}

// IsInvalidChoice checks if an error is out-of-range menu input
func IsInvalidChoice(err error) bool {
	return errors.Is(err, ErrInvalidChoice)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapDownload wraps an error as a DownloadError
func WrapDownload(url string, err error) error {
	if err == nil {
		return nil
	}
	return &DownloadError{URL: url, Err: err}
}

// WrapInstall wraps an error as an InstallError
func WrapInstall(component string, err error) error {
	if err == nil {
		return nil
	}
	return &InstallError{Component: component, Err: err}
}

// WrapRepo wraps an error as a RepoError
func WrapRepo(repo, operation string, err error) error {
	if err == nil {
		return nil
	}
	return &RepoError{Repo: repo, Operation: operation, Err: err}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
