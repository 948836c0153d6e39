// Package globals provides the shared flag values that commands hand to the
// output formatting layer.
package globals

// Flags holds global common flags across all commands.
type Flags struct {
	Output  string
	Quiet   bool
	Verbose bool
	NoColor bool
}
