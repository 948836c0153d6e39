package errors_test

import (
	"fmt"

	"github.com/spongeengine/quantstrap/pkg/errors"
)

// Example demonstrates basic error creation and checking.
func Example() {
	// Reject an installation path with spaces
	err := &errors.PathError{
		Path:   "/home/user/My Models",
		Reason: "contains spaces",
	}

	// Check error type
	if errors.IsPathInvalid(err) {
		fmt.Println("Installation path rejected")
	}

	// Output: Installation path rejected
}

// Example_checksumError demonstrates integrity failure handling.
func Example_checksumError() {
	// A downloaded installer whose digest did not match the pin
	err := &errors.ChecksumError{
		Path:      "miniconda_installer.sh",
		Want:      "aef279",
		Got:       "deadbe",
		Mechanism: "sha256",
	}

	// Mismatch and unverifiable are distinct conditions
	switch {
	case errors.IsChecksumMismatch(err):
		fmt.Println("Artifact corrupt - deleting and aborting")
	case errors.IsChecksumUnverified(err):
		fmt.Println("No verifier available - aborting")
	}

	// Output: Artifact corrupt - deleting and aborting
}

// Example_repoError shows external project failure handling.
func Example_repoError() {
	err := errors.NewRepoError("llama.cpp", "build", errors.New("exit status 2"))

	fmt.Printf("Project step failed: %s of %s\n", err.Operation, err.Repo)

	// Output: Project step failed: build of llama.cpp
}

// Example_processError demonstrates wrapping external command failures.
func Example_processError() {
	err := &errors.ProcessError{
		Operation: "probe runtime",
		Command:   "conda --version",
		Err:       errors.New("executable file not found"),
	}

	fmt.Println(err.Operation)

	// Output: probe runtime
}
