// Package manifests carries the pinned pip dependency manifests and writes
// them into a working directory when the checkout does not already provide
// its own copies.
package manifests

import (
	"embed"
)

// FS embeds the dependency manifests at build time.
//
//go:embed requirements/*
var FS embed.FS
