package app

import (
	"github.com/spongeengine/quantstrap/internal/cmd/application"
)

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)
