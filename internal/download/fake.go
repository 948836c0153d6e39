package download

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spongeengine/quantstrap/pkg/constants"
)

// FakeFetcher provides a scripted Fetcher for testing.
// The default behavior writes an empty file at dest so callers that stat the
// artifact see it; set FetchFunc to control content or inject failures.
// Every requested URL is recorded so tests can assert that no network
// activity happened.
type FakeFetcher struct {
	FetchFunc func(ctx context.Context, url, dest string) error

	urls []string
}

// Fetch records the URL and delegates to the scripted function or writes an
// empty placeholder file.
func (f *FakeFetcher) Fetch(ctx context.Context, url, dest string) error {
	f.urls = append(f.urls, url)
	if f.FetchFunc != nil {
		return f.FetchFunc(ctx, url, dest)
	}
	if err := os.MkdirAll(filepath.Dir(dest), constants.DirPermissions); err != nil {
		return err
	}
	return os.WriteFile(dest, nil, constants.FilePermissions)
}

// URLs returns every URL passed to Fetch, in order.
func (f *FakeFetcher) URLs() []string {
	return f.urls
}

// Ensure FakeFetcher implements Fetcher at compile time.
var _ Fetcher = (*FakeFetcher)(nil)
