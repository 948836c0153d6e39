package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spongeengine/quantstrap/internal/sys"
	"github.com/spongeengine/quantstrap/pkg/errors"
)

// sha256 of "installer payload"
const payloadDigest = "340f4f42e5d28005ff7f01cc10e28f4aeb1f1ea60abeb75bf1aa49eab74a181b"

func writePayload(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "installer.sh")
	require.NoError(t, os.WriteFile(path, []byte("installer payload"), 0o644))
	return path
}

type stubVerifier struct {
	name   string
	digest string
	err    error
}

func (s stubVerifier) Name() string { return s.name }

func (s stubVerifier) Sum(_ context.Context, _ string) (string, error) {
	return s.digest, s.err
}

func TestNativeSHA256(t *testing.T) {
	path := writePayload(t)

	digest, err := NativeSHA256{}.Sum(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, payloadDigest, digest)

	_, err = NativeSHA256{}.Sum(context.Background(), filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestToolSHA256(t *testing.T) {
	t.Run("parses sha256sum output", func(t *testing.T) {
		path := writePayload(t)
		fake := &sys.Fake{
			LookPathFunc: func(name string) (string, error) {
				if name == "sha256sum" {
					return "/usr/bin/sha256sum", nil
				}
				return "", fmt.Errorf("not found")
			},
			OutputFunc: func(_ context.Context, cmd sys.Command) ([]byte, error) {
				return []byte(payloadDigest + "  " + cmd.Args[0] + "\n"), nil
			},
		}

		digest, err := (&ToolSHA256{Runner: fake}).Sum(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, payloadDigest, digest)
	})

	t.Run("parses certutil output", func(t *testing.T) {
		path := writePayload(t)
		fake := &sys.Fake{
			LookPathFunc: func(name string) (string, error) {
				if name == "certutil" {
					return `C:\Windows\System32\certutil.exe`, nil
				}
				return "", fmt.Errorf("not found")
			},
			OutputFunc: func(_ context.Context, _ sys.Command) ([]byte, error) {
				out := "SHA256 hash of file:\n" + payloadDigest + "\nCertUtil: -hashfile command completed successfully.\n"
				return []byte(out), nil
			},
		}

		digest, err := (&ToolSHA256{Runner: fake}).Sum(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, payloadDigest, digest)
	})

	t.Run("no utility available", func(t *testing.T) {
		fake := &sys.Fake{}
		_, err := (&ToolSHA256{Runner: fake}).Sum(context.Background(), "whatever")
		assert.Error(t, err)
	})
}

func TestVerifySHA256(t *testing.T) {
	ctx := context.Background()

	t.Run("match passes", func(t *testing.T) {
		path := writePayload(t)
		err := VerifySHA256(ctx, path, payloadDigest, NativeSHA256{})
		assert.NoError(t, err)
	})

	t.Run("match is case insensitive", func(t *testing.T) {
		path := writePayload(t)
		upper := "340F4F42E5D28005FF7F01CC10E28F4AEB1F1EA60ABEB75BF1AA49EAB74A181B"
		assert.NoError(t, VerifySHA256(ctx, path, upper, NativeSHA256{}))
	})

	t.Run("mismatch is fatal", func(t *testing.T) {
		path := writePayload(t)
		err := VerifySHA256(ctx, path, "0000000000000000000000000000000000000000000000000000000000000000", NativeSHA256{})
		require.Error(t, err)
		assert.True(t, errors.IsChecksumMismatch(err))

		var csErr *errors.ChecksumError
		require.ErrorAs(t, err, &csErr)
		assert.Equal(t, "sha256", csErr.Mechanism)
		assert.Equal(t, payloadDigest, csErr.Got)
	})

	t.Run("unavailable mechanism falls through to next", func(t *testing.T) {
		err := VerifySHA256(ctx, "ignored", "abc",
			stubVerifier{name: "broken", err: fmt.Errorf("cannot run")},
			stubVerifier{name: "working", digest: "abc"},
		)
		assert.NoError(t, err)
	})

	t.Run("second mechanism mismatch is still fatal", func(t *testing.T) {
		err := VerifySHA256(ctx, "ignored", "abc",
			stubVerifier{name: "broken", err: fmt.Errorf("cannot run")},
			stubVerifier{name: "working", digest: "def"},
		)
		assert.True(t, errors.IsChecksumMismatch(err))
	})

	t.Run("no runnable mechanism never passes", func(t *testing.T) {
		err := VerifySHA256(ctx, "ignored", "abc",
			stubVerifier{name: "a", err: fmt.Errorf("cannot run")},
			stubVerifier{name: "b", err: fmt.Errorf("cannot run")},
		)
		require.Error(t, err)
		assert.True(t, errors.IsChecksumUnverified(err))
		assert.False(t, errors.IsChecksumMismatch(err))
	})

	t.Run("empty chain never passes", func(t *testing.T) {
		err := VerifySHA256(ctx, "ignored", "abc")
		assert.True(t, errors.IsChecksumUnverified(err))
	})
}
