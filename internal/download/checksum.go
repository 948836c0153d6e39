package download

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/spongeengine/quantstrap/internal/sys"
	"github.com/spongeengine/quantstrap/pkg/errors"
	"github.com/spongeengine/quantstrap/pkg/logging"
)

// Verifier computes a SHA-256 digest of a file by one mechanism.
// An error means the mechanism could not run, not that the file is bad.
type Verifier interface {
	Name() string
	Sum(ctx context.Context, path string) (string, error)
}

// VerifySHA256 checks path against the expected hex digest using the first
// verifier that can produce a digest. A mismatch is fatal. When no verifier
// can run at all the artifact counts as unverified, which is also fatal:
// an artifact is never accepted without a successful check.
func VerifySHA256(ctx context.Context, path, want string, verifiers ...Verifier) error {
	log := logging.FromContext(ctx)

	for _, v := range verifiers {
		got, err := v.Sum(ctx, path)
		if err != nil {
			log.Debug().
				Str("mechanism", v.Name()).
				Err(err).
				Msg("Checksum mechanism unavailable, trying next")
			continue
		}

		if !strings.EqualFold(got, want) {
			return errors.NewChecksumError(path, want, got, v.Name())
		}

		log.Debug().
			Str("mechanism", v.Name()).
			Str("path", path).
			Msg("Checksum verified")
		return nil
	}

	return errors.NewChecksumError(path, want, "", "")
}

// NativeSHA256 hashes with crypto/sha256.
type NativeSHA256 struct{}

// Name implements Verifier.
func (NativeSHA256) Name() string { return "sha256" }

// Sum implements Verifier.
func (NativeSHA256) Sum(_ context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

// hexDigest matches a 64 character SHA-256 digest in tool output.
var hexDigest = regexp.MustCompile(`\b[0-9a-fA-F]{64}\b`)

// ToolSHA256 shells out to the platform checksum utility. It serves as the
// fallback when native hashing cannot read the artifact.
type ToolSHA256 struct {
	Runner sys.Runner
}

// Name implements Verifier.
func (t *ToolSHA256) Name() string { return "checksum tool" }

// Sum implements Verifier.
func (t *ToolSHA256) Sum(ctx context.Context, path string) (string, error) {
	invocations := []sys.Command{
		{Name: "sha256sum", Args: []string{path}},
		{Name: "shasum", Args: []string{"-a", "256", path}},
		{Name: "certutil", Args: []string{"-hashfile", path, "SHA256"}},
	}

	for _, cmd := range invocations {
		if _, err := t.Runner.LookPath(cmd.Name); err != nil {
			continue
		}
		output, err := t.Runner.Output(ctx, cmd)
		if err != nil {
			continue
		}
		if digest := hexDigest.FindString(string(output)); digest != "" {
			return strings.ToLower(digest), nil
		}
	}

	return "", fmt.Errorf("no checksum utility available")
}

// DefaultVerifiers returns the standard chain: native hashing first, the
// platform checksum tool as fallback.
func DefaultVerifiers(runner sys.Runner) []Verifier {
	return []Verifier{
		NativeSHA256{},
		&ToolSHA256{Runner: runner},
	}
}
