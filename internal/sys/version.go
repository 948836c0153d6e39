package sys

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// versionPatterns match the version number in typical tool output.
var versionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`version\s+v?(\d+\.\d+\.\d+)`),
	regexp.MustCompile(`v?(\d+\.\d+\.\d+)`),
	regexp.MustCompile(`(\d+\.\d+)`),
}

// ExtractVersion pulls a version number out of tool output.
// Handles forms like "conda 23.3.1", "cmake version 3.31.5", "v1.2.3".
func ExtractVersion(output string) string {
	for _, re := range versionPatterns {
		matches := re.FindStringSubmatch(output)
		if len(matches) > 1 {
			return matches[1]
		}
	}
	return ""
}

// SameVersion reports whether two version strings refer to the same release,
// ignoring a leading "v".
func SameVersion(a, b string) bool {
	return strings.TrimPrefix(a, "v") == strings.TrimPrefix(b, "v")
}

// ProbeVersion runs "<tool> --version" and extracts the version number.
// A non-empty env replaces the inherited environment for the probe.
func ProbeVersion(ctx context.Context, runner Runner, tool string, env []string) (string, error) {
	output, err := runner.Output(ctx, Command{Name: tool, Args: []string{"--version"}, Env: env})
	if err != nil {
		return "", err
	}

	version := ExtractVersion(string(output))
	if version == "" {
		return "", fmt.Errorf("could not determine version from %q", strings.TrimSpace(string(output)))
	}
	return version, nil
}
