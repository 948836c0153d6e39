package sys

import (
	"context"
	"errors"
	"testing"
)

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{
			name:   "conda style",
			output: "conda 23.3.1",
			want:   "23.3.1",
		},
		{
			name:   "cmake style",
			output: "cmake version 3.31.5\n\nCMake suite maintained and supported by Kitware (kitware.com/cmake).",
			want:   "3.31.5",
		},
		{
			name:   "git style",
			output: "git version 2.39.2",
			want:   "2.39.2",
		},
		{
			name:   "v prefix",
			output: "v1.2.3",
			want:   "1.2.3",
		},
		{
			name:   "python style",
			output: "Python 3.11.8",
			want:   "3.11.8",
		},
		{
			name:   "two component fallback",
			output: "tool 1.2",
			want:   "1.2",
		},
		{
			name:   "no version",
			output: "command not found",
			want:   "",
		},
		{
			name:   "empty",
			output: "",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractVersion(tt.output)
			if got != tt.want {
				t.Errorf("ExtractVersion(%q) = %q, want %q", tt.output, got, tt.want)
			}
		})
	}
}

func TestSameVersion(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"3.31.5", "3.31.5", true},
		{"v3.31.5", "3.31.5", true},
		{"3.31.5", "v3.31.5", true},
		{"3.31.5", "3.31.6", false},
		{"3.31", "3.31.5", false},
	}

	for _, tt := range tests {
		if got := SameVersion(tt.a, tt.b); got != tt.want {
			t.Errorf("SameVersion(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestProbeVersion(t *testing.T) {
	t.Run("extracts from output", func(t *testing.T) {
		fake := &Fake{
			OutputFunc: func(_ context.Context, cmd Command) ([]byte, error) {
				if cmd.Name != "cmake" {
					t.Fatalf("unexpected command %q", cmd.Name)
				}
				return []byte("cmake version 3.31.5"), nil
			},
		}

		version, err := ProbeVersion(context.Background(), fake, "cmake", nil)
		if err != nil {
			t.Fatalf("ProbeVersion() error = %v", err)
		}
		if version != "3.31.5" {
			t.Errorf("version = %q, want 3.31.5", version)
		}
	})

	t.Run("propagates exec failure", func(t *testing.T) {
		execErr := errors.New("exec format error")
		fake := &Fake{
			OutputFunc: func(_ context.Context, _ Command) ([]byte, error) {
				return nil, execErr
			},
		}

		if _, err := ProbeVersion(context.Background(), fake, "conda", nil); !errors.Is(err, execErr) {
			t.Errorf("ProbeVersion() error = %v, want %v", err, execErr)
		}
	})

	t.Run("rejects unversioned output", func(t *testing.T) {
		fake := &Fake{
			OutputFunc: func(_ context.Context, _ Command) ([]byte, error) {
				return []byte("no numbers here"), nil
			},
		}

		if _, err := ProbeVersion(context.Background(), fake, "conda", nil); err == nil {
			t.Error("ProbeVersion() expected error for unversioned output")
		}
	})
}
