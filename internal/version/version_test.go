package version

import (
	"strings"
	"testing"
)

func TestDefaultsPopulated(t *testing.T) {
	if Version == "" {
		t.Error("Version should never be empty after init")
	}
	if Commit == "" {
		t.Error("Commit should never be empty after init")
	}
}

func TestShortRevision(t *testing.T) {
	tests := []struct {
		revision string
		modified bool
		want     string
	}{
		{"0123456789abcdef", false, "0123456"},
		{"0123456789abcdef", true, "0123456-dirty"},
		{"abc", false, "abc"},
	}

	for _, tt := range tests {
		if got := shortRevision(tt.revision, tt.modified); got != tt.want {
			t.Errorf("shortRevision(%q, %v) = %q, want %q", tt.revision, tt.modified, got, tt.want)
		}
	}
}

func TestUserAgent(t *testing.T) {
	if ua := UserAgent(); ua != "petpal/"+Version {
		t.Errorf("UserAgent() = %q", ua)
	}
	if !strings.Contains(Full(), Commit) {
		t.Errorf("Full() = %q, want commit included", Full())
	}
}
