package buildinfo

import (
	"strings"
	"testing"
)

func TestLdflagsWin(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
	Version, Commit, Date = "v1.2.3", "abc123", "2026-10-19"

	info := Get()
	if info.Version != "v1.2.3" || info.Commit != "abc123" || info.Date != "2026-10-19" {
		t.Errorf("Get() = %+v, want the ldflags values", info)
	}
	if got := UserAgent(); got != "pianoxl/v1.2.3" {
		t.Errorf("UserAgent() = %q, want pianoxl/v1.2.3", got)
	}
	if got := Template(); !strings.Contains(got, "{{.Name}} version v1.2.3") || !strings.Contains(got, "commit: abc123") {
		t.Errorf("Template() = %q", got)
	}
}

func TestGetDefaults(t *testing.T) {
	// Test binaries carry no VCS stamp, so the placeholders survive.
	if info := Get(); info.Version != Version {
		t.Errorf("Get().Version = %q, want %q", info.Version, Version)
	}
}
