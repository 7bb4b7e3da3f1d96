package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	oldVersion, oldDirty := Version, Dirty
	defer func() { Version, Dirty = oldVersion, oldDirty }()

	Version, Dirty = "1.2.0", "false"
	if got := String(); got != "1.2.0" {
		t.Errorf("String() = %q", got)
	}

	Dirty = "true"
	if got := String(); got != "1.2.0-dirty" {
		t.Errorf("String() = %q", got)
	}
	if !Get().Dirty {
		t.Error("expected Get().Dirty to be true")
	}
}

func TestUserAgent(t *testing.T) {
	if ua := UserAgent(); !strings.HasPrefix(ua, "hansard/"+String()) {
		t.Errorf("UserAgent() = %q", ua)
	}
}

func TestFull(t *testing.T) {
	full := Full()
	if !strings.HasPrefix(full, "hansard ") {
		t.Errorf("Full() should start with the program name, got %q", full)
	}
	for _, want := range []string{"Commit:", "Built:", "Go version:", "OS/Arch:"} {
		if !strings.Contains(full, want) {
			t.Errorf("Full() missing %q", want)
		}
	}
}
