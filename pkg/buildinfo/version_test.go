package buildinfo

import (
	"strings"
	"testing"
)

func TestCacheScope(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })

	tests := []struct {
		version, commit, want string
	}{
		{"dev", "none", "dev+none"},
		{"v1.2.0", "0123456789abcdef0123", "v1.2.0+0123456789ab"},
	}
	for _, tt := range tests {
		Version, Commit = tt.version, tt.commit
		if got := CacheScope(); got != tt.want {
			t.Errorf("CacheScope() = %q, want %q", got, tt.want)
		}
	}
}

func TestTemplate(t *testing.T) {
	if got := Template(); !strings.Contains(got, "{{.Name}} version "+Version) {
		t.Errorf("Template() = %q", got)
	}
}
