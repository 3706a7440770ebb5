package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	orig := version
	t.Cleanup(func() { version = orig })

	version = "v1.4.0"
	assert.Equal(t, "v1.4.0", GetVersion())

	version = ""
	assert.NotEmpty(t, GetVersion())
}

func TestBuildInfoDefaults(t *testing.T) {
	origCommit, origDate := gitCommit, buildDate
	t.Cleanup(func() { gitCommit, buildDate = origCommit, origDate })

	gitCommit, buildDate = "", ""
	assert.Equal(t, "unknown", GetGitCommit())
	assert.Equal(t, "unknown", GetBuildDate())

	gitCommit, buildDate = "abc1234", "2026-01-01T00:00:00Z"
	assert.Equal(t, "abc1234", GetGitCommit())
	assert.Equal(t, "2026-01-01T00:00:00Z", GetBuildDate())
}
