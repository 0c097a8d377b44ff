package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShort(t *testing.T) {
	s := Short()
	assert.Contains(t, s, Version)
	assert.Contains(t, s, Revision)
}

func TestShortWithApp(t *testing.T) {
	assert.True(t, strings.HasPrefix(ShortWithApp(), AppName))
}

func TestApplyBuildInfo(t *testing.T) {
	oldVersion, oldRevision := Version, Revision
	defer func() {
		Version, Revision = oldVersion, oldRevision
	}()

	Version = "0.2.0-dev"
	Revision = "HEAD"
	applyBuildInfo("v1.2.3", map[string]string{
		"vcs.revision": "abc123",
		"vcs.modified": "true",
	})

	assert.Equal(t, "1.2.3", Version)
	assert.Equal(t, "abc123-dirty", Revision)
}
