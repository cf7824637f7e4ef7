package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayout(t *testing.T) {
	l := NewLayout("/srv/site")

	assert.Equal(t, []string{"/srv/site/_app/core/bundles", "/srv/site/_add-ons"}, l.Roots)
	assert.Equal(t, "/srv/site/_config", l.Config)

	a := l.Addon("karma")
	assert.Equal(t, "/srv/site/_cache/_add-ons/karma", a.CacheDir())
	assert.Equal(t, "/srv/site/_app/core/bundles/karma", a.BundleDir())
	assert.Equal(t, []string{
		"/srv/site/_config/bundles/karma",
		"/srv/site/_config/add-ons/karma",
	}, a.ConfigDirs())
	assert.Equal(t, []string{
		"/srv/site/_config/bundles/karma/karma.yaml",
		"/srv/site/_config/add-ons/karma/karma.yaml",
		"/srv/site/_config/add-ons/karma.yaml",
	}, a.OverrideFiles())
}

func TestFiles(t *testing.T) {
	assert.Equal(t, filepath.Join("loc", "default.yaml"), DefaultConfigFile("loc"))
	assert.Equal(t, filepath.Join("loc", "api.karma.yaml"), APIFile("loc", "karma"))
	assert.Equal(t, filepath.Join("loc", "tasks.karma.yaml"), TasksFile("loc", "karma"))
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "/base/_add-ons", Resolve("/base", "_add-ons"))
	assert.Equal(t, "/abs", Resolve("/base", "/abs"))
	assert.Equal(t, "", Resolve("/base", ""))
}

func TestLogical(t *testing.T) {
	assert.Equal(t, "_add-ons/karma", Logical("/srv/site", "/srv/site/_add-ons/karma"))
	assert.Equal(t, "/elsewhere/karma", Logical("/srv/site", "/elsewhere/karma"))
}

func TestIsWithin(t *testing.T) {
	assert.True(t, IsWithin("/a", "/a"))
	assert.True(t, IsWithin("/a", "/a/b/c"))
	assert.False(t, IsWithin("/a", "/b"))
	assert.False(t, IsWithin("/a/b", "/a"))
	assert.True(t, IsWithin("/a", "/a/..b"))
}
