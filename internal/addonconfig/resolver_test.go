package addonconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/GriffinCanCode/addonkit/internal/addon"
	"github.com/GriffinCanCode/addonkit/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type site struct {
	base   string
	config string
	addon  string
}

func newSite(t *testing.T) site {
	t.Helper()
	base := t.TempDir()
	s := site{
		base:   base,
		config: filepath.Join(base, "_config"),
		addon:  filepath.Join(base, "_add-ons", "karma"),
	}
	require.NoError(t, os.MkdirAll(s.addon, 0755))
	return s
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func (s site) resolver(log *logging.AddonLogger) *Resolver {
	id := addon.Identity{Name: "karma", Type: addon.TypePlugin, Location: s.addon}
	return New(id, s.config, log)
}

func observedLog() (*logging.AddonLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &logging.Logger{Logger: zap.New(core)}
	return l.ForAddon("plugin", "karma"), logs
}

func TestConfigMergesOverDefaults(t *testing.T) {
	s := newSite(t)
	write(t, filepath.Join(s.addon, "default.yaml"), "a: 1\nb: 2\nnested:\n  x: 1\n  y: 2\n")
	write(t, filepath.Join(s.config, "add-ons", "karma", "karma.yaml"), "b: 3\nnested:\n  x: 9\n")

	cfg := s.resolver(nil).Config()

	assert.EqualValues(t, 1, cfg["a"])
	assert.EqualValues(t, 3, cfg["b"])
	nested, ok := cfg["nested"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, nested, 1)
	assert.EqualValues(t, 9, nested["x"])
}

func TestConfigOverridePriority(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{"bundles dir wins", []string{"bundles/karma/karma.yaml", "add-ons/karma/karma.yaml", "add-ons/karma.yaml"}, "bundles/karma/karma.yaml"},
		{"add-ons dir next", []string{"add-ons/karma/karma.yaml", "add-ons/karma.yaml"}, "add-ons/karma/karma.yaml"},
		{"flat file last", []string{"add-ons/karma.yaml"}, "add-ons/karma.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSite(t)
			for _, f := range tt.files {
				write(t, filepath.Join(s.config, filepath.FromSlash(f)), "source: "+f+"\n")
			}
			assert.Equal(t, tt.want, s.resolver(nil).Config()["source"])
		})
	}
}

func TestConfigMissingDocuments(t *testing.T) {
	s := newSite(t)
	cfg := s.resolver(nil).Config()
	assert.NotNil(t, cfg)
	assert.Empty(t, cfg)

	notInstalled := New(addon.Identity{Name: "ghost", Type: addon.TypePlugin}, s.config, nil)
	assert.Empty(t, notInstalled.Config())
}

func TestConfigParseErrorLoggedAsEmpty(t *testing.T) {
	s := newSite(t)
	write(t, filepath.Join(s.addon, "default.yaml"), "keep: kept\n")
	write(t, filepath.Join(s.config, "add-ons", "karma.yaml"), "bad: [unclosed\n")

	log, logs := observedLog()
	cfg := s.resolver(log).Config()

	assert.Equal(t, "kept", cfg["keep"])
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestConfigMemoised(t *testing.T) {
	s := newSite(t)
	write(t, filepath.Join(s.addon, "default.yaml"), "v: first\n")
	r := s.resolver(nil)

	assert.Equal(t, "first", r.Config()["v"])
	write(t, filepath.Join(s.addon, "default.yaml"), "v: second\n")
	assert.Equal(t, "first", r.Config()["v"])

	// callers cannot mutate the memoised document
	cfg := r.Config()
	cfg["v"] = "changed"
	assert.Equal(t, "first", r.Config()["v"])
}

func TestConfigNestedValuesNotShared(t *testing.T) {
	s := newSite(t)
	write(t, filepath.Join(s.addon, "default.yaml"), "api:\n  keys:\n    - one\n    - two\n  timeout: 5\n")
	r := s.resolver(nil)

	api := r.Config()["api"].(map[string]any)
	api["timeout"] = 99
	api["keys"].([]any)[0] = "changed"

	fetched := r.Fetch([]string{"api"}, nil, KeepCase()).(map[string]any)
	assert.Equal(t, []any{"one", "two"}, fetched["keys"])
	again := r.Config()["api"].(map[string]any)
	assert.EqualValues(t, 5, again["timeout"])
	assert.Equal(t, []any{"one", "two"}, again["keys"])
}

func TestConfigPath(t *testing.T) {
	s := newSite(t)
	r := s.resolver(nil)

	_, ok := r.ConfigPath()
	assert.False(t, ok)

	addons := filepath.Join(s.config, "add-ons", "karma")
	require.NoError(t, os.MkdirAll(addons, 0755))
	p, ok := r.ConfigPath()
	require.True(t, ok)
	assert.Equal(t, addons, p)

	bundles := filepath.Join(s.config, "bundles", "karma")
	require.NoError(t, os.MkdirAll(bundles, 0755))
	p, _ = r.ConfigPath()
	assert.Equal(t, bundles, p)
}

func TestLoadConfigFile(t *testing.T) {
	s := newSite(t)
	dir := filepath.Join(s.config, "add-ons", "karma")
	write(t, filepath.Join(dir, "feeds.yaml"), "count: 5\n")
	write(t, filepath.Join(dir, "alt.YML"), "kind: yml\n")
	write(t, filepath.Join(dir, "extra.toml"), "kind = \"toml\"\n")

	r := s.resolver(nil)

	m, err := r.LoadConfigFile("  feeds  ", false, false)
	require.NoError(t, err)
	assert.EqualValues(t, 5, m["count"])

	m, err = r.LoadConfigFile("alt.YML", false, false)
	require.NoError(t, err)
	assert.Equal(t, "yml", m["kind"])

	m, err = r.LoadConfigFile("extra.toml", false, false)
	require.NoError(t, err)
	assert.Equal(t, "toml", m["kind"])
}

func TestLoadConfigFileMissing(t *testing.T) {
	s := newSite(t)
	log, logs := observedLog()
	r := s.resolver(log)

	m, err := r.LoadConfigFile("absent", false, false)
	require.NoError(t, err)
	assert.Empty(t, m)
	assert.Equal(t, 0, logs.Len())

	_, err = r.LoadConfigFile("absent", true, false)
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.DebugLevel).Len())

	_, err = r.LoadConfigFile("absent", false, true)
	var missing *addon.ConfigMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "absent.yaml", missing.Path)

	_, err = r.LoadConfigFile("../secrets", false, false)
	assert.ErrorIs(t, err, addon.ErrPathTraversal)
}

func TestResolverFetch(t *testing.T) {
	s := newSite(t)
	write(t, filepath.Join(s.addon, "default.yaml"), "mode: LIVE\nenabled: \"no\"\n")
	r := s.resolver(nil)

	assert.Equal(t, "live", r.Fetch([]string{"mode"}, nil))
	assert.Equal(t, false, r.Fetch([]string{"enabled"}, true, AsBool()))
	assert.Equal(t, "fallback", r.Fetch([]string{"missing"}, "fallback"))
}
