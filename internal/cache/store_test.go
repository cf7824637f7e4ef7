package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/GriffinCanCode/addonkit/internal/addon"
	"github.com/GriffinCanCode/addonkit/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/addonkit/internal/logging"
	"github.com/GriffinCanCode/addonkit/internal/shared/document"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var epoch = time.Unix(1_700_000_000, 0)

func newStore(t *testing.T, opts ...Option) (*Store, string) {
	t.Helper()
	root := t.TempDir()
	opts = append([]Option{WithClock(func() time.Time { return epoch })}, opts...)
	return New(root, "karma", opts...), root
}

func touch(t *testing.T, s *Store, name string, mod time.Time) {
	t.Helper()
	require.NoError(t, s.Put(name, []byte(name)))
	require.NoError(t, os.Chtimes(s.path(name), mod, mod))
}

func TestPutGetExists(t *testing.T) {
	s, root := newStore(t)
	assert.Equal(t, filepath.Join(root, "karma"), s.Root())

	ok, err := s.Exists("votes/entry-1")
	require.NoError(t, err)
	assert.False(t, ok)

	data, err := s.Get("votes/entry-1", []byte("none"))
	require.NoError(t, err)
	assert.Equal(t, "none", string(data))

	require.NoError(t, s.Put("votes/entry-1", []byte("12")))

	ok, err = s.Exists("votes/entry-1")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err = s.Get("votes/entry-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "12", string(data))

	_, err = os.Stat(filepath.Join(root, "karma", "votes", "entry-1"))
	assert.NoError(t, err)
}

func TestNamespacesAreIsolated(t *testing.T) {
	root := t.TempDir()
	a := New(root, "karma")
	b := New(root, "twitter")

	require.NoError(t, a.Put("shared", []byte("a")))

	ok, err := b.Exists("shared")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAppendPrepend(t *testing.T) {
	s, _ := newStore(t)

	require.NoError(t, s.Append("log", []byte("b")))
	require.NoError(t, s.Append("log", []byte("c")))
	require.NoError(t, s.Prepend("log", []byte("a")))
	require.NoError(t, s.Prepend("fresh/log", []byte("x")))

	data, err := s.Get("log", nil)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	data, err = s.Get("fresh/log", nil)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestMoveCopyDelete(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.Put("a", []byte("1")))

	require.NoError(t, s.Copy("a", "dir/b"))
	require.NoError(t, s.Move("a", "dir/c"))

	ok, _ := s.Exists("a")
	assert.False(t, ok)

	for _, name := range []string{"dir/b", "dir/c"} {
		data, err := s.Get(name, nil)
		require.NoError(t, err)
		assert.Equal(t, "1", string(data))
	}

	require.NoError(t, s.Delete("dir/b"))
	require.NoError(t, s.Delete("dir/b"))
	ok, _ = s.Exists("dir/b")
	assert.False(t, ok)

	assert.Error(t, s.Copy("missing", "x"))
}

func TestPathTraversalRejected(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := (&logging.Logger{Logger: zap.New(core)}).ForAddon("plugin", "karma")
	s, root := newStore(t, WithLogger(log))

	// a file just outside the namespace that must stay untouched
	outside := filepath.Join(root, "secret")
	require.NoError(t, os.WriteFile(outside, []byte("s"), 0644))

	calls := map[string]func() error{
		"put":      func() error { return s.Put("../secret", []byte("x")) },
		"get":      func() error { _, err := s.Get("../secret", nil); return err },
		"exists":   func() error { _, err := s.Exists("a/../../secret"); return err },
		"delete":   func() error { return s.Delete("../secret") },
		"append":   func() error { return s.Append("..", nil) },
		"prepend":  func() error { return s.Prepend("x/..", nil) },
		"move src": func() error { return s.Move("../secret", "ok") },
		"move dst": func() error { return s.Move("ok", "../stolen") },
		"copy":     func() error { return s.Copy("../secret", "ok") },
		"list":     func() error { _, err := s.ListAll(".."); return err },
		"purge":    func() error { _, err := s.PurgeOlderThan(0, "../"); return err },
		"destroy":  func() error { return s.Destroy("..") },
		"age":      func() error { _, _, err := s.Age("../secret"); return err },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			assert.ErrorIs(t, err, addon.ErrPathTraversal)
		})
	}

	data, err := os.ReadFile(outside)
	require.NoError(t, err)
	assert.Equal(t, "s", string(data))
	_, err = os.Stat(filepath.Join(root, "karma"))
	assert.True(t, os.IsNotExist(err), "no filesystem access on rejected names")
	assert.Equal(t, len(calls), logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestInvalidAddonName(t *testing.T) {
	s := New(t.TempDir(), "..")
	err := s.Put("x", nil)
	assert.Error(t, err)
}

func TestListAll(t *testing.T) {
	s, _ := newStore(t)

	names, err := s.ListAll("")
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, name := range []string{"b", "a/1", "a/2", "a/deep/3"} {
		require.NoError(t, s.Put(name, []byte("x")))
	}

	names, err = s.ListAll("")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/1", "a/2", "a/deep/3", "b"}, names)

	names, err = s.ListAll("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "deep/3"}, names)

	names, err = s.ListAll("missing")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestListAllFollowsSymlinks(t *testing.T) {
	s, root := newStore(t)
	require.NoError(t, s.Put("own", []byte("x")))

	external := filepath.Join(root, "external")
	require.NoError(t, os.MkdirAll(external, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(external, "linked"), []byte("y"), 0644))
	if err := os.Symlink(external, filepath.Join(s.Root(), "ext")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	names, err := s.ListAll("")
	require.NoError(t, err)
	assert.Equal(t, []string{"ext/linked", "own"}, names)
}

func TestListMatching(t *testing.T) {
	s, _ := newStore(t)
	for _, name := range []string{"feeds/a.json", "feeds/b.yaml", "feeds/sub/c.json", "other.json"} {
		require.NoError(t, s.Put(name, []byte("x")))
	}

	names, err := s.ListMatching("**/*.json", "feeds")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "sub/c.json"}, names)

	names, err = s.ListMatching("*.json", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"other.json"}, names)

	_, err = s.ListMatching("[", "")
	assert.Error(t, err)
}

func TestAge(t *testing.T) {
	s, _ := newStore(t)
	touch(t, s, "entry", epoch.Add(-90*time.Second))

	age, ok, err := s.Age("entry")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 90*time.Second, age)

	_, ok, err = s.Age("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPurgeOlderThanBoundaryIsInclusive(t *testing.T) {
	s, _ := newStore(t)
	const n = 60 * time.Second

	touch(t, s, "dir/at-boundary", epoch.Add(-n))
	touch(t, s, "dir/older", epoch.Add(-n-time.Second))
	touch(t, s, "dir/newer", epoch.Add(-n+time.Second))

	removed, err := s.PurgeOlderThan(n, "dir")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	names, err := s.ListAll("dir")
	require.NoError(t, err)
	assert.Equal(t, []string{"newer"}, names)
}

func TestPurgeFromBeforeBoundaryIsStrict(t *testing.T) {
	s, _ := newStore(t)
	cutoff := epoch.Add(-time.Hour)

	touch(t, s, "at", cutoff)
	touch(t, s, "before", cutoff.Add(-time.Second))
	touch(t, s, "after", cutoff.Add(time.Second))

	removed, err := s.PurgeFromBefore(cutoff, "")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	names, err := s.ListAll("")
	require.NoError(t, err)
	assert.Equal(t, []string{"after", "at"}, names)
}

func TestPurgeMissingDirectoryIsNoop(t *testing.T) {
	s, _ := newStore(t)

	removed, err := s.PurgeOlderThan(time.Second, "nope")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	removed, err = s.PurgeFromBefore(epoch, "nope")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestDestroy(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.Put("keep/a", []byte("x")))
	require.NoError(t, s.Put("drop/a", []byte("x")))
	require.NoError(t, s.Put("drop/deep/b", []byte("x")))

	require.NoError(t, s.Destroy("drop"))
	names, err := s.ListAll("")
	require.NoError(t, err)
	assert.Equal(t, []string{"keep/a"}, names)

	require.NoError(t, s.Destroy(""))
	names, err = s.ListAll("")
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, s.Destroy("never-existed"))
}

func TestStructured(t *testing.T) {
	s, _ := newStore(t)

	def := document.Mapping{"default": true}
	got, err := s.GetStructured("feed.yaml", def)
	require.NoError(t, err)
	assert.Equal(t, def, got)

	for _, name := range []string{"feed.yaml", "feed.json", "feed.toml"} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.PutStructured(name, document.Mapping{"title": "Hello"}))
			got, err := s.GetStructured(name, nil)
			require.NoError(t, err)
			assert.Equal(t, "Hello", got["title"])
		})
	}

	require.NoError(t, s.Put("broken.json", []byte("{nope")))
	got, err = s.GetStructured("broken.json", def)
	assert.Error(t, err)
	assert.Equal(t, def, got)
}

func TestMetricsRecorded(t *testing.T) {
	m := monitoring.NewMetrics(prometheus.NewRegistry())
	s, _ := newStore(t, WithMetrics(m))

	touch(t, s, "old", epoch.Add(-time.Hour))
	_, err := s.PurgeOlderThan(time.Minute, "")
	require.NoError(t, err)
	_ = s.Put("../x", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CachePurged.WithLabelValues("karma")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheErrors.WithLabelValues("karma", "put")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheOps.WithLabelValues("karma", "put")))
}
