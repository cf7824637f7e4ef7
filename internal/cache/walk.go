package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"
)

type entryInfo struct {
	rel     string
	path    string
	modTime time.Time
}

// files lists every regular file under sub, following symlinks. A missing
// directory yields no entries.
func (s *Store) files(sub string) ([]entryInfo, error) {
	dir := s.path(sub)
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var (
		mu      sync.Mutex
		entries []entryInfo
	)
	conf := fastwalk.Config{Follow: true}
	err = fastwalk.Walk(&conf, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// entries removed mid-walk are skipped
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}

		fi, err := os.Stat(p)
		if err != nil || !fi.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return nil
		}

		mu.Lock()
		entries = append(entries, entryInfo{rel: filepath.ToSlash(rel), path: p, modTime: fi.ModTime()})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].rel < entries[j].rel })
	return entries, nil
}

// ListAll returns every file under sub relative to it, slash separated and
// sorted.
func (s *Store) ListAll(sub string) ([]string, error) {
	if err := s.validate(sub); err != nil {
		return nil, s.record("list", err)
	}
	entries, err := s.files(sub)
	if err != nil {
		return nil, s.record("list", err)
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.rel
	}
	return names, s.record("list", nil)
}

// ListMatching returns the files under sub whose relative path matches the
// doublestar pattern.
func (s *Store) ListMatching(pattern, sub string) ([]string, error) {
	if err := s.validate(pattern, sub); err != nil {
		return nil, s.record("list", err)
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, s.record("list", doublestar.ErrBadPattern)
	}

	all, err := s.ListAll(sub)
	if err != nil {
		return nil, err
	}
	matched := make([]string, 0, len(all))
	for _, name := range all {
		if ok, _ := doublestar.Match(pattern, name); ok {
			matched = append(matched, name)
		}
	}
	return matched, nil
}

// PurgeOlderThan deletes files under sub last modified at or before now-age
// and returns how many were removed.
func (s *Store) PurgeOlderThan(age time.Duration, sub string) (int, error) {
	cutoff := s.now().Add(-age)
	return s.purge("purge_older_than", sub, func(mod time.Time) bool {
		return !mod.After(cutoff)
	})
}

// PurgeFromBefore deletes files under sub last modified strictly before t
// and returns how many were removed.
func (s *Store) PurgeFromBefore(t time.Time, sub string) (int, error) {
	return s.purge("purge_from_before", sub, func(mod time.Time) bool {
		return mod.Before(t)
	})
}

func (s *Store) purge(op, sub string, expired func(time.Time) bool) (int, error) {
	if err := s.validate(sub); err != nil {
		return 0, s.record(op, err)
	}
	entries, err := s.files(sub)
	if err != nil {
		return 0, s.record(op, err)
	}

	removed := 0
	for _, e := range entries {
		if !expired(e.modTime) {
			continue
		}
		if err := os.Remove(e.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.metrics.RecordPurged(s.addon, removed)
			return removed, s.record(op, err)
		}
		removed++
	}

	if removed > 0 {
		s.log.Debug("Cache purged", zap.String("op", op), zap.String("dir", sub), zap.Int("removed", removed))
	}
	s.metrics.RecordPurged(s.addon, removed)
	return removed, s.record(op, nil)
}
