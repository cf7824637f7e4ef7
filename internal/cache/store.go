package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/GriffinCanCode/addonkit/internal/addon"
	"github.com/GriffinCanCode/addonkit/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/addonkit/internal/logging"
	"github.com/GriffinCanCode/addonkit/internal/shared/document"
	"go.uber.org/zap"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Store is one addon's cache namespace
type Store struct {
	addon   string
	root    string
	nameErr error

	log     *logging.AddonLogger
	metrics *monitoring.Metrics
	now     func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for rejected paths and failures
func WithLogger(l *logging.AddonLogger) Option {
	return func(s *Store) { s.log = l }
}

// WithMetrics enables operation metrics
func WithMetrics(m *monitoring.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithClock replaces the clock used for ages and purges
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates the cache namespace of addonName under cacheRoot
func New(cacheRoot, addonName string, opts ...Option) *Store {
	s := &Store{
		addon:   addonName,
		root:    filepath.Join(cacheRoot, addonName),
		nameErr: addon.ValidateName(addonName),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logging.NewNop().ForAddon("cache", addonName)
	}
	return s
}

// Root returns the namespace directory
func (s *Store) Root() string {
	return s.root
}

// validate rejects any name containing "..". It runs before every filesystem
// access.
func (s *Store) validate(names ...string) error {
	if s.nameErr != nil {
		return s.nameErr
	}
	for _, name := range names {
		if strings.Contains(name, "..") {
			s.log.Error("Cache path cannot contain '..'", zap.String("path", name))
			return &addon.PathTraversalError{Path: name}
		}
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

func (s *Store) record(op string, err error) error {
	s.metrics.RecordCacheOp(s.addon, op, err)
	if err != nil && !errors.Is(err, addon.ErrPathTraversal) {
		s.log.Warn("Cache operation failed", zap.String("op", op), zap.Error(err))
	}
	return err
}

// Exists reports whether the entry exists
func (s *Store) Exists(name string) (bool, error) {
	if err := s.validate(name); err != nil {
		return false, s.record("exists", err)
	}
	_, err := os.Stat(s.path(name))
	if err == nil {
		return true, s.record("exists", nil)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, s.record("exists", nil)
	}
	return false, s.record("exists", err)
}

// Get returns the entry's contents, or def when it does not exist
func (s *Store) Get(name string, def []byte) ([]byte, error) {
	if err := s.validate(name); err != nil {
		return def, s.record("get", err)
	}
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return def, s.record("get", nil)
		}
		return def, s.record("get", err)
	}
	return data, s.record("get", nil)
}

// Put writes the entry, creating parent directories as needed
func (s *Store) Put(name string, data []byte) error {
	if err := s.validate(name); err != nil {
		return s.record("put", err)
	}
	return s.record("put", s.write(s.path(name), data))
}

func (s *Store) write(target string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	if err := os.WriteFile(target, data, filePerm); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Append adds data to the end of the entry, creating it if missing
func (s *Store) Append(name string, data []byte) error {
	if err := s.validate(name); err != nil {
		return s.record("append", err)
	}

	target := s.path(name)
	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return s.record("append", fmt.Errorf("create cache directory: %w", err))
	}
	f, err := os.OpenFile(target, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return s.record("append", err)
	}
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return s.record("append", err)
}

// Prepend adds data to the start of the entry, creating it if missing
func (s *Store) Prepend(name string, data []byte) error {
	if err := s.validate(name); err != nil {
		return s.record("prepend", err)
	}

	target := s.path(name)
	existing, err := os.ReadFile(target)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return s.record("prepend", err)
	}
	combined := make([]byte, 0, len(data)+len(existing))
	combined = append(combined, data...)
	combined = append(combined, existing...)
	return s.record("prepend", s.write(target, combined))
}

// Move renames an entry within the namespace
func (s *Store) Move(oldName, newName string) error {
	if err := s.validate(oldName, newName); err != nil {
		return s.record("move", err)
	}

	target := s.path(newName)
	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return s.record("move", fmt.Errorf("create cache directory: %w", err))
	}
	return s.record("move", os.Rename(s.path(oldName), target))
}

// Copy duplicates an entry within the namespace
func (s *Store) Copy(oldName, newName string) error {
	if err := s.validate(oldName, newName); err != nil {
		return s.record("copy", err)
	}

	data, err := os.ReadFile(s.path(oldName))
	if err != nil {
		return s.record("copy", err)
	}
	return s.record("copy", s.write(s.path(newName), data))
}

// Delete removes an entry. Deleting a missing entry is not an error.
func (s *Store) Delete(name string) error {
	if err := s.validate(name); err != nil {
		return s.record("delete", err)
	}
	err := os.Remove(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		err = nil
	}
	return s.record("delete", err)
}

// Destroy recursively removes sub, or the whole namespace when sub is empty
func (s *Store) Destroy(sub string) error {
	if err := s.validate(sub); err != nil {
		return s.record("destroy", err)
	}
	return s.record("destroy", os.RemoveAll(s.path(sub)))
}

// Age returns how long ago the entry was last modified. The bool is false
// when the entry does not exist.
func (s *Store) Age(name string) (time.Duration, bool, error) {
	if err := s.validate(name); err != nil {
		return 0, false, s.record("age", err)
	}
	info, err := os.Stat(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, false, s.record("age", nil)
		}
		return 0, false, s.record("age", err)
	}
	return s.now().Sub(info.ModTime()), true, s.record("age", nil)
}

// GetStructured decodes the entry as a document, or returns def when it does
// not exist. The format follows the name's extension: YAML by default, JSON
// for .json and TOML for .toml.
func (s *Store) GetStructured(name string, def document.Mapping) (document.Mapping, error) {
	data, err := s.Get(name, nil)
	if err != nil {
		return def, err
	}
	if data == nil {
		return def, nil
	}
	m, err := document.Decode(document.FormatFor(name), data)
	if err != nil {
		return def, s.record("get_structured", err)
	}
	return m, nil
}

// PutStructured encodes m in the format implied by name and stores it
func (s *Store) PutStructured(name string, m document.Mapping) error {
	data, err := document.Encode(document.FormatFor(name), m)
	if err != nil {
		return s.record("put_structured", err)
	}
	return s.Put(name, data)
}
