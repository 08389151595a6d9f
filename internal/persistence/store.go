// Package persistence keeps the event collection in a JSON file and handles
// import and export of the flat record list.
//
// Writes go to a temporary file that is renamed over the target so a crash
// mid-save never leaves a truncated collection behind.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/iburimskiy/survival-singularity/internal/event"
	"github.com/iburimskiy/survival-singularity/internal/logger"
	"github.com/iburimskiy/survival-singularity/internal/metrics"
)

const (
	defaultFilePerm os.FileMode = 0o644
	defaultDirPerm  os.FileMode = 0o755
)

// Option configures a FileStore.
type Option func(*FileStore)

// WithSeedDefaults loads the built-in events when no usable collection
// exists.
func WithSeedDefaults(seed bool) Option {
	return func(s *FileStore) { s.seed = seed }
}

func WithLogger(l logger.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m *metrics.Manager) Option {
	return func(s *FileStore) { s.metrics = m }
}

// WithPermissions sets the mode of written files and created directories.
func WithPermissions(file, dir os.FileMode) Option {
	return func(s *FileStore) {
		s.filePerm = file
		s.dirPerm = dir
	}
}

// FileStore persists the collection to a single JSON file.
type FileStore struct {
	path     string
	seed     bool
	filePerm os.FileMode
	dirPerm  os.FileMode
	log      logger.Logger
	metrics  *metrics.Manager
	mu       sync.Mutex
}

// NewFileStore returns a store writing to path. An empty path uses
// "singularity/events.json" under the user config directory, or the temp
// directory when that is unknown.
func NewFileStore(path string, opts ...Option) *FileStore {
	if path == "" {
		path = DefaultPath()
	}
	s := &FileStore{
		path:     path,
		seed:     true,
		filePerm: defaultFilePerm,
		dirPerm:  defaultDirPerm,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultPath is where the collection lives when no path is configured.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "singularity", "events.json")
}

// Path returns the collection file.
func (s *FileStore) Path() string { return s.path }

// Load reads the collection. When the file does not exist the defaults are
// returned and written. When it exists but cannot be read, the defaults (or
// an empty list without seeding) are returned together with an error
// wrapping ErrPersistence, so callers always have something to show.
func (s *FileStore) Load(ctx context.Context) ([]event.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tempPath := s.path + ".tmp"
	if _, err := os.Stat(tempPath); err == nil {
		_ = os.Remove(tempPath)
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Info(ctx, "no saved events, starting fresh", logger.String("path", s.path))
		records := s.fallback(ctx)
		if len(records) > 0 {
			if err := s.write(records); err != nil {
				s.fail(ctx, "save", err)
			}
		}
		return records, nil
	}
	if err != nil {
		s.fail(ctx, "load", err)
		return s.fallback(ctx), fmt.Errorf("read %s: %v: %w", s.path, err, ErrPersistence)
	}

	records, err := Decode(data, JSON)
	if err != nil {
		s.fail(ctx, "load", err)
		return s.fallback(ctx), fmt.Errorf("decode %s: %v: %w", s.path, err, ErrPersistence)
	}

	assigned := false
	for i := range records {
		if records[i].ID == "" {
			records[i].EnsureID()
			assigned = true
		}
	}
	if assigned {
		if err := s.write(records); err != nil {
			s.fail(ctx, "save", err)
		}
	}

	s.log.Info(ctx, "events loaded", logger.Int("count", len(records)), logger.String("path", s.path))
	return records, nil
}

// Save replaces the stored collection.
func (s *FileStore) Save(ctx context.Context, records []event.Record) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("save: %v: %w", err, ErrPersistence)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(records); err != nil {
		s.fail(ctx, "save", err)
		return err
	}
	s.log.Debug(ctx, "events saved", logger.Int("count", len(records)))
	return nil
}

// Export writes records to path as JSON, or YAML for .yaml/.yml paths.
func (s *FileStore) Export(ctx context.Context, path string, records []event.Record) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("export: %v: %w", err, ErrPersistence)
	}
	format := FormatFromPath(path)
	data, err := Encode(records, format)
	if err != nil {
		s.fail(ctx, "export", err)
		return fmt.Errorf("export: %v: %w", err, ErrPersistence)
	}
	if err := os.WriteFile(path, data, s.filePerm); err != nil {
		s.fail(ctx, "export", err)
		return fmt.Errorf("export %s: %v: %w", path, err, ErrPersistence)
	}
	s.log.Info(ctx, "events exported",
		logger.String("path", path),
		logger.String("format", format.String()),
		logger.Int("count", len(records)),
	)
	return nil
}

func (s *FileStore) write(records []event.Record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), s.dirPerm); err != nil {
		return fmt.Errorf("create data directory: %v: %w", err, ErrPersistence)
	}
	data, err := Encode(records, JSON)
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrPersistence)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, s.filePerm); err != nil {
		return fmt.Errorf("write %s: %v: %w", tempPath, err, ErrPersistence)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("rename %s: %v: %w", tempPath, err, ErrPersistence)
	}
	return nil
}

func (s *FileStore) fallback(ctx context.Context) []event.Record {
	if !s.seed {
		return []event.Record{}
	}
	records, err := Defaults()
	if err != nil {
		s.log.Error(ctx, "built-in events unusable", logger.Error(err))
		return []event.Record{}
	}
	return records
}

func (s *FileStore) fail(ctx context.Context, op string, err error) {
	s.log.Error(ctx, "persistence "+op+" failed", logger.String("path", s.path), logger.Error(err))
	s.metrics.RecordPersistenceFailure(op)
}
