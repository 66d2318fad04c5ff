package file

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/beevik/etree"
	"github.com/fsnotify/fsnotify"
	"github.com/woq-blended/hawtio-integration/internal/logging"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 100 * time.Millisecond

// Source implements ports.WatchableSource over a route XML file.
type Source struct {
	Path     string
	debounce time.Duration
	logger   *slog.Logger
}

type Option func(*Source)

// WithDebounce sets the quiet period before a change is signaled.
func WithDebounce(d time.Duration) Option {
	return func(s *Source) {
		s.debounce = d
	}
}

// WithLogger sets the logger for watch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

// New creates a Source reading the file at path.
func New(path string, opts ...Option) *Source {
	s := &Source{
		Path:     path,
		debounce: DefaultDebounce,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads and parses the file.
func (s *Source) Load(ctx context.Context) (*etree.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read routes file: %w", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidXML, s.Path, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: %s: empty document", domain.ErrInvalidXML, s.Path)
	}
	return doc, nil
}

// Save writes the document back atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Source) Save(ctx context.Context, doc *etree.Document) error {
	if doc == nil || doc.Root() == nil {
		return errors.New("document has no root element")
	}
	data, err := doc.WriteToBytes()
	if err != nil {
		return fmt.Errorf("failed to serialize routes: %w", err)
	}

	dir := filepath.Dir(s.Path)
	// same directory keeps the rename on one filesystem
	tmpFile, err := os.CreateTemp(dir, "tmp-"+filepath.Base(s.Path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// cannot rename an open file on Windows
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if info, err := os.Stat(s.Path); err == nil {
		_ = os.Chmod(tmpPath, info.Mode().Perm())
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("failed to replace routes file: %w", err)
	}
	return nil
}

// Watch signals on the returned channel whenever the file is written, created or
// replaced. The directory is watched so atomic renames by editors are seen.
// The channel is closed when ctx is done.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	abs, err := filepath.Abs(s.Path)
	if err != nil {
		_ = watcher.Close()
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	out := make(chan struct{}, 1)
	go s.loop(ctx, watcher, abs, out)
	return out, nil
}

func (s *Source) loop(ctx context.Context, watcher *fsnotify.Watcher, path string, out chan<- struct{}) {
	defer close(out)
	defer watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			s.logger.Debug("routes file event", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				timer.Reset(s.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			select {
			case out <- struct{}{}:
			default:
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("routes watcher error", "err", err)
		}
	}
}
