package sqlstore

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/hugo-lorenzo-mato/docfix/internal/core"
	"github.com/hugo-lorenzo-mato/docfix/internal/fsutil"
)

//go:embed statements/*.sql
var embeddedStatements embed.FS

const statementExt = ".sql"

// Registry resolves statement names to SQL text. Files in the override
// directory win over the embedded defaults. Resolved text is cached until
// the file changes or Invalidate is called.
type Registry struct {
	dir    string
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[string]string

	watcher *fsnotify.Watcher
	doneCh  chan struct{}
}

// NewRegistry creates a registry. dir may be empty to use only the embedded
// statements.
func NewRegistry(dir string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		dir:    dir,
		logger: logger,
		cache:  make(map[string]string),
	}
}

// Get returns the SQL text for name.
func (r *Registry) Get(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	r.mu.RLock()
	text, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return text, nil
	}

	text, source, err := r.load(name)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.cache[name] = text
	r.mu.Unlock()

	r.logger.Debug("statement loaded",
		slog.String("statement", name),
		slog.String("source", source),
	)
	return text, nil
}

func (r *Registry) load(name string) (text, source string, err error) {
	file := name + statementExt
	if r.dir != "" {
		path := filepath.Join(r.dir, file)
		data, err := fsutil.ReadInDir(r.dir, file)
		switch {
		case err == nil:
			return string(data), path, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", "", fmt.Errorf("reading statement %s: %w", path, err)
		}
	}

	data, err := embeddedStatements.ReadFile("statements/" + file)
	if err != nil {
		return "", "", core.ErrNotFound("statement", name).WithCause(err)
	}
	return string(data), "embedded", nil
}

// Names lists every statement available from either source.
func (r *Registry) Names() []string {
	seen := make(map[string]struct{})
	collect := func(entries []fs.DirEntry) {
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), statementExt) {
				continue
			}
			seen[strings.TrimSuffix(e.Name(), statementExt)] = struct{}{}
		}
	}
	if entries, err := embeddedStatements.ReadDir("statements"); err == nil {
		collect(entries)
	}
	if r.dir != "" {
		if entries, err := os.ReadDir(r.dir); err == nil {
			collect(entries)
		}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Invalidate drops the cached text of name.
func (r *Registry) Invalidate(name string) {
	r.mu.Lock()
	delete(r.cache, name)
	r.mu.Unlock()
}

// InvalidateAll empties the cache.
func (r *Registry) InvalidateAll() {
	r.mu.Lock()
	r.cache = make(map[string]string)
	r.mu.Unlock()
}

// Watch invalidates cached statements when their override files change. It
// returns once the watcher is installed; events are handled until ctx is
// done or Close is called.
func (r *Registry) Watch(ctx context.Context) error {
	if r.dir == "" {
		return core.ErrConfig("statements.watch requires statements.dir")
	}

	r.mu.Lock()
	if r.watcher != nil {
		r.mu.Unlock()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		r.mu.Unlock()
		return fmt.Errorf("creating statement watcher: %w", err)
	}
	if err := watcher.Add(r.dir); err != nil {
		r.mu.Unlock()
		_ = watcher.Close()
		return fmt.Errorf("watching %s: %w", r.dir, err)
	}
	r.watcher = watcher
	r.doneCh = make(chan struct{})
	r.mu.Unlock()

	r.logger.Info("watching statements", slog.String("dir", r.dir))
	go r.run(ctx, watcher, r.doneCh)
	return nil
}

func (r *Registry) run(ctx context.Context, watcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			r.handleEvent(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			r.logger.Warn("statement watcher error", slog.String("error", err.Error()))
		}
	}
}

func (r *Registry) handleEvent(event fsnotify.Event) {
	base := filepath.Base(event.Name)
	if !strings.HasSuffix(base, statementExt) {
		return
	}
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}
	name := strings.TrimSuffix(base, statementExt)
	r.Invalidate(name)
	r.logger.Info("statement changed",
		slog.String("statement", name),
		slog.String("op", event.Op.String()),
	)
}

// Close stops the watcher, if any.
func (r *Registry) Close() error {
	r.mu.Lock()
	watcher, done := r.watcher, r.doneCh
	r.watcher, r.doneCh = nil, nil
	r.mu.Unlock()

	if watcher == nil {
		return nil
	}
	err := watcher.Close()
	<-done
	return err
}

func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return core.ErrValidation(core.CodeUnknownStatement, fmt.Sprintf("invalid statement name %q", name))
	}
	return nil
}
