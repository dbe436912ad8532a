package prompt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/PabloGalante/whiski-agent/internal/observability"
)

const reloadDebounce = 100 * time.Millisecond

// FileTemplate is a Template read from disk and reloaded when the file
// changes. A reload that drops a placeholder is kept, so Render reports a
// TemplateError until the file is fixed.
type FileTemplate struct {
	name     string
	path     string
	required []string

	mu      sync.RWMutex
	current *Template

	debounceMu sync.Mutex
	debounce   *time.Timer
}

// LoadFile reads and validates the template at path.
func LoadFile(name, path string, required ...string) (*FileTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}
	t, err := Parse(name, string(data), required...)
	if err != nil {
		return nil, err
	}
	return &FileTemplate{
		name:     name,
		path:     path,
		required: required,
		current:  t,
	}, nil
}

// Render implements Renderer with the latest loaded source.
func (f *FileTemplate) Render(vars Vars) (string, error) {
	f.mu.RLock()
	t := f.current
	f.mu.RUnlock()
	return t.Render(vars)
}

// Reload re-reads the file.
func (f *FileTemplate) Reload() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("read template %s: %w", f.path, err)
	}
	t := New(f.name, string(data), f.required...)

	log := observability.Logger().With("template", f.name, "path", f.path)
	if err := t.validate(); err != nil {
		log.Warn("reloaded template is invalid", "error", err)
	} else {
		log.Info("template reloaded")
	}

	f.mu.Lock()
	f.current = t
	f.mu.Unlock()
	return nil
}

// Watch reloads the template whenever its file is written, until ctx is done.
func (f *FileTemplate) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", f.path, err)
	}

	go f.watchLoop(ctx, watcher)
	return nil
}

func (f *FileTemplate) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()
	base := filepath.Base(f.path)

	for {
		select {
		case <-ctx.Done():
			f.debounceMu.Lock()
			if f.debounce != nil {
				f.debounce.Stop()
			}
			f.debounceMu.Unlock()
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			f.scheduleReload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			observability.Logger().Error("template watcher error", "path", f.path, "error", err)
		}
	}
}

func (f *FileTemplate) scheduleReload() {
	f.debounceMu.Lock()
	defer f.debounceMu.Unlock()

	if f.debounce != nil {
		f.debounce.Stop()
	}
	f.debounce = time.AfterFunc(reloadDebounce, func() {
		if err := f.Reload(); err != nil {
			observability.Logger().Error("template reload failed", "path", f.path, "error", err)
		}
	})
}
