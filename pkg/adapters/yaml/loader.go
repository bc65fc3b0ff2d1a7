// Package yaml loads flow definitions from YAML files on disk. A directory
// of `*.yaml` files becomes a set of flows keyed by file name; a single
// file becomes a one-flow loader. Files are parsed lazily and cached until
// a Reload or a Watch event invalidates them.
package yaml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sellwise/funnel/pkg/domain"
	"gopkg.in/yaml.v3"
)

// debounceQuiet is the settle window for filesystem events. Editors tend to
// fire several events per save (write, chmod, rename).
const debounceQuiet = 200 * time.Millisecond

// Loader implements ports.FlowLoader and ports.Watchable over a directory
// or single file of YAML flow definitions.
type Loader struct {
	path  string
	isDir bool

	mu    sync.RWMutex
	cache map[string]*domain.Flow
}

// NewLoader creates a loader for a .yaml file or a directory of them.
func NewLoader(path string) (*Loader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("flow path %s: %w", path, err)
	}
	return &Loader{
		path:  path,
		isDir: info.IsDir(),
		cache: make(map[string]*domain.Flow),
	}, nil
}

// GetFlow retrieves a flow definition by id (the file name without
// extension).
func (l *Loader) GetFlow(id string) (*domain.Flow, error) {
	l.mu.RLock()
	flow, ok := l.cache[id]
	l.mu.RUnlock()
	if ok {
		return flow, nil
	}

	file, err := l.resolve(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("flow not found: %s", id)
	}

	flow, err = Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse flow %s: %w", id, err)
	}
	if flow.Name == "" {
		flow.Name = id
	}

	l.mu.Lock()
	l.cache[id] = flow
	l.mu.Unlock()
	return flow, nil
}

// ListFlows returns the ids of all YAML files the loader can see.
func (l *Loader) ListFlows() ([]string, error) {
	if !l.isDir {
		return []string{flowID(l.path)}, nil
	}

	entries, err := os.ReadDir(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to list flows: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if isYAML(entry.Name()) {
			ids = append(ids, flowID(entry.Name()))
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Reload drops the parse cache so the next GetFlow rereads from disk.
func (l *Loader) Reload() {
	l.mu.Lock()
	l.cache = make(map[string]*domain.Flow)
	l.mu.Unlock()
}

// Watch implements ports.Watchable. It signals once per settled burst of
// filesystem changes to YAML files under the loader's path and invalidates
// the cache before each signal.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	dir := l.path
	if !l.isDir {
		dir = filepath.Dir(l.path)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer watcher.Close()

		var timer *time.Timer
		var timerC <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isYAML(event.Name) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(debounceQuiet)
					timerC = timer.C
				} else {
					timer.Reset(debounceQuiet)
				}
			case <-timerC:
				timer, timerC = nil, nil
				l.Reload()
				select {
				case ch <- struct{}{}:
				default: // a signal is already pending
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return ch, nil
}

// Parse decodes a single YAML flow document.
func Parse(data []byte) (*domain.Flow, error) {
	var flow domain.Flow
	if err := yaml.Unmarshal(data, &flow); err != nil {
		return nil, err
	}
	// Fill block IDs from map keys when authors omit them.
	for id, block := range flow.Blocks {
		if block.ID == "" {
			block.ID = id
			flow.Blocks[id] = block
		}
	}
	return &flow, nil
}

func (l *Loader) resolve(id string) (string, error) {
	if !l.isDir {
		if flowID(l.path) != id {
			return "", fmt.Errorf("flow not found: %s", id)
		}
		return l.path, nil
	}

	for _, ext := range []string{".yaml", ".yml"} {
		candidate := filepath.Join(l.path, id+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("flow not found: %s", id)
}

func flowID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
