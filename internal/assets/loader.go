package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/floorview/internal/engine/scene"
)

// Result is the outcome of an asynchronous load.
type Result struct {
	Root *scene.Node
	Err  error
}

// entry is one memoized load. ready is closed once root or err is set.
type entry struct {
	ready chan struct{}
	root  *scene.Node
	err   error
}

// Loader resolves model paths to node trees. Each path is read and parsed
// once; concurrent callers share the in-flight load, and every caller gets
// its own clone of the tree. Failures are memoized too until Invalidate.
type Loader struct {
	read    func(path string) ([]byte, error)
	entries map[string]*entry
	mu      sync.Mutex
	log     *zap.Logger

	// Stats
	hits   int
	misses int
}

// NewLoader creates a loader reading from the filesystem.
func NewLoader(log *zap.Logger) *Loader {
	return NewLoaderFunc(os.ReadFile, log)
}

// NewLoaderFunc creates a loader with a custom reader.
func NewLoaderFunc(read func(path string) ([]byte, error), log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		read:    read,
		entries: make(map[string]*entry),
		log:     log,
	}
}

// Load returns a private copy of the model at path, waiting for the first
// load of that path to finish.
func (l *Loader) Load(ctx context.Context, path string) (*scene.Node, error) {
	e := l.lookup(filepath.Clean(path))
	select {
	case <-e.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if e.err != nil {
		return nil, e.err
	}
	return e.root.Clone(), nil
}

// LoadAsync starts Load in the background. The channel receives exactly
// one result.
func (l *Loader) LoadAsync(ctx context.Context, path string) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		root, err := l.Load(ctx, path)
		ch <- Result{Root: root, Err: err}
	}()
	return ch
}

// Invalidate forgets the memoized load of path so the next Load reads it
// again.
func (l *Loader) Invalidate(path string) {
	path = filepath.Clean(path)
	l.mu.Lock()
	delete(l.entries, path)
	l.mu.Unlock()
	l.log.Debug("model invalidated", zap.String("path", path))
}

// Stats returns memoization statistics.
func (l *Loader) Stats() (hits, misses int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hits, l.misses
}

func (l *Loader) lookup(path string) *entry {
	l.mu.Lock()
	e, ok := l.entries[path]
	if ok {
		l.hits++
		l.mu.Unlock()
		return e
	}
	l.misses++
	e = &entry{ready: make(chan struct{})}
	l.entries[path] = e
	l.mu.Unlock()

	go l.fill(path, e)
	return e
}

func (l *Loader) fill(path string, e *entry) {
	defer close(e.ready)

	data, err := l.read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %s", ErrAssetNotFound, path)
		} else {
			err = fmt.Errorf("reading model %s: %w", path, err)
		}
		e.err = err
		l.log.Warn("model load failed", zap.String("path", path), zap.Error(err))
		return
	}

	root, err := ParseModel(data)
	if err != nil {
		e.err = fmt.Errorf("parsing model %s: %w", path, err)
		l.log.Warn("model parse failed", zap.String("path", path), zap.Error(err))
		return
	}

	e.root = root
	l.log.Info("model loaded",
		zap.String("path", path),
		zap.String("name", root.Name),
		zap.Int("leaves", len(root.Leaves())),
	)
}
