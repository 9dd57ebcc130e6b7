package preprocessing

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"campus-steps-server/observability"
	"campus-steps-server/routing"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// RELOAD_DEBOUNCE groups the burst of events an editor produces on save.
const RELOAD_DEBOUNCE = 500 * time.Millisecond

// Store owns the classroom graph. The graph is built on first access and
// then shared read-only; it is only replaced by an explicit Reload.
type Store struct {
	path string

	once    sync.Once
	initErr error
	graph   atomic.Pointer[routing.Graph]

	reloadMu sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// NewStoreFromGraph wraps an already built graph, mostly for tests.
func NewStoreFromGraph(g *routing.Graph) *Store {
	s := &Store{}
	s.graph.Store(g)
	s.once.Do(func() {})
	return s
}

func (s *Store) Path() string { return s.path }

// Graph returns the cached graph, loading it on the first call. A failed
// first load is remembered and returned on every later call.
func (s *Store) Graph() (*routing.Graph, error) {
	s.once.Do(func() {
		logger := observability.GetLogger()
		logger.Info("Loading classroom graph", zap.String("path", s.path))
		g, err := Load(s.path)
		if err != nil {
			s.initErr = err
			return
		}
		s.graph.Store(g)
		logger.Info("Classroom graph loaded",
			zap.Int("rooms", len(g.Nodes)),
			zap.Int("corridors", g.EdgeCount()))
	})
	if s.initErr != nil {
		return nil, s.initErr
	}
	return s.graph.Load(), nil
}

// Rooms returns the sorted room list of the current graph.
func (s *Store) Rooms() ([]string, error) {
	g, err := s.Graph()
	if err != nil {
		return nil, err
	}
	return g.SortedNodes(), nil
}

// Reload rebuilds the graph from the dataset and swaps it in. When the new
// load fails the previous graph stays in service.
func (s *Store) Reload() error {
	if _, err := s.Graph(); err != nil {
		return err
	}
	if s.path == "" {
		return fmt.Errorf("store has no dataset path")
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	g, err := Load(s.path)
	if err != nil {
		return err
	}
	s.graph.Store(g)
	observability.GetLogger().Info("Classroom graph reloaded",
		zap.String("path", s.path),
		zap.Int("rooms", len(g.Nodes)),
		zap.Int("corridors", g.EdgeCount()))
	return nil
}

// Watch reloads the graph whenever the dataset file changes. It blocks
// until ctx is cancelled.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(s.path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", s.path, err)
	}
	// Watch the directory: editors often replace the file instead of writing it.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}

	logger := observability.GetLogger()
	logger.Info("Watching dataset for changes", zap.String("path", target))

	reloadTimer := time.NewTimer(RELOAD_DEBOUNCE)
	reloadTimer.Stop()
	defer reloadTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			reloadTimer.Reset(RELOAD_DEBOUNCE)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Dataset watch error", zap.Error(err))

		case <-reloadTimer.C:
			if err := s.Reload(); err != nil {
				logger.Error("Dataset reload failed, keeping previous graph", zap.Error(err))
			}
		}
	}
}
