package store

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/yakoovad/flowcraft/internal/model"
	"github.com/yakoovad/flowcraft/pkg/logger"
	"go.uber.org/zap"
)

// Fetcher loads a workspace snapshot from the server of record.
type Fetcher interface {
	FetchWorkspace(ctx context.Context, workspaceID string) (*model.Workspace, error)
}

// Store keeps the currently selected workspace and pushes changes to subscribers.
type Store struct {
	mu      sync.RWMutex
	current *model.Workspace
	subs    map[uint64]func(*model.Workspace)
	nextID  uint64

	// notifyMu serializes deliveries so subscribers observe snapshots in Set order.
	notifyMu sync.Mutex
}

func New() *Store {
	return &Store{subs: make(map[uint64]func(*model.Workspace))}
}

func (s *Store) Current() *model.Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// Set replaces the current snapshot and notifies subscribers synchronously.
// A nil workspace means no workspace is selected.
func (s *Store) Set(ws *model.Workspace) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.current = ws
	subs := make([]func(*model.Workspace), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(ws)
	}
}

// Subscribe delivers the current snapshot to fn, then every later Set.
// The first delivery is ordered with concurrent Sets, so fn never sees an
// older snapshot after a newer one. The returned func is idempotent.
func (s *Store) Subscribe(fn func(*model.Workspace)) func() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	current := s.current
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Refresh fetches the workspace and publishes it. On error the current snapshot is kept.
func (s *Store) Refresh(ctx context.Context, f Fetcher, workspaceID string) error {
	l := logger.FromContext(ctx)

	ws, err := f.FetchWorkspace(ctx, workspaceID)
	if err != nil {
		l.Error("failed to refresh workspace", zap.String("workspace_id", workspaceID), zap.Error(err))
		return errors.Wrap(err, "refresh workspace")
	}

	if ws == nil {
		return errors.Errorf("workspace %s: empty response", workspaceID)
	}

	l.Debug("workspace refreshed", zap.String("workspace_id", workspaceID), zap.Int("members", len(ws.Members)))
	s.Set(ws)

	return nil
}
