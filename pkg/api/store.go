package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hazyhaar/ceramics-catalogue/pkg/catalogue"
	"github.com/hazyhaar/ceramics-catalogue/pkg/pipeline"
)

var (
	// ErrUnknownCollection is returned for a collection ID that is not served.
	ErrUnknownCollection = errors.New("unknown collection")
	// ErrNotLoaded is returned for a served collection whose dataset has
	// never loaded successfully.
	ErrNotLoaded = errors.New("collection not loaded")
)

// Store holds the current snapshot of every served collection. Snapshots
// are replaced whole; readers never see a partly rebuilt collection.
type Store struct {
	env         *pipeline.Env
	collections []catalogue.Collection
	logger      *slog.Logger

	mu    sync.RWMutex
	snaps map[string]*pipeline.Snapshot
}

// NewStore serves collections built through env. Nothing is loaded until Load.
func NewStore(env *pipeline.Env, collections []catalogue.Collection, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		env:         env,
		collections: collections,
		logger:      logger,
		snaps:       make(map[string]*pipeline.Snapshot),
	}
}

// Env returns the build environment.
func (s *Store) Env() *pipeline.Env { return s.env }

// Load rebuilds every collection. A collection that fails keeps its previous
// snapshot; the failures are returned joined.
func (s *Store) Load(ctx context.Context) error {
	var errs []error
	for _, c := range s.collections {
		snap, err := s.env.Build(ctx, c)
		if err != nil {
			s.logger.Error("collection load failed", "collection", c.ID, "error", err)
			errs = append(errs, err)
			continue
		}
		s.mu.Lock()
		s.snaps[c.ID] = snap
		s.mu.Unlock()
	}
	return errors.Join(errs...)
}

// Collection returns a served collection by ID.
func (s *Store) Collection(id string) (catalogue.Collection, error) {
	for _, c := range s.collections {
		if c.ID == id {
			return c, nil
		}
	}
	return catalogue.Collection{}, fmt.Errorf("%q: %w", id, ErrUnknownCollection)
}

// Collections returns the served collections in registration order.
func (s *Store) Collections() []catalogue.Collection {
	out := make([]catalogue.Collection, len(s.collections))
	copy(out, s.collections)
	return out
}

// Snapshot returns the current snapshot of a collection.
func (s *Store) Snapshot(id string) (*pipeline.Snapshot, error) {
	if _, err := s.Collection(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	snap, ok := s.snaps[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrNotLoaded)
	}
	return snap, nil
}
