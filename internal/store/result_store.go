package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sprtutor/examportal/internal/config"
	"github.com/sprtutor/examportal/internal/model"
	"github.com/sprtutor/examportal/internal/repository"
)

// ResultStore is the append-only collection of student results. Records are
// never mutated after append; the whole collection is flushed on each one.
type ResultStore struct {
	mu      sync.RWMutex
	blobs   Blobs
	log     zerolog.Logger
	results []model.StudentResult
}

// NewResultStore creates a ResultStore. Call Load before serving.
func NewResultStore(blobs Blobs, log zerolog.Logger) *ResultStore {
	return &ResultStore{
		blobs: blobs,
		log:   log.With().Str("component", "result_store").Logger(),
	}
}

// Load hydrates past results from the blob store, falling back to an empty
// collection on a missing or corrupted blob.
func (s *ResultStore) Load(ctx context.Context) error {
	raw, err := s.blobs.Get(ctx, config.BlobKeyResults)
	if err != nil {
		if errors.Is(err, repository.ErrBlobNotFound) {
			s.mu.Lock()
			s.results = nil
			s.mu.Unlock()
			return nil
		}
		return fmt.Errorf("load results blob: %w", err)
	}

	var results []model.StudentResult
	if err := json.Unmarshal(raw, &results); err != nil {
		s.log.Warn().Err(err).Msg("Corrupted results blob, falling back to empty list")
		results = nil
	}

	s.mu.Lock()
	s.results = results
	s.mu.Unlock()
	return nil
}

// List returns a copy of all results, oldest first.
func (s *ResultStore) List() []model.StudentResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.StudentResult, len(s.results))
	copy(out, s.results)
	return out
}

// Get returns the result with the given ID.
func (s *ResultStore) Get(id uuid.UUID) (*model.StudentResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.results {
		if s.results[i].ID == id {
			r := s.results[i]
			return &r, true
		}
	}
	return nil, false
}

// Append adds a finalized result and flushes the collection. The lock is
// held across the flush so concurrent appends cannot persist out of order
// and clobber each other's snapshot.
func (s *ResultStore) Append(ctx context.Context, result model.StudentResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(s.results[:len(s.results):len(s.results)], result)
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := s.blobs.Put(ctx, config.BlobKeyResults, raw); err != nil {
		return fmt.Errorf("persist results: %w", err)
	}
	s.results = next
	return nil
}
