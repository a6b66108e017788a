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

// QuestionStore holds the ordered question list in memory and flushes it to
// the questions blob as a unit on every mutation. In-memory and persisted
// state never diverge across a restart.
type QuestionStore struct {
	mu        sync.RWMutex
	blobs     Blobs
	log       zerolog.Logger
	questions []model.Question
}

// NewQuestionStore creates a QuestionStore. Call Load before serving.
func NewQuestionStore(blobs Blobs, log zerolog.Logger) *QuestionStore {
	return &QuestionStore{
		blobs: blobs,
		log:   log.With().Str("component", "question_store").Logger(),
	}
}

// Load hydrates the store from the persisted blob. A missing or corrupted
// blob falls back to an empty list with a warning — never a startup failure.
func (s *QuestionStore) Load(ctx context.Context) error {
	raw, err := s.blobs.Get(ctx, config.BlobKeyQuestions)
	if err != nil {
		if errors.Is(err, repository.ErrBlobNotFound) {
			s.mu.Lock()
			s.questions = nil
			s.mu.Unlock()
			return nil
		}
		return fmt.Errorf("load questions blob: %w", err)
	}

	var questions []model.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		s.log.Warn().Err(err).Msg("Corrupted questions blob, falling back to empty list")
		questions = nil
	}

	s.mu.Lock()
	s.questions = questions
	s.mu.Unlock()
	return nil
}

// List returns a copy of the current question list in authored order.
func (s *QuestionStore) List() []model.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Count returns the number of questions currently in the store.
func (s *QuestionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions)
}

// AddMany appends questions preserving existing order and flushes.
// Used by both manual authoring and the AI import.
func (s *QuestionStore) AddMany(ctx context.Context, newQuestions []model.Question) error {
	if len(newQuestions) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = append(s.questions, newQuestions...)
	return s.saveLocked(ctx)
}

// Remove deletes the question with the given ID and flushes.
// A no-op (and no flush) when the ID is absent.
func (s *QuestionStore) Remove(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.questions[:0]
	removed := false
	for _, q := range s.questions {
		if q.ID == id {
			removed = true
			continue
		}
		kept = append(kept, q)
	}
	s.questions = kept

	if !removed {
		return nil
	}
	return s.saveLocked(ctx)
}

// ReplaceAll swaps the entire question list and flushes.
func (s *QuestionStore) ReplaceAll(ctx context.Context, questions []model.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = make([]model.Question, len(questions))
	copy(s.questions, questions)
	return s.saveLocked(ctx)
}

// Save flushes the current list to the blob store as a unit.
func (s *QuestionStore) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

// saveLocked marshals and flushes while the caller holds the write lock.
// The lock stays held across the Put: letting a second mutation flush while
// an earlier one is still in flight could land the snapshots out of order
// and clobber the newer state.
func (s *QuestionStore) saveLocked(ctx context.Context) error {
	questions := s.questions
	if questions == nil {
		questions = []model.Question{}
	}
	raw, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	if err := s.blobs.Put(ctx, config.BlobKeyQuestions, raw); err != nil {
		return fmt.Errorf("persist questions: %w", err)
	}
	return nil
}
