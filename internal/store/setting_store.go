package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sprtutor/examportal/internal/config"
	"github.com/sprtutor/examportal/internal/repository"
)

// ErrInvalidTimerValue is returned when a timer setting outside the allowed
// set is submitted.
var ErrInvalidTimerValue = errors.New("timer value not allowed")

// SettingStore caches the moderator-configured portal settings in memory
// with explicit load/save through the blob layer. There is no implicit
// global state; all access goes through this service.
type SettingStore struct {
	mu               sync.RWMutex
	blobs            Blobs
	log              zerolog.Logger
	timerPerQuestion int
}

// NewSettingStore creates a SettingStore with the default timer value.
func NewSettingStore(blobs Blobs, log zerolog.Logger) *SettingStore {
	return &SettingStore{
		blobs:            blobs,
		log:              log.With().Str("component", "setting_store").Logger(),
		timerPerQuestion: config.DefaultTimerPerQuestion,
	}
}

// Load hydrates the timer setting. A missing, corrupted, or out-of-range
// blob falls back to the default.
func (s *SettingStore) Load(ctx context.Context) error {
	raw, err := s.blobs.Get(ctx, config.BlobKeyTimerPerQuestion)
	if err != nil {
		if errors.Is(err, repository.ErrBlobNotFound) {
			return nil
		}
		return fmt.Errorf("load timer blob: %w", err)
	}

	var value int
	if err := json.Unmarshal(raw, &value); err != nil || !config.IsAllowedTimerValue(value) {
		s.log.Warn().Err(err).Int("value", value).Msg("Invalid timer blob, using default")
		return nil
	}

	s.mu.Lock()
	s.timerPerQuestion = value
	s.mu.Unlock()
	return nil
}

// TimerPerQuestion returns the configured seconds-per-question value.
func (s *SettingStore) TimerPerQuestion() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timerPerQuestion
}

// SetTimerPerQuestion validates and persists a new timer value.
func (s *SettingStore) SetTimerPerQuestion(ctx context.Context, value int) error {
	if !config.IsAllowedTimerValue(value) {
		return ErrInvalidTimerValue
	}

	// Lock held across the flush so concurrent updates cannot persist out
	// of order against the cached value.
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal timer value: %w", err)
	}
	if err := s.blobs.Put(ctx, config.BlobKeyTimerPerQuestion, raw); err != nil {
		return fmt.Errorf("persist timer value: %w", err)
	}

	s.timerPerQuestion = value
	return nil
}
