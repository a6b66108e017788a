package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sprtutor/examportal/internal/model"
)

func sampleResult(name string, score int) model.StudentResult {
	return model.StudentResult{
		ID:             uuid.New(),
		Name:           name,
		MobileNumber:   "01712345678",
		Score:          score,
		TotalQuestions: 10,
		Date:           time.Now().UTC(),
		Answers:        model.AnswerSet{uuid.New(): 1},
	}
}

func TestResultStoreAppendAndReload(t *testing.T) {
	ctx := context.Background()
	blobs := newFakeBlobs()

	s := NewResultStore(blobs, zerolog.Nop())
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	first := sampleResult("Amina", 7)
	second := sampleResult("Rahim", 4)
	for _, r := range []model.StudentResult{first, second} {
		if err := s.Append(ctx, r); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	reloaded := NewResultStore(blobs, zerolog.Nop())
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}

	got := reloaded.List()
	if len(got) != 2 {
		t.Fatalf("reloaded %d results, want 2", len(got))
	}
	// Append-only, oldest first.
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Error("result order not preserved")
	}

	found, ok := reloaded.Get(second.ID)
	if !ok {
		t.Fatal("Get missed an appended result")
	}
	if found.Score != 4 || len(found.Answers) != 1 {
		t.Errorf("result fields lost: %+v", found)
	}
}

func TestResultStoreGetUnknown(t *testing.T) {
	s := NewResultStore(newFakeBlobs(), zerolog.Nop())
	if _, ok := s.Get(uuid.New()); ok {
		t.Error("Get returned a result for an unknown ID")
	}
}
