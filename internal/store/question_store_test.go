package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sprtutor/examportal/internal/config"
	"github.com/sprtutor/examportal/internal/model"
	"github.com/sprtutor/examportal/internal/repository"
)

// fakeBlobs is an in-memory Blobs implementation recording flushes.
type fakeBlobs struct {
	data map[string][]byte
	puts int
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{data: make(map[string][]byte)}
}

func (f *fakeBlobs) Get(_ context.Context, key string) ([]byte, error) {
	raw, ok := f.data[key]
	if !ok {
		return nil, repository.ErrBlobNotFound
	}
	return raw, nil
}

func (f *fakeBlobs) Put(_ context.Context, key string, value []byte) error {
	f.data[key] = value
	f.puts++
	return nil
}

func question(text string) model.Question {
	return model.Question{
		ID:            uuid.New(),
		Text:          text,
		Options:       []string{"A", "B", "C", "D"},
		CorrectAnswer: 1,
	}
}

func TestQuestionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	blobs := newFakeBlobs()

	s := NewQuestionStore(blobs, zerolog.Nop())
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load empty: %v", err)
	}
	if s.Count() != 0 {
		t.Fatalf("Count = %d, want 0", s.Count())
	}

	first := question("first")
	second := question("second")
	if err := s.AddMany(ctx, []model.Question{first, second}); err != nil {
		t.Fatalf("AddMany: %v", err)
	}

	// A fresh store over the same blobs sees the same bank, same order.
	reloaded := NewQuestionStore(blobs, zerolog.Nop())
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	got := reloaded.List()
	if len(got) != 2 {
		t.Fatalf("reloaded %d questions, want 2", len(got))
	}
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Error("authored order not preserved across reload")
	}
	if got[0].CorrectAnswer != first.CorrectAnswer {
		t.Error("correct answer lost across reload")
	}
}

func TestQuestionStoreRemove(t *testing.T) {
	ctx := context.Background()
	blobs := newFakeBlobs()

	s := NewQuestionStore(blobs, zerolog.Nop())
	target := question("target")
	if err := s.AddMany(ctx, []model.Question{question("keep"), target}); err != nil {
		t.Fatal(err)
	}
	flushes := blobs.puts

	if err := s.Remove(ctx, target.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if s.Count() != 1 {
		t.Errorf("Count = %d, want 1", s.Count())
	}
	if blobs.puts != flushes+1 {
		t.Errorf("flushes = %d, want %d", blobs.puts, flushes+1)
	}

	// Removing an absent ID neither errors nor flushes.
	if err := s.Remove(ctx, uuid.New()); err != nil {
		t.Fatalf("Remove absent: %v", err)
	}
	if blobs.puts != flushes+1 {
		t.Error("absent remove flushed the blob")
	}
}

func TestQuestionStoreReplaceAll(t *testing.T) {
	ctx := context.Background()
	blobs := newFakeBlobs()

	s := NewQuestionStore(blobs, zerolog.Nop())
	if err := s.AddMany(ctx, []model.Question{question("old")}); err != nil {
		t.Fatal(err)
	}

	replacement := []model.Question{question("new 1"), question("new 2")}
	if err := s.ReplaceAll(ctx, replacement); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	got := s.List()
	if len(got) != 2 || got[0].Text != "new 1" {
		t.Errorf("bank after replace = %v", got)
	}
}

func TestQuestionStoreCorruptBlobFallsBack(t *testing.T) {
	ctx := context.Background()
	blobs := newFakeBlobs()
	blobs.data[config.BlobKeyQuestions] = []byte("{not json")

	s := NewQuestionStore(blobs, zerolog.Nop())
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load with corrupt blob errored: %v", err)
	}
	if s.Count() != 0 {
		t.Errorf("Count = %d, want 0 after corrupt blob", s.Count())
	}
}

func TestQuestionStoreListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewQuestionStore(newFakeBlobs(), zerolog.Nop())
	if err := s.AddMany(ctx, []model.Question{question("original")}); err != nil {
		t.Fatal(err)
	}

	list := s.List()
	list[0].Text = "mutated"
	if s.List()[0].Text != "original" {
		t.Error("List leaked internal slice")
	}
}
