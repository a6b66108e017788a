// Command seed-questions replaces the question bank from a JSON file of
// AddQuestionRequest objects. Useful for first-time setup and for restoring
// a saved bank.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sprtutor/examportal/internal/config"
	"github.com/sprtutor/examportal/internal/database"
	"github.com/sprtutor/examportal/internal/logger"
	"github.com/sprtutor/examportal/internal/model"
	"github.com/sprtutor/examportal/internal/repository"
	"github.com/sprtutor/examportal/internal/service"
	"github.com/sprtutor/examportal/internal/store"
)

func main() {
	var file string
	flag.StringVar(&file, "file", "questions.json", "Path to the questions JSON file")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	raw, err := os.ReadFile(file)
	if err != nil {
		log.Fatal().Err(err).Str("file", file).Msg("Failed to read questions file")
	}

	var reqs []model.AddQuestionRequest
	if err := json.Unmarshal(raw, &reqs); err != nil {
		log.Fatal().Err(err).Msg("Invalid questions file")
	}

	for i, r := range reqs {
		if r.Text == "" || len(r.Options) != model.OptionCount {
			log.Fatal().Int("index", i).Msg("Question must have text and exactly 4 options")
		}
		if r.CorrectAnswer < 0 || r.CorrectAnswer >= model.OptionCount {
			log.Fatal().Int("index", i).Msg("correct_answer out of range")
		}
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	questionStore := store.NewQuestionStore(repository.NewBlobRepository(pool), log)
	if err := questionStore.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to load question store")
	}

	questionService := service.NewQuestionService(questionStore)
	questions, err := questionService.ReplaceAll(ctx, reqs)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to replace questions")
	}

	fmt.Printf("Seeded %d questions from %s\n", len(questions), file)
}
