package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sprtutor/examportal/internal/config"
	"github.com/sprtutor/examportal/internal/model"
	"github.com/sprtutor/examportal/internal/store"
)

const (
	geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"
	importTimeout  = 90 * time.Second
	importLockTTL  = 2 * time.Minute
)

// Import errors.
var (
	// ErrImportInProgress means another import request holds the busy flag.
	// At most one AI call may be in flight at a time.
	ErrImportInProgress = errors.New("an import is already in progress")
	// ErrImportFailed covers credential, network, and malformed-response
	// failures. Retryable; the question store is left untouched.
	ErrImportFailed = errors.New("ai import failed")
)

// ImportService parses raw unstructured text (possibly mixed English and
// Bengali) into question records through the Gemini API and appends the
// validated results to the question store.
type ImportService struct {
	cfg       *config.Config
	rdb       *redis.Client
	questions *store.QuestionStore
	client    *http.Client
	log       zerolog.Logger
}

// NewImportService creates a new ImportService.
func NewImportService(cfg *config.Config, rdb *redis.Client, questions *store.QuestionStore, log zerolog.Logger) *ImportService {
	return &ImportService{
		cfg:       cfg,
		rdb:       rdb,
		questions: questions,
		client:    &http.Client{Timeout: importTimeout},
		log:       log.With().Str("component", "import_service").Logger(),
	}
}

// Import runs one AI parse under the busy flag and appends the resulting
// questions. Any failure leaves existing questions untouched.
func (s *ImportService) Import(ctx context.Context, text string) ([]model.Question, error) {
	lockKey := config.CacheKey.ImportLockKey()
	locked, err := s.rdb.SetNX(ctx, lockKey, "1", importLockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire import lock: %w", err)
	}
	if !locked {
		return nil, ErrImportInProgress
	}
	defer s.rdb.Del(context.Background(), lockKey)

	parsed, err := s.parse(ctx, text)
	if err != nil {
		s.log.Warn().Err(err).Msg("AI import failed")
		return nil, errors.Join(ErrImportFailed, err)
	}

	if err := s.questions.AddMany(ctx, parsed); err != nil {
		return nil, fmt.Errorf("append imported questions: %w", err)
	}

	s.log.Info().Int("count", len(parsed)).Msg("AI import appended questions")
	return parsed, nil
}

// ─── Gemini wire types ──────────────────────────────────────────────────────

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		ResponseMimeType string          `json:"responseMimeType"`
		ResponseSchema   json.RawMessage `json:"responseSchema"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// responseSchema constrains the model to an array of question objects.
var responseSchema = json.RawMessage(`{
	"type": "ARRAY",
	"items": {
		"type": "OBJECT",
		"properties": {
			"text": {"type": "STRING", "description": "The question text in English or Bengali"},
			"options": {"type": "ARRAY", "items": {"type": "STRING"}, "description": "An array of 4 possible answers"},
			"correct_answer": {"type": "INTEGER", "description": "The index (0-3) of the correct answer in the options array"}
		},
		"required": ["text", "options", "correct_answer"]
	}
}`)

const importPrompt = `Parse the following text and extract multiple choice questions.
The text may contain questions in English or Bengali.
Ensure strictly 4 options per question.
If the correct answer isn't explicitly marked, infer the most logical one.

Text to parse:
%s`

// parse calls the Gemini generateContent endpoint and coerces the response.
func (s *ImportService) parse(ctx context.Context, text string) ([]model.Question, error) {
	if s.cfg.GeminiAPIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is missing")
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: fmt.Sprintf(importPrompt, text)}}},
		},
	}
	reqBody.GenerationConfig.ResponseMimeType = "application/json"
	reqBody.GenerationConfig.ResponseSchema = responseSchema

	raw, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, importTimeout)
	defer cancel()

	url := fmt.Sprintf(geminiEndpoint, s.cfg.GeminiModel)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.cfg.GeminiAPIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response envelope: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("no candidates in model response")
	}

	return coerceQuestions([]byte(parsed.Candidates[0].Content.Parts[0].Text))
}

// importedQuestion is the explicit schema for the import boundary. The
// external service is not trusted: entries are validated and coerced here.
type importedQuestion struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
}

// coerceQuestions validates the model output into Question records.
// Entries without exactly 4 options or with an out-of-range answer index
// are rejected rather than trusted. Fails when nothing valid remains.
func coerceQuestions(raw []byte) ([]model.Question, error) {
	var items []importedQuestion
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode question array: %w", err)
	}

	var questions []model.Question
	for _, item := range items {
		if item.Text == "" {
			continue
		}
		if len(item.Options) != model.OptionCount {
			continue
		}
		if item.CorrectAnswer < 0 || item.CorrectAnswer >= model.OptionCount {
			continue
		}
		questions = append(questions, model.Question{
			ID:            uuid.New(),
			Text:          item.Text,
			Options:       item.Options,
			CorrectAnswer: item.CorrectAnswer,
		})
	}

	if len(questions) == 0 {
		return nil, errors.New("model response contained no valid questions")
	}
	return questions, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
