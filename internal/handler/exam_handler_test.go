package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sprtutor/examportal/internal/model"
	"github.com/sprtutor/examportal/internal/response"
	"github.com/sprtutor/examportal/internal/service"
	"github.com/sprtutor/examportal/internal/store"
)

func resultsTestRouter(t *testing.T, count int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	results := store.NewResultStore(&memBlobs{data: make(map[string][]byte)}, zerolog.Nop())
	for i := 0; i < count; i++ {
		err := results.Append(context.Background(), model.StudentResult{
			ID:             uuid.New(),
			Name:           fmt.Sprintf("Student %d", i+1),
			MobileNumber:   "01712345678",
			Score:          i,
			TotalQuestions: count,
			Date:           time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("seed result: %v", err)
		}
	}

	examService := service.NewExamService(nil, nil, results, nil, nil, zerolog.Nop())
	h := NewExamHandler(examService)

	r := gin.New()
	r.Use(response.RequestIDMiddleware())
	r.GET("/results", h.ListResults)
	return r
}

func TestListResultsPagination(t *testing.T) {
	r := resultsTestRouter(t, 5)

	tests := []struct {
		name       string
		query      string
		wantCount  int
		wantPages  int
		wantFirst  string
	}{
		{"first page", "?page=1&per_page=2", 2, 3, "Student 1"},
		{"last partial page", "?page=3&per_page=2", 1, 3, "Student 5"},
		{"past the end", "?page=9&per_page=2", 0, 3, ""},
		{"defaults cover all", "", 5, 1, "Student 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/results"+tt.query, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d; body = %s", w.Code, w.Body.String())
			}

			var env struct {
				Data struct {
					Results []model.StudentResult `json:"results"`
				} `json:"data"`
				Pagination *response.Pagination `json:"pagination"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode response: %v", err)
			}

			if len(env.Data.Results) != tt.wantCount {
				t.Errorf("results = %d, want %d", len(env.Data.Results), tt.wantCount)
			}
			if env.Pagination == nil {
				t.Fatal("pagination metadata missing")
			}
			if env.Pagination.TotalItems != 5 || env.Pagination.TotalPages != tt.wantPages {
				t.Errorf("pagination = %+v", env.Pagination)
			}
			if tt.wantFirst != "" && env.Data.Results[0].Name != tt.wantFirst {
				t.Errorf("first result = %s, want %s", env.Data.Results[0].Name, tt.wantFirst)
			}
		})
	}
}
