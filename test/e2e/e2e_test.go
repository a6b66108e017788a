//go:build e2e
// +build e2e

// End-to-end test against a running server plus its Postgres and Redis.
// Run with: go test -tags e2e ./test/e2e/
//
// Requires MODERATOR_SECRET to match the server's configuration.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
)

const defaultBaseURL = "http://localhost:8080"

var (
	baseURL         string
	moderatorSecret string
	moderatorToken  string
	sessionID       string
	questionCount   int
)

func TestMain(m *testing.M) {
	_ = godotenv.Load("../../.env")

	baseURL = os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	moderatorSecret = os.Getenv("MODERATOR_SECRET")
	if moderatorSecret == "" {
		fmt.Println("MODERATOR_SECRET is required for the e2e suite")
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// envelope mirrors the API response shape.
type envelope struct {
	Data  map[string]json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func call(t *testing.T, method, path, token string, body interface{}) (int, *envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s %s response: %v", method, path, err)
	}
	return resp.StatusCode, &env
}

func unmarshalField(t *testing.T, env *envelope, field string, dst interface{}) {
	t.Helper()
	raw, ok := env.Data[field]
	if !ok {
		t.Fatalf("response missing field %q", field)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("decode field %q: %v", field, err)
	}
}

func Test01_Health(t *testing.T) {
	resp, err := http.Get(baseURL + "/health")
	if err != nil {
		t.Fatalf("health check: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}
}

func Test02_ModeratorLogin(t *testing.T) {
	status, env := call(t, http.MethodPost, "/api/v1/auth/moderator/login", "", map[string]string{
		"secret": moderatorSecret,
	})
	if status != http.StatusOK {
		t.Fatalf("login status = %d, error = %+v", status, env.Error)
	}
	unmarshalField(t, env, "token", &moderatorToken)
	if moderatorToken == "" {
		t.Fatal("empty token")
	}

	// Wrong secret is rejected.
	status, _ = call(t, http.MethodPost, "/api/v1/auth/moderator/login", "", map[string]string{
		"secret": moderatorSecret + "x",
	})
	if status != http.StatusUnauthorized {
		t.Errorf("wrong secret status = %d, want 401", status)
	}
}

func Test03_SeedQuestions(t *testing.T) {
	body := map[string]interface{}{
		"questions": []map[string]interface{}{
			{"text": "2 + 2 = ?", "options": []string{"3", "4", "5", "6"}, "correct_answer": 1},
			{"text": "Capital of Bangladesh?", "options": []string{"Dhaka", "Khulna", "Sylhet", "Bogra"}, "correct_answer": 0},
		},
	}
	status, env := call(t, http.MethodPut, "/api/v1/moderator/questions", moderatorToken, body)
	if status != http.StatusOK {
		t.Fatalf("replace questions status = %d, error = %+v", status, env.Error)
	}
	unmarshalField(t, env, "count", &questionCount)
	if questionCount != 2 {
		t.Fatalf("question count = %d, want 2", questionCount)
	}

	// Moderator routes demand a token.
	status, _ = call(t, http.MethodGet, "/api/v1/moderator/questions", "", nil)
	if status != http.StatusUnauthorized {
		t.Errorf("unauthenticated list status = %d, want 401", status)
	}
}

func Test04_ExamFlow(t *testing.T) {
	status, env := call(t, http.MethodPost, "/api/v1/exam/sessions", "", nil)
	if status != http.StatusCreated {
		t.Fatalf("start session status = %d, error = %+v", status, env.Error)
	}

	var session struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		TimeLeft int    `json:"time_left"`
	}
	unmarshalField(t, env, "session", &session)
	sessionID = session.ID
	if session.Status != "ACTIVE" {
		t.Fatalf("session status = %s, want ACTIVE", session.Status)
	}
	if session.TimeLeft <= 0 {
		t.Fatalf("time_left = %d", session.TimeLeft)
	}

	// Questions in the exam payload must not carry correct answers.
	var questions []map[string]interface{}
	unmarshalField(t, env, "questions", &questions)
	for _, q := range questions {
		if _, leaked := q["correct_answer"]; leaked {
			t.Fatal("exam payload leaks correct_answer")
		}
	}

	base := "/api/v1/exam/sessions/" + sessionID
	if status, env = call(t, http.MethodPost, base+"/answer", "", map[string]int{"option_index": 1}); status != http.StatusOK {
		t.Fatalf("answer status = %d, error = %+v", status, env.Error)
	}
	if status, env = call(t, http.MethodPost, base+"/navigate", "", map[string]interface{}{"op": "next"}); status != http.StatusOK {
		t.Fatalf("navigate status = %d, error = %+v", status, env.Error)
	}
	if status, env = call(t, http.MethodPost, base+"/submit", "", nil); status != http.StatusOK {
		t.Fatalf("submit status = %d, error = %+v", status, env.Error)
	}

	// Second submit must be rejected.
	if status, _ = call(t, http.MethodPost, base+"/submit", "", nil); status != http.StatusConflict {
		t.Errorf("double submit status = %d, want 409", status)
	}
}

func Test05_ResultAndReview(t *testing.T) {
	base := "/api/v1/exam/sessions/" + sessionID

	// Details form without a name is rejected and persists nothing.
	status, _ := call(t, http.MethodPost, base+"/result", "", map[string]string{
		"mobile_number": "01712345678",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("nameless details status = %d, want 400", status)
	}

	status, env := call(t, http.MethodPost, base+"/result", "", map[string]string{
		"name":          "E2E Student",
		"school":        "Test School",
		"roll_number":   "7",
		"village":       "Testpur",
		"mobile_number": "01712345678",
	})
	if status != http.StatusCreated {
		t.Fatalf("finalize status = %d, error = %+v", status, env.Error)
	}

	var result struct {
		ID             string `json:"id"`
		Score          int    `json:"score"`
		TotalQuestions int    `json:"total_questions"`
	}
	unmarshalField(t, env, "result", &result)
	if result.TotalQuestions != questionCount {
		t.Errorf("total = %d, want %d", result.TotalQuestions, questionCount)
	}
	// Q1 was answered with option 1 (correct), the rest skipped.
	if result.Score != 1 {
		t.Errorf("score = %d, want 1", result.Score)
	}

	status, env = call(t, http.MethodGet, "/api/v1/moderator/results/"+result.ID, moderatorToken, nil)
	if status != http.StatusOK {
		t.Fatalf("get result status = %d, error = %+v", status, env.Error)
	}
}

func Test06_PortalViews(t *testing.T) {
	status, env := call(t, http.MethodPost, "/api/v1/portal/enter?mode=student", "", nil)
	if status != http.StatusCreated {
		t.Fatalf("enter status = %d, error = %+v", status, env.Error)
	}
	var clientID, viewName string
	unmarshalField(t, env, "client_id", &clientID)
	unmarshalField(t, env, "view", &viewName)
	if viewName != "STUDENT_INTRO" {
		t.Fatalf("deep link view = %s, want STUDENT_INTRO", viewName)
	}

	status, env = call(t, http.MethodPost, "/api/v1/portal/"+clientID+"/navigate", "", map[string]string{
		"event": "start_exam",
	})
	if status != http.StatusOK {
		t.Fatalf("start_exam status = %d, error = %+v", status, env.Error)
	}
	unmarshalField(t, env, "view", &viewName)
	if viewName != "STUDENT_EXAM" {
		t.Errorf("view = %s, want STUDENT_EXAM", viewName)
	}
}

func Test07_Logout(t *testing.T) {
	status, env := call(t, http.MethodPost, "/api/v1/auth/moderator/logout", moderatorToken, nil)
	if status != http.StatusOK {
		t.Fatalf("logout status = %d, error = %+v", status, env.Error)
	}

	// The token is dead immediately, ahead of its JWT expiry.
	status, _ = call(t, http.MethodGet, "/api/v1/moderator/questions", moderatorToken, nil)
	if status != http.StatusUnauthorized {
		t.Errorf("post-logout status = %d, want 401", status)
	}
}
