package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

func newTestApplication(t *testing.T) *application {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// a second connection would see a different in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	st := newStorage(db)
	if err := st.createSchema(); err != nil {
		t.Fatal(err)
	}

	var cfg config
	cfg.env = "test"
	cfg.jwt.secret = "test-signing-secret"
	cfg.jwt.ttl = 24 * time.Hour
	cfg.cors.trustedOrigins = []string{"*"}

	return &application{
		config:  cfg,
		logger:  zerolog.Nop(),
		storage: st,
	}
}

func registerTestUser(t *testing.T, app *application, username, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"email":%q,"password":%q}`, username, email, password)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	composeRoutes(app).ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.AccessToken
}

func createTestTask(t *testing.T, app *application, token, title, description string) int {
	t.Helper()
	body := fmt.Sprintf(`{"title":%q,"description":%q}`, title, description)
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	composeRoutes(app).ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create task returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Task struct {
			ID int `json:"id"`
		} `json:"task"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.Task.ID
}

// doRequest issues a raw request and returns status code and body, for tests
// that compare two responses byte for byte.
func doRequest(t *testing.T, app *application, method, path, token, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	composeRoutes(app).ServeHTTP(rec, req)
	return rec.Code, rec.Body.String()
}
