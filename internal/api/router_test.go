package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/trailplay/backend-go/internal/config"
	"github.com/trailplay/backend-go/internal/database"
	"github.com/trailplay/backend-go/internal/repository"
	"github.com/trailplay/backend-go/internal/service"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		ClientKey:        "test-key",
		BearingSmoothing: 0.15,
		RateLimit:        1000,
	}

	trackRepo := repository.NewTrackRepository(db)
	journeyRepo := repository.NewJourneyRepository(db)
	trackService := service.NewTrackService(trackRepo, journeyRepo)
	journeyService := service.NewJourneyService(trackRepo, journeyRepo, cfg.BearingSmoothing)
	authService := service.NewAuthService(cfg.JWTSecret, cfg.ClientKey)

	return SetupRouter(cfg, trackService, journeyService, authService)
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: invalid response body %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w, env
}

func fetchToken(t *testing.T, r *gin.Engine) string {
	t.Helper()

	w, env := doRequest(t, r, http.MethodPost, "/api/v1/auth/token", "",
		`{"clientKey":"test-key"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Token request failed with %d: %s", w.Code, w.Body.String())
	}

	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		t.Fatalf("Token missing from response: %s", env.Data)
	}
	return data.Token
}

const uploadBody = `{
	"name": "test track",
	"points": [
		{"latitude": 0, "longitude": 0, "elevation": 100, "distance": 0, "speed": 10},
		{"latitude": 0, "longitude": 0.001, "elevation": 110, "distance": 100, "speed": 12},
		{"latitude": 0, "longitude": 0.002, "elevation": 105, "distance": 200, "speed": 11}
	]
}`

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Health check should return 200, got %d", w.Code)
	}
}

func TestAuthRejectsBadKey(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doRequest(t, r, http.MethodPost, "/api/v1/auth/token", "",
		`{"clientKey":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Bad client key should get 401, got %d", w.Code)
	}
}

func TestMutationsRequireToken(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doRequest(t, r, http.MethodPost, "/api/v1/tracks", "", uploadBody)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Unauthenticated upload should get 401, got %d", w.Code)
	}

	w, _ = doRequest(t, r, http.MethodPost, "/api/v1/tracks", "garbage-token", uploadBody)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Bad token should get 401, got %d", w.Code)
	}
}

func TestTrackAndPlaybackRoundTrip(t *testing.T) {
	r := newTestRouter(t)
	token := fetchToken(t, r)

	w, env := doRequest(t, r, http.MethodPost, "/api/v1/tracks", token, uploadBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("Upload should return 201, got %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil || created.ID == "" {
		t.Fatalf("Created track missing id: %s", env.Data)
	}

	// List is open, no token needed.
	w, env = doRequest(t, r, http.MethodGet, "/api/v1/tracks", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("List should return 200, got %d", w.Code)
	}
	var list struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(env.Data, &list); err != nil || list.Count != 1 {
		t.Errorf("List should report 1 track: %s", env.Data)
	}

	segBody := fmt.Sprintf(`{"kind":"track","trackId":"%s","duration":4000}`, created.ID)
	w, _ = doRequest(t, r, http.MethodPost, "/api/v1/journey/segments", token, segBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("AddSegment should return 201, got %d: %s", w.Code, w.Body.String())
	}

	w, env = doRequest(t, r, http.MethodGet, "/api/v1/journey/state?progress=0.5", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("State should return 200, got %d", w.Code)
	}
	var state struct {
		Point *struct {
			Distance float64 `json:"distance"`
		} `json:"point"`
		SegmentIndex int `json:"segmentIndex"`
	}
	if err := json.Unmarshal(env.Data, &state); err != nil {
		t.Fatalf("State payload invalid: %s", env.Data)
	}
	if state.Point == nil {
		t.Fatal("State at 0.5 should carry a point")
	}
	if state.Point.Distance != 100 {
		t.Errorf("Midpoint should be at 100m, got %f", state.Point.Distance)
	}

	w, _ = doRequest(t, r, http.MethodGet, "/api/v1/journey/state?progress=abc", "", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Non-numeric progress should get 400, got %d", w.Code)
	}

	w, env = doRequest(t, r, http.MethodGet, "/api/v1/journey/completed?progress=1", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Completed should return 200, got %d", w.Code)
	}
	var completed struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(env.Data, &completed); err != nil || completed.Count != 3 {
		t.Errorf("Completed at 1 should have 3 coords: %s", env.Data)
	}

	w, _ = doRequest(t, r, http.MethodGet, "/api/v1/journey/elevation", "", "")
	if w.Code != http.StatusOK {
		t.Errorf("Elevation should return 200, got %d", w.Code)
	}

	w, _ = doRequest(t, r, http.MethodDelete, "/api/v1/tracks/"+created.ID, token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Delete should return 200, got %d: %s", w.Code, w.Body.String())
	}

	w, env = doRequest(t, r, http.MethodGet, "/api/v1/journey", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Journey summary should return 200, got %d", w.Code)
	}
	var summary struct {
		Empty bool `json:"empty"`
	}
	if err := json.Unmarshal(env.Data, &summary); err != nil || !summary.Empty {
		t.Errorf("Journey should be empty after the track is deleted: %s", env.Data)
	}
}

func TestAddSegmentRejectsBadPayload(t *testing.T) {
	r := newTestRouter(t)
	token := fetchToken(t, r)

	w, _ := doRequest(t, r, http.MethodPost, "/api/v1/journey/segments", token,
		`{"kind":"teleport"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Unknown kind should get 400, got %d", w.Code)
	}

	w, _ = doRequest(t, r, http.MethodPost, "/api/v1/journey/segments", token,
		`{"kind":"track","trackId":"no-such-track","duration":1000}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("Unknown track should get 404, got %d", w.Code)
	}
}
