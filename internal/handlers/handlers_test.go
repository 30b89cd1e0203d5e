package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "snowcore/internal/cards/overview"
	"snowcore/internal/chat"
	"snowcore/internal/config"
	"snowcore/internal/diag"
	"snowcore/internal/history"
	"snowcore/internal/middleware"
	"snowcore/internal/models"
	"snowcore/internal/poller"
	"snowcore/internal/upstream"
)

// upstreamRecorder stands in for the reliability API and remembers the
// POST bodies it received.
type upstreamRecorder struct {
	mu     sync.Mutex
	bodies map[string]string
}

func (u *upstreamRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		body, _ := io.ReadAll(r.Body)
		u.mu.Lock()
		u.bodies[r.URL.Path] = string(body)
		u.mu.Unlock()
	}
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/decisions":
		io.WriteString(w, `{"decisions":[]}`)
	case "/api/anomaly-events":
		io.WriteString(w, `{"events":[]}`)
	case "/api/cure-results":
		io.WriteString(w, `{"results":[]}`)
	case "/api/live-sensors-by-asset":
		io.WriteString(w, `{"timestamp":"2026-08-30T12:00:00Z","assets":{}}`)
	case "/api/task-status":
		io.WriteString(w, `{"tasks":[]}`)
	case "/api/anomaly-triggers":
		io.WriteString(w, `{"triggers":[]}`)
	case "/api/gnn-propagation":
		io.WriteString(w, `{"nodes":[]}`)
	case "/api/chat":
		io.WriteString(w, `{"response":"ok then"}`)
	default:
		io.WriteString(w, `{"ok":true}`)
	}
}

func (u *upstreamRecorder) body(path string) string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.bodies[path]
}

func newTestServer(t *testing.T) (*gin.Engine, *Handlers, *upstreamRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := &upstreamRecorder{bodies: make(map[string]string)}
	srv := httptest.NewServer(rec)
	t.Cleanup(srv.Close)

	logger := log.New(io.Discard)
	client := upstream.NewClient(srv.URL, srv.URL, time.Second, logger)
	feeds := &poller.Feeds{}
	hist := history.NewStore()
	hub := middleware.NewHub(logger)
	p := poller.New(client, feeds, hist, hub, time.Hour, time.Hour, logger)
	chatSvc := chat.NewService(client, logger)
	monitor := diag.NewMonitor(logger)
	cfg := &config.Config{APIBaseURL: srv.URL, PropagationBaseURL: srv.URL}

	h := New(cfg, client, feeds, hist, p, chatSvc, hub, monitor, logger)
	r := gin.New()
	h.RegisterRoutes(r)
	return r, h, rec
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func getJSON(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestViewGETUnknownScreen(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := getJSON(r, "/api/views/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestViewGETReturnsDashboardCards(t *testing.T) {
	r, h, _ := newTestServer(t)
	seq := h.feeds.Decisions.Begin()
	h.feeds.Decisions.Apply(seq, []models.AssetDecision{{
		AssetID:        "AUTOCLAVE_01",
		Recommendation: "URGENT",
		PFail7D:        0.42,
	}}, nil)

	w := getJSON(r, "/api/views/dashboard")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Screen string                     `json:"screen"`
		Cards  map[string]json.RawMessage `json:"cards"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "dashboard", resp.Screen)
	assert.Contains(t, resp.Cards, "dashboard-summary")
	assert.Contains(t, resp.Cards, "dashboard-top-assets")
	assert.Contains(t, resp.Cards, "dashboard-priority-table")
}

func TestCardGETUnknownCard(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := getJSON(r, "/api/views/dashboard/cards/no-such-card")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleSimulationRequiresEnable(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := postJSON(r, "/api/toggle-simulation", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleSimulationForwardsUpstream(t *testing.T) {
	r, _, rec := newTestServer(t)

	w := postJSON(r, "/api/toggle-simulation", `{"enable":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"enable":true}`, rec.body("/api/toggle-simulation"))
}

func TestInjectAnomalyRejectsBadAssetID(t *testing.T) {
	r, _, _ := newTestServer(t)

	for _, body := range []string{
		`{"asset_id":""}`,
		`{"asset_id":"lowercase"}`,
		`{"asset_id":"AUTOCLAVE_01; DROP"}`,
		`{"asset_id":"NOT_A_KNOWN_ASSET"}`,
	} {
		w := postJSON(r, "/api/inject-anomaly", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
	}
}

func TestInjectAnomalyArmsTrigger(t *testing.T) {
	r, _, rec := newTestServer(t)

	w := postJSON(r, "/api/inject-anomaly", `{"asset_id":"CNC_MILL_01"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"asset_id":"CNC_MILL_01"}`, rec.body("/api/inject-anomaly"))
	assert.Contains(t, w.Body.String(), `"cleared":false`)
}

func TestInjectAnomalyClearsActiveTrigger(t *testing.T) {
	r, h, rec := newTestServer(t)
	seq := h.feeds.Triggers.Begin()
	h.feeds.Triggers.Apply(seq, []models.AnomalyTrigger{
		{AssetID: "CNC_MILL_01", Active: true},
	}, nil)

	w := postJSON(r, "/api/inject-anomaly", `{"asset_id":"CNC_MILL_01"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"asset_id":null}`, rec.body("/api/inject-anomaly"))
	assert.Contains(t, w.Body.String(), `"cleared":true`)
}

func TestSensorStreamingToggle(t *testing.T) {
	r, h, _ := newTestServer(t)
	require.True(t, h.poller.SensorStreaming())

	w := postJSON(r, "/api/sensor-streaming", `{"enable":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, h.poller.SensorStreaming())

	w = postJSON(r, "/api/sensor-streaming", `{"enable":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, h.poller.SensorStreaming())
}

func TestTelemetryRefreshToggle(t *testing.T) {
	r, h, _ := newTestServer(t)

	w := postJSON(r, "/api/telemetry-refresh", `{"enable":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, h.poller.TelemetryAutoRefresh())
}

func TestChatPOSTStreamsEvents(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := postJSON(r, "/api/chat", `{"message":"what is at risk?"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Chat-Session"))

	events := strings.Split(strings.TrimSpace(w.Body.String()), "\n\n")
	require.Len(t, events, 2)

	var chunk chat.Chunk
	last := strings.TrimPrefix(events[len(events)-1], "data: ")
	require.NoError(t, json.Unmarshal([]byte(last), &chunk))
	assert.Equal(t, "ok then", chunk.Content)
	assert.True(t, chunk.Done)
}

func TestChatPOSTRejectsEmptyMessage(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := postJSON(r, "/api/chat", `{"message":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	// Validation failures are plain JSON errors, not an SSE stream.
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestChatMessagesGETNewSession(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := getJSON(r, "/api/chat/messages")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SessionID          string         `json:"sessionId"`
		Messages           []chat.Message `json:"messages"`
		SuggestedQuestions []string       `json:"suggestedQuestions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, chat.WelcomeText, resp.Messages[0].Content)
	assert.Len(t, resp.SuggestedQuestions, 4)
}

func TestHealthGET(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := getJSON(r, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
