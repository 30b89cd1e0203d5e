package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, srv.URL, 2*time.Second, log.New(io.Discard))
	return c, srv
}

func TestDecisionsParsesWarehouseColumns(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/decisions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"decisions":[{
			"ASSET_ID":"AUTOCLAVE_01","P_FAIL_7D":0.42,
			"EXPECTED_UNPLANNED_COST":50000,"C_PM_USD":8000,
			"NET_BENEFIT":42000,"RECOMMENDATION":"URGENT",
			"TARGET_WINDOW":"48h","CONFIDENCE":0.91}]}`))
	}))

	decisions, err := c.Decisions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(decisions) != 1 {
		t.Fatalf("expected 1 decision, got %d", len(decisions))
	}
	d := decisions[0]
	if d.AssetID != "AUTOCLAVE_01" || d.PFail7D != 0.42 || d.PMCost != 8000 {
		t.Fatalf("decision parsed wrong: %+v", d)
	}
}

func TestStatusError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := c.Decisions(context.Background())
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusBadGateway {
		t.Errorf("Code = %d", se.Code)
	}
	if !IsStatus(err) {
		t.Error("IsStatus should match")
	}
}

func TestDecodeError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"decisions": not-json`))
	}))

	_, err := c.Decisions(context.Background())
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestChatContentFallback(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["message"] != "hello" {
			t.Errorf("message = %q", body["message"])
		}
		// Older deployments use "content" instead of "response".
		w.Write([]byte(`{"content":"hi there"}`))
	}))

	resp, err := c.Chat(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Text() != "hi there" {
		t.Fatalf("Text() = %q", resp.Text())
	}
}

func TestInjectAnomalyNullBody(t *testing.T) {
	var got string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		got = string(raw)
		w.Write([]byte(`{}`))
	}))

	if err := c.InjectAnomaly(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if got != `{"asset_id":null}` {
		t.Fatalf("clearing must send a JSON null asset id, got %s", got)
	}

	asset := "CNC_MILL_01"
	if err := c.InjectAnomaly(context.Background(), &asset); err != nil {
		t.Fatal(err)
	}
	if got != `{"asset_id":"CNC_MILL_01"}` {
		t.Fatalf("body = %s", got)
	}
}

func TestPropagationUsesSecondBase(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("propagation request hit the primary API: %s", r.URL.Path)
	}))
	defer primary.Close()
	propagation := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/gnn-propagation" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"nodes":[{"ASSET":"LAYUP_ROOM","SCORE":0.7}]}`))
	}))
	defer propagation.Close()

	c := NewClient(primary.URL, propagation.URL, 2*time.Second, log.New(io.Discard))
	scores, err := c.PropagationScores(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 1 || scores[0].Asset != "LAYUP_ROOM" || scores[0].Score != 0.7 {
		t.Fatalf("scores = %+v", scores)
	}
}
