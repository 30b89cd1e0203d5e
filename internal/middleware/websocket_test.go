package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, got %d", want, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBroadcastRemovesDeadClientSafely(t *testing.T) {
	hub := NewHub(log.New(io.Discard))
	go hub.Run()

	serverConns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		hub.register <- conn
		serverConns <- conn
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer client.Close()

	serverConn := <-serverConns
	waitForClients(t, hub, 1)

	// Kill the transport so the next broadcast write fails on this client.
	serverConn.UnderlyingConn().Close()

	// Hammer broadcasts while reading the count from another goroutine, the
	// way the poller and /healthz overlap in production.
	counted := make(chan struct{})
	go func() {
		defer close(counted)
		for i := 0; i < 200; i++ {
			hub.ClientCount()
		}
	}()
	for i := 0; i < 200; i++ {
		hub.Broadcast([]byte(`{"feed":"sensors"}`))
	}
	<-counted

	waitForClients(t, hub, 0)
}

func TestBroadcastReachesLiveClient(t *testing.T) {
	hub := NewHub(log.New(io.Discard))
	go hub.Run()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		hub.register <- conn
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer client.Close()

	waitForClients(t, hub, 1)
	hub.Broadcast([]byte(`{"feed":"decisions"}`))

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := client.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(msg) != `{"feed":"decisions"}` {
		t.Fatalf("unexpected message %q", msg)
	}
}
