// Package notify posts webhook alerts when upstream data feeds go down or
// recover. The payload is Discord-embed compatible, which also works with
// most chat-ops webhook receivers.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Embed is a minimal embed payload.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
}

type EmbedFooter struct {
	Text string `json:"text,omitempty"`
}

// Payload is the JSON body posted to the webhook URL.
type Payload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

const (
	colorDown      = 0xef4444
	colorRecovered = 0x10b981

	// cooldown suppresses repeat down-alerts for a feed that keeps failing.
	cooldown = 10 * time.Minute

	postTimeout = 8 * time.Second
)

// Alerter tracks per-feed health and posts an alert on each transition.
// A nil Alerter or an empty URL disables alerting entirely.
type Alerter struct {
	url    string
	client *http.Client
	log    *log.Logger

	mu       sync.Mutex
	down     map[string]bool
	lastSent map[string]time.Time
}

func NewAlerter(url string, logger *log.Logger) *Alerter {
	return &Alerter{
		url:      url,
		client:   &http.Client{Timeout: postTimeout},
		log:      logger,
		down:     make(map[string]bool),
		lastSent: make(map[string]time.Time),
	}
}

// FeedDown records a failed refresh. An alert is posted on the first
// failure and then at most once per cooldown while the feed stays down.
func (a *Alerter) FeedDown(feed string, err error) {
	if a == nil || a.url == "" {
		return
	}
	a.mu.Lock()
	wasDown := a.down[feed]
	if wasDown && time.Since(a.lastSent[feed]) < cooldown {
		a.mu.Unlock()
		return
	}
	a.down[feed] = true
	a.lastSent[feed] = time.Now()
	a.mu.Unlock()

	a.post(Payload{Embeds: []Embed{{
		Title:       fmt.Sprintf("Feed down: %s", feed),
		Description: err.Error(),
		Color:       colorDown,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Footer:      &EmbedFooter{Text: "snowcore console"},
	}}})
}

// FeedRecovered records a successful refresh. An alert is posted only when
// the feed was previously marked down.
func (a *Alerter) FeedRecovered(feed string) {
	if a == nil || a.url == "" {
		return
	}
	a.mu.Lock()
	if !a.down[feed] {
		a.mu.Unlock()
		return
	}
	a.down[feed] = false
	a.mu.Unlock()

	a.post(Payload{Embeds: []Embed{{
		Title:     fmt.Sprintf("Feed recovered: %s", feed),
		Color:     colorRecovered,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Footer:    &EmbedFooter{Text: "snowcore console"},
	}}})
}

func (a *Alerter) post(payload Payload) {
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), postTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.client.Do(req)
	if err != nil {
		a.log.Warn("alert webhook post failed", "err", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		a.log.Warn("alert webhook rejected", "status", resp.StatusCode)
	}
}
