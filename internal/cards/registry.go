package cards

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"snowcore/internal/chat"
	"snowcore/internal/history"
	"snowcore/internal/poller"
)

// Screen identifies a UI surface that hosts cards.
type Screen string

const (
	ScreenDashboard    Screen = "dashboard"
	ScreenTelemetry    Screen = "telemetry"
	ScreenLiveSensors  Screen = "live-sensors"
	ScreenAnalytics    Screen = "analytics"
	ScreenGraph        Screen = "gnn"
	ScreenChat         Screen = "chat"
	ScreenTaskControls Screen = "task-controls"
)

// Slot identifies a layout region on the page.
type Slot string

const (
	SlotPrimary Slot = "primary"
	SlotGrid    Slot = "grid"
	SlotFooter  Slot = "footer"
)

// Request provides contextual data when hydrating a card.
type Request struct {
	Context *gin.Context
	Feeds   *poller.Feeds
	History *history.Store
	Poller  *poller.Poller
	Chat    *chat.Service
}

// Card describes a renderable dashboard component.
type Card interface {
	ID() string
	Template() string
	Screens() []Screen
	Slot() Slot
	FetchData(*Request) (gin.H, error)
}

// Renderable is the hydrated card data sent to templates and view JSON.
type Renderable struct {
	ID       string
	Template string
	Data     gin.H
	Slot     Slot
}

var (
	registryMu sync.RWMutex
	registry   = make(map[Screen][]Card)
)

// Register attaches a card to every screen it supports.
func Register(card Card) {
	if card == nil {
		return
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, screen := range card.Screens() {
		if screen == "" {
			continue
		}
		registry[screen] = append(registry[screen], card)
	}
}

// BuildRenderables resolves the cards for a screen and hydrates each with
// the request's feed data. A failing card is skipped, never fatal.
func BuildRenderables(screen Screen, req *Request) []Renderable {
	registryMu.RLock()
	screenCards := append([]Card(nil), registry[screen]...)
	registryMu.RUnlock()

	if len(screenCards) == 0 {
		return nil
	}

	renderables := make([]Renderable, 0, len(screenCards))
	for _, card := range screenCards {
		data, err := safeFetch(card, req)
		if err != nil {
			log.Warn("card fetch failed", "card", safeID(card), "err", err)
			continue
		}
		if data == nil {
			data = gin.H{}
		}
		renderables = append(renderables, Renderable{
			ID:       card.ID(),
			Template: card.Template(),
			Data:     data,
			Slot:     card.Slot(),
		})
	}
	return renderables
}

// BuildRenderableByID resolves a single card by ID for the given screen.
func BuildRenderableByID(screen Screen, cardID string, req *Request) (Renderable, bool) {
	if strings.TrimSpace(cardID) == "" {
		return Renderable{}, false
	}
	registryMu.RLock()
	screenCards := append([]Card(nil), registry[screen]...)
	registryMu.RUnlock()
	for _, card := range screenCards {
		if card == nil || card.ID() != cardID {
			continue
		}
		data, err := safeFetch(card, req)
		if err != nil {
			log.Warn("card fetch failed", "card", safeID(card), "err", err)
			return Renderable{}, false
		}
		if data == nil {
			data = gin.H{}
		}
		return Renderable{
			ID:       card.ID(),
			Template: card.Template(),
			Data:     data,
			Slot:     card.Slot(),
		}, true
	}
	return Renderable{}, false
}

// GroupRenderablesBySlot organizes renderables by slot for template lookup.
func GroupRenderablesBySlot(renderables []Renderable) map[string][]Renderable {
	if len(renderables) == 0 {
		return nil
	}
	grouped := make(map[string][]Renderable)
	for _, r := range renderables {
		grouped[string(r.Slot)] = append(grouped[string(r.Slot)], r)
	}
	return grouped
}

// DataByID flattens renderables into an id-keyed map for the view JSON the
// frontend polls.
func DataByID(renderables []Renderable) map[string]gin.H {
	if len(renderables) == 0 {
		return nil
	}
	out := make(map[string]gin.H, len(renderables))
	for _, r := range renderables {
		out[r.ID] = r.Data
	}
	return out
}

func safeFetch(card Card, req *Request) (data gin.H, err error) {
	if card == nil {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error("card panicked", "card", safeID(card), "panic", r)
			data = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	data, err = card.FetchData(req)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return gin.H{}, nil
	}
	return data, nil
}

func safeID(card Card) string {
	if card == nil {
		return "<nil>"
	}
	if id := strings.TrimSpace(card.ID()); id != "" {
		return id
	}
	return "<unnamed-card>"
}
