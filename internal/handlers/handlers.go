package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"snowcore/internal/cards"
	"snowcore/internal/chat"
	"snowcore/internal/config"
	"snowcore/internal/diag"
	"snowcore/internal/history"
	"snowcore/internal/middleware"
	"snowcore/internal/poller"
	"snowcore/internal/upstream"
	"snowcore/internal/version"
)

// navItem is one sidebar entry of the console shell.
type navItem struct {
	Path  string
	Title string
	Icon  string
}

var navItems = []navItem{
	{Path: "/", Title: "Dashboard", Icon: "layout-dashboard"},
	{Path: "/analytics", Title: "Analytics", Icon: "trending-up"},
	{Path: "/gnn", Title: "GNN Propagation", Icon: "share-2"},
	{Path: "/live-sensors", Title: "Live Sensors", Icon: "radio"},
	{Path: "/telemetry", Title: "Telemetry", Icon: "activity"},
	{Path: "/tasks", Title: "Simulation Controls", Icon: "settings"},
	{Path: "/chat", Title: "Copilot", Icon: "bot"},
}

// screenPage binds a URL path to a card screen and its page chrome.
type screenPage struct {
	Screen   cards.Screen
	Title    string
	Subtitle string
}

var screenPages = map[string]screenPage{
	"/":             {cards.ScreenDashboard, "Reliability Dashboard", "Predictive maintenance decisions across plant assets"},
	"/analytics":    {cards.ScreenAnalytics, "Analytics", "Maintenance cost-benefit analysis"},
	"/gnn":          {cards.ScreenGraph, "GNN Anomaly Propagation", "Predicted impact flow based on asset dependencies"},
	"/live-sensors": {cards.ScreenLiveSensors, "Live Sensor Stream", "Real-time sensor data by asset"},
	"/telemetry":    {cards.ScreenTelemetry, "Asset Telemetry", "Real-time sensor data and anomaly detection"},
	"/tasks":        {cards.ScreenTaskControls, "Simulation Controls", "Manage background tasks and anomaly injection"},
	"/chat":         {cards.ScreenChat, "Reliability Copilot", "Ask about maintenance priorities and asset risk"},
}

// Handlers wires the HTTP surface to the feeds, poller and chat service.
type Handlers struct {
	cfg     *config.Config
	client  *upstream.Client
	feeds   *poller.Feeds
	history *history.Store
	poller  *poller.Poller
	chat    *chat.Service
	hub     *middleware.Hub
	monitor *diag.Monitor
	log     *log.Logger
}

func New(cfg *config.Config, client *upstream.Client, feeds *poller.Feeds, hist *history.Store,
	p *poller.Poller, chatSvc *chat.Service, hub *middleware.Hub, monitor *diag.Monitor,
	logger *log.Logger) *Handlers {
	return &Handlers{
		cfg:     cfg,
		client:  client,
		feeds:   feeds,
		history: hist,
		poller:  p,
		chat:    chatSvc,
		hub:     hub,
		monitor: monitor,
		log:     logger,
	}
}

// RegisterRoutes attaches every route to the router.
func (h *Handlers) RegisterRoutes(r *gin.Engine) {
	for path := range screenPages {
		r.GET(path, h.ScreenGET)
	}

	api := r.Group("/api")
	{
		api.GET("/views/:screen", h.ViewGET)
		api.GET("/views/:screen/cards/:card_id", h.CardGET)

		api.POST("/toggle-simulation", h.ToggleSimulationPOST)
		api.POST("/inject-anomaly", h.InjectAnomalyPOST)
		api.POST("/sensor-streaming", h.SensorStreamingPOST)
		api.POST("/telemetry-refresh", h.TelemetryRefreshPOST)
		api.POST("/refresh/decisions", h.RefreshDecisionsPOST)
		api.POST("/refresh/propagation", h.RefreshPropagationPOST)
		api.POST("/refresh/telemetry", h.RefreshTelemetryPOST)
		api.POST("/refresh/sensors", h.RefreshSensorsPOST)

		api.POST("/chat", h.ChatPOST)
		api.GET("/chat/messages", h.ChatMessagesGET)
	}

	r.GET("/healthz", h.HealthGET)
	r.GET("/ws", h.hub.HandleWebSocket())
}

func (h *Handlers) cardRequest(c *gin.Context) *cards.Request {
	return &cards.Request{
		Context: c,
		Feeds:   h.feeds,
		History: h.history,
		Poller:  h.poller,
		Chat:    h.chat,
	}
}

// ScreenGET renders a full console page: the shell plus the screen's cards
// grouped by slot.
func (h *Handlers) ScreenGET(c *gin.Context) {
	page, ok := screenPages[c.FullPath()]
	if !ok {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"error": "Unknown page"})
		return
	}

	renderables := cards.BuildRenderables(page.Screen, h.cardRequest(c))
	data := gin.H{
		"title":    page.Title,
		"subtitle": page.Subtitle,
		"page":     string(page.Screen),
		"nav":      navItems,
		"health":   h.monitor.Snapshot(),
	}
	if grouped := cards.GroupRenderablesBySlot(renderables); len(grouped) > 0 {
		data["cardSlots"] = grouped
	} else {
		data["cardSlots"] = map[string][]cards.Renderable{}
	}

	c.HTML(http.StatusOK, "frame.html", data)
}

// ViewGET returns the hydrated card data of one screen as JSON, keyed by
// card id. The frontend polls this instead of re-rendering pages.
func (h *Handlers) ViewGET(c *gin.Context) {
	screen := cards.Screen(c.Param("screen"))
	renderables := cards.BuildRenderables(screen, h.cardRequest(c))
	if len(renderables) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown screen"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"screen": string(screen),
		"cards":  cards.DataByID(renderables),
	})
}

// CardGET returns one card's data, for targeted refreshes.
func (h *Handlers) CardGET(c *gin.Context) {
	screen := cards.Screen(c.Param("screen"))
	renderable, ok := cards.BuildRenderableByID(screen, c.Param("card_id"), h.cardRequest(c))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown card"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": renderable.ID, "data": renderable.Data})
}

// HealthGET reports service liveness plus the latest self-telemetry sample.
func (h *Handlers) HealthGET(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"version":    version.String(),
		"system":     h.monitor.Snapshot(),
		"wsClients":  h.hub.ClientCount(),
		"streaming":  h.poller.SensorStreaming(),
		"autoTelem":  h.poller.TelemetryAutoRefresh(),
		"apiBaseURL": h.cfg.APIBaseURL,
	})
}
