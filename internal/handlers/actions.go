package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"snowcore/internal/cards/controls"
	"snowcore/internal/middleware"
)

// ToggleSimulationRequest starts or suspends the warehouse simulation tasks.
type ToggleSimulationRequest struct {
	Enable *bool `json:"enable" validate:"required"`
}

func (h *Handlers) ToggleSimulationPOST(c *gin.Context) {
	var req ToggleSimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enable == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "enable must be true or false"})
		return
	}

	if err := h.client.ToggleSimulation(c.Request.Context(), *req.Enable); err != nil {
		h.log.Error("toggle simulation failed", "enable", *req.Enable, "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to toggle simulation"})
		return
	}

	// Pull fresh task state so the controls screen reflects the change
	// without waiting for the next poll tick.
	h.poller.RefreshTelemetry(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true, "enabled": *req.Enable})
}

// InjectAnomalyRequest selects the asset to inject an anomaly into.
type InjectAnomalyRequest struct {
	AssetID string `json:"asset_id"`
}

// InjectAnomalyPOST arms an anomaly trigger, or clears it when the selected
// asset is already the active one. Clearing is expressed upstream as a null
// asset id.
func (h *Handlers) InjectAnomalyPOST(c *gin.Context) {
	var req InjectAnomalyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format"})
		return
	}
	if req.AssetID == "" || !middleware.ValidAssetID(req.AssetID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asset id"})
		return
	}
	if !knownSimulationAsset(req.AssetID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown asset", "asset": req.AssetID})
		return
	}

	assetID := &req.AssetID
	triggers, _ := h.feeds.Triggers.Get()
	if active := controls.ActiveTrigger(triggers); active != nil && active.AssetID == req.AssetID {
		assetID = nil
	}

	if err := h.client.InjectAnomaly(c.Request.Context(), assetID); err != nil {
		h.log.Error("inject anomaly failed", "asset", req.AssetID, "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to inject anomaly"})
		return
	}

	h.poller.RefreshTelemetry(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true, "cleared": assetID == nil})
}

func knownSimulationAsset(id string) bool {
	for _, a := range controls.SimulationAssets {
		if a == id {
			return true
		}
	}
	return false
}

// StreamingRequest toggles a background poll cadence.
type StreamingRequest struct {
	Enable *bool `json:"enable"`
}

func (h *Handlers) SensorStreamingPOST(c *gin.Context) {
	var req StreamingRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enable == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "enable must be true or false"})
		return
	}
	h.poller.SetSensorStreaming(*req.Enable)
	c.JSON(http.StatusOK, gin.H{"ok": true, "streaming": *req.Enable})
}

func (h *Handlers) TelemetryRefreshPOST(c *gin.Context) {
	var req StreamingRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enable == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "enable must be true or false"})
		return
	}
	h.poller.SetTelemetryAutoRefresh(*req.Enable)
	c.JSON(http.StatusOK, gin.H{"ok": true, "autoRefresh": *req.Enable})
}

// Manual refresh endpoints, one per cadence group. Each re-fetches
// immediately regardless of pause state.

func (h *Handlers) RefreshDecisionsPOST(c *gin.Context) {
	h.poller.RefreshDecisions(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handlers) RefreshPropagationPOST(c *gin.Context) {
	h.poller.RefreshPropagation(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handlers) RefreshTelemetryPOST(c *gin.Context) {
	h.poller.RefreshTelemetry(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handlers) RefreshSensorsPOST(c *gin.Context) {
	h.poller.RefreshSensors(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
