package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"snowcore/internal/models"
)

// Client is the typed fetch layer over the reliability API. All reads are
// plain GETs that decode into the shared view models; the two POST actions
// proxy simulation controls. Calls do not retry: a failed poll surfaces its
// error and the next tick tries again.
type Client struct {
	http            *http.Client
	base            string
	propagationBase string
	log             *log.Logger
}

func NewClient(base, propagationBase string, timeout time.Duration, logger *log.Logger) *Client {
	return &Client{
		http:            &http.Client{Timeout: timeout},
		base:            strings.TrimRight(base, "/"),
		propagationBase: strings.TrimRight(propagationBase, "/"),
		log:             logger,
	}
}

func (c *Client) getJSON(ctx context.Context, base, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Code: resp.StatusCode, Path: path}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s body: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Code: resp.StatusCode, Path: path}
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return nil
}

func (c *Client) Decisions(ctx context.Context) ([]models.AssetDecision, error) {
	var resp models.DecisionsResponse
	if err := c.getJSON(ctx, c.base, "/api/decisions", &resp); err != nil {
		return nil, err
	}
	return resp.Decisions, nil
}

func (c *Client) AnomalyEvents(ctx context.Context) ([]models.AnomalyEvent, error) {
	var resp models.AnomalyEventsResponse
	if err := c.getJSON(ctx, c.base, "/api/anomaly-events", &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

func (c *Client) CureResults(ctx context.Context) ([]models.CureResult, error) {
	var resp models.CureResultsResponse
	if err := c.getJSON(ctx, c.base, "/api/cure-results", &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *Client) LiveSensors(ctx context.Context) (models.SensorSnapshot, error) {
	var resp models.SensorSnapshot
	if err := c.getJSON(ctx, c.base, "/api/live-sensors-by-asset", &resp); err != nil {
		return models.SensorSnapshot{}, err
	}
	return resp, nil
}

func (c *Client) TaskStatus(ctx context.Context) ([]models.TaskStatus, error) {
	var resp models.TaskStatusResponse
	if err := c.getJSON(ctx, c.base, "/api/task-status", &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (c *Client) AnomalyTriggers(ctx context.Context) ([]models.AnomalyTrigger, error) {
	var resp models.AnomalyTriggersResponse
	if err := c.getJSON(ctx, c.base, "/api/anomaly-triggers", &resp); err != nil {
		return nil, err
	}
	return resp.Triggers, nil
}

// PropagationScores talks to the propagation service, which is deployed
// separately from the primary API (see config.Config).
func (c *Client) PropagationScores(ctx context.Context) ([]models.PropagationScore, error) {
	var resp models.PropagationResponse
	if err := c.getJSON(ctx, c.propagationBase, "/api/gnn-propagation", &resp); err != nil {
		return nil, err
	}
	return resp.Nodes, nil
}

func (c *Client) Chat(ctx context.Context, message string) (*models.ChatResponse, error) {
	var resp models.ChatResponse
	if err := c.postJSON(ctx, "/api/chat", models.ChatRequest{Message: message}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ToggleSimulation(ctx context.Context, enable bool) error {
	body := map[string]bool{"enable": enable}
	return c.postJSON(ctx, "/api/toggle-simulation", body, nil)
}

// InjectAnomaly activates an anomaly trigger on the given asset, or clears
// the active trigger when assetID is nil.
func (c *Client) InjectAnomaly(ctx context.Context, assetID *string) error {
	body := map[string]*string{"asset_id": assetID}
	return c.postJSON(ctx, "/api/inject-anomaly", body, nil)
}
