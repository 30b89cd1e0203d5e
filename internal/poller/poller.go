package poller

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"snowcore/internal/history"
	"snowcore/internal/models"
	"snowcore/internal/notify"
	"snowcore/internal/upstream"
)

// Feeds bundles the per-endpoint caches the screens read from.
type Feeds struct {
	Decisions   Feed[[]models.AssetDecision]
	Events      Feed[[]models.AnomalyEvent]
	Cures       Feed[[]models.CureResult]
	Sensors     Feed[models.SensorSnapshot]
	Tasks       Feed[[]models.TaskStatus]
	Triggers    Feed[[]models.AnomalyTrigger]
	Propagation Feed[[]models.PropagationScore]
}

// Broadcaster fans a feed-update notice out to connected browsers.
type Broadcaster interface {
	Broadcast(message []byte)
}

// Poller drives the background fetch cadence: live sensors every second,
// telemetry feeds (anomaly events, cure results, task status, triggers)
// every five, decisions and propagation scores once at startup and then on
// demand. Either cadence can be paused, which stops issuing requests
// entirely until resumed.
type Poller struct {
	client  *upstream.Client
	feeds   *Feeds
	history *history.Store
	hub     Broadcaster
	alerts  *notify.Alerter
	log     *log.Logger

	sensorInterval    time.Duration
	telemetryInterval time.Duration

	sensorsPaused   atomic.Bool
	telemetryPaused atomic.Bool

	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

func New(client *upstream.Client, feeds *Feeds, hist *history.Store, hub Broadcaster,
	sensorInterval, telemetryInterval time.Duration, logger *log.Logger) *Poller {
	return &Poller{
		client:            client,
		feeds:             feeds,
		history:           hist,
		hub:               hub,
		log:               logger,
		sensorInterval:    sensorInterval,
		telemetryInterval: telemetryInterval,
	}
}

// SetAlerts attaches a webhook alerter. Must be called before Start.
func (p *Poller) SetAlerts(a *notify.Alerter) {
	p.alerts = a
}

// Start launches the background loops. Safe to call once; subsequent calls
// are no-ops until Stop.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.stop != nil {
		p.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	p.stop = stop
	p.mu.Unlock()

	// One-shot feeds hydrate once up front.
	p.RefreshDecisions(ctx)
	p.RefreshPropagation(ctx)
	p.RefreshTelemetry(ctx)
	p.RefreshSensors(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.sensorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if p.sensorsPaused.Load() {
					continue
				}
				p.RefreshSensors(ctx)
			case <-stop:
				return
			}
		}
	}()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.telemetryInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if p.telemetryPaused.Load() {
					continue
				}
				p.RefreshTelemetry(ctx)
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts the loops and waits for them to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	stop := p.stop
	p.stop = nil
	p.mu.Unlock()
	if stop != nil {
		close(stop)
	}
	p.wg.Wait()
}

// SetSensorStreaming pauses or resumes the 1s sensor poll. Pausing stops
// network calls; the accumulated history is kept.
func (p *Poller) SetSensorStreaming(on bool) {
	p.sensorsPaused.Store(!on)
}

func (p *Poller) SensorStreaming() bool {
	return !p.sensorsPaused.Load()
}

// SetTelemetryAutoRefresh pauses or resumes the 5s telemetry poll.
func (p *Poller) SetTelemetryAutoRefresh(on bool) {
	p.telemetryPaused.Store(!on)
}

func (p *Poller) TelemetryAutoRefresh() bool {
	return !p.telemetryPaused.Load()
}

// track reports feed health transitions to the alert webhook, when one is
// configured.
func (p *Poller) track(feed string, err error) {
	if err != nil {
		p.alerts.FeedDown(feed, err)
		return
	}
	p.alerts.FeedRecovered(feed)
}

func (p *Poller) RefreshDecisions(ctx context.Context) {
	seq := p.feeds.Decisions.Begin()
	decisions, err := p.client.Decisions(ctx)
	if err != nil {
		p.log.Warn("decisions fetch failed", "err", err)
	}
	p.track("decisions", err)
	if p.feeds.Decisions.Apply(seq, decisions, err) && err == nil {
		p.notify("decisions")
	}
}

func (p *Poller) RefreshPropagation(ctx context.Context) {
	seq := p.feeds.Propagation.Begin()
	scores, err := p.client.PropagationScores(ctx)
	if err != nil {
		// The graph view keeps its baseline impact scores on failure.
		p.log.Warn("propagation fetch failed", "err", err)
	}
	p.track("propagation", err)
	if p.feeds.Propagation.Apply(seq, scores, err) && err == nil {
		p.notify("propagation")
	}
}

func (p *Poller) RefreshSensors(ctx context.Context) {
	seq := p.feeds.Sensors.Begin()
	snap, err := p.client.LiveSensors(ctx)
	if err != nil {
		p.log.Debug("sensor fetch failed", "err", err)
	}
	p.track("sensors", err)
	if !p.feeds.Sensors.Apply(seq, snap, err) || err != nil {
		return
	}
	p.history.Ingest(snap)
	p.notify("sensors")
}

// RefreshTelemetry fetches the four 5s-cadence feeds. Each failure is
// independent: one endpoint being down leaves the others fresh.
func (p *Poller) RefreshTelemetry(ctx context.Context) {
	changed := false

	seq := p.feeds.Events.Begin()
	events, err := p.client.AnomalyEvents(ctx)
	if err != nil {
		p.log.Debug("anomaly events fetch failed", "err", err)
	}
	p.track("anomaly-events", err)
	if p.feeds.Events.Apply(seq, events, err) && err == nil {
		changed = true
	}

	seq = p.feeds.Cures.Begin()
	cures, err := p.client.CureResults(ctx)
	if err != nil {
		p.log.Debug("cure results fetch failed", "err", err)
	}
	p.track("cure-results", err)
	if p.feeds.Cures.Apply(seq, cures, err) && err == nil {
		changed = true
	}

	seq = p.feeds.Tasks.Begin()
	tasks, err := p.client.TaskStatus(ctx)
	if err != nil {
		p.log.Debug("task status fetch failed", "err", err)
	}
	p.track("task-status", err)
	if p.feeds.Tasks.Apply(seq, tasks, err) && err == nil {
		changed = true
	}

	seq = p.feeds.Triggers.Begin()
	triggers, err := p.client.AnomalyTriggers(ctx)
	if err != nil {
		p.log.Debug("anomaly triggers fetch failed", "err", err)
	}
	p.track("anomaly-triggers", err)
	if p.feeds.Triggers.Apply(seq, triggers, err) && err == nil {
		changed = true
	}

	if changed {
		p.notify("telemetry")
	}
}

func (p *Poller) notify(feed string) {
	if p.hub == nil {
		return
	}
	msg, err := json.Marshal(map[string]string{"feed": feed})
	if err != nil {
		return
	}
	p.hub.Broadcast(msg)
}
