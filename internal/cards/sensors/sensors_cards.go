package sensors

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	cards "snowcore/internal/cards"
	"snowcore/internal/history"
	"snowcore/internal/models"
)

func init() {
	cards.Register(filterBarCard{})
	cards.Register(assetGridCard{})
}

func snapshotFromRequest(req *cards.Request) (models.SensorSnapshot, bool) {
	if req == nil || req.Feeds == nil {
		return models.SensorSnapshot{}, false
	}
	return req.Feeds.Sensors.Get()
}

// selectedChannels parses the "channels" query parameter, a comma-separated
// list of channel names. Absent or empty means every channel.
func selectedChannels(req *cards.Request) []history.Channel {
	if req == nil || req.Context == nil {
		return history.Channels
	}
	raw := strings.TrimSpace(req.Context.Query("channels"))
	if raw == "" {
		return history.Channels
	}
	selected := make([]history.Channel, 0, len(history.Channels))
	for _, tok := range strings.Split(raw, ",") {
		if ch, ok := history.ParseChannel(strings.TrimSpace(tok)); ok {
			selected = append(selected, ch)
		}
	}
	return selected
}

type channelChip struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Color    string `json:"color"`
	Selected bool   `json:"selected"`
}

type filterBarCard struct{}

func (filterBarCard) ID() string              { return "sensors-filter-bar" }
func (filterBarCard) Template() string        { return "cards/sensors_filter_bar.html" }
func (filterBarCard) Screens() []cards.Screen { return []cards.Screen{cards.ScreenLiveSensors} }
func (filterBarCard) Slot() cards.Slot        { return cards.SlotPrimary }

func (filterBarCard) FetchData(req *cards.Request) (gin.H, error) {
	snap, loaded := snapshotFromRequest(req)
	selected := selectedChannels(req)
	chips := make([]channelChip, 0, len(history.Channels))
	for _, ch := range history.Channels {
		meta := history.Meta(ch)
		chips = append(chips, channelChip{
			Key:      string(ch),
			Label:    meta.Label,
			Color:    meta.Color,
			Selected: containsChannel(selected, ch),
		})
	}
	streaming := true
	if req != nil && req.Poller != nil {
		streaming = req.Poller.SensorStreaming()
	}
	return gin.H{
		"loaded":     loaded,
		"channels":   chips,
		"streaming":  streaming,
		"lastUpdate": snap.Timestamp,
	}, nil
}

func containsChannel(chans []history.Channel, ch history.Channel) bool {
	for _, c := range chans {
		if c == ch {
			return true
		}
	}
	return false
}

type sparkPoint struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

type channelPanel struct {
	Key       string       `json:"key"`
	Label     string       `json:"label"`
	Unit      string       `json:"unit"`
	Color     string       `json:"color"`
	Precision int          `json:"precision"`
	Current   *float64     `json:"current"`
	Points    []sparkPoint `json:"points"`
}

type assetPanel struct {
	AssetID  string         `json:"assetId"`
	HasData  bool           `json:"hasData"`
	Channels []channelPanel `json:"channels"`
}

type assetGridCard struct{}

func (assetGridCard) ID() string              { return "sensors-asset-grid" }
func (assetGridCard) Template() string        { return "cards/sensors_asset_grid.html" }
func (assetGridCard) Screens() []cards.Screen { return []cards.Screen{cards.ScreenLiveSensors} }
func (assetGridCard) Slot() cards.Slot        { return cards.SlotGrid }

// FetchData lays out one panel per asset that currently reports data, with
// one rolling sparkline per selected channel the asset actually has.
func (assetGridCard) FetchData(req *cards.Request) (gin.H, error) {
	snap, loaded := snapshotFromRequest(req)
	selected := selectedChannels(req)

	var store *history.Store
	if req != nil {
		store = req.History
	}

	byAsset := make(map[string][]models.SensorReading)
	for _, r := range snap.Sensors {
		byAsset[r.AssetID] = append(byAsset[r.AssetID], r)
	}

	assets := history.AssetsWithData(snap.Sensors)
	panels := make([]assetPanel, 0, len(assets))
	for _, asset := range assets {
		readings := byAsset[asset]
		var latest models.SensorReading
		if len(readings) > 0 {
			latest = readings[0]
		}
		channels := make([]channelPanel, 0, len(selected))
		for _, ch := range selected {
			// Channels the asset's latest reading does not carry are
			// hidden, matching the availability of the live feed.
			if history.ChannelValue(latest, ch) == nil {
				continue
			}
			meta := history.Meta(ch)
			panel := channelPanel{
				Key:       string(ch),
				Label:     meta.Label,
				Unit:      meta.Unit,
				Color:     meta.Color,
				Precision: meta.Precision,
			}
			if store != nil {
				samples := store.Samples(asset, ch)
				panel.Points = make([]sparkPoint, 0, len(samples))
				for _, s := range samples {
					panel.Points = append(panel.Points, sparkPoint{
						Time:  s.Time.Format(time.TimeOnly),
						Value: s.Value,
					})
				}
				if len(samples) > 0 {
					v := samples[len(samples)-1].Value
					panel.Current = &v
				}
			}
			channels = append(channels, panel)
		}
		panels = append(panels, assetPanel{
			AssetID:  asset,
			HasData:  true,
			Channels: channels,
		})
	}

	return gin.H{"loaded": loaded, "assets": panels}, nil
}
