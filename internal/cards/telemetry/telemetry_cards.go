package telemetry

import (
	"github.com/gin-gonic/gin"

	cards "snowcore/internal/cards"
	"snowcore/internal/models"
)

func init() {
	cards.Register(statsCard{})
	cards.Register(humidityCard{})
	cards.Register(delaminationCard{})
	cards.Register(anomalyListCard{})
}

func feedsFromRequest(req *cards.Request) ([]models.AnomalyEvent, []models.CureResult, bool) {
	if req == nil || req.Feeds == nil {
		return nil, nil, false
	}
	anomalies, aok := req.Feeds.Events.Get()
	cures, cok := req.Feeds.Cures.Get()
	return anomalies, cures, aok && cok
}

type statsCard struct{}

func (statsCard) ID() string              { return "telemetry-stats" }
func (statsCard) Template() string        { return "cards/telemetry_stats.html" }
func (statsCard) Screens() []cards.Screen { return []cards.Screen{cards.ScreenTelemetry} }
func (statsCard) Slot() cards.Slot        { return cards.SlotPrimary }

func (statsCard) FetchData(req *cards.Request) (gin.H, error) {
	anomalies, cures, loaded := feedsFromRequest(req)
	s := ComputeStats(anomalies, cures)
	autoRefresh := true
	if req != nil && req.Poller != nil {
		autoRefresh = req.Poller.TelemetryAutoRefresh()
	}
	return gin.H{
		"loaded":          loaded,
		"activeAnomalies": s.ActiveAnomalies,
		"highSeverity":    s.HighSeverity,
		"scrapRate":       s.ScrapRate,
		"scrapCount":      s.ScrapCount,
		"avgHumidity":     s.AvgHumidity,
		"batchCount":      s.BatchCount,
		"humidityHigh":    s.AvgHumidity > 60,
		"scrapHigh":       s.ScrapRate > 10,
		"autoRefresh":     autoRefresh,
	}, nil
}

type humidityCard struct{}

func (humidityCard) ID() string              { return "telemetry-humidity" }
func (humidityCard) Template() string        { return "cards/telemetry_humidity.html" }
func (humidityCard) Screens() []cards.Screen { return []cards.Screen{cards.ScreenTelemetry} }
func (humidityCard) Slot() cards.Slot        { return cards.SlotGrid }

func (humidityCard) FetchData(req *cards.Request) (gin.H, error) {
	_, cures, loaded := feedsFromRequest(req)
	return gin.H{
		"loaded": loaded,
		"points": HumidityTrend(cures),
	}, nil
}

type delaminationCard struct{}

func (delaminationCard) ID() string              { return "telemetry-delamination" }
func (delaminationCard) Template() string        { return "cards/telemetry_delamination.html" }
func (delaminationCard) Screens() []cards.Screen { return []cards.Screen{cards.ScreenTelemetry} }
func (delaminationCard) Slot() cards.Slot        { return cards.SlotGrid }

func (delaminationCard) FetchData(req *cards.Request) (gin.H, error) {
	_, cures, loaded := feedsFromRequest(req)
	return gin.H{
		"loaded": loaded,
		"points": DelaminationSeries(cures),
	}, nil
}

type anomalyRow struct {
	EventID       string  `json:"eventId"`
	AssetID       string  `json:"assetId"`
	Timestamp     string  `json:"timestamp"`
	TypeLabel     string  `json:"typeLabel"`
	Score         float64 `json:"score"`
	Severity      string  `json:"severity"`
	SeverityClass string  `json:"severityClass"`
	RootCause     string  `json:"rootCause"`
	SuggestedFix  string  `json:"suggestedFix"`
	Resolved      bool    `json:"resolved"`
}

type anomalyListCard struct{}

func (anomalyListCard) ID() string              { return "telemetry-anomalies" }
func (anomalyListCard) Template() string        { return "cards/telemetry_anomalies.html" }
func (anomalyListCard) Screens() []cards.Screen { return []cards.Screen{cards.ScreenTelemetry} }
func (anomalyListCard) Slot() cards.Slot        { return cards.SlotFooter }

func (anomalyListCard) FetchData(req *cards.Request) (gin.H, error) {
	anomalies, _, loaded := feedsFromRequest(req)
	rows := make([]anomalyRow, 0, len(anomalies))
	for _, a := range anomalies {
		rows = append(rows, anomalyRow{
			EventID:       a.EventID,
			AssetID:       a.AssetID,
			Timestamp:     a.Timestamp,
			TypeLabel:     TypeLabel(a.AnomalyType),
			Score:         a.AnomalyScore,
			Severity:      a.Severity,
			SeverityClass: SeverityClass(a.Severity),
			RootCause:     a.RootCause,
			SuggestedFix:  a.SuggestedFix,
			Resolved:      a.Resolved,
		})
	}
	return gin.H{"loaded": loaded, "anomalies": rows}, nil
}
