package telemetry

import (
	"sort"
	"strings"
	"time"

	"snowcore/internal/models"
)

// HumidityThreshold is the layup-room humidity ceiling drawn as the red
// dashed reference line on the trend chart.
const HumidityThreshold = 65.0

// Stats are the four headline telemetry metrics.
type Stats struct {
	ActiveAnomalies int
	HighSeverity    int
	ScrapRate       float64
	ScrapCount      int
	AvgHumidity     float64
	BatchCount      int
}

// ComputeStats derives the headline metrics. Rates stay zero, never NaN,
// when no cure results have arrived yet.
func ComputeStats(anomalies []models.AnomalyEvent, cures []models.CureResult) Stats {
	s := Stats{BatchCount: len(cures)}
	for _, a := range anomalies {
		if a.Resolved {
			continue
		}
		s.ActiveAnomalies++
		if a.Severity == "HIGH" {
			s.HighSeverity++
		}
	}
	var humiditySum float64
	for _, c := range cures {
		if c.ScrapFlag {
			s.ScrapCount++
		}
		humiditySum += c.LayupHumidityAvg
	}
	if len(cures) > 0 {
		s.ScrapRate = float64(s.ScrapCount) / float64(len(cures)) * 100
		s.AvgHumidity = humiditySum / float64(len(cures))
	}
	return s
}

// HumidityPoint is one cure cycle on the humidity trend chart.
type HumidityPoint struct {
	Time      string  `json:"time"`
	Avg       float64 `json:"avg"`
	Peak      float64 `json:"peak"`
	Threshold float64 `json:"threshold"`
}

// DelaminationPoint is one batch on the delamination chart. Scrap carries
// the score again only for scrapped batches, so the chart can overlay a
// red marker.
type DelaminationPoint struct {
	Batch string   `json:"batch"`
	Score float64  `json:"score"`
	Scrap *float64 `json:"scrap"`
}

func sortedByCureTime(cures []models.CureResult) []models.CureResult {
	sorted := make([]models.CureResult, len(cures))
	copy(sorted, cures)
	sort.SliceStable(sorted, func(i, j int) bool {
		return parseCureTime(sorted[i].CureTimestamp).Before(parseCureTime(sorted[j].CureTimestamp))
	})
	return sorted
}

func parseCureTime(raw string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// HumidityTrend orders cure results chronologically and maps them onto the
// trend chart's points.
func HumidityTrend(cures []models.CureResult) []HumidityPoint {
	points := make([]HumidityPoint, 0, len(cures))
	for _, c := range sortedByCureTime(cures) {
		points = append(points, HumidityPoint{
			Time:      parseCureTime(c.CureTimestamp).Format("Jan 2"),
			Avg:       c.LayupHumidityAvg,
			Peak:      c.LayupHumidityPeak,
			Threshold: HumidityThreshold,
		})
	}
	return points
}

// DelaminationSeries orders cure results chronologically and maps them onto
// per-batch delamination points. Batch labels drop the "BATCH-" prefix.
func DelaminationSeries(cures []models.CureResult) []DelaminationPoint {
	points := make([]DelaminationPoint, 0, len(cures))
	for _, c := range sortedByCureTime(cures) {
		p := DelaminationPoint{
			Batch: strings.TrimPrefix(c.BatchID, "BATCH-"),
			Score: c.DelaminationScore,
		}
		if c.ScrapFlag {
			score := c.DelaminationScore
			p.Scrap = &score
		}
		points = append(points, p)
	}
	return points
}

// SeverityClass buckets an anomaly severity for styling. Unknown severities
// render as low.
func SeverityClass(severity string) string {
	switch severity {
	case "HIGH":
		return "urgent"
	case "MEDIUM":
		return "warning"
	default:
		return "success"
	}
}

// TypeLabel turns an UPPER_SNAKE anomaly type into a display label.
func TypeLabel(anomalyType string) string {
	return strings.ReplaceAll(anomalyType, "_", " ")
}
