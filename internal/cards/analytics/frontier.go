package analytics

import (
	"math"
	"sort"

	"snowcore/internal/models"
)

// Axis floors keep the frontier chart readable when the decision list is
// sparse or empty.
const (
	minCostDomain = 60000
	minRiskDomain = 35
	minPointSize  = 8
)

var recommendationColors = map[string]string{
	models.RecommendationUrgent:  "#ef4444",
	models.RecommendationPlanPM:  "#f59e0b",
	models.RecommendationMonitor: "#10b981",
}

// PointColor returns the scatter color for a recommendation.
func PointColor(recommendation string) string {
	if c, ok := recommendationColors[recommendation]; ok {
		return c
	}
	return recommendationColors[models.RecommendationMonitor]
}

// FrontierPoint is one asset on the efficient-frontier scatter. Risk is the
// 7-day failure probability as a percentage.
type FrontierPoint struct {
	Name           string  `json:"name"`
	PMCost         float64 `json:"pmCost"`
	Risk           float64 `json:"risk"`
	NetBenefit     float64 `json:"netBenefit"`
	Recommendation string  `json:"recommendation"`
	Size           float64 `json:"size"`
	Color          string  `json:"color"`
}

// Frontier is the full scatter view model: points, the reference line slope,
// and the axis domains.
type Frontier struct {
	Points  []FrontierPoint `json:"points"`
	Slope   float64         `json:"slope"`
	MaxCost float64         `json:"maxCost"`
	MaxRisk float64         `json:"maxRisk"`
	YMax    float64         `json:"yMax"`
}

// BuildFrontier derives the efficient-frontier chart. The reference line's
// slope is the aggregate risk-per-dollar of the assets worth maintaining:
// sum(risk%) / sum(PM cost) over positive-net-benefit assets. With no such
// asset it falls back to half the observed max risk over max cost.
func BuildFrontier(decisions []models.AssetDecision) Frontier {
	maxCost := float64(minCostDomain)
	maxRisk := float64(minRiskDomain)
	for _, d := range decisions {
		maxCost = math.Max(maxCost, d.PMCost)
		maxRisk = math.Max(maxRisk, d.PFail7D*100)
	}

	var riskSum, costSum float64
	for _, d := range decisions {
		if d.NetBenefit > 0 {
			riskSum += d.PFail7D * 100
			costSum += d.PMCost
		}
	}
	slope := maxRisk * 0.5 / maxCost
	if costSum > 0 {
		slope = riskSum / costSum
	}

	points := make([]FrontierPoint, 0, len(decisions))
	for _, d := range decisions {
		points = append(points, FrontierPoint{
			Name:           d.AssetID,
			PMCost:         d.PMCost,
			Risk:           d.PFail7D * 100,
			NetBenefit:     d.NetBenefit,
			Recommendation: d.Recommendation,
			Size:           math.Max(d.ExpectedUnplannedCost/2000, minPointSize),
			Color:          PointColor(d.Recommendation),
		})
	}

	return Frontier{
		Points:  points,
		Slope:   slope,
		MaxCost: maxCost,
		MaxRisk: maxRisk,
		YMax:    math.Max(maxRisk, slope*maxCost) * 1.1,
	}
}

var severityOrder = map[string]int{
	models.RecommendationUrgent:  0,
	models.RecommendationPlanPM:  1,
	models.RecommendationMonitor: 2,
}

// CostRow is one grouped bar pair of the cost-comparison chart.
type CostRow struct {
	Name           string  `json:"name"`
	UnplannedCost  float64 `json:"unplannedCost"`
	PMCost         float64 `json:"pmCost"`
	NetBenefit     float64 `json:"netBenefit"`
	Recommendation string  `json:"recommendation"`
}

// CostComparison orders assets by recommendation severity (URGENT first,
// then PLAN_PM, then MONITOR, anything else last) and within a severity by
// descending net benefit.
func CostComparison(decisions []models.AssetDecision) []CostRow {
	sorted := make([]models.AssetDecision, len(decisions))
	copy(sorted, decisions)
	sort.SliceStable(sorted, func(i, j int) bool {
		oi, ok := severityOrder[sorted[i].Recommendation]
		if !ok {
			oi = 3
		}
		oj, ok := severityOrder[sorted[j].Recommendation]
		if !ok {
			oj = 3
		}
		if oi != oj {
			return oi < oj
		}
		return sorted[i].NetBenefit > sorted[j].NetBenefit
	})

	rows := make([]CostRow, 0, len(sorted))
	for _, d := range sorted {
		rows = append(rows, CostRow{
			Name:           d.AssetID,
			UnplannedCost:  d.ExpectedUnplannedCost,
			PMCost:         d.PMCost,
			NetBenefit:     d.NetBenefit,
			Recommendation: d.Recommendation,
		})
	}
	return rows
}
