package overview

import "snowcore/internal/models"

// Summary holds the four headline metrics of the dashboard, derived purely
// from the decision list.
type Summary struct {
	UrgentCount       int
	PlanPMCount       int
	MonitorCount      int
	TotalExpectedLoss float64
	TotalNetBenefit   float64
}

// Summarize computes the headline metrics. TotalNetBenefit sums only assets
// whose net benefit is positive; MonitorCount covers every recommendation
// outside URGENT and PLAN_PM so the three counts always add up to the asset
// total.
func Summarize(decisions []models.AssetDecision) Summary {
	var s Summary
	for _, d := range decisions {
		switch d.Recommendation {
		case models.RecommendationUrgent:
			s.UrgentCount++
		case models.RecommendationPlanPM:
			s.PlanPMCount++
		default:
			s.MonitorCount++
		}
		s.TotalExpectedLoss += d.ExpectedUnplannedCost
		if d.NetBenefit > 0 {
			s.TotalNetBenefit += d.NetBenefit
		}
	}
	return s
}

// TopPriority returns the first three assets with positive net benefit, in
// the order the API returned them. The API already sorts by net benefit, so
// no re-sort is applied here.
func TopPriority(decisions []models.AssetDecision) []models.AssetDecision {
	out := make([]models.AssetDecision, 0, 3)
	for _, d := range decisions {
		if d.NetBenefit <= 0 {
			continue
		}
		out = append(out, d)
		if len(out) == 3 {
			break
		}
	}
	return out
}

// RiskClass buckets the 7-day failure probability for table styling.
func RiskClass(pFail float64) string {
	switch {
	case pFail > 0.3:
		return "urgent"
	case pFail > 0.15:
		return "warning"
	default:
		return "default"
	}
}
