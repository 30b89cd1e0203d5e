package analytics

import (
	"github.com/gin-gonic/gin"

	cards "snowcore/internal/cards"
	"snowcore/internal/models"
)

func init() {
	cards.Register(frontierCard{})
	cards.Register(costComparisonCard{})
}

func decisionsFromRequest(req *cards.Request) ([]models.AssetDecision, bool) {
	if req == nil || req.Feeds == nil {
		return nil, false
	}
	return req.Feeds.Decisions.Get()
}

type frontierCard struct{}

func (frontierCard) ID() string              { return "analytics-frontier" }
func (frontierCard) Template() string        { return "cards/analytics_frontier.html" }
func (frontierCard) Screens() []cards.Screen { return []cards.Screen{cards.ScreenAnalytics} }
func (frontierCard) Slot() cards.Slot        { return cards.SlotPrimary }

func (frontierCard) FetchData(req *cards.Request) (gin.H, error) {
	decisions, loaded := decisionsFromRequest(req)
	f := BuildFrontier(decisions)
	return gin.H{
		"loaded":   loaded,
		"points":   f.Points,
		"slope":    f.Slope,
		"maxCost":  f.MaxCost,
		"maxRisk":  f.MaxRisk,
		"yMax":     f.YMax,
		"hasAbove": anyAboveLine(f),
	}, nil
}

// anyAboveLine reports whether at least one asset sits above the reference
// line, which toggles the "maintenance recommended" legend entry.
func anyAboveLine(f Frontier) bool {
	for _, p := range f.Points {
		if p.Risk > f.Slope*p.PMCost {
			return true
		}
	}
	return false
}

type costComparisonCard struct{}

func (costComparisonCard) ID() string              { return "analytics-cost-comparison" }
func (costComparisonCard) Template() string        { return "cards/analytics_cost_comparison.html" }
func (costComparisonCard) Screens() []cards.Screen { return []cards.Screen{cards.ScreenAnalytics} }
func (costComparisonCard) Slot() cards.Slot        { return cards.SlotGrid }

func (costComparisonCard) FetchData(req *cards.Request) (gin.H, error) {
	decisions, loaded := decisionsFromRequest(req)
	return gin.H{
		"loaded": loaded,
		"rows":   CostComparison(decisions),
	}, nil
}
