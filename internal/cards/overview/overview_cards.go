package overview

import (
	"github.com/gin-gonic/gin"

	cards "snowcore/internal/cards"
	"snowcore/internal/models"
)

func init() {
	cards.Register(summaryCard{})
	cards.Register(topAssetsCard{})
	cards.Register(priorityTableCard{})
}

func decisionsFromRequest(req *cards.Request) ([]models.AssetDecision, bool, error) {
	if req == nil || req.Feeds == nil {
		return nil, false, nil
	}
	decisions, ok := req.Feeds.Decisions.Get()
	return decisions, ok, req.Feeds.Decisions.Err()
}

type summaryCard struct{}

func (summaryCard) ID() string              { return "dashboard-summary" }
func (summaryCard) Template() string        { return "cards/dashboard_summary.html" }
func (summaryCard) Screens() []cards.Screen { return []cards.Screen{cards.ScreenDashboard} }
func (summaryCard) Slot() cards.Slot        { return cards.SlotPrimary }

func (summaryCard) FetchData(req *cards.Request) (gin.H, error) {
	decisions, loaded, fetchErr := decisionsFromRequest(req)
	s := Summarize(decisions)
	data := gin.H{
		"loaded":            loaded,
		"urgentCount":       s.UrgentCount,
		"planPMCount":       s.PlanPMCount,
		"monitorCount":      s.MonitorCount,
		"totalExpectedLoss": s.TotalExpectedLoss,
		"totalNetBenefit":   s.TotalNetBenefit,
	}
	// The dashboard is the one screen with a retry affordance on failure.
	if fetchErr != nil && !loaded {
		data["fetchFailed"] = true
	}
	return data, nil
}

type assetTile struct {
	AssetID               string  `json:"assetId"`
	PFail7D               float64 `json:"pFail7d"`
	ExpectedUnplannedCost float64 `json:"expectedUnplannedCost"`
	PMCost                float64 `json:"pmCost"`
	NetBenefit            float64 `json:"netBenefit"`
	Recommendation        string  `json:"recommendation"`
	TargetWindow          string  `json:"targetWindow"`
	Confidence            float64 `json:"confidence"`
	Variant               string  `json:"variant"`
}

func tileFor(d models.AssetDecision) assetTile {
	return assetTile{
		AssetID:               d.AssetID,
		PFail7D:               d.PFail7D,
		ExpectedUnplannedCost: d.ExpectedUnplannedCost,
		PMCost:                d.PMCost,
		NetBenefit:            d.NetBenefit,
		Recommendation:        d.Recommendation,
		TargetWindow:          d.TargetWindow,
		Confidence:            d.Confidence,
		Variant:               models.Variant(d.Recommendation),
	}
}

type topAssetsCard struct{}

func (topAssetsCard) ID() string              { return "dashboard-top-assets" }
func (topAssetsCard) Template() string        { return "cards/dashboard_top_assets.html" }
func (topAssetsCard) Screens() []cards.Screen { return []cards.Screen{cards.ScreenDashboard} }
func (topAssetsCard) Slot() cards.Slot        { return cards.SlotGrid }

func (topAssetsCard) FetchData(req *cards.Request) (gin.H, error) {
	decisions, _, _ := decisionsFromRequest(req)
	top := TopPriority(decisions)
	tiles := make([]assetTile, 0, len(top))
	for _, d := range top {
		tiles = append(tiles, tileFor(d))
	}
	return gin.H{"assets": tiles}, nil
}

type priorityRow struct {
	assetTile
	RiskClass string `json:"riskClass"`
}

type priorityTableCard struct{}

func (priorityTableCard) ID() string              { return "dashboard-priority-table" }
func (priorityTableCard) Template() string        { return "cards/dashboard_priority_table.html" }
func (priorityTableCard) Screens() []cards.Screen { return []cards.Screen{cards.ScreenDashboard} }
func (priorityTableCard) Slot() cards.Slot        { return cards.SlotFooter }

func (priorityTableCard) FetchData(req *cards.Request) (gin.H, error) {
	decisions, _, _ := decisionsFromRequest(req)
	// The table trusts API order (sorted by net benefit upstream).
	rows := make([]priorityRow, 0, len(decisions))
	for _, d := range decisions {
		rows = append(rows, priorityRow{assetTile: tileFor(d), RiskClass: RiskClass(d.PFail7D)})
	}
	return gin.H{"rows": rows}, nil
}
