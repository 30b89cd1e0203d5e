package graphview

import (
	"fmt"
	"math"

	"github.com/gin-gonic/gin"

	cards "snowcore/internal/cards"
	"snowcore/internal/graph"
	"snowcore/internal/models"
)

// SVG layout constants. Node coordinates are grid cells scaled to pixels.
const (
	scale      = 120
	offsetX    = 60
	offsetY    = 60
	nodeRadius = 30
	// Arrowheads end short of the target circle so they stay visible.
	arrowGap = 8

	canvasWidth  = 5*scale + offsetX*2
	canvasHeight = 3*scale + offsetY*2
)

func init() {
	cards.Register(propagationCard{})
}

type nodeView struct {
	ID     string  `json:"id"`
	CX     float64 `json:"cx"`
	CY     float64 `json:"cy"`
	Radius float64 `json:"radius"`
	Fill   string  `json:"fill"`
	// ShortLabel is the asset id up to the first underscore.
	ShortLabel    string   `json:"shortLabel"`
	ImpactPercent int      `json:"impactPercent"`
	ImpactClass   string   `json:"impactClass"`
	Role          string   `json:"role"`
	AnomalySource string   `json:"anomalySource"`
	Reason        string   `json:"reason"`
	RiskFactors   []string `json:"riskFactors"`
	MTBFImpact    string   `json:"mtbfImpact"`
	Upstream      []string `json:"upstream"`
	Downstream    []string `json:"downstream"`
}

type edgeView struct {
	ID           string  `json:"id"`
	X1           float64 `json:"x1"`
	Y1           float64 `json:"y1"`
	X2           float64 `json:"x2"`
	Y2           float64 `json:"y2"`
	Stroke       string  `json:"stroke"`
	StrokeWidth  float64 `json:"strokeWidth"`
	ArrowSize    float64 `json:"arrowSize"`
	ArrowOpacity float64 `json:"arrowOpacity"`
}

type propagationCard struct{}

func (propagationCard) ID() string              { return "gnn-propagation" }
func (propagationCard) Template() string        { return "cards/gnn_propagation.html" }
func (propagationCard) Screens() []cards.Screen { return []cards.Screen{cards.ScreenGraph} }
func (propagationCard) Slot() cards.Slot        { return cards.SlotPrimary }

func (propagationCard) FetchData(req *cards.Request) (gin.H, error) {
	var scores []models.PropagationScore
	var loaded bool
	var updatedAt string
	if req != nil && req.Feeds != nil {
		scores, loaded = req.Feeds.Propagation.Get()
		if !req.Feeds.Propagation.UpdatedAt().IsZero() {
			updatedAt = req.Feeds.Propagation.UpdatedAt().Format("15:04:05")
		}
	}

	nodes := graph.Overlay(graph.Topology(), scores)
	byID := make(map[string]graph.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	nodeViews := make([]nodeView, 0, len(nodes))
	for _, n := range nodes {
		nodeViews = append(nodeViews, nodeView{
			ID:            n.ID,
			CX:            float64(n.X*scale + offsetX),
			CY:            float64(n.Y*scale + offsetY),
			Radius:        nodeRadius,
			Fill:          graph.NodeColor(n.Impact),
			ShortLabel:    shortLabel(n.ID),
			ImpactPercent: int(math.Round(n.Impact * 100)),
			ImpactClass:   graph.ImpactClass(n.Impact),
			Role:          n.Role,
			AnomalySource: n.AnomalySource,
			Reason:        n.PropagationReason,
			RiskFactors:   n.RiskFactors,
			MTBFImpact:    n.MTBFImpact,
			Upstream:      n.Upstream,
			Downstream:    n.Downstream,
		})
	}

	edges := graph.Edges()
	edgeViews := make([]edgeView, 0, len(edges))
	for _, e := range edges {
		src, sok := byID[e.Source]
		tgt, tok := byID[e.Target]
		if !sok || !tok {
			continue
		}
		strength := graph.EdgeStrength(src, tgt)

		x1 := float64(src.X*scale + offsetX)
		y1 := float64(src.Y*scale + offsetY)
		x2 := float64(tgt.X*scale + offsetX)
		y2 := float64(tgt.Y*scale + offsetY)
		dx, dy := x2-x1, y2-y1
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		ux, uy := dx/length, dy/length

		edgeViews = append(edgeViews, edgeView{
			ID:           e.Source + "-" + e.Target,
			X1:           x1 + ux*nodeRadius,
			Y1:           y1 + uy*nodeRadius,
			X2:           x2 - ux*(nodeRadius+arrowGap),
			Y2:           y2 - uy*(nodeRadius+arrowGap),
			Stroke:       fmt.Sprintf("rgba(41, 181, 232, %.2f)", graph.LineOpacity(strength)),
			StrokeWidth:  graph.StrokeWidth(strength),
			ArrowSize:    graph.ArrowSize(strength),
			ArrowOpacity: graph.ArrowOpacity(strength),
		})
	}

	return gin.H{
		"loaded":     loaded,
		"nodes":      nodeViews,
		"edges":      edgeViews,
		"width":      canvasWidth,
		"height":     canvasHeight,
		"lastUpdate": updatedAt,
	}, nil
}

func shortLabel(assetID string) string {
	for i := 0; i < len(assetID); i++ {
		if assetID[i] == '_' {
			return assetID[:i]
		}
	}
	return assetID
}
