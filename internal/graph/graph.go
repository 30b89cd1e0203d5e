package graph

import (
	"fmt"
	"math"

	"snowcore/internal/models"
)

// Overlay merges propagation-service scores into a copy of the node set,
// keyed by asset id. Nodes without a score keep their baseline impact;
// scores for unknown assets are ignored. Topology and coordinates are never
// touched.
func Overlay(nodes []Node, scores []models.PropagationScore) []Node {
	if len(scores) == 0 {
		return nodes
	}
	byAsset := make(map[string]float64, len(scores))
	for _, s := range scores {
		byAsset[s.Asset] = s.Score
	}
	out := make([]Node, len(nodes))
	copy(out, nodes)
	for i := range out {
		if score, ok := byAsset[out[i].ID]; ok {
			out[i].Impact = score
		}
	}
	return out
}

// NodeColor blends the node fill linearly from green (impact 0) to red
// (impact 1): rgb(i*255, (1-i)*200, (1-i)*100).
func NodeColor(impact float64) string {
	r := int(math.Round(impact * 255))
	g := int(math.Round((1 - impact) * 200))
	b := int(math.Round((1 - impact) * 100))
	return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
}

// EdgeStrength is the visual weight of an edge: the larger of its two
// endpoint impact scores.
func EdgeStrength(source, target Node) float64 {
	return math.Max(source.Impact, target.Impact)
}

// StrokeWidth scales an edge's line width by its strength.
func StrokeWidth(strength float64) float64 {
	return 2 + strength*4
}

// ArrowSize scales an edge's arrowhead marker by its strength.
func ArrowSize(strength float64) float64 {
	return 4 + strength*2
}

// LineOpacity is the edge line alpha.
func LineOpacity(strength float64) float64 {
	return strength
}

// ArrowOpacity keeps arrowheads legible on weak edges.
func ArrowOpacity(strength float64) float64 {
	return math.Max(strength, 0.5)
}

// ImpactClass buckets an impact score for the detail panel accent.
func ImpactClass(impact float64) string {
	switch {
	case impact > 0.7:
		return "urgent"
	case impact > 0.4:
		return "warning"
	default:
		return "success"
	}
}
