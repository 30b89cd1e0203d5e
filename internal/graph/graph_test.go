package graph

import (
	"testing"

	"snowcore/internal/models"
)

func TestNodeColorEndpoints(t *testing.T) {
	if got := NodeColor(0); got != "rgb(0, 200, 100)" {
		t.Errorf("NodeColor(0) = %q", got)
	}
	if got := NodeColor(1); got != "rgb(255, 0, 0)" {
		t.Errorf("NodeColor(1) = %q", got)
	}
	if got := NodeColor(0.5); got != "rgb(128, 100, 50)" {
		t.Errorf("NodeColor(0.5) = %q", got)
	}
}

func TestOverlayReplacesScores(t *testing.T) {
	nodes := Topology()
	scores := []models.PropagationScore{
		{Asset: "AUTOCLAVE_01", Score: 0.42},
		{Asset: "NOT_A_REAL_ASSET", Score: 0.99},
	}

	merged := Overlay(nodes, scores)

	var found bool
	for _, n := range merged {
		if n.ID == "AUTOCLAVE_01" {
			found = true
			if n.Impact != 0.42 {
				t.Errorf("AUTOCLAVE_01 impact = %v, want 0.42", n.Impact)
			}
		}
		if n.ID == "LAYUP_ROOM" && n.Impact != 0.8 {
			t.Errorf("unscored node should keep baseline, got %v", n.Impact)
		}
	}
	if !found {
		t.Fatal("AUTOCLAVE_01 missing from merged nodes")
	}
	if len(merged) != len(nodes) {
		t.Fatalf("unknown assets must not add nodes: %d vs %d", len(merged), len(nodes))
	}
}

func TestOverlayDoesNotMutateTopology(t *testing.T) {
	Overlay(Topology(), []models.PropagationScore{{Asset: "LAYUP_ROOM", Score: 0.01}})

	for _, n := range Topology() {
		if n.ID == "LAYUP_ROOM" && n.Impact != 0.8 {
			t.Fatalf("topology baseline changed: %v", n.Impact)
		}
	}
}

func TestTopologyShape(t *testing.T) {
	nodes := Topology()
	edges := Edges()
	if len(nodes) != 9 {
		t.Errorf("expected 9 nodes, got %d", len(nodes))
	}
	if len(edges) != 8 {
		t.Errorf("expected 8 edges, got %d", len(edges))
	}

	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = true
	}
	for _, e := range edges {
		if !ids[e.Source] || !ids[e.Target] {
			t.Errorf("edge %s->%s references unknown node", e.Source, e.Target)
		}
	}
}

func TestEdgeEncodings(t *testing.T) {
	src := Node{Impact: 0.9}
	tgt := Node{Impact: 0.2}

	s := EdgeStrength(src, tgt)
	if s != 0.9 {
		t.Fatalf("strength should be the max endpoint impact, got %v", s)
	}
	if got := StrokeWidth(s); got != 2+0.9*4 {
		t.Errorf("StrokeWidth = %v", got)
	}
	if got := ArrowSize(s); got != 4+0.9*2 {
		t.Errorf("ArrowSize = %v", got)
	}
	if got := ArrowOpacity(0.3); got != 0.5 {
		t.Errorf("weak edges keep a 0.5 arrow floor, got %v", got)
	}
	if got := ArrowOpacity(0.8); got != 0.8 {
		t.Errorf("ArrowOpacity(0.8) = %v", got)
	}
}

func TestImpactClass(t *testing.T) {
	cases := map[float64]string{
		0.9: "urgent",
		0.5: "warning",
		0.4: "success",
		0.1: "success",
	}
	for impact, want := range cases {
		if got := ImpactClass(impact); got != want {
			t.Errorf("ImpactClass(%v) = %q, want %q", impact, got, want)
		}
	}
}
