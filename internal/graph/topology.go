package graph

// The propagation graph topology is fixed configuration: the plant's
// manufacturing flow does not change between runs, only the per-node impact
// scores do. Layout coordinates are grid cells, scaled to pixels at render
// time.

// Node is one asset in the propagation graph. Impact holds the baseline
// score, replaced per node by the propagation service when available.
type Node struct {
	ID                string   `json:"id"`
	X                 int      `json:"x"`
	Y                 int      `json:"y"`
	Impact            float64  `json:"impact"`
	Role              string   `json:"role"`
	AnomalySource     string   `json:"anomalySource"`
	PropagationReason string   `json:"propagationReason"`
	RiskFactors       []string `json:"riskFactors"`
	MTBFImpact        string   `json:"mtbfImpact"`
	Upstream          []string `json:"upstream"`
	Downstream        []string `json:"downstream"`
}

// Edge is a directed dependency between two assets.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

var defaultNodes = []Node{
	{
		ID:                "LAYUP_ROOM",
		X:                 0,
		Y:                 1,
		Impact:            0.8,
		Role:              "Source Node",
		AnomalySource:     "Temperature deviation (+2.3°C)",
		PropagationReason: "Environmental conditions affect composite material properties",
		RiskFactors:       []string{"Humidity sensor drift", "HVAC load imbalance"},
		MTBFImpact:        "-15% estimated",
		Downstream:        []string{"LAYUP_BOT_01", "LAYUP_BOT_02"},
	},
	{
		ID:                "LAYUP_BOT_01",
		X:                 1,
		Y:                 0,
		Impact:            0.6,
		Role:              "Processing Node",
		AnomalySource:     "Inherited from LAYUP_ROOM",
		PropagationReason: "Material quality variance affects layup precision",
		RiskFactors:       []string{"Ply alignment deviation", "Resin distribution"},
		MTBFImpact:        "-12% estimated",
		Upstream:          []string{"LAYUP_ROOM"},
		Downstream:        []string{"AUTOCLAVE_01"},
	},
	{
		ID:                "LAYUP_BOT_02",
		X:                 1,
		Y:                 2,
		Impact:            0.3,
		Role:              "Processing Node",
		AnomalySource:     "Minimal exposure",
		PropagationReason: "Operating on different material batch",
		RiskFactors:       []string{"Low correlation with current anomaly"},
		MTBFImpact:        "-3% estimated",
		Upstream:          []string{"LAYUP_ROOM"},
		Downstream:        []string{"AUTOCLAVE_02"},
	},
	{
		ID:                "AUTOCLAVE_01",
		X:                 2,
		Y:                 0,
		Impact:            0.9,
		Role:              "Critical Node",
		AnomalySource:     "Pressure cycle variance detected",
		PropagationReason: "Upstream material issues + own sensor anomaly compound risk",
		RiskFactors:       []string{"Cure cycle deviation", "Thermocouple drift", "Door seal wear"},
		MTBFImpact:        "-22% estimated",
		Upstream:          []string{"LAYUP_BOT_01"},
		Downstream:        []string{"CNC_MILL_01"},
	},
	{
		ID:                "AUTOCLAVE_02",
		X:                 2,
		Y:                 2,
		Impact:            0.2,
		Role:              "Processing Node",
		AnomalySource:     "None detected",
		PropagationReason: "Isolated from primary anomaly chain",
		RiskFactors:       []string{"Nominal operation"},
		MTBFImpact:        "0% (baseline)",
		Upstream:          []string{"LAYUP_BOT_02"},
		Downstream:        []string{"CNC_MILL_02"},
	},
	{
		ID:                "CNC_MILL_01",
		X:                 3,
		Y:                 0,
		Impact:            0.7,
		Role:              "Processing Node",
		AnomalySource:     "Spindle vibration +0.8mm/s",
		PropagationReason: "Cured part variance affects machining parameters",
		RiskFactors:       []string{"Tool wear acceleration", "Surface finish deviation"},
		MTBFImpact:        "-18% estimated",
		Upstream:          []string{"AUTOCLAVE_01"},
		Downstream:        []string{"QC_STATION_01"},
	},
	{
		ID:                "CNC_MILL_02",
		X:                 3,
		Y:                 2,
		Impact:            0.1,
		Role:              "Processing Node",
		AnomalySource:     "None detected",
		PropagationReason: "Isolated from primary anomaly chain",
		RiskFactors:       []string{"Nominal operation"},
		MTBFImpact:        "0% (baseline)",
		Upstream:          []string{"AUTOCLAVE_02"},
		Downstream:        []string{"QC_STATION_02"},
	},
	{
		ID:                "QC_STATION_01",
		X:                 4,
		Y:                 0,
		Impact:            0.5,
		Role:              "Sink Node",
		AnomalySource:     "Increased rejection rate predicted",
		PropagationReason: "Cumulative upstream variance exceeds tolerance",
		RiskFactors:       []string{"Dimensional variance", "Surface defects", "Delamination risk"},
		MTBFImpact:        "N/A (quality gate)",
		Upstream:          []string{"CNC_MILL_01"},
	},
	{
		ID:                "QC_STATION_02",
		X:                 4,
		Y:                 2,
		Impact:            0.1,
		Role:              "Sink Node",
		AnomalySource:     "None detected",
		PropagationReason: "Clean upstream chain",
		RiskFactors:       []string{"Nominal rejection rate expected"},
		MTBFImpact:        "N/A (quality gate)",
		Upstream:          []string{"CNC_MILL_02"},
	},
}

var defaultEdges = []Edge{
	{Source: "LAYUP_ROOM", Target: "LAYUP_BOT_01"},
	{Source: "LAYUP_ROOM", Target: "LAYUP_BOT_02"},
	{Source: "LAYUP_BOT_01", Target: "AUTOCLAVE_01"},
	{Source: "LAYUP_BOT_02", Target: "AUTOCLAVE_02"},
	{Source: "AUTOCLAVE_01", Target: "CNC_MILL_01"},
	{Source: "AUTOCLAVE_02", Target: "CNC_MILL_02"},
	{Source: "CNC_MILL_01", Target: "QC_STATION_01"},
	{Source: "CNC_MILL_02", Target: "QC_STATION_02"},
}

// Topology returns a copy of the node set with baseline impact scores.
func Topology() []Node {
	out := make([]Node, len(defaultNodes))
	copy(out, defaultNodes)
	return out
}

// Edges returns a copy of the directed edge list.
func Edges() []Edge {
	out := make([]Edge, len(defaultEdges))
	copy(out, defaultEdges)
	return out
}
