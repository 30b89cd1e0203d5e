package models

// Upstream view models. Field tags mirror the reliability API's response
// shapes verbatim, including the UPPER_SNAKE column names it inherits from
// the warehouse tables.

const (
	RecommendationUrgent  = "URGENT"
	RecommendationPlanPM  = "PLAN_PM"
	RecommendationMonitor = "MONITOR"
)

// AssetDecision is one row of the predictive-maintenance decision table.
type AssetDecision struct {
	AssetID               string  `json:"ASSET_ID"`
	PFail7D               float64 `json:"P_FAIL_7D"`
	ExpectedUnplannedCost float64 `json:"EXPECTED_UNPLANNED_COST"`
	PMCost                float64 `json:"C_PM_USD"`
	NetBenefit            float64 `json:"NET_BENEFIT"`
	Recommendation        string  `json:"RECOMMENDATION"`
	TargetWindow          string  `json:"TARGET_WINDOW"`
	Confidence            float64 `json:"CONFIDENCE"`
}

// Variant maps a recommendation onto a display variant. Styling must stay a
// pure function of the recommendation value: a three-way branch, nothing else.
func Variant(recommendation string) string {
	switch recommendation {
	case RecommendationUrgent:
		return "urgent"
	case RecommendationPlanPM:
		return "warning"
	default:
		return "success"
	}
}

type AnomalyEvent struct {
	EventID      string  `json:"EVENT_ID"`
	AssetID      string  `json:"ASSET_ID"`
	Timestamp    string  `json:"TIMESTAMP"`
	AnomalyType  string  `json:"ANOMALY_TYPE"`
	AnomalyScore float64 `json:"ANOMALY_SCORE"`
	Severity     string  `json:"SEVERITY"`
	RootCause    string  `json:"ROOT_CAUSE"`
	SuggestedFix string  `json:"SUGGESTED_FIX"`
	Resolved     bool    `json:"RESOLVED"`
}

type CureResult struct {
	BatchID           string  `json:"BATCH_ID"`
	AutoclaveID       string  `json:"AUTOCLAVE_ID"`
	CureTimestamp     string  `json:"CURE_TIMESTAMP"`
	LayupHumidityAvg  float64 `json:"LAYUP_HUMIDITY_AVG"`
	LayupHumidityPeak float64 `json:"LAYUP_HUMIDITY_PEAK"`
	ScrapFlag         bool    `json:"SCRAP_FLAG"`
	DelaminationScore float64 `json:"DELAMINATION_SCORE"`
	FailureMode       string  `json:"FAILURE_MODE"`
}

// SensorReading is one per-asset row of the combined live-sensor snapshot.
// Channels the asset does not report come back as JSON null.
type SensorReading struct {
	AssetID       string   `json:"ASSET_ID"`
	EventTime     string   `json:"EVENT_TIME"`
	TemperatureC  *float64 `json:"TEMPERATURE_C"`
	PressurePSI   *float64 `json:"PRESSURE_PSI"`
	HumidityPct   *float64 `json:"HUMIDITY_PCT"`
	VibrationG    *float64 `json:"VIBRATION_G"`
	VacuumMbar    *float64 `json:"VACUUM_MBAR"`
	IngestionTime string   `json:"INGESTION_TIME"`
}

// HasData reports whether at least one channel carries a value.
func (r SensorReading) HasData() bool {
	return r.TemperatureC != nil || r.PressurePSI != nil || r.HumidityPct != nil ||
		r.VibrationG != nil || r.VacuumMbar != nil
}

// SensorSnapshot is the multi-asset snapshot returned by
// /api/live-sensors-by-asset together with its server-side timestamp.
type SensorSnapshot struct {
	Sensors   []SensorReading `json:"sensors"`
	Timestamp string          `json:"timestamp"`
}

const (
	TaskStateStarted   = "started"
	TaskStateSuspended = "suspended"

	SensorGenerationTask = "SENSOR_GENERATION_TASK"
	SensorCleanupTask    = "SENSOR_CLEANUP_TASK"
)

type TaskStatus struct {
	Name      string  `json:"name"`
	State     string  `json:"state"`
	Schedule  *string `json:"schedule"`
	Warehouse *string `json:"warehouse"`
	LastRun   *string `json:"last_run"`
}

type AnomalyTrigger struct {
	AssetID     string  `json:"asset_id"`
	Active      bool    `json:"trigger_active"`
	TriggeredAt *string `json:"triggered_at"`
	TriggeredBy *string `json:"triggered_by"`
}

// PropagationScore is one node score from the propagation service.
type PropagationScore struct {
	Asset string  `json:"ASSET"`
	Score float64 `json:"SCORE"`
}

type DecisionsResponse struct {
	Decisions []AssetDecision `json:"decisions"`
}

type AnomalyEventsResponse struct {
	Events []AnomalyEvent `json:"events"`
}

type CureResultsResponse struct {
	Results []CureResult `json:"results"`
}

type TaskStatusResponse struct {
	Tasks []TaskStatus `json:"tasks"`
}

type AnomalyTriggersResponse struct {
	Triggers []AnomalyTrigger `json:"triggers"`
}

type PropagationResponse struct {
	Nodes []PropagationScore `json:"nodes"`
}
