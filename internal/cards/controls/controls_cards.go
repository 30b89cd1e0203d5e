package controls

import (
	"github.com/gin-gonic/gin"

	cards "snowcore/internal/cards"
	"snowcore/internal/models"
)

// SimulationAssets is the fixed roster of assets eligible for anomaly
// injection.
var SimulationAssets = []string{
	"LAYUP_ROOM",
	"AUTOCLAVE_01",
	"AUTOCLAVE_02",
	"CNC_MILL_01",
	"CNC_MILL_02",
	"LAYUP_BOT_01",
	"LAYUP_BOT_02",
}

func init() {
	cards.Register(tasksCard{})
	cards.Register(injectionCard{})
}

// FindTask returns the task with the given name, nil when absent.
func FindTask(tasks []models.TaskStatus, name string) *models.TaskStatus {
	for i := range tasks {
		if tasks[i].Name == name {
			return &tasks[i]
		}
	}
	return nil
}

// SimulationActive reports whether the sensor-generation task is running,
// which is the single source of truth for the simulation state.
func SimulationActive(tasks []models.TaskStatus) bool {
	t := FindTask(tasks, models.SensorGenerationTask)
	return t != nil && t.State == models.TaskStateStarted
}

// ActiveTrigger returns the first active anomaly trigger, nil when none.
func ActiveTrigger(triggers []models.AnomalyTrigger) *models.AnomalyTrigger {
	for i := range triggers {
		if triggers[i].Active {
			return &triggers[i]
		}
	}
	return nil
}

type taskView struct {
	Name      string  `json:"name"`
	Running   bool    `json:"running"`
	State     string  `json:"state"`
	Schedule  *string `json:"schedule"`
	Warehouse *string `json:"warehouse"`
	LastRun   *string `json:"lastRun"`
}

func taskViewFor(t *models.TaskStatus) *taskView {
	if t == nil {
		return nil
	}
	return &taskView{
		Name:      t.Name,
		Running:   t.State == models.TaskStateStarted,
		State:     t.State,
		Schedule:  t.Schedule,
		Warehouse: t.Warehouse,
		LastRun:   t.LastRun,
	}
}

type tasksCard struct{}

func (tasksCard) ID() string              { return "controls-tasks" }
func (tasksCard) Template() string        { return "cards/controls_tasks.html" }
func (tasksCard) Screens() []cards.Screen { return []cards.Screen{cards.ScreenTaskControls} }
func (tasksCard) Slot() cards.Slot        { return cards.SlotPrimary }

func (tasksCard) FetchData(req *cards.Request) (gin.H, error) {
	var tasks []models.TaskStatus
	var loaded bool
	if req != nil && req.Feeds != nil {
		tasks, loaded = req.Feeds.Tasks.Get()
	}
	return gin.H{
		"loaded":           loaded,
		"sensorTask":       taskViewFor(FindTask(tasks, models.SensorGenerationTask)),
		"cleanupTask":      taskViewFor(FindTask(tasks, models.SensorCleanupTask)),
		"simulationActive": SimulationActive(tasks),
	}, nil
}

type injectionAsset struct {
	AssetID string `json:"assetId"`
	Active  bool   `json:"active"`
}

type injectionCard struct{}

func (injectionCard) ID() string              { return "controls-injection" }
func (injectionCard) Template() string        { return "cards/controls_injection.html" }
func (injectionCard) Screens() []cards.Screen { return []cards.Screen{cards.ScreenTaskControls} }
func (injectionCard) Slot() cards.Slot        { return cards.SlotGrid }

// FetchData exposes the injection roster. Injection stays disabled while the
// simulation is stopped; clicking the active asset clears the trigger.
func (injectionCard) FetchData(req *cards.Request) (gin.H, error) {
	var tasks []models.TaskStatus
	var triggers []models.AnomalyTrigger
	var loaded bool
	if req != nil && req.Feeds != nil {
		tasks, _ = req.Feeds.Tasks.Get()
		triggers, loaded = req.Feeds.Triggers.Get()
	}

	active := ActiveTrigger(triggers)
	assets := make([]injectionAsset, 0, len(SimulationAssets))
	for _, a := range SimulationAssets {
		assets = append(assets, injectionAsset{
			AssetID: a,
			Active:  active != nil && active.AssetID == a,
		})
	}

	data := gin.H{
		"loaded":           loaded,
		"simulationActive": SimulationActive(tasks),
		"assets":           assets,
	}
	if active != nil {
		data["activeTrigger"] = gin.H{
			"assetId":     active.AssetID,
			"triggeredAt": active.TriggeredAt,
			"triggeredBy": active.TriggeredBy,
		}
	}
	return data, nil
}
