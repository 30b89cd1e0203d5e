package controls

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"snowcore/internal/models"
)

func TestFindTask(t *testing.T) {
	tasks := []models.TaskStatus{
		{Name: models.SensorGenerationTask, State: models.TaskStateStarted},
		{Name: models.SensorCleanupTask, State: "suspended"},
	}

	assert.Equal(t, &tasks[1], FindTask(tasks, models.SensorCleanupTask))
	assert.Nil(t, FindTask(tasks, "NO_SUCH_TASK"))
	assert.Nil(t, FindTask(nil, models.SensorCleanupTask))
}

func TestSimulationActive(t *testing.T) {
	assert.True(t, SimulationActive([]models.TaskStatus{
		{Name: models.SensorGenerationTask, State: models.TaskStateStarted},
	}))
	assert.False(t, SimulationActive([]models.TaskStatus{
		{Name: models.SensorGenerationTask, State: "suspended"},
	}))
	// The cleanup task alone does not make the simulation active.
	assert.False(t, SimulationActive([]models.TaskStatus{
		{Name: models.SensorCleanupTask, State: models.TaskStateStarted},
	}))
	assert.False(t, SimulationActive(nil))
}

func TestActiveTrigger(t *testing.T) {
	triggers := []models.AnomalyTrigger{
		{AssetID: "LAYUP_ROOM", Active: false},
		{AssetID: "CNC_MILL_02", Active: true},
		{AssetID: "AUTOCLAVE_01", Active: true},
	}

	got := ActiveTrigger(triggers)
	assert.Equal(t, "CNC_MILL_02", got.AssetID)
	assert.Nil(t, ActiveTrigger(nil))
	assert.Nil(t, ActiveTrigger(triggers[:1]))
}
