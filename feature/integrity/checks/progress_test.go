package checks

import (
	"testing"

	"pmteambuilder/core/progress"

	"github.com/stretchr/testify/assert"
)

func TestCheckProgress(t *testing.T) {
	state := progress.NewState()
	state.Stages["types"] = progress.Done
	state.Stages["moves"] = progress.Cursor(120)
	state.Stages["move_learnset:species:25"] = progress.Done
	state.Stages["move_learnset:species:26"] = progress.Done
	state.Stages["form_abilities:form:10100"] = progress.Done
	state.Stages["form_abilities:refresh"] = progress.Done

	report := CheckProgress(state, []string{"types", "moves", "items", "move_learnset"})

	assert.False(t, report.AllDone)
	assert.Equal(t, []string{"types"}, report.Done)
	assert.Equal(t, map[string]int{"moves": 120}, report.InProgress)
	assert.Equal(t, []string{"items", "move_learnset"}, report.NotStarted)
	assert.Equal(t, map[string]int{"move_learnset": 2, "form_abilities": 1}, report.Entities)
	assert.Equal(t, []string{"form_abilities"}, report.Refreshing)
	assert.False(t, report.Complete())
}

func TestCheckProgressComplete(t *testing.T) {
	state := progress.NewState()
	state.AllDone = true
	state.Stages["types"] = progress.Done

	report := CheckProgress(state, []string{"types"})
	assert.True(t, report.Complete())
	assert.True(t, report.AllDone)
	assert.Empty(t, report.Entities)
	assert.Empty(t, report.Refreshing)
}

func TestEmptyTables(t *testing.T) {
	got := EmptyTables(map[string]int64{"moves": 0, "types": 18, "abilities": 0})
	assert.Equal(t, []string{"abilities", "moves"}, got)
	assert.Empty(t, EmptyTables(map[string]int64{"types": 1}))
}
