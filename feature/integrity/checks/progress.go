package checks

import (
	"sort"
	"strings"

	"pmteambuilder/core/progress"
)

// ProgressReport summarises a sync checkpoint stage by stage.
type ProgressReport struct {
	AllDone    bool           `json:"all_done"`
	Done       []string       `json:"done"`
	InProgress map[string]int `json:"in_progress"`
	NotStarted []string       `json:"not_started"`
	// Entities counts per-entity done markers by stage.
	Entities map[string]int `json:"entities"`
	// Refreshing lists stages whose forced refresh has not finished.
	Refreshing []string `json:"refreshing"`
}

// Complete reports whether every expected stage is done.
func (r *ProgressReport) Complete() bool {
	return len(r.InProgress) == 0 && len(r.NotStarted) == 0
}

// CheckProgress compares a checkpoint against the expected stages.
func CheckProgress(state *progress.State, stages []string) *ProgressReport {
	report := &ProgressReport{
		AllDone:    state.AllDone,
		Done:       []string{},
		InProgress: make(map[string]int),
		NotStarted: []string{},
		Entities:   make(map[string]int),
		Refreshing: []string{},
	}

	for _, stage := range stages {
		v, ok := state.Stages[stage]
		switch {
		case !ok:
			report.NotStarted = append(report.NotStarted, stage)
		case v.Done:
			report.Done = append(report.Done, stage)
		default:
			report.InProgress[stage] = v.Cursor
		}
	}

	// Entity markers look like move_learnset:species:25, refresh markers
	// like move_learnset:refresh
	for _, key := range state.Keys() {
		stage, rest, ok := strings.Cut(key, ":")
		if !ok || rest == "" || !state.Stages[key].Done {
			continue
		}
		if rest == "refresh" {
			report.Refreshing = append(report.Refreshing, stage)
			continue
		}
		report.Entities[stage]++
	}
	return report
}

// EmptyTables returns the tables without rows, sorted.
func EmptyTables(counts map[string]int64) []string {
	empty := []string{}
	for table, n := range counts {
		if n == 0 {
			empty = append(empty, table)
		}
	}
	sort.Strings(empty)
	return empty
}
