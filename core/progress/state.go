package progress

import (
	"encoding/json"
	"fmt"
	"sort"

	"pmteambuilder/core/utils"
)

// doneMarker is the serialized form of a completed stage.
const doneMarker = "done"

// Value is a stage checkpoint: either a resume cursor or the done sentinel.
type Value struct {
	Cursor int
	Done   bool
}

// Done is the completed-stage value.
var Done = Value{Done: true}

// Cursor builds a resume-offset value.
func Cursor(n int) Value {
	return Value{Cursor: n}
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.Done {
		return json.Marshal(doneMarker)
	}
	return json.Marshal(v.Cursor)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case string:
		if x == doneMarker {
			*v = Done
			return nil
		}
		*v = Cursor(utils.ToInt(x))
	case float64:
		*v = Cursor(utils.ToInt(x))
	default:
		return fmt.Errorf("invalid checkpoint value %s", string(data))
	}
	return nil
}

// State is the durable sync checkpoint.
type State struct {
	AllDone bool             `json:"all_done"`
	Stages  map[string]Value `json:"stages"`
}

// NewState returns an empty checkpoint.
func NewState() *State {
	return &State{Stages: make(map[string]Value)}
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	out := &State{AllDone: s.AllDone, Stages: make(map[string]Value, len(s.Stages))}
	for k, v := range s.Stages {
		out.Stages[k] = v
	}
	return out
}

// Keys returns stage keys in sorted order.
func (s *State) Keys() []string {
	keys := make([]string, 0, len(s.Stages))
	for k := range s.Stages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SpeciesLearnsetKey is the per-species done marker of the learnset stage.
func SpeciesLearnsetKey(speciesID int) string {
	return fmt.Sprintf("move_learnset:species:%d", speciesID)
}

// FormAbilitiesKey is the per-form done marker of the form ability stage.
func FormAbilitiesKey(formID int) string {
	return fmt.Sprintf("form_abilities:form:%d", formID)
}
