package overlay

import (
	"encoding/json"
	"fmt"
	"time"
)

// State is the persisted shape of a form's edit session. JSON names match
// blobs written by earlier clients so existing data stays readable.
type State struct {
	Changes          map[string]any `json:"changes"`
	ExpandedSections []string       `json:"expandedSections"`
	LastChanged      *time.Time     `json:"-"`
	EditMode         bool           `json:"editMode"`
}

type stateJSON struct {
	Changes          map[string]any `json:"changes"`
	ExpandedSections []string       `json:"expandedSections"`
	LastChanged      *int64         `json:"lastChanged"`
	EditMode         bool           `json:"editMode"`
}

// MarshalJSON encodes LastChanged as epoch milliseconds or null.
func (s State) MarshalJSON() ([]byte, error) {
	out := stateJSON{
		Changes:          s.Changes,
		ExpandedSections: s.ExpandedSections,
		EditMode:         s.EditMode,
	}
	if out.Changes == nil {
		out.Changes = map[string]any{}
	}
	if out.ExpandedSections == nil {
		out.ExpandedSections = []string{}
	}
	if s.LastChanged != nil {
		ms := s.LastChanged.UnixMilli()
		out.LastChanged = &ms
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts missing members the way the original reader did:
// absent changes, sections or timestamp fall back to empty values.
func (s *State) UnmarshalJSON(data []byte) error {
	var in stateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Changes == nil {
		in.Changes = map[string]any{}
	}
	if in.ExpandedSections == nil {
		in.ExpandedSections = []string{}
	}
	*s = State{
		Changes:          in.Changes,
		ExpandedSections: dedupe(in.ExpandedSections),
		EditMode:         in.EditMode,
	}
	if in.LastChanged != nil && *in.LastChanged != 0 {
		ts := time.UnixMilli(*in.LastChanged)
		s.LastChanged = &ts
	}
	return nil
}

// Empty returns a state with initialised containers.
func Empty() State {
	return State{Changes: map[string]any{}, ExpandedSections: []string{}}
}

// Equal compares two states by value, timestamps by instant.
func (s State) Equal(other State) bool {
	if s.EditMode != other.EditMode {
		return false
	}
	if (s.LastChanged == nil) != (other.LastChanged == nil) {
		return false
	}
	if s.LastChanged != nil && !s.LastChanged.Equal(*other.LastChanged) {
		return false
	}
	if len(s.ExpandedSections) != len(other.ExpandedSections) {
		return false
	}
	for i := range s.ExpandedSections {
		if s.ExpandedSections[i] != other.ExpandedSections[i] {
			return false
		}
	}
	a, errA := json.Marshal(s.Changes)
	b, errB := json.Marshal(other.Changes)
	return errA == nil && errB == nil && string(a) == string(b)
}

func (s State) String() string {
	ts := "never"
	if s.LastChanged != nil {
		ts = s.LastChanged.Format(time.RFC3339)
	}
	return fmt.Sprintf("changes=%d expanded=%d editMode=%t lastChanged=%s",
		len(s.Changes), len(s.ExpandedSections), s.EditMode, ts)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
