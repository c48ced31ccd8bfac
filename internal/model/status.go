package model

import (
	"encoding/json"
	"fmt"
)

// ItemStatus is the furthest state a PageJob reached.
//
// Design decision: iota constants keep comparisons cheap ("did this job get
// at least as far as generated?"), and String/MarshalJSON provide the stable
// names used in logs, reports and the ledger.
type ItemStatus int

const (
	// StatusPending means no step has completed yet.
	StatusPending ItemStatus = iota
	// StatusGenerated means a source image was produced by the generator.
	StatusGenerated
	// StatusProcessed means the page was exported to the pool.
	StatusProcessed
	// StatusSkipped means a step failed and the item was abandoned.
	StatusSkipped
)

// String returns the lower-case status name.
func (s ItemStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusGenerated:
		return "generated"
	case StatusProcessed:
		return "processed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the status as its name.
func (s ItemStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status name.
func (s *ItemStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseItemStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseItemStatus converts a name produced by String back to a status.
func ParseItemStatus(name string) (ItemStatus, error) {
	for _, s := range []ItemStatus{StatusPending, StatusGenerated, StatusProcessed, StatusSkipped} {
		if s.String() == name {
			return s, nil
		}
	}
	return StatusPending, fmt.Errorf("unknown item status %q", name)
}
