package models

import "time"

// ChangeType is the kind of row change carried by the change-feed
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeDelete ChangeType = "DELETE"
)

// ChangeEvent describes a change to the submissions table
type ChangeEvent struct {
	Type   ChangeType  `json:"type"`
	Table  string      `json:"table"`
	New    *Submission `json:"new,omitempty"`
	OldID  string      `json:"old_id,omitempty"`
	Origin string      `json:"origin,omitempty"`
	At     time.Time   `json:"at"`
}

// SubmissionsTable names the table the wall listens to
const SubmissionsTable = "submissions"

// RecordID returns the id of the affected submission
func (e ChangeEvent) RecordID() string {
	if e.Type == ChangeInsert && e.New != nil {
		return e.New.ID
	}
	return e.OldID
}
