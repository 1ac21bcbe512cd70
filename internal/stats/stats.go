// Package stats keeps the in-memory projections behind the blessings wall
// and the RSVP guest list. Each projection pairs an ordered collection with
// counters that are maintained incrementally and always agree with a full
// recompute over the collection.
package stats

import (
	"maps"
	"slices"

	"wedding-memories/internal/models"
)

// SubmissionStats counts blessings overall and per table.
type SubmissionStats struct {
	Total   int         `json:"total"`
	ByTable map[int]int `json:"byTable"`
}

// ComputeSubmissionStats recomputes the counters from scratch.
func ComputeSubmissionStats(subs []models.Submission) SubmissionStats {
	st := SubmissionStats{ByTable: make(map[int]int)}
	for _, s := range subs {
		st.add(s)
	}
	return st
}

func (st *SubmissionStats) add(s models.Submission) {
	st.Total++
	if s.TableNumber != nil {
		st.ByTable[*s.TableNumber]++
	}
}

func (st *SubmissionStats) remove(s models.Submission) {
	st.Total--
	if s.TableNumber == nil {
		return
	}
	t := *s.TableNumber
	st.ByTable[t]--
	if st.ByTable[t] <= 0 {
		delete(st.ByTable, t)
	}
}

// Tables returns the tables that have at least one blessing, ascending.
func (st SubmissionStats) Tables() []int {
	return slices.Sorted(maps.Keys(st.ByTable))
}

func (st SubmissionStats) clone() SubmissionStats {
	return SubmissionStats{Total: st.Total, ByTable: maps.Clone(st.ByTable)}
}

// RSVPStats summarizes replies by attendance and headcount.
type RSVPStats struct {
	Total        int `json:"total"`
	Attending    int `json:"attending"`
	NotAttending int `json:"notAttending"`
	Maybe        int `json:"maybe"`
	TotalGuests  int `json:"totalGuests"`
}

// ComputeRSVPStats recomputes the counters from scratch.
func ComputeRSVPStats(rsvps []models.RSVP) RSVPStats {
	var st RSVPStats
	for _, r := range rsvps {
		st.apply(r, 1)
	}
	return st
}

func (st *RSVPStats) apply(r models.RSVP, sign int) {
	st.Total += sign
	switch r.Attendance {
	case models.Attending:
		st.Attending += sign
		st.TotalGuests += sign * r.GuestCount
	case models.NotAttending:
		st.NotAttending += sign
	case models.Maybe:
		st.Maybe += sign
	}
}
