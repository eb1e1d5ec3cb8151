package model

import (
	"errors"
	"fmt"
	"maps"
	"time"
)

// DateLayout is the ISO calendar date format used for every assignment date
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrIncompleteConflict = errors.New("conflict result is missing the conflicting assignment")
)

// ParseDate parses an ISO calendar date (YYYY-MM-DD)
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: expected YYYY-MM-DD", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate formats t as an ISO calendar date
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ConflictResult is the outcome of a single availability check.
// IsAvailable == false implies both conflicting fields are set.
type ConflictResult struct {
	IsAvailable               bool   `json:"isAvailable"`
	ConflictingAssignmentID   string `json:"conflictingAssignmentId,omitempty"`
	ConflictingAssignmentCode string `json:"conflictingAssignmentCode,omitempty"`
}

// Available returns the permissive result
func Available() ConflictResult {
	return ConflictResult{IsAvailable: true}
}

// Conflicting returns a result pointing at the blocking assignment
func Conflicting(assignmentID, immersionCode string) ConflictResult {
	return ConflictResult{
		IsAvailable:               false,
		ConflictingAssignmentID:   assignmentID,
		ConflictingAssignmentCode: immersionCode,
	}
}

// Validate checks the IsAvailable invariant
func (r ConflictResult) Validate() error {
	if r.IsAvailable {
		return nil
	}
	if r.ConflictingAssignmentID == "" || r.ConflictingAssignmentCode == "" {
		return ErrIncompleteConflict
	}
	return nil
}

// StatusMap maps resource ID to its availability.
// A published StatusMap is never mutated; readers receive copies.
type StatusMap map[string]ConflictResult

// Clone returns a copy safe to hand to callers
func (m StatusMap) Clone() StatusMap {
	if m == nil {
		return StatusMap{}
	}
	return maps.Clone(m)
}

// Unavailable returns the IDs of resources that have a conflict
func (m StatusMap) Unavailable() []string {
	var ids []string
	for id, result := range m {
		if !result.IsAvailable {
			ids = append(ids, id)
		}
	}
	return ids
}
