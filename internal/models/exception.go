// Package models defines the records shared by the TrainPi client and server.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of an exception record.
type Status string

const (
	StatusException Status = "exception"
	StatusCleared   Status = "cleared"
)

var (
	ErrAlreadyCleared   = errors.New("exception already cleared")
	ErrInvalidException = errors.New("invalid exception")
	ErrUnknownStatus    = errors.New("unknown status filter")
)

// Exception is a logged deviation (for example an attendance cancellation)
// that stays open until it is cleared. Duration is in seconds and is set
// together with ClearedAt, exactly once.
type Exception struct {
	ID        int64      `json:"id"`
	Type      string     `json:"type"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	ClearedAt *time.Time `json:"clearedAt,omitempty"`
	Duration  *int64     `json:"duration,omitempty"`
	Remarks   string     `json:"remarks,omitempty"`
	UserID    string     `json:"userId,omitempty"`
}

// NewException returns an open record created at now.
func NewException(id int64, typ, remarks string, now time.Time) *Exception {
	return &Exception{
		ID:        id,
		Type:      typ,
		Status:    StatusException,
		CreatedAt: now.UTC(),
		Remarks:   remarks,
	}
}

// IsCleared reports whether the record reached its terminal state.
func (e *Exception) IsCleared() bool {
	return e.Status == StatusCleared
}

// IsLocalID reports whether id belongs to a record created offline. Such
// records carry negative ids and are unknown to the server.
func IsLocalID(id int64) bool {
	return id < 0
}

func (e *Exception) IsLocal() bool {
	return IsLocalID(e.ID)
}

// Clear moves an open record to cleared at now and records the elapsed
// whole seconds. A now earlier than CreatedAt is clamped to CreatedAt.
func (e *Exception) Clear(now time.Time) error {
	if e.IsCleared() {
		return fmt.Errorf("%w: id=%d", ErrAlreadyCleared, e.ID)
	}

	now = now.UTC()
	if now.Before(e.CreatedAt) {
		now = e.CreatedAt
	}
	seconds := int64(now.Sub(e.CreatedAt) / time.Second)

	e.ClearedAt = &now
	e.Duration = &seconds
	e.Status = StatusCleared
	return nil
}

// Validate checks the lifecycle invariants of the record.
func (e *Exception) Validate() error {
	if strings.TrimSpace(e.Type) == "" {
		return fmt.Errorf("%w: empty type", ErrInvalidException)
	}
	switch e.Status {
	case StatusException:
		if e.ClearedAt != nil || e.Duration != nil {
			return fmt.Errorf("%w: open record carries clear data", ErrInvalidException)
		}
	case StatusCleared:
		if e.ClearedAt == nil || e.Duration == nil {
			return fmt.Errorf("%w: cleared record without clear data", ErrInvalidException)
		}
		if e.ClearedAt.Before(e.CreatedAt) {
			return fmt.Errorf("%w: cleared before created", ErrInvalidException)
		}
		if *e.Duration < 0 {
			return fmt.Errorf("%w: negative duration", ErrInvalidException)
		}
	default:
		return fmt.Errorf("%w: status %q", ErrInvalidException, e.Status)
	}
	return nil
}

// StatusFilter selects records by status; the zero value selects all.
type StatusFilter struct {
	Status Status
}

// ParseStatusFilter accepts "All", "Exception" or "Cleared" in any case.
// An empty string means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return StatusFilter{}, nil
	case string(StatusException), "exceptions", "open":
		return StatusFilter{Status: StatusException}, nil
	case string(StatusCleared):
		return StatusFilter{Status: StatusCleared}, nil
	default:
		return StatusFilter{}, fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// Match reports whether e passes the filter.
func (f StatusFilter) Match(e Exception) bool {
	return f.Status == "" || e.Status == f.Status
}

// Apply returns the records that pass the filter, keeping their order.
func (f StatusFilter) Apply(records []Exception) []Exception {
	out := make([]Exception, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
