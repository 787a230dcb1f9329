package entity

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a service request.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusAssigned  Status = "assigned"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var statuses = []Status{
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusAssigned,
	StatusCompleted,
	StatusCancelled,
}

// StatusFromString parses raw case-insensitively. ok is false for unknown values.
func StatusFromString(raw string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.Valid()
}

func (s Status) String() string { return string(s) }

func (s Status) Valid() bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

type ServiceRequest struct {
	ID        int64
	OwnerID   int64
	Type      string
	Details   string
	Status    Status
	Images    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Owner is the account a request belongs to, as seen by this module.
type Owner struct {
	ID    int64
	Name  string
	Email string
}

// Filter narrows an administrative listing. A zero Status lists everything.
type Filter struct {
	Status Status
	Limit  int
	Offset int
}
