package enrollment

import (
	"time"

	"github.com/BruksfildServices01/membership-api/internal/httperr"
	"github.com/BruksfildServices01/membership-api/internal/models"
)

// ===============================
// Enrollment Status
// ===============================

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func InitialStatus() Status {
	return StatusPending
}

// ParseStatus accepts only the review targets.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusApproved, StatusRejected:
		return s, nil
	default:
		return "", httperr.Validation("invalid_status", "Status must be approved or rejected.")
	}
}

// ParseFilter accepts any stored status, empty meaning all.
func ParseFilter(raw string) (Status, error) {
	switch s := Status(raw); s {
	case "", StatusPending, StatusApproved, StatusRejected:
		return s, nil
	default:
		return "", httperr.Validation("invalid_status", "Unknown enrollment status.")
	}
}

// ===============================
// Transitions
// ===============================

// CanTransition allows pending to move to a terminal state, and a terminal
// state to be applied again.
func CanTransition(from, to Status) error {
	if to != StatusApproved && to != StatusRejected {
		return httperr.Validation("invalid_status", "Status must be approved or rejected.")
	}

	if from == StatusPending || from == to {
		return nil
	}

	return httperr.Conflict("invalid_state", "Enrollment has already been reviewed.")
}

func Transition(e *models.Enrollment, to Status, now time.Time) error {
	if err := CanTransition(Status(e.Status), to); err != nil {
		return err
	}

	e.Status = string(to)
	e.UpdatedAt = now
	return nil
}
