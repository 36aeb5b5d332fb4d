package event

import (
	"github.com/google/uuid"

	"github.com/BruksfildServices01/membership-api/internal/httperr"
	"github.com/BruksfildServices01/membership-api/internal/models"
)

// IsRegistered checks membership against the stored user id, falling back to
// a preloaded user when the id column is empty.
func IsRegistered(ev *models.Event, userID uuid.UUID) bool {
	if ev == nil || userID == uuid.Nil {
		return false
	}

	for _, r := range ev.Registrations {
		if r.UserID == userID {
			return true
		}
		if r.User != nil && r.User.ID == userID {
			return true
		}
	}
	return false
}

func IsFull(ev *models.Event) bool {
	return ev.MaxParticipants > 0 && len(ev.Registrations) >= ev.MaxParticipants
}

func CanRegister(ev *models.Event, userID uuid.UUID) error {
	if IsRegistered(ev, userID) {
		return httperr.Conflict("already_registered", "You are already registered for this event.")
	}
	if IsFull(ev) {
		return httperr.Conflict("event_full", "This event has reached its capacity.")
	}
	return nil
}
