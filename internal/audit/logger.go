package audit

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/membership-api/internal/models"
)

const (
	ActionEnrollmentSubmitted = "enrollment_submitted"
	ActionEnrollmentApproved  = "enrollment_approved"
	ActionEnrollmentRejected  = "enrollment_rejected"
	ActionEnrollmentDeleted   = "enrollment_deleted"
	ActionAccountProvisioned  = "account_provisioned"
	ActionEventCreated        = "event_created"
	ActionEventUpdated        = "event_updated"
	ActionEventDeleted        = "event_deleted"
	ActionEventRegistered     = "event_registered"
	ActionUserDeleted         = "user_deleted"
	ActionUserRoleChanged     = "user_role_changed"
	ActionProfileUpdated      = "profile_updated"
	ActionPasswordChanged     = "password_changed"
	ActionPasswordReset       = "password_reset"
	ActionAdminBootstrapped   = "admin_bootstrapped"
)

type Filter struct {
	Action string
	Entity string
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

// Normalize applies paging defaults: page 1, 50 rows, at most 200.
func (f Filter) Normalize() Filter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if maxPage := math.MaxInt / f.Limit; f.Page > maxPage {
		f.Page = maxPage
	}
	return f
}

func (f Filter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type Store interface {
	CreateAuditLog(ctx context.Context, l *models.AuditLog) error
	ListAuditLogs(ctx context.Context, f Filter) ([]models.AuditLog, int64, error)
}

type Logger struct {
	store Store
}

func New(store Store) *Logger {
	return &Logger{store: store}
}

func (l *Logger) Log(
	ctx context.Context,
	actorID *uuid.UUID,
	action string,
	entity string,
	entityID *uuid.UUID,
	metadata any,
) error {

	var metaJSON string
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metaJSON = string(b)
		}
	}

	return l.store.CreateAuditLog(ctx, &models.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Metadata: metaJSON,
	})
}
