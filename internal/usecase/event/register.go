package event

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/membership-api/internal/audit"
	domain "github.com/BruksfildServices01/membership-api/internal/domain/event"
	"github.com/BruksfildServices01/membership-api/internal/httperr"
	"github.com/BruksfildServices01/membership-api/internal/models"
)

// Notifier sends registration emails. Calls must not block.
type Notifier interface {
	EventRegistered(ev *models.Event, u *models.User)
	EventAdminAlert(ev *models.Event, u *models.User)
}

type RegisterToEvent struct {
	repo     domain.Repository
	notifier Notifier
	audit    *audit.Dispatcher
	log      *slog.Logger
	now      func() time.Time
}

func NewRegisterToEvent(
	repo domain.Repository,
	notifier Notifier,
	audit *audit.Dispatcher,
	log *slog.Logger,
) *RegisterToEvent {
	return &RegisterToEvent{
		repo:     repo,
		notifier: notifier,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}
}

// Execute registers userID to the event identified by slug. The event is
// resolved before the caller so an unknown slug is a 404 even for anonymous
// callers.
func (uc *RegisterToEvent) Execute(
	ctx context.Context,
	slug string,
	userID uuid.UUID,
) (*models.Event, error) {

	ev, err := uc.repo.GetEventBySlug(ctx, slug)
	if errors.Is(err, models.ErrNotFound) {
		return nil, errEventNotFound
	}
	if err != nil {
		return nil, err
	}

	if userID == uuid.Nil {
		return nil, errUnauthenticated
	}

	user, err := uc.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errUnauthenticated
	}

	if err := domain.CanRegister(ev, userID); err != nil {
		return nil, err
	}

	reg := &models.EventRegistration{
		EventID:      ev.ID,
		UserID:       userID,
		RegisteredAt: uc.now(),
	}
	if err := uc.repo.AddRegistration(ctx, reg); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return nil, httperr.Conflict("already_registered", "You are already registered for this event.")
		}
		return nil, err
	}

	uc.log.InfoContext(ctx, "event registration recorded", "event", ev.Slug, "user_id", userID)

	reg.User = user
	ev.Registrations = append(ev.Registrations, *reg)

	uc.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(userID),
		Action:   audit.ActionEventRegistered,
		Entity:   "event",
		EntityID: audit.Ref(ev.ID),
	})

	uc.notifier.EventRegistered(ev, user)
	uc.notifier.EventAdminAlert(ev, user)

	return ev, nil
}

var errUnauthenticated = httperr.UnauthorizedErr("unauthenticated", "Authentication required.")
