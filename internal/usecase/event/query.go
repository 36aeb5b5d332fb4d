package event

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/membership-api/internal/audit"
	domain "github.com/BruksfildServices01/membership-api/internal/domain/event"
	"github.com/BruksfildServices01/membership-api/internal/models"
)

type Queries struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewQueries(repo domain.Repository, audit *audit.Dispatcher) *Queries {
	return &Queries{repo: repo, audit: audit}
}

// List returns every event, latest start first.
func (q *Queries) List(ctx context.Context) ([]models.Event, error) {
	return q.repo.ListEvents(ctx)
}

func (q *Queries) GetBySlug(ctx context.Context, slug string) (*models.Event, error) {
	ev, err := q.repo.GetEventBySlug(ctx, slug)
	if errors.Is(err, models.ErrNotFound) {
		return nil, errEventNotFound
	}
	return ev, err
}

func (q *Queries) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	err := q.repo.DeleteEvent(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return errEventNotFound
	}
	if err != nil {
		return err
	}

	q.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(actorID),
		Action:   audit.ActionEventDeleted,
		Entity:   "event",
		EntityID: audit.Ref(id),
	})
	return nil
}
