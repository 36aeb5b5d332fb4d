package event

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/membership-api/internal/models"
)

type Repository interface {
	CreateEvent(ctx context.Context, ev *models.Event) error
	UpdateEvent(ctx context.Context, ev *models.Event) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error

	// GetEventBySlug and GetEventByID preload registrations.
	GetEventBySlug(ctx context.Context, slug string) (*models.Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)

	AddRegistration(ctx context.Context, r *models.EventRegistration) error

	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}
