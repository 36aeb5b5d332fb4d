package event

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/membership-api/internal/audit"
	domain "github.com/BruksfildServices01/membership-api/internal/domain/event"
	"github.com/BruksfildServices01/membership-api/internal/models"
	"github.com/BruksfildServices01/membership-api/internal/storage"
)

// UpdateEventInput is a partial update: nil fields are left unchanged.
// Uploaded images replace the current ones.
type UpdateEventInput struct {
	Title           *string
	Description     *string
	DateStart       *time.Time
	DateEnd         *time.Time
	Location        *string
	Type            *string
	MaxParticipants *int
	PriceMember     *float64
	PriceNonMember  *float64
	IsFeatured      *bool

	Images []storage.Upload
}

type UpdateEvent struct {
	repo  domain.Repository
	store storage.Store
	audit *audit.Dispatcher
}

func NewUpdateEvent(
	repo domain.Repository,
	store storage.Store,
	audit *audit.Dispatcher,
) *UpdateEvent {
	return &UpdateEvent{repo: repo, store: store, audit: audit}
}

func (uc *UpdateEvent) Execute(
	ctx context.Context,
	id uuid.UUID,
	in UpdateEventInput,
	actorID uuid.UUID,
) (*models.Event, error) {

	ev, err := uc.repo.GetEventByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, errEventNotFound
	}
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title != "" && title != ev.Title {
			slug, err := uniqueSlug(ctx, uc.repo, title, ev.ID)
			if err != nil {
				return nil, err
			}
			ev.Title = title
			ev.Slug = slug
		}
	}

	setString(&ev.Description, in.Description)
	setString(&ev.Location, in.Location)
	setString(&ev.Type, in.Type)

	if in.DateStart != nil {
		ev.DateStart = *in.DateStart
	}
	if in.DateEnd != nil {
		ev.DateEnd = *in.DateEnd
	}
	if err := validateSchedule(ev.DateStart, ev.DateEnd); err != nil {
		return nil, err
	}

	if in.MaxParticipants != nil {
		ev.MaxParticipants = *in.MaxParticipants
	}
	if in.PriceMember != nil {
		ev.PriceMember = *in.PriceMember
	}
	if in.PriceNonMember != nil {
		ev.PriceNonMember = *in.PriceNonMember
	}
	if in.IsFeatured != nil {
		ev.IsFeatured = *in.IsFeatured
	}
	if err := validateNumbers(ev.MaxParticipants, ev.PriceMember, ev.PriceNonMember); err != nil {
		return nil, err
	}

	var stored, replaced []models.Asset
	if len(in.Images) > 0 {
		stored, err = storeImages(ctx, uc.store, in.Images)
		if err != nil {
			return nil, err
		}
		replaced = ev.Images
		ev.Images = stored
	}

	if err := uc.repo.UpdateEvent(ctx, ev); err != nil {
		discardImages(ctx, uc.store, stored)
		if errors.Is(err, models.ErrDuplicate) {
			return nil, errSlugTaken
		}
		return nil, err
	}
	discardImages(ctx, uc.store, replaced)

	uc.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(actorID),
		Action:   audit.ActionEventUpdated,
		Entity:   "event",
		EntityID: audit.Ref(ev.ID),
	})

	return ev, nil
}

// setString applies non-empty values only.
func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}
