package event

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/membership-api/internal/audit"
	domain "github.com/BruksfildServices01/membership-api/internal/domain/event"
	"github.com/BruksfildServices01/membership-api/internal/httperr"
	"github.com/BruksfildServices01/membership-api/internal/models"
	"github.com/BruksfildServices01/membership-api/internal/storage"
)

// ======================================================
// INPUT
// ======================================================

type CreateEventInput struct {
	Title           string
	Description     string
	DateStart       time.Time
	DateEnd         time.Time
	Location        string
	Type            string
	MaxParticipants int
	PriceMember     float64
	PriceNonMember  float64
	IsFeatured      bool

	Images []storage.Upload
}

// ======================================================
// USE CASE
// ======================================================

type CreateEvent struct {
	repo  domain.Repository
	store storage.Store
	audit *audit.Dispatcher
}

func NewCreateEvent(
	repo domain.Repository,
	store storage.Store,
	audit *audit.Dispatcher,
) *CreateEvent {
	return &CreateEvent{
		repo:  repo,
		store: store,
		audit: audit,
	}
}

func (uc *CreateEvent) Execute(
	ctx context.Context,
	in CreateEventInput,
	actorID uuid.UUID,
) (*models.Event, error) {

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, httperr.Validation("missing_title", "Title is required.")
	}
	if err := validateSchedule(in.DateStart, in.DateEnd); err != nil {
		return nil, err
	}
	if err := validateNumbers(in.MaxParticipants, in.PriceMember, in.PriceNonMember); err != nil {
		return nil, err
	}

	slug, err := uniqueSlug(ctx, uc.repo, in.Title, uuid.Nil)
	if err != nil {
		return nil, err
	}

	images, err := storeImages(ctx, uc.store, in.Images)
	if err != nil {
		return nil, err
	}

	ev := &models.Event{
		Title:           in.Title,
		Slug:            slug,
		Description:     in.Description,
		DateStart:       in.DateStart,
		DateEnd:         in.DateEnd,
		Location:        in.Location,
		Type:            in.Type,
		MaxParticipants: in.MaxParticipants,
		PriceMember:     in.PriceMember,
		PriceNonMember:  in.PriceNonMember,
		IsFeatured:      in.IsFeatured,
		Images:          images,
		CreatedBy:       audit.Ref(actorID),
		Registrations:   []models.EventRegistration{},
	}

	if err := uc.repo.CreateEvent(ctx, ev); err != nil {
		discardImages(ctx, uc.store, images)
		if errors.Is(err, models.ErrDuplicate) {
			return nil, errSlugTaken
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(actorID),
		Action:   audit.ActionEventCreated,
		Entity:   "event",
		EntityID: audit.Ref(ev.ID),
		Metadata: map[string]string{"slug": ev.Slug},
	})

	return ev, nil
}

// ======================================================
// HELPERS
// ======================================================

var (
	errEventNotFound = httperr.NotFoundErr("event_not_found", "Event not found.")
	errSlugTaken     = httperr.Conflict("slug_taken", "Another event already uses this title.")
)

func validateSchedule(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return httperr.Validation("missing_dates", "Start and end dates are required.")
	}
	if end.Before(start) {
		return httperr.Validation("invalid_dates", "The event cannot end before it starts.")
	}
	return nil
}

func validateNumbers(maxParticipants int, prices ...float64) error {
	if maxParticipants < 0 {
		return httperr.Validation("invalid_capacity", "Max participants cannot be negative.")
	}
	for _, p := range prices {
		if p < 0 {
			return httperr.Validation("invalid_price", "Prices cannot be negative.")
		}
	}
	return nil
}

// uniqueSlug derives a slug from title, suffixing -2, -3... while taken.
func uniqueSlug(ctx context.Context, repo domain.Repository, title string, exclude uuid.UUID) (string, error) {
	base := domain.Slugify(title)
	if base == "" {
		return "", httperr.Validation("invalid_title", "Title must contain letters or digits.")
	}

	slug := base
	for i := 2; ; i++ {
		taken, err := repo.SlugExists(ctx, slug, exclude)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// storeImages uploads every file or none: a failure removes those already stored.
func storeImages(ctx context.Context, store storage.Store, uploads []storage.Upload) ([]models.Asset, error) {
	images := make([]models.Asset, 0, len(uploads))
	for _, up := range uploads {
		asset, err := store.Put(ctx, storage.FolderEvents, up)
		if err != nil {
			discardImages(ctx, store, images)
			return nil, err
		}
		images = append(images, asset)
	}
	return images, nil
}

// discardImages removes stored images, ignoring delete failures.
func discardImages(ctx context.Context, store storage.Store, images []models.Asset) {
	for _, a := range images {
		_ = store.Delete(ctx, a.PublicID)
	}
}
