package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/membership-api/internal/models"
)

func (r *GormRepository) withRegistrations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Registrations", func(db *gorm.DB) *gorm.DB {
			return db.Order("registered_at ASC")
		}).
		Preload("Registrations.User")
}

func (r *GormRepository) CreateEvent(
	ctx context.Context,
	ev *models.Event,
) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(ev).Error)
}

func (r *GormRepository) UpdateEvent(
	ctx context.Context,
	ev *models.Event,
) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(ev).Error)
}

func (r *GormRepository) DeleteEvent(
	ctx context.Context,
	id uuid.UUID,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.EventRegistration{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Event{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrNotFound
		}
		return nil
	})
}

func (r *GormRepository) GetEventBySlug(
	ctx context.Context,
	slug string,
) (*models.Event, error) {

	var ev models.Event
	if err := r.withRegistrations(ctx).
		First(&ev, "slug = ?", slug).Error; err != nil {
		return nil, translate(err)
	}
	return &ev, nil
}

func (r *GormRepository) GetEventByID(
	ctx context.Context,
	id uuid.UUID,
) (*models.Event, error) {

	var ev models.Event
	if err := r.withRegistrations(ctx).
		First(&ev, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &ev, nil
}

func (r *GormRepository) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := r.withRegistrations(ctx).
		Order("date_start DESC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *GormRepository) SlugExists(
	ctx context.Context,
	slug string,
	exclude uuid.UUID,
) (bool, error) {

	q := r.db.WithContext(ctx).Model(&models.Event{}).Where("slug = ?", slug)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepository) AddRegistration(
	ctx context.Context,
	reg *models.EventRegistration,
) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(reg).Error)
}
