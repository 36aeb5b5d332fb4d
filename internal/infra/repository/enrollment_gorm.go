package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/membership-api/internal/domain/enrollment"
	"github.com/BruksfildServices01/membership-api/internal/models"
)

// --------------------------------------------------
// Create
// --------------------------------------------------

func (r *GormRepository) CreateEnrollment(
	ctx context.Context,
	e *models.Enrollment,
) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(e).Error)
}

// CreateEnrollmentWithUser inserts the account and the linked enrollment in
// one transaction.
func (r *GormRepository) CreateEnrollmentWithUser(
	ctx context.Context,
	e *models.Enrollment,
	u *models.User,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}

		id := u.ID
		e.UserID = &id

		return tx.Omit(clause.Associations).Create(e).Error
	})
	if err != nil {
		e.UserID = nil
	}
	return translate(err)
}

// --------------------------------------------------
// Read
// --------------------------------------------------

func (r *GormRepository) GetEnrollment(
	ctx context.Context,
	id uuid.UUID,
) (*models.Enrollment, error) {

	var e models.Enrollment
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&e, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

// FindPendingByEmail returns nil, nil when no pending enrollment exists.
func (r *GormRepository) FindPendingByEmail(
	ctx context.Context,
	email string,
) (*models.Enrollment, error) {

	var e models.Enrollment
	err := r.db.WithContext(ctx).
		Where("email = ? AND status = ?", email, string(domain.StatusPending)).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *GormRepository) ListEnrollments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Enrollment, int64, error) {

	f = f.Normalize()

	q := r.db.WithContext(ctx).Model(&models.Enrollment{})
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Enrollment
	if err := q.
		Preload("User").
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset()).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *GormRepository) ListEnrollmentsByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]models.Enrollment, error) {

	var list []models.Enrollment
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *GormRepository) CountEnrollmentsByStatus(
	ctx context.Context,
) (map[domain.Status]int64, error) {

	var rows []struct {
		Status string
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Select("status, count(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[domain.Status]int64, len(rows))
	for _, row := range rows {
		out[domain.Status(row.Status)] = row.Count
	}
	return out, nil
}

// --------------------------------------------------
// Update / delete
// --------------------------------------------------

func (r *GormRepository) UpdateEnrollment(
	ctx context.Context,
	e *models.Enrollment,
) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(e).Error)
}

func (r *GormRepository) DeleteEnrollment(
	ctx context.Context,
	id uuid.UUID,
) error {

	res := r.db.WithContext(ctx).Delete(&models.Enrollment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
