package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/membership-api/internal/models"
)

// --------------------------------------------------
// Lookup
// --------------------------------------------------

// FindUserByEmail returns nil, nil when no user owns the address.
func (r *GormRepository) FindUserByEmail(
	ctx context.Context,
	email string,
) (*models.User, error) {

	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByID returns nil, nil when the user does not exist.
func (r *GormRepository) FindUserByID(
	ctx context.Context,
	id uuid.UUID,
) (*models.User, error) {

	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepository) ListUsers(
	ctx context.Context,
	role string,
) ([]models.User, error) {

	q := r.db.WithContext(ctx).Model(&models.User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}

	var users []models.User
	if err := q.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

// --------------------------------------------------
// Writes
// --------------------------------------------------

func (r *GormRepository) CreateUser(
	ctx context.Context,
	u *models.User,
) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *GormRepository) UpdateUserPhoto(
	ctx context.Context,
	id uuid.UUID,
	photo *models.Asset,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.User{ID: id}).
		Select("photo").
		Updates(&models.User{Photo: photo})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *GormRepository) UpdateUserPassword(
	ctx context.Context,
	id uuid.UUID,
	hash string,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.User{ID: id}).
		Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *GormRepository) UpdateUserRole(
	ctx context.Context,
	id uuid.UUID,
	role string,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.User{ID: id}).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// UpdateUserProfile writes the fields a member may edit themselves.
func (r *GormRepository) UpdateUserProfile(
	ctx context.Context,
	u *models.User,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.User{ID: u.ID}).
		Select(
			"first_name",
			"last_name",
			"phone",
			"photo",
			"company_name",
			"company_address",
			"company_registration_number",
		).
		Updates(u)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteUserCascade removes a user with their enrollments and registrations.
func (r *GormRepository) DeleteUserCascade(
	ctx context.Context,
	id uuid.UUID,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.EventRegistration{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrNotFound
		}
		return nil
	})
}
