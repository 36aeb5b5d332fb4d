package enrollment

import (
	"context"
	"math"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/membership-api/internal/models"
)

type ListFilter struct {
	Status Status
	Page   int
	Limit  int
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Normalize applies paging defaults. Page is capped so Offset cannot overflow.
func (f ListFilter) Normalize() ListFilter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if maxPage := math.MaxInt / f.Limit; f.Page > maxPage {
		f.Page = maxPage
	}
	return f
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type Repository interface {
	// -------- Users --------
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUserPhoto(ctx context.Context, id uuid.UUID, photo *models.Asset) error
	CountUsers(ctx context.Context) (int64, error)

	// -------- Enrollments --------
	CreateEnrollment(ctx context.Context, e *models.Enrollment) error
	CreateEnrollmentWithUser(ctx context.Context, e *models.Enrollment, u *models.User) error
	GetEnrollment(ctx context.Context, id uuid.UUID) (*models.Enrollment, error)
	UpdateEnrollment(ctx context.Context, e *models.Enrollment) error
	DeleteEnrollment(ctx context.Context, id uuid.UUID) error
	FindPendingByEmail(ctx context.Context, email string) (*models.Enrollment, error)
	ListEnrollments(ctx context.Context, f ListFilter) ([]models.Enrollment, int64, error)
	ListEnrollmentsByUser(ctx context.Context, userID uuid.UUID) ([]models.Enrollment, error)
	CountEnrollmentsByStatus(ctx context.Context) (map[Status]int64, error)
}
