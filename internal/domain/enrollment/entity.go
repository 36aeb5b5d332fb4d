package enrollment

import (
	"github.com/google/uuid"

	"github.com/BruksfildServices01/membership-api/internal/models"
)

// NewAccount builds the member account provisioned for an enrollment.
// The id is assigned up front so the enrollment can be linked before insert.
func NewAccount(e *models.Enrollment, passwordHash string) *models.User {
	u := &models.User{
		ID:           uuid.New(),
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		Email:        e.Email,
		PasswordHash: passwordHash,
		Phone:        e.Phone,
		Role:         models.RoleMember,
		CompanyDetails: models.CompanyDetails{
			Name: e.CompanyName,
		},
	}

	if e.HasLogo() {
		logo := *e.CompanyLogo
		u.Photo = &logo
	}

	return u
}

// NeedsPhotoSync reports whether the user photo lags behind the company logo.
func NeedsPhotoSync(e *models.Enrollment, u *models.User) bool {
	if u == nil || !e.HasLogo() {
		return false
	}
	return !u.Photo.SameAs(e.CompanyLogo)
}

// Link attaches the enrollment to an account.
func Link(e *models.Enrollment, u *models.User) {
	id := u.ID
	e.UserID = &id
}
