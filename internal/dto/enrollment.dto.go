package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/membership-api/internal/models"
)

type UserSummary struct {
	ID             uuid.UUID             `json:"id"`
	FirstName      string                `json:"first_name"`
	LastName       string                `json:"last_name"`
	Email          string                `json:"email"`
	Role           string                `json:"role"`
	CompanyDetails models.CompanyDetails `json:"company_details"`
}

type EnrollmentListItem struct {
	ID          uuid.UUID     `json:"id"`
	FirstName   string        `json:"first_name"`
	LastName    string        `json:"last_name"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone"`
	Country     string        `json:"country"`
	City        string        `json:"city"`
	CompanyName string        `json:"company_name,omitempty"`
	Interests   []string      `json:"interests"`
	CompanyLogo *models.Asset `json:"company_logo,omitempty"`
	Status      string        `json:"status"`
	User        *UserSummary  `json:"user"`
	CreatedAt   time.Time     `json:"created_at"`
}

func NewUserSummary(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		Role:           u.Role,
		CompanyDetails: u.CompanyDetails,
	}
}

func NewEnrollmentListItems(list []models.Enrollment) []EnrollmentListItem {
	out := make([]EnrollmentListItem, 0, len(list))
	for i := range list {
		e := &list[i]
		interests := e.Interests
		if interests == nil {
			interests = []string{}
		}
		out = append(out, EnrollmentListItem{
			ID:          e.ID,
			FirstName:   e.FirstName,
			LastName:    e.LastName,
			Email:       e.Email,
			Phone:       e.Phone,
			Country:     e.Country,
			City:        e.City,
			CompanyName: e.CompanyName,
			Interests:   interests,
			CompanyLogo: e.CompanyLogo,
			Status:      e.Status,
			User:        NewUserSummary(e.User),
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}
