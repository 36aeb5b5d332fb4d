package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enrollment is an application to join the association.
type Enrollment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	FirstName string `gorm:"size:100;not null" json:"first_name"`
	LastName  string `gorm:"size:100;not null" json:"last_name"`
	Email     string `gorm:"size:255;not null;index" json:"email"`
	Phone     string `gorm:"size:30;not null" json:"phone"`
	Country   string `gorm:"size:100;not null" json:"country"`
	City      string `gorm:"size:100;not null" json:"city"`

	CompanyName       string   `gorm:"size:150" json:"company_name,omitempty"`
	Interests         []string `gorm:"type:jsonb;serializer:json" json:"interests"`
	CompanyLogo       *Asset   `gorm:"type:jsonb;serializer:json" json:"company_logo,omitempty"`
	BusinessDocuments []Asset  `gorm:"type:jsonb;serializer:json" json:"business_documents"`

	Status string     `gorm:"size:20;not null;index" json:"status"`
	UserID *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User   *User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (e *Enrollment) HasLogo() bool {
	return e.CompanyLogo != nil && e.CompanyLogo.URL != ""
}
