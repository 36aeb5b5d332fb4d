package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type CompanyDetails struct {
	Name               string `gorm:"size:150" json:"name,omitempty"`
	Address            string `gorm:"size:255" json:"address,omitempty"`
	RegistrationNumber string `gorm:"size:100" json:"registration_number,omitempty"`
}

type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	FirstName    string `gorm:"size:100;not null" json:"first_name"`
	LastName     string `gorm:"size:100;not null" json:"last_name"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:30" json:"phone,omitempty"`
	Role         string `gorm:"size:20;not null" json:"role"`

	Photo          *Asset         `gorm:"type:jsonb;serializer:json" json:"photo,omitempty"`
	CompanyDetails CompanyDetails `gorm:"embedded;embeddedPrefix:company_" json:"company_details"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleMember
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
