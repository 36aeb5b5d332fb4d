package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Title       string    `gorm:"size:200;not null" json:"title"`
	Slug        string    `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	DateStart   time.Time `gorm:"not null;index" json:"date_start"`
	DateEnd     time.Time `gorm:"not null" json:"date_end"`
	Location    string    `gorm:"size:255" json:"location"`
	Type        string    `gorm:"size:50" json:"type,omitempty"`

	// MaxParticipants of zero means unlimited.
	MaxParticipants int     `json:"max_participants"`
	PriceMember     float64 `json:"price_member"`
	PriceNonMember  float64 `json:"price_non_member"`
	IsFeatured      bool    `json:"is_featured"`

	Images    []Asset    `gorm:"type:jsonb;serializer:json" json:"images"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`

	Registrations []EventRegistration `gorm:"constraint:OnDelete:CASCADE;" json:"registrations"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// EventRegistration rows are append-only.
type EventRegistration struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EventID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_registration_user" json:"event_id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_registration_user" json:"user_id"`
	User    *User     `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`

	RegisteredAt time.Time `gorm:"autoCreateTime" json:"registered_at"`
}

func (r *EventRegistration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
