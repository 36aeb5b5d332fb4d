package event

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/membership-api/internal/httperr"
	"github.com/BruksfildServices01/membership-api/internal/models"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Forum Annuel 2026":        "forum-annuel-2026",
		"  Dîner -- de Gala!! ":    "d-ner-de-gala",
		"already-a-slug":           "already-a-slug",
		"***":                      "",
		"Assemblée   Générale (AG)": "assembl-e-g-n-rale-ag",
	}

	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestIsRegistered(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()

	ev := &models.Event{Registrations: []models.EventRegistration{
		{UserID: alice},
		{User: &models.User{ID: bob}},
	}}

	assert.True(t, IsRegistered(ev, alice))
	assert.True(t, IsRegistered(ev, bob))
	assert.False(t, IsRegistered(ev, uuid.New()))
	assert.False(t, IsRegistered(ev, uuid.Nil))
	assert.False(t, IsRegistered(&models.Event{}, alice))
	assert.False(t, IsRegistered(nil, alice))
}

func TestCanRegister(t *testing.T) {
	alice := uuid.New()

	open := &models.Event{}
	assert.NoError(t, CanRegister(open, alice))

	ev := &models.Event{
		MaxParticipants: 1,
		Registrations:   []models.EventRegistration{{UserID: uuid.New()}},
	}
	assert.True(t, httperr.IsBusiness(CanRegister(ev, alice), "event_full"))

	ev.Registrations = append(ev.Registrations, models.EventRegistration{UserID: alice})
	assert.True(t, httperr.IsBusiness(CanRegister(ev, alice), "already_registered"))
}
