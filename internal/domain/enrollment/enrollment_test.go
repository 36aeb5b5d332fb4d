package enrollment

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/membership-api/internal/httperr"
	"github.com/BruksfildServices01/membership-api/internal/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		kind     httperr.Kind
		ok       bool
	}{
		{StatusPending, StatusApproved, "", true},
		{StatusPending, StatusRejected, "", true},
		{StatusApproved, StatusApproved, "", true},
		{StatusRejected, StatusRejected, "", true},
		{StatusApproved, StatusRejected, httperr.KindConflict, false},
		{StatusRejected, StatusApproved, httperr.KindConflict, false},
		{StatusApproved, StatusPending, httperr.KindValidation, false},
		{StatusPending, Status("archived"), httperr.KindValidation, false},
	}

	for _, tt := range tests {
		err := CanTransition(tt.from, tt.to)
		if tt.ok {
			assert.NoError(t, err, "%s -> %s", tt.from, tt.to)
			continue
		}
		kind, ok := httperr.KindOf(err)
		require.True(t, ok, "%s -> %s", tt.from, tt.to)
		assert.Equal(t, tt.kind, kind, "%s -> %s", tt.from, tt.to)
	}
}

func TestTransitionUpdatesStatus(t *testing.T) {
	e := &models.Enrollment{Status: string(InitialStatus())}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, Transition(e, StatusApproved, now))
	assert.Equal(t, "approved", e.Status)
	assert.Equal(t, now, e.UpdatedAt)

	err := Transition(e, StatusRejected, now)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
	assert.Equal(t, "approved", e.Status)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("approved")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, s)

	_, err = ParseStatus("pending")
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))

	f, err := ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, Status(""), f)

	_, err = ParseFilter("bogus")
	assert.Error(t, err)
}

func TestNewPolicy(t *testing.T) {
	p, err := NewPolicy("", true, true)
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), p)
	assert.False(t, p.CreatesAccountOnSubmit())

	p, err = NewPolicy("at_submission", false, true)
	require.NoError(t, err)
	assert.True(t, p.CreatesAccountOnSubmit())
	assert.False(t, p.RejectExistingAccount)

	_, err = NewPolicy("later", true, true)
	assert.Error(t, err)
}

func TestNewAccountCopiesApplicant(t *testing.T) {
	e := &models.Enrollment{
		FirstName:   "Amina",
		LastName:    "Diallo",
		Email:       "amina@x.com",
		Phone:       "+221700000000",
		CompanyName: "Diallo SARL",
		CompanyLogo: &models.Asset{PublicID: "logos/a.webp", URL: "https://cdn/logos/a.webp"},
	}

	u := NewAccount(e, "hash")

	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, models.RoleMember, u.Role)
	assert.Equal(t, "amina@x.com", u.Email)
	assert.Equal(t, "Diallo SARL", u.CompanyDetails.Name)
	require.NotNil(t, u.Photo)
	assert.True(t, u.Photo.SameAs(e.CompanyLogo))

	e.CompanyLogo.URL = "changed"
	assert.NotEqual(t, "changed", u.Photo.URL)
}

func TestNeedsPhotoSync(t *testing.T) {
	logo := &models.Asset{PublicID: "l", URL: "u"}
	e := &models.Enrollment{CompanyLogo: logo}

	assert.True(t, NeedsPhotoSync(e, &models.User{}))
	assert.False(t, NeedsPhotoSync(e, &models.User{Photo: &models.Asset{PublicID: "l", URL: "u"}}))
	assert.False(t, NeedsPhotoSync(&models.Enrollment{}, &models.User{}))
	assert.False(t, NeedsPhotoSync(e, nil))
}

func TestListFilterNormalize(t *testing.T) {
	f := ListFilter{}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, DefaultPageSize, f.Limit)
	assert.Equal(t, 0, f.Offset())

	f = ListFilter{Page: 3, Limit: 500}.Normalize()
	assert.Equal(t, MaxPageSize, f.Limit)
	assert.Equal(t, 200, f.Offset())
}

func TestListFilterNormalizeCapsHugePage(t *testing.T) {
	f := ListFilter{Page: 922337203685477582, Limit: 10}.Normalize()
	assert.Positive(t, f.Offset())
	assert.Equal(t, math.MaxInt/10, f.Page)
}
