package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/membership-api/internal/audit"
	domain "github.com/BruksfildServices01/membership-api/internal/domain/enrollment"
	"github.com/BruksfildServices01/membership-api/internal/models"
)

func TestUserEmailIsUnique(t *testing.T) {
	s := New(true)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &models.User{Email: "a@x.com"}))
	assert.ErrorIs(t, s.CreateUser(ctx, &models.User{Email: "a@x.com"}), models.ErrDuplicate)

	u, err := s.FindUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, models.RoleMember, u.Role)

	missing, err := s.FindUserByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPendingEnrollmentUniqueness(t *testing.T) {
	ctx := context.Background()
	pending := func() *models.Enrollment {
		return &models.Enrollment{Email: "a@x.com", Status: string(domain.StatusPending)}
	}

	s := New(true)
	require.NoError(t, s.CreateEnrollment(ctx, pending()))
	assert.ErrorIs(t, s.CreateEnrollment(ctx, pending()), models.ErrDuplicate)

	relaxed := New(false)
	require.NoError(t, relaxed.CreateEnrollment(ctx, pending()))
	assert.NoError(t, relaxed.CreateEnrollment(ctx, pending()))
}

func TestCreateEnrollmentWithUserIsAtomic(t *testing.T) {
	s := New(true)
	ctx := context.Background()

	require.NoError(t, s.CreateEnrollment(ctx, &models.Enrollment{Email: "a@x.com", Status: "pending"}))

	e := &models.Enrollment{Email: "a@x.com", Status: "pending"}
	err := s.CreateEnrollmentWithUser(ctx, e, &models.User{Email: "a@x.com"})
	assert.ErrorIs(t, err, models.ErrDuplicate)
	assert.Nil(t, e.UserID)

	n, _ := s.CountUsers(ctx)
	assert.EqualValues(t, 0, n)
}

func TestListEnrollmentsPagesNewestFirst(t *testing.T) {
	s := New(false)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.CreateEnrollment(ctx, &models.Enrollment{
			Email:     "a@x.com",
			Status:    "pending",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	page, total, err := s.ListEnrollments(ctx, domain.ListFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page, 2)
	assert.True(t, page[0].CreatedAt.After(page[1].CreatedAt))

	last, _, _ := s.ListEnrollments(ctx, domain.ListFilter{Page: 3, Limit: 2})
	assert.Len(t, last, 1)

	none, _, _ := s.ListEnrollments(ctx, domain.ListFilter{Status: domain.StatusApproved})
	assert.Empty(t, none)

	var beyond []models.Enrollment
	assert.NotPanics(t, func() {
		beyond, total, err = s.ListEnrollments(ctx, domain.ListFilter{Page: 922337203685477582, Limit: 10})
	})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Empty(t, beyond)
}

func TestDeleteUserCascade(t *testing.T) {
	s := New(true)
	ctx := context.Background()

	u := &models.User{Email: "a@x.com"}
	e := &models.Enrollment{Email: "a@x.com", Status: "pending"}
	require.NoError(t, s.CreateEnrollmentWithUser(ctx, e, u))

	other := &models.Enrollment{Email: "b@x.com", Status: "pending"}
	require.NoError(t, s.CreateEnrollment(ctx, other))

	require.NoError(t, s.DeleteUserCascade(ctx, u.ID))

	_, err := s.GetEnrollment(ctx, e.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = s.GetEnrollment(ctx, other.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, s.DeleteUserCascade(ctx, u.ID), models.ErrNotFound)
}

func TestEventRegistrations(t *testing.T) {
	s := New(true)
	ctx := context.Background()

	u := &models.User{Email: "a@x.com", FirstName: "Amina"}
	require.NoError(t, s.CreateUser(ctx, u))

	ev := &models.Event{Title: "Forum", Slug: "forum"}
	require.NoError(t, s.CreateEvent(ctx, ev))
	assert.ErrorIs(t, s.CreateEvent(ctx, &models.Event{Slug: "forum"}), models.ErrDuplicate)

	require.NoError(t, s.AddRegistration(ctx, &models.EventRegistration{EventID: ev.ID, UserID: u.ID}))
	assert.ErrorIs(t, s.AddRegistration(ctx, &models.EventRegistration{EventID: ev.ID, UserID: u.ID}), models.ErrDuplicate)

	got, err := s.GetEventBySlug(ctx, "forum")
	require.NoError(t, err)
	require.Len(t, got.Registrations, 1)
	require.NotNil(t, got.Registrations[0].User)
	assert.Equal(t, "Amina", got.Registrations[0].User.FirstName)

	require.NoError(t, s.DeleteEvent(ctx, ev.ID))
	_, err = s.GetEventByID(ctx, ev.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, s.registrations)
}

func TestAuditLogFilters(t *testing.T) {
	s := New(true)
	ctx := context.Background()

	for _, action := range []string{audit.ActionEnrollmentSubmitted, audit.ActionUserDeleted, audit.ActionEnrollmentSubmitted} {
		require.NoError(t, s.CreateAuditLog(ctx, &models.AuditLog{Action: action, Entity: "enrollment", EntityID: audit.Ref(uuid.New())}))
	}

	logs, total, err := s.ListAuditLogs(ctx, audit.Filter{Action: audit.ActionEnrollmentSubmitted})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, logs, 2)

	assert.NotPanics(t, func() {
		logs, total, err = s.ListAuditLogs(ctx, audit.Filter{Page: 922337203685477582, Limit: 10})
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Empty(t, logs)
}
