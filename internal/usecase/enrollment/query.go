package enrollment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/membership-api/internal/audit"
	domain "github.com/BruksfildServices01/membership-api/internal/domain/enrollment"
	"github.com/BruksfildServices01/membership-api/internal/models"
)

type ListResult struct {
	Enrollments []models.Enrollment
	Total       int64
	Page        int
	Limit       int
}

// Queries groups the read side and deletion of enrollments.
type Queries struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewQueries(repo domain.Repository, audit *audit.Dispatcher) *Queries {
	return &Queries{repo: repo, audit: audit}
}

func (q *Queries) List(ctx context.Context, status string, page, limit int) (*ListResult, error) {
	s, err := domain.ParseFilter(status)
	if err != nil {
		return nil, err
	}

	f := domain.ListFilter{Status: s, Page: page, Limit: limit}.Normalize()

	list, total, err := q.repo.ListEnrollments(ctx, f)
	if err != nil {
		return nil, err
	}

	return &ListResult{Enrollments: list, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

func (q *Queries) Get(ctx context.Context, id uuid.UUID) (*models.Enrollment, error) {
	e, err := q.repo.GetEnrollment(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, errEnrollmentNotFound
	}
	return e, err
}

func (q *Queries) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Enrollment, error) {
	return q.repo.ListEnrollmentsByUser(ctx, userID)
}

func (q *Queries) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	err := q.repo.DeleteEnrollment(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return errEnrollmentNotFound
	}
	if err != nil {
		return err
	}

	q.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(actorID),
		Action:   audit.ActionEnrollmentDeleted,
		Entity:   "enrollment",
		EntityID: audit.Ref(id),
	})
	return nil
}

type Stats struct {
	TotalUsers       int64 `json:"total_users"`
	TotalEnrollments int64 `json:"total_enrollments"`
	Pending          int64 `json:"pending"`
	Approved         int64 `json:"approved"`
	Rejected         int64 `json:"rejected"`
}

func (q *Queries) Stats(ctx context.Context) (*Stats, error) {
	users, err := q.repo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := q.repo.CountEnrollmentsByStatus(ctx)
	if err != nil {
		return nil, err
	}

	st := &Stats{
		TotalUsers: users,
		Pending:    counts[domain.StatusPending],
		Approved:   counts[domain.StatusApproved],
		Rejected:   counts[domain.StatusRejected],
	}
	for _, n := range counts {
		st.TotalEnrollments += n
	}
	return st, nil
}
