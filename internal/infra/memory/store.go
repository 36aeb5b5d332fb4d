package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/membership-api/internal/audit"
	domain "github.com/BruksfildServices01/membership-api/internal/domain/enrollment"
	"github.com/BruksfildServices01/membership-api/internal/models"
)

// Store keeps every aggregate in process memory. It enforces the same
// uniqueness rules as the Postgres schema.
type Store struct {
	mu sync.RWMutex

	users         map[uuid.UUID]models.User
	enrollments   map[uuid.UUID]models.Enrollment
	events        map[uuid.UUID]models.Event
	registrations []models.EventRegistration
	auditLogs     []models.AuditLog

	uniquePending bool
	now           func() time.Time
}

// New builds an empty store. uniquePending mirrors the partial unique index
// on pending enrollment emails.
func New(uniquePending bool) *Store {
	return &Store{
		users:         map[uuid.UUID]models.User{},
		enrollments:   map[uuid.UUID]models.Enrollment{},
		events:        map[uuid.UUID]models.Event{},
		uniquePending: uniquePending,
		now:           time.Now,
	}
}

func (s *Store) stamp(created, updated *time.Time) {
	now := s.now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *Store) insertUser(u *models.User) error {
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return models.ErrDuplicate
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if _, ok := s.users[u.ID]; ok {
		return models.ErrDuplicate
	}
	if u.Role == "" {
		u.Role = models.RoleMember
	}
	s.stamp(&u.CreatedAt, &u.UpdatedAt)
	s.users[u.ID] = *u
	return nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertUser(u)
}

func (s *Store) UpdateUserPhoto(ctx context.Context, id uuid.UUID, photo *models.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return models.ErrNotFound
	}
	if photo != nil {
		p := *photo
		photo = &p
	}
	u.Photo = photo
	u.UpdatedAt = s.now()
	s.users[id] = u
	return nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, id uuid.UUID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return models.ErrNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = s.now()
	s.users[id] = u
	return nil
}

func (s *Store) UpdateUserRole(ctx context.Context, id uuid.UUID, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return models.ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = s.now()
	s.users[id] = u
	return nil
}

func (s *Store) UpdateUserProfile(ctx context.Context, in *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[in.ID]
	if !ok {
		return models.ErrNotFound
	}
	u.FirstName = in.FirstName
	u.LastName = in.LastName
	u.Phone = in.Phone
	u.CompanyDetails = in.CompanyDetails
	u.Photo = nil
	if in.Photo != nil {
		p := *in.Photo
		u.Photo = &p
	}
	u.UpdatedAt = s.now()
	s.users[in.ID] = u
	return nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}

func (s *Store) ListUsers(ctx context.Context, role string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) DeleteUserCascade(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return models.ErrNotFound
	}

	for eid, e := range s.enrollments {
		if e.UserID != nil && *e.UserID == id {
			delete(s.enrollments, eid)
		}
	}

	kept := s.registrations[:0]
	for _, r := range s.registrations {
		if r.UserID != id {
			kept = append(kept, r)
		}
	}
	s.registrations = kept

	delete(s.users, id)
	return nil
}

// --------------------------------------------------
// Enrollments
// --------------------------------------------------

func (s *Store) insertEnrollment(e *models.Enrollment) error {
	if s.uniquePending && e.Status == string(domain.StatusPending) {
		for _, existing := range s.enrollments {
			if existing.Email == e.Email && existing.Status == string(domain.StatusPending) {
				return models.ErrDuplicate
			}
		}
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	s.stamp(&e.CreatedAt, &e.UpdatedAt)

	stored := *e
	stored.User = nil
	s.enrollments[e.ID] = stored
	return nil
}

func (s *Store) CreateEnrollment(ctx context.Context, e *models.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertEnrollment(e)
}

func (s *Store) CreateEnrollmentWithUser(ctx context.Context, e *models.Enrollment, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.insertUser(u); err != nil {
		return err
	}

	id := u.ID
	e.UserID = &id

	if err := s.insertEnrollment(e); err != nil {
		delete(s.users, u.ID)
		e.UserID = nil
		return err
	}
	return nil
}

// withUser returns a copy of e with the linked user attached.
func (s *Store) withUser(e models.Enrollment) models.Enrollment {
	if e.UserID != nil {
		if u, ok := s.users[*e.UserID]; ok {
			e.User = &u
		}
	}
	return e
}

func (s *Store) GetEnrollment(ctx context.Context, id uuid.UUID) (*models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.enrollments[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	e = s.withUser(e)
	return &e, nil
}

func (s *Store) UpdateEnrollment(ctx context.Context, e *models.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.enrollments[e.ID]; !ok {
		return models.ErrNotFound
	}
	if e.UserID != nil {
		if _, ok := s.users[*e.UserID]; !ok {
			return models.ErrNotFound
		}
	}

	e.UpdatedAt = s.now()
	stored := *e
	stored.User = nil
	s.enrollments[e.ID] = stored
	return nil
}

func (s *Store) DeleteEnrollment(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.enrollments[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.enrollments, id)
	return nil
}

func (s *Store) FindPendingByEmail(ctx context.Context, email string) (*models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.enrollments {
		if e.Email == email && e.Status == string(domain.StatusPending) {
			e := e
			return &e, nil
		}
	}
	return nil, nil
}

func (s *Store) sortedEnrollments(keep func(models.Enrollment) bool) []models.Enrollment {
	out := make([]models.Enrollment, 0)
	for _, e := range s.enrollments {
		if keep(e) {
			out = append(out, s.withUser(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *Store) ListEnrollments(ctx context.Context, f domain.ListFilter) ([]models.Enrollment, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f = f.Normalize()
	all := s.sortedEnrollments(func(e models.Enrollment) bool {
		return f.Status == "" || e.Status == string(f.Status)
	})

	total := int64(len(all))
	start := f.Offset()
	if start < 0 || start >= len(all) {
		return []models.Enrollment{}, total, nil
	}
	end := start + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (s *Store) ListEnrollmentsByUser(ctx context.Context, userID uuid.UUID) ([]models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sortedEnrollments(func(e models.Enrollment) bool {
		return e.UserID != nil && *e.UserID == userID
	}), nil
}

func (s *Store) CountEnrollmentsByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[domain.Status]int64{}
	for _, e := range s.enrollments {
		out[domain.Status(e.Status)]++
	}
	return out, nil
}

// --------------------------------------------------
// Audit
// --------------------------------------------------

func (s *Store) CreateAuditLog(ctx context.Context, l *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = s.now()
	}
	s.auditLogs = append(s.auditLogs, *l)
	return nil
}

func (s *Store) ListAuditLogs(ctx context.Context, f audit.Filter) ([]models.AuditLog, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f = f.Normalize()

	var matched []models.AuditLog
	for i := len(s.auditLogs) - 1; i >= 0; i-- {
		l := s.auditLogs[i]
		if f.Action != "" && l.Action != f.Action {
			continue
		}
		if f.Entity != "" && l.Entity != f.Entity {
			continue
		}
		if f.From != nil && l.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !l.CreatedAt.Before(f.To.Add(24*time.Hour)) {
			continue
		}
		matched = append(matched, l)
	}

	total := int64(len(matched))
	start := f.Offset()
	if start < 0 || start >= len(matched) {
		return []models.AuditLog{}, total, nil
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}
