package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/membership-api/internal/models"
)

func (s *Store) slugTaken(slug string, exclude uuid.UUID) bool {
	for id, ev := range s.events {
		if ev.Slug == slug && id != exclude {
			return true
		}
	}
	return false
}

// hydrate attaches registrations, oldest first, with their users.
func (s *Store) hydrate(ev models.Event) models.Event {
	regs := make([]models.EventRegistration, 0)
	for _, r := range s.registrations {
		if r.EventID != ev.ID {
			continue
		}
		if u, ok := s.users[r.UserID]; ok {
			r.User = &u
		}
		regs = append(regs, r)
	}
	ev.Registrations = regs
	return ev
}

func (s *Store) CreateEvent(ctx context.Context, ev *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slugTaken(ev.Slug, uuid.Nil) {
		return models.ErrDuplicate
	}
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	s.stamp(&ev.CreatedAt, &ev.UpdatedAt)

	stored := *ev
	stored.Registrations = nil
	s.events[ev.ID] = stored
	return nil
}

func (s *Store) UpdateEvent(ctx context.Context, ev *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[ev.ID]; !ok {
		return models.ErrNotFound
	}
	if s.slugTaken(ev.Slug, ev.ID) {
		return models.ErrDuplicate
	}

	ev.UpdatedAt = s.now()
	stored := *ev
	stored.Registrations = nil
	s.events[ev.ID] = stored
	return nil
}

func (s *Store) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return models.ErrNotFound
	}

	kept := s.registrations[:0]
	for _, r := range s.registrations {
		if r.EventID != id {
			kept = append(kept, r)
		}
	}
	s.registrations = kept

	delete(s.events, id)
	return nil
}

func (s *Store) GetEventBySlug(ctx context.Context, slug string) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ev := range s.events {
		if ev.Slug == slug {
			ev = s.hydrate(ev)
			return &ev, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *Store) GetEventByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.events[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	ev = s.hydrate(ev)
	return &ev, nil
}

func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Event, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, s.hydrate(ev))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateStart.After(out[j].DateStart) })
	return out, nil
}

func (s *Store) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slugTaken(slug, exclude), nil
}

func (s *Store) AddRegistration(ctx context.Context, r *models.EventRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[r.EventID]; !ok {
		return models.ErrNotFound
	}
	if _, ok := s.users[r.UserID]; !ok {
		return models.ErrNotFound
	}
	for _, existing := range s.registrations {
		if existing.EventID == r.EventID && existing.UserID == r.UserID {
			return models.ErrDuplicate
		}
	}

	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.RegisteredAt.IsZero() {
		r.RegisteredAt = s.now()
	}

	stored := *r
	stored.User = nil
	s.registrations = append(s.registrations, stored)
	return nil
}
