package audit

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/membership-api/internal/logging"
	"github.com/BruksfildServices01/membership-api/internal/models"
)

type memStore struct {
	mu   sync.Mutex
	logs []models.AuditLog
	err  error
}

func (s *memStore) CreateAuditLog(ctx context.Context, l *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.logs = append(s.logs, *l)
	return nil
}

func (s *memStore) ListAuditLogs(ctx context.Context, f Filter) ([]models.AuditLog, int64, error) {
	return s.logs, int64(len(s.logs)), nil
}

func TestLoggerEncodesMetadata(t *testing.T) {
	store := &memStore{}
	actor := uuid.New()

	err := New(store).Log(context.Background(), &actor, ActionUserDeleted, "user", nil, map[string]string{"email": "a@x.com"})
	require.NoError(t, err)

	require.Len(t, store.logs, 1)
	assert.Equal(t, `{"email":"a@x.com"}`, store.logs[0].Metadata)
	assert.Equal(t, &actor, store.logs[0].ActorID)
}

func TestDispatcherFlushesOnClose(t *testing.T) {
	store := &memStore{}
	d := NewDispatcher(New(store), logging.Discard())

	id := uuid.New()
	for i := 0; i < 3; i++ {
		d.Dispatch(Event{Action: ActionEnrollmentSubmitted, Entity: "enrollment", EntityID: &id})
	}
	d.Close()

	assert.Len(t, store.logs, 3)

	d.Dispatch(Event{Action: "late"})
	d.Close()
	assert.Len(t, store.logs, 3)
}

func TestDispatcherSwallowsStoreErrors(t *testing.T) {
	store := &memStore{err: errors.New("db down")}
	d := NewDispatcher(New(store), logging.Discard())

	d.Dispatch(Event{Action: ActionEventRegistered})
	d.Close()

	assert.Empty(t, store.logs)
}

func TestRef(t *testing.T) {
	assert.Nil(t, Ref(uuid.Nil))
	id := uuid.New()
	assert.Equal(t, id, *Ref(id))
}

func TestFilterNormalize(t *testing.T) {
	f := Filter{}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 50, f.Limit)
	assert.Equal(t, 0, f.Offset())

	f = Filter{Page: 2, Limit: 500}.Normalize()
	assert.Equal(t, 50, f.Limit)
	assert.Equal(t, 50, f.Offset())

	f = Filter{Page: math.MaxInt, Limit: 200}.Normalize()
	assert.Equal(t, math.MaxInt/200, f.Page)
	assert.Positive(t, f.Offset())
}
