package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"j2systems/internal/config"
	"j2systems/internal/database"
	"j2systems/internal/domain"
	"j2systems/internal/store"
	apperrors "j2systems/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{URL: "sqlite:///:memory:"}, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func ptr[T any](v T) *T { return &v }

func newMessage(name string, createdAt time.Time) *domain.ContactMessage {
	return &domain.ContactMessage{
		Name:      name,
		Email:     "juan.perez@empresa.com",
		Message:   "Necesito integración de sistemas para mi empresa.",
		CreatedAt: createdAt,
	}
}

func TestContactStoreInsertAndGet(t *testing.T) {
	ctx := context.Background()
	s := store.NewContactStore(newTestDB(t))

	msg := newMessage("Juan Carlos Pérez", time.Time{})
	msg.Company = ptr("Empresa Tech Solutions")

	created, err := s.Insert(ctx, msg)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.Read)
	assert.False(t, created.Replied)

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Email, got.Email)
	require.NotNil(t, got.Company)
	assert.Equal(t, "Empresa Tech Solutions", *got.Company)
	assert.Equal(t, created.Message, got.Message)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", created.CreatedAt, got.CreatedAt)
}

func TestContactStoreKeepsAbsentCompanyNil(t *testing.T) {
	ctx := context.Background()
	s := store.NewContactStore(newTestDB(t))

	created, err := s.Insert(ctx, newMessage("María González", time.Time{}))
	require.NoError(t, err)

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Company)
}

func TestContactStoreInsertAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	s := store.NewContactStore(newTestDB(t))

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		created, err := s.Insert(ctx, newMessage("Ana", time.Time{}))
		require.NoError(t, err)
		assert.False(t, seen[created.ID], "id %s reused", created.ID)
		seen[created.ID] = true
	}
}

func TestContactStoreListAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := store.NewContactStore(newTestDB(t))

	base := domain.Now()
	for _, offset := range []time.Duration{2 * time.Hour, 0, 5 * time.Minute, 3 * time.Hour} {
		_, err := s.Insert(ctx, newMessage("Ana", base.Add(-offset)))
		require.NoError(t, err)
	}

	messages, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 4)
	for i := 1; i < len(messages); i++ {
		assert.False(t, messages[i-1].CreatedAt.Before(messages[i].CreatedAt),
			"message %d (%v) is older than message %d (%v)", i-1, messages[i-1].CreatedAt, i, messages[i].CreatedAt)
	}
}

func TestContactStoreListAllEmpty(t *testing.T) {
	messages, err := store.NewContactStore(newTestDB(t)).ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, messages)
	assert.Empty(t, messages)
}

func TestContactStoreGetUnknownID(t *testing.T) {
	_, err := store.NewContactStore(newTestDB(t)).GetByID(context.Background(), "9b2f8c1e-0000-4000-8000-000000000000")
	assert.True(t, apperrors.IsNotFound(err), "got %v", err)
}

func TestContactStoreUpdateStatus(t *testing.T) {
	ctx := context.Background()
	s := store.NewContactStore(newTestDB(t))

	created, err := s.Insert(ctx, newMessage("Ana", time.Time{}))
	require.NoError(t, err)

	updated, err := s.UpdateStatus(ctx, created.ID, domain.StatusUpdate{Read: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Read)
	assert.False(t, updated.Replied)

	updated, err = s.UpdateStatus(ctx, created.ID, domain.StatusUpdate{Replied: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Read, "partial update must not clobber read")
	assert.True(t, updated.Replied)

	updated, err = s.UpdateStatus(ctx, created.ID, domain.StatusUpdate{Read: ptr(false)})
	require.NoError(t, err)
	assert.False(t, updated.Read, "read can be explicitly unset")
	assert.True(t, updated.Replied)

	// Re-applying the current value is still a successful update.
	updated, err = s.UpdateStatus(ctx, created.ID, domain.StatusUpdate{Replied: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Replied)

	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt), "created_at must not change")
}

func TestContactStoreUpdateStatusErrors(t *testing.T) {
	ctx := context.Background()
	s := store.NewContactStore(newTestDB(t))

	created, err := s.Insert(ctx, newMessage("Ana", time.Time{}))
	require.NoError(t, err)

	_, err = s.UpdateStatus(ctx, created.ID, domain.StatusUpdate{})
	assert.True(t, apperrors.IsBadRequest(err), "got %v", err)

	_, err = s.UpdateStatus(ctx, "does-not-exist", domain.StatusUpdate{Read: ptr(true)})
	assert.True(t, apperrors.IsNotFound(err), "got %v", err)
}

func TestContactStorePersistenceError(t *testing.T) {
	db := newTestDB(t)
	s := store.NewContactStore(db)
	require.NoError(t, database.Close(db))

	_, err := s.Insert(context.Background(), newMessage("Ana", time.Time{}))
	assert.Equal(t, apperrors.ErrCodePersistence, apperrors.CodeOf(err))

	_, err = s.ListAll(context.Background())
	assert.Equal(t, apperrors.ErrCodePersistence, apperrors.CodeOf(err))
}

func TestStatusStore(t *testing.T) {
	ctx := context.Background()
	s := store.NewStatusStore(newTestDB(t))

	base := domain.Now()
	first, err := s.Insert(ctx, &domain.StatusCheck{ClientName: "landing", Timestamp: base.Add(-time.Minute)})
	require.NoError(t, err)
	second, err := s.Insert(ctx, &domain.StatusCheck{ClientName: "monitor", Timestamp: base})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	checks, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, checks, 2)
	assert.Equal(t, "landing", checks[0].ClientName)
	assert.Equal(t, "monitor", checks[1].ClientName)
}
