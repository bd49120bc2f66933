package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/blog-website/internal/domain"
	"github.com/dom/blog-website/internal/repository/postgres"
	"github.com/dom/blog-website/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSession(userID uuid.UUID, hash string, expiresAt time.Time) *domain.UserSession {
	return &domain.UserSession{
		ID:               uuid.New(),
		UserID:           userID,
		RefreshTokenHash: hash,
		ExpiresAt:        expiresAt,
		CreatedAt:        time.Now(),
	}
}

func TestSessionRepository_ReplaceForUser(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSessionRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	expires := time.Now().Add(time.Hour)

	require.NoError(t, repo.ReplaceForUser(ctx, newSession(user.ID, "first", expires)))
	require.NoError(t, repo.ReplaceForUser(ctx, newSession(user.ID, "second", expires)))

	var count int64
	require.NoError(t, testDB.DB.Model(&domain.UserSession{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err := repo.GetByTokenHash(ctx, "first")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	current, err := repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", current.RefreshTokenHash)
}

func TestSessionRepository_Delete(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSessionRepository(testDB.DB)
	ctx := context.Background()

	alice, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	bob, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	expires := time.Now().Add(time.Hour)

	require.NoError(t, repo.ReplaceForUser(ctx, newSession(alice.ID, "alice", expires)))
	require.NoError(t, repo.ReplaceForUser(ctx, newSession(bob.ID, "bob", expires)))

	require.NoError(t, repo.DeleteByTokenHash(ctx, "alice"))
	_, err := repo.GetByUserID(ctx, alice.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Unknown hashes are not an error.
	require.NoError(t, repo.DeleteByTokenHash(ctx, "unknown"))

	require.NoError(t, repo.DeleteByUserID(ctx, bob.ID))
	_, err = repo.GetByTokenHash(ctx, "bob")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSessionRepository(testDB.DB)
	ctx := context.Background()
	now := time.Now()

	live, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	stale, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	require.NoError(t, repo.ReplaceForUser(ctx, newSession(live.ID, "live", now.Add(time.Hour))))
	require.NoError(t, repo.ReplaceForUser(ctx, newSession(stale.ID, "stale", now.Add(-time.Minute))))

	purged, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = repo.GetByTokenHash(ctx, "live")
	assert.NoError(t, err)
	_, err = repo.GetByTokenHash(ctx, "stale")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSessionRepository_CascadeOnUserDelete(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSessionRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	require.NoError(t, repo.ReplaceForUser(ctx, newSession(user.ID, "gone", time.Now().Add(time.Hour))))

	require.NoError(t, testDB.DB.Delete(&domain.User{}, "id = ?", user.ID).Error)

	_, err := repo.GetByTokenHash(ctx, "gone")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
