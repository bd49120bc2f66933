package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/blog-website/internal/domain"
	"github.com/dom/blog-website/internal/logging"
	"github.com/dom/blog-website/internal/repository/postgres"
	"github.com/dom/blog-website/internal/service"
	"github.com/dom/blog-website/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionJanitor(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	seed := func(t *testing.T, expiresAt time.Time) uuid.UUID {
		t.Helper()
		user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		require.NoError(t, repos.Session.ReplaceForUser(ctx, &domain.UserSession{
			ID:               uuid.New(),
			UserID:           user.ID,
			RefreshTokenHash: uuid.NewString(),
			ExpiresAt:        expiresAt,
			CreatedAt:        time.Now(),
		}))
		return user.ID
	}

	t.Run("purge once", func(t *testing.T) {
		live := seed(t, time.Now().Add(time.Hour))
		seed(t, time.Now().Add(-time.Hour))

		janitor := service.NewSessionJanitor(repos.Session, time.Hour, logging.Discard())
		removed, err := janitor.PurgeOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		_, err = repos.Session.GetByUserID(ctx, live)
		assert.NoError(t, err)
	})

	t.Run("run purges until cancelled", func(t *testing.T) {
		stale := seed(t, time.Now().Add(-time.Hour))

		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		janitor := service.NewSessionJanitor(repos.Session, 10*time.Millisecond, logging.Discard())
		go func() {
			defer close(done)
			janitor.Run(runCtx)
		}()

		require.Eventually(t, func() bool {
			_, err := repos.Session.GetByUserID(ctx, stale)
			return err != nil
		}, 5*time.Second, 20*time.Millisecond)

		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("janitor did not stop")
		}
	})
}

func TestNewSessionJanitor_Interval(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
		want     time.Duration
	}{
		{name: "configured", interval: time.Minute, want: time.Minute},
		{name: "zero", interval: 0, want: service.DefaultPurgeInterval},
		{name: "negative", interval: -time.Second, want: service.DefaultPurgeInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			janitor := service.NewSessionJanitor(nil, tt.interval, logging.Discard())
			assert.Equal(t, tt.want, janitor.Interval())
		})
	}
}
