package service

import (
	"context"
	"time"

	"github.com/dom/blog-website/internal/repository"
	"github.com/sirupsen/logrus"
)

const DefaultPurgeInterval = time.Hour

// SessionJanitor periodically removes expired sessions.
type SessionJanitor struct {
	sessionRepo repository.SessionRepository
	interval    time.Duration
	log         *logrus.Logger
	now         func() time.Time
}

// NewSessionJanitor falls back to DefaultPurgeInterval for a non-positive interval.
func NewSessionJanitor(sessionRepo repository.SessionRepository, interval time.Duration, log *logrus.Logger) *SessionJanitor {
	if interval <= 0 {
		interval = DefaultPurgeInterval
	}
	return &SessionJanitor{
		sessionRepo: sessionRepo,
		interval:    interval,
		log:         log,
		now:         time.Now,
	}
}

// Run purges once immediately and then on every tick until ctx is done.
func (j *SessionJanitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		if _, err := j.PurgeOnce(ctx); err != nil && ctx.Err() == nil {
			j.log.WithError(err).Error("[SessionJanitor.Run] purge failed")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (j *SessionJanitor) Interval() time.Duration {
	return j.interval
}

func (j *SessionJanitor) PurgeOnce(ctx context.Context) (int64, error) {
	removed, err := j.sessionRepo.DeleteExpired(ctx, j.now())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		j.log.WithField("removed", removed).Info("[SessionJanitor.PurgeOnce] expired sessions removed")
	}
	return removed, nil
}
