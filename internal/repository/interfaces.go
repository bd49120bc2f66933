package repository

import (
	"context"
	"time"

	"github.com/dom/blog-website/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetVerifiedByUsername returns the verified holder of username, if any.
	GetVerifiedByUsername(ctx context.Context, username string) (*domain.User, error)
	// GetByUsername prefers the verified holder, falling back to the newest unverified one.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type SessionRepository interface {
	// ReplaceForUser stores session as the only session of its user.
	ReplaceForUser(ctx context.Context, session *domain.UserSession) error
	GetByTokenHash(ctx context.Context, hash string) (*domain.UserSession, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserSession, error)
	DeleteByTokenHash(ctx context.Context, hash string) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	List(ctx context.Context, page domain.Page) ([]*domain.Post, error)
	Count(ctx context.Context) (int64, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, page domain.Page) ([]*domain.Post, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	Search(ctx context.Context, query string, page domain.Page) ([]*domain.Post, error)
	// Update writes only the named columns of post.
	Update(ctx context.Context, post *domain.Post, columns ...string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type MailDeliveryRepository interface {
	Create(ctx context.Context, delivery *domain.MailDelivery) error
}

type Repositories struct {
	User         UserRepository
	Session      SessionRepository
	Post         PostRepository
	MailDelivery MailDeliveryRepository
}
