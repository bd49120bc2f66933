package service

import (
	"github.com/dom/blog-website/internal/auth"
	"github.com/dom/blog-website/internal/config"
	"github.com/dom/blog-website/internal/repository"
	"github.com/sirupsen/logrus"
)

type Services struct {
	Auth    *AuthService
	Post    *PostService
	Janitor *SessionJanitor
	Tokens  *auth.TokenIssuer
}

func NewServices(repos *repository.Repositories, cfg *config.Config, mailer Mailer, publisher PostPublisher, log *logrus.Logger) *Services {
	tokens := auth.NewTokenIssuer(auth.TokenConfig{
		AccessSecret:  cfg.AccessTokenSecret,
		RefreshSecret: cfg.RefreshTokenSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	}, log)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	return &Services{
		Auth:    NewAuthService(repos.User, repos.Session, hasher, tokens, mailer, log, cfg.VerificationCodeTTL),
		Post:    NewPostService(repos.Post, publisher, log),
		Janitor: NewSessionJanitor(repos.Session, cfg.SessionPurgeInterval, log),
		Tokens:  tokens,
	}
}
