package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/dom/blog-website/internal/auth"
	"github.com/dom/blog-website/internal/domain"
	"github.com/dom/blog-website/internal/mail"
	"github.com/dom/blog-website/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Mailer sends a rendered message in the given mode.
type Mailer interface {
	Dispatch(ctx context.Context, msg mail.Message, mode mail.Mode) error
}

type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	hasher      *auth.PasswordHasher
	tokens      *auth.TokenIssuer
	mailer      Mailer
	log         *logrus.Logger
	codeTTL     time.Duration
	now         func() time.Time
	newCode     func() (string, error)
}

func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	hasher *auth.PasswordHasher,
	tokens *auth.TokenIssuer,
	mailer Mailer,
	log *logrus.Logger,
	codeTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		hasher:      hasher,
		tokens:      tokens,
		mailer:      mailer,
		log:         log,
		codeTTL:     codeTTL,
		now:         time.Now,
		newCode:     generateVerificationCode,
	}
}

type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

type RegisterResult struct {
	User *domain.User
	// Created is false when a pending registration for the same e-mail was overwritten.
	Created bool
}

type VerifyEmailInput struct {
	Email string
	Code  string
}

type LoginInput struct {
	Identifier string
	Password   string
}

type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Username = strings.TrimSpace(input.Username)
	input.Email = normalizeEmail(input.Email)
	if input.Name == "" || input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, domain.BadRequest("All fields are required")
	}
	if len(input.Password) > auth.MaxPasswordBytes {
		return nil, domain.BadRequest("Password must not exceed 72 bytes")
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Internal("Failed to look up user", err)
	}
	if existing != nil && existing.IsVerified {
		return nil, domain.Conflict("User already exists with this email")
	}

	holder, err := s.userRepo.GetVerifiedByUsername(ctx, input.Username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Internal("Failed to look up user", err)
	}
	if holder != nil {
		return nil, domain.Conflict("This username is already taken")
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, domain.Internal("Failed to hash password", err)
	}
	code, err := s.newCode()
	if err != nil {
		return nil, domain.Internal("Failed to generate verification code", err)
	}
	expiry := s.now().Add(s.codeTTL)

	result := &RegisterResult{}
	if existing != nil {
		existing.Name = input.Name
		existing.Username = input.Username
		existing.PasswordHash = passwordHash
		existing.VerificationCode = &code
		existing.VerificationCodeExpiry = &expiry
		existing.UpdatedAt = s.now()
		if err := s.userRepo.Update(ctx, existing); err != nil {
			return nil, domain.Internal("Failed to update user", err)
		}
		result.User = existing
	} else {
		user := &domain.User{
			ID:                     uuid.New(),
			Name:                   input.Name,
			Username:               input.Username,
			Email:                  input.Email,
			PasswordHash:           passwordHash,
			VerificationCode:       &code,
			VerificationCodeExpiry: &expiry,
			CreatedAt:              s.now(),
			UpdatedAt:              s.now(),
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, domain.Conflict("User already exists with this email")
			}
			return nil, domain.Internal("Failed to create user", err)
		}
		result.User = user
		result.Created = true
	}

	s.sendVerification(ctx, result.User, code, mail.BestEffort)
	return result, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, input VerifyEmailInput) (*domain.User, error) {
	email := normalizeEmail(input.Email)
	code := strings.TrimSpace(input.Code)
	if email == "" || code == "" {
		return nil, domain.BadRequest("Email and verification code are required")
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if user.IsVerified {
		return nil, domain.BadRequest("User is already verified")
	}
	if !user.HasPendingCode() {
		return nil, domain.BadRequest("No verification code found. Please register again.")
	}
	if subtle.ConstantTimeCompare([]byte(*user.VerificationCode), []byte(code)) != 1 {
		return nil, domain.BadRequest("Invalid verification code")
	}
	if s.now().After(*user.VerificationCodeExpiry) {
		return nil, domain.BadRequest("Verification code has expired. Please register again.")
	}

	user.MarkVerified()
	user.UpdatedAt = s.now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.Conflict("This username is already taken")
		}
		return nil, domain.Internal("Failed to verify user", err)
	}

	msg, err := mail.WelcomeMessage(user.Email, user.Name)
	if err != nil {
		s.log.WithError(err).Error("[AuthService.VerifyEmail] failed to render welcome mail")
		return user, nil
	}
	_ = s.mailer.Dispatch(ctx, msg, mail.BestEffort)

	return user, nil
}

func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return domain.BadRequest("Email is required")
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return domain.BadRequest("User is already verified")
	}

	code, err := s.newCode()
	if err != nil {
		return domain.Internal("Failed to generate new verification code", err)
	}
	expiry := s.now().Add(s.codeTTL)
	user.VerificationCode = &code
	user.VerificationCodeExpiry = &expiry
	user.UpdatedAt = s.now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return domain.Internal("Failed to generate new verification code", err)
	}

	if err := s.sendVerification(ctx, user, code, mail.Required); err != nil {
		return domain.Internal("Failed to send verification email", err)
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" || input.Password == "" {
		return nil, domain.BadRequest("Identifier and password are required")
	}

	var (
		user *domain.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(ctx, normalizeEmail(identifier))
	} else {
		user, err = s.userRepo.GetByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("User not found")
		}
		return nil, domain.Internal("Failed to look up user", err)
	}

	if !user.IsVerified {
		return nil, domain.Forbidden("User is not verified")
	}

	ok, err := s.hasher.Verify(input.Password, user.PasswordHash)
	if err != nil {
		return nil, domain.Internal("Failed to verify password", err)
	}
	if !ok {
		return nil, domain.Unauthorized("Invalid password")
	}

	return s.generateTokens(ctx, user)
}

// Refresh issues a new access token. The refresh token must verify and still
// belong to a live session; the session itself is left untouched.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, domain.Unauthorized("Refresh token not provided")
	}

	if claims := s.tokens.VerifyRefreshToken(refreshToken); claims == nil {
		return nil, domain.Unauthorized("Invalid refresh token")
	}

	session, err := s.sessionRepo.GetByTokenHash(ctx, auth.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.Unauthorized("Invalid refresh token")
		}
		return nil, domain.Internal("Failed to look up session", err)
	}
	if session.Expired(s.now()) {
		return nil, domain.Unauthorized("Invalid refresh token")
	}

	user, err := s.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, domain.Internal("Failed to issue access token", err)
	}

	return &AuthResult{User: user, AccessToken: accessToken}, nil
}

// Logout removes the session behind refreshToken. Unknown or empty tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.sessionRepo.DeleteByTokenHash(ctx, auth.HashToken(refreshToken)); err != nil {
		return domain.Internal("Failed to delete session", err)
	}
	return nil
}

// RevokeSessions deletes every session of the user.
func (s *AuthService) RevokeSessions(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		return domain.Internal("Failed to delete session", err)
	}
	return nil
}

// ValidateAccessToken returns the user id carried by a valid access token.
func (s *AuthService) ValidateAccessToken(token string) (uuid.UUID, bool) {
	claims := s.tokens.VerifyAccessToken(token)
	if claims == nil {
		return uuid.Nil, false
	}
	id, err := claims.UserID()
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("User not found")
		}
		return nil, domain.Internal("Failed to look up user", err)
	}
	return user, nil
}

func (s *AuthService) generateTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, domain.Internal("Failed to issue access token", err)
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user)
	if err != nil {
		return nil, domain.Internal("Failed to issue refresh token", err)
	}

	session := &domain.UserSession{
		ID:               uuid.New(),
		UserID:           user.ID,
		RefreshTokenHash: auth.HashToken(refreshToken),
		ExpiresAt:        s.now().Add(s.tokens.RefreshTTL()),
		CreatedAt:        s.now(),
	}
	if err := s.sessionRepo.ReplaceForUser(ctx, session); err != nil {
		return nil, domain.Internal("Failed to create session", err)
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("User not found")
		}
		return nil, domain.Internal("Failed to look up user", err)
	}
	return user, nil
}

func (s *AuthService) sendVerification(ctx context.Context, user *domain.User, code string, mode mail.Mode) error {
	msg, err := mail.VerificationMessage(user.Email, user.Name, code, s.codeTTL)
	if err != nil {
		if mode == mail.BestEffort {
			s.log.WithError(err).Error("[AuthService.sendVerification] failed to render mail")
			return nil
		}
		return err
	}
	return s.mailer.Dispatch(ctx, msg, mode)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateVerificationCode returns a uniformly random six digit code.
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
