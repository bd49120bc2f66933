package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/dom/blog-website/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Claims struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type TokenIssuer struct {
	cfg TokenConfig
	log *logrus.Logger
	now func() time.Time
}

func NewTokenIssuer(cfg TokenConfig, log *logrus.Logger) *TokenIssuer {
	return &TokenIssuer{cfg: cfg, log: log, now: time.Now}
}

func (i *TokenIssuer) RefreshTTL() time.Duration {
	return i.cfg.RefreshTTL
}

func (i *TokenIssuer) AccessTTL() time.Duration {
	return i.cfg.AccessTTL
}

func (i *TokenIssuer) IssueAccessToken(user *domain.User) (string, error) {
	return i.issue(user, i.cfg.AccessSecret, i.cfg.AccessTTL)
}

func (i *TokenIssuer) IssueRefreshToken(user *domain.User) (string, error) {
	return i.issue(user, i.cfg.RefreshSecret, i.cfg.RefreshTTL)
}

// VerifyAccessToken returns nil for any token that is malformed, forged or expired.
func (i *TokenIssuer) VerifyAccessToken(token string) *Claims {
	return i.verify(token, i.cfg.AccessSecret, "access")
}

func (i *TokenIssuer) VerifyRefreshToken(token string) *Claims {
	return i.verify(token, i.cfg.RefreshSecret, "refresh")
}

func (i *TokenIssuer) issue(user *domain.User, secret string, ttl time.Duration) (string, error) {
	now := i.now()
	claims := Claims{
		Name:     user.Name,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (i *TokenIssuer) verify(tokenString, secret, kind string) *Claims {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err == nil && !token.Valid {
		err = errors.New("token not valid")
	}
	if err != nil {
		i.log.WithField("kind", kind).WithError(err).Warn("[TokenIssuer.verify] rejected token")
		return nil
	}
	return claims
}

// HashToken returns the hex SHA-256 digest under which a refresh token is stored.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
