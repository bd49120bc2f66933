package auth

import (
	"testing"
	"time"

	"github.com/dom/blog-website/internal/domain"
	"github.com/dom/blog-website/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer(TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     10 * time.Minute,
		RefreshTTL:    30 * 24 * time.Hour,
	}, logging.Discard())
}

func testUser() *domain.User {
	return &domain.User{ID: uuid.New(), Name: "Ada Lovelace", Username: "ada"}
}

func TestTokenIssuer_AccessRoundTrip(t *testing.T) {
	issuer := newTestIssuer()
	user := testUser()

	token, err := issuer.IssueAccessToken(user)
	require.NoError(t, err)

	claims := issuer.VerifyAccessToken(token)
	require.NotNil(t, claims)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "Ada Lovelace", claims.Name)
	assert.Equal(t, "ada", claims.Username)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	assert.WithinDuration(t, time.Now().Add(10*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenIssuer_SecretsAreNotInterchangeable(t *testing.T) {
	issuer := newTestIssuer()
	user := testUser()

	access, err := issuer.IssueAccessToken(user)
	require.NoError(t, err)
	refresh, err := issuer.IssueRefreshToken(user)
	require.NoError(t, err)

	assert.Nil(t, issuer.VerifyRefreshToken(access))
	assert.Nil(t, issuer.VerifyAccessToken(refresh))
	assert.NotNil(t, issuer.VerifyRefreshToken(refresh))
}

func TestTokenIssuer_TokensAreUnique(t *testing.T) {
	issuer := newTestIssuer()
	user := testUser()

	a, err := issuer.IssueRefreshToken(user)
	require.NoError(t, err)
	b, err := issuer.IssueRefreshToken(user)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, HashToken(a), HashToken(b))
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := newTestIssuer()
	user := testUser()

	expiredIssuer := newTestIssuer()
	expiredIssuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := expiredIssuer.IssueAccessToken(user)
	require.NoError(t, err)

	valid, err := issuer.IssueAccessToken(user)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.jwt"},
		{name: "expired", token: expired},
		{name: "tampered", token: valid + "x"},
		{name: "none algorithm", token: unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, issuer.VerifyAccessToken(tt.token))
		})
	}
}

func TestHashToken(t *testing.T) {
	h := HashToken("abc")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashToken("abc"))
	assert.NotEqual(t, h, HashToken("abd"))
}
