package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dom/blog-website/internal/service"
	"github.com/dom/blog-website/internal/testutil"
	"github.com/stretchr/testify/require"
)

type apiUser struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	IsVerified bool   `json:"is_verified"`
}

type apiPost struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	User        struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Username string `json:"username"`
	} `json:"user"`
}

type apiPagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalPosts  int64 `json:"totalPosts"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

type apiPostList struct {
	Posts      []apiPost     `json:"posts"`
	Pagination apiPagination `json:"pagination"`
}

// doRequest sends body as JSON. A nil body sends no payload.
func doRequest(t *testing.T, method, url string, body interface{}, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func withBearer(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// loginUser creates a verified user and logs in through the service layer.
func loginUser(t *testing.T, ts *testutil.TestServer, builder *testutil.UserBuilder) (*service.AuthResult, string) {
	t.Helper()

	user, password := builder.Build(t, ts.DB.DB)
	result, err := ts.Services.Auth.Login(context.Background(), service.LoginInput{
		Identifier: user.Username,
		Password:   password,
	})
	require.NoError(t, err)
	return result, password
}
