package web

import (
	"context"
	"net/http"
	"time"

	"github.com/dom/blog-website/internal/client"
)

var authCookies = []string{client.AccessTokenCookie, client.RefreshTokenCookie}

// apiClient builds a per-request API client seeded with the browser's auth cookies.
func (s *Server) apiClient(r *http.Request) (*client.Client, error) {
	var seed []*http.Cookie
	for _, name := range authCookies {
		if cookie, err := r.Cookie(name); err == nil && cookie.Value != "" {
			seed = append(seed, &http.Cookie{Name: name, Value: cookie.Value})
		}
	}

	opts := []client.Option{client.WithCookies(seed...)}
	if s.opts.HTTPClient != nil {
		hc := *s.opts.HTTPClient
		opts = append(opts, client.WithHTTPClient(&hc))
	}
	return client.New(s.opts.APIBaseURL, opts...)
}

// session resolves the signed-in user. When the access token is missing or expired
// but a refresh cookie exists, it refreshes once before giving up.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*client.Client, *client.User) {
	c, err := s.apiClient(r)
	if err != nil {
		s.log.WithError(err).Error("[web.session] failed to build api client")
		return nil, nil
	}

	_, hasAccess := c.Cookie(client.AccessTokenCookie)
	_, hasRefresh := c.Cookie(client.RefreshTokenCookie)
	if !hasAccess && !hasRefresh {
		return c, nil
	}

	ctx := r.Context()
	if hasAccess {
		user, err := c.Me(ctx)
		if err == nil {
			return c, user
		}
		if client.StatusOf(err) != http.StatusUnauthorized {
			s.log.WithError(err).Warn("[web.session] me failed")
			return c, nil
		}
	}

	if hasRefresh {
		if user := s.refresh(ctx, c); user != nil {
			s.syncCookies(w, r, c)
			return c, user
		}
	}

	s.clearAuthCookies(w)
	return c, nil
}

func (s *Server) refresh(ctx context.Context, c *client.Client) *client.User {
	session, err := c.RefreshToken(ctx)
	if err != nil {
		if client.StatusOf(err) == 0 {
			s.log.WithError(err).Warn("[web.refresh] refresh failed")
		}
		return nil
	}
	return &session.User
}

// syncCookies copies auth cookie changes made by the API into the browser.
func (s *Server) syncCookies(w http.ResponseWriter, r *http.Request, c *client.Client) {
	for _, name := range authCookies {
		current := ""
		if cookie, err := r.Cookie(name); err == nil {
			current = cookie.Value
		}

		value, ok := c.Cookie(name)
		switch {
		case ok && value != current:
			s.setAuthCookie(w, name, value)
		case !ok && current != "":
			s.expireCookie(w, name)
		}
	}
}

func (s *Server) setAuthCookie(w http.ResponseWriter, name, value string) {
	ttl := s.opts.AccessTTL
	if name == client.RefreshTokenCookie {
		ttl = s.opts.RefreshTTL
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range authCookies {
		s.expireCookie(w, name)
	}
}

func (s *Server) expireCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
