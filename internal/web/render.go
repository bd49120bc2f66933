package web

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/dom/blog-website/internal/client"
)

const flashCookie = "flash"

type pageData struct {
	Title       string
	User        *client.User
	Query       string
	Flash       string
	Error       string
	Form        any
	FieldErrors map[string]string
	Data        any
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	if data.Flash == "" {
		data.Flash = s.takeFlash(w, r)
	}
	if data.Query == "" {
		data.Query = r.URL.Query().Get("q")
	}

	var buf bytes.Buffer
	if err := s.templates[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		s.log.WithError(err).WithField("page", page).Error("[web.render] template failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, title string) {
	s.render(w, r, status, "error", pageData{Title: title})
}

// redirect sends the browser to target, carrying an optional one-shot flash message.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, target, flash string) {
	if flash != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     flashCookie,
			Value:    url.QueryEscape(flash),
			Path:     "/",
			MaxAge:   60,
			HttpOnly: true,
			Secure:   s.opts.SecureCookies,
			SameSite: http.SameSiteLaxMode,
		})
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) takeFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})
	msg, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return msg
}

// apiMessage extracts the user-facing text of an API failure.
func apiMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "Something went wrong. Please try again."
}
