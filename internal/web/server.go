// Package web is the server-rendered frontend. It talks to the API only through
// internal/client and relays the API's auth cookies to the browser.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/dom/blog-website/internal/api/middleware"
	"github.com/dom/blog-website/internal/client"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pages = []string{
	"index", "search", "post", "user_posts", "profile",
	"register", "verify", "login", "post_form", "error",
}

type Options struct {
	APIBaseURL    string
	SecureCookies bool
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	// HTTPClient is used for API calls when set. Its Jar is replaced per request.
	HTTPClient *http.Client
}

type Server struct {
	opts      Options
	templates map[string]*template.Template
	validate  *validator.Validate
	log       *logrus.Logger
}

func New(opts Options, log *logrus.Logger) (*Server, error) {
	if _, err := client.New(opts.APIBaseURL); err != nil {
		return nil, fmt.Errorf("api base url: %w", err)
	}
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = 10 * time.Minute
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = 30 * 24 * time.Hour
	}
	return &Server{
		opts:      opts,
		templates: templates,
		validate:  newValidator(),
		log:       log,
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RequestLogger(s.log))
	r.Use(chiMiddleware.Recoverer)

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", s.handleIndex)
	r.Get("/search", s.handleSearch)
	r.Get("/users/{userID}", s.handleUserPosts)

	r.Get("/register", s.handleRegisterForm)
	r.Post("/register", s.handleRegister)
	r.Get("/verify", s.handleVerifyForm)
	r.Post("/verify", s.handleVerify)
	r.Post("/verify/resend", s.handleResend)
	r.Get("/login", s.handleLoginForm)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)
	r.Post("/logout-all", s.handleLogoutAll)
	r.Get("/me", s.handleProfile)

	r.Get("/posts/new", s.handleNewPostForm)
	r.Post("/posts/new", s.handleCreatePost)
	r.Get("/posts/{id}", s.handlePost)
	r.Get("/posts/{id}/edit", s.handleEditPostForm)
	r.Post("/posts/{id}/edit", s.handleUpdatePost)
	r.Post("/posts/{id}/delete", s.handleDeletePost)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, r, http.StatusNotFound, "Page not found")
	})
	return r
}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format("Jan 2, 2006") },
	"add":  func(a, b int) int { return a + b },
	"sub":  func(a, b int) int { return a - b },
}

func parseTemplates() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New(page).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = t
	}
	return templates, nil
}
