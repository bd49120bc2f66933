package web

import (
	"net/http"
	"net/url"

	"github.com/dom/blog-website/internal/client"
)

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	_, user, ok := s.begin(w, r)
	if !ok {
		return
	}
	if user != nil {
		http.Redirect(w, r, "/me", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "register", pageData{Title: "Sign up", Form: registerForm{}})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	form := registerForm{
		Name:            formValue(r, "name"),
		Username:        formValue(r, "username"),
		Email:           formValue(r, "email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}
	data := pageData{Title: "Sign up", Form: form}

	if errs := s.check(form); errs != nil {
		data.FieldErrors = errs
		s.render(w, r, http.StatusUnprocessableEntity, "register", data)
		return
	}

	c, err := s.apiClient(r)
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, "Service unavailable")
		return
	}
	if _, err := c.Register(r.Context(), client.RegisterInput{
		Name:     form.Name,
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	}); err != nil {
		data.Error = apiMessage(err)
		s.render(w, r, statusForForm(err), "register", data)
		return
	}

	s.redirect(w, r, "/verify?email="+url.QueryEscape(form.Email), "Check your email for a 6-digit verification code")
}

func (s *Server) handleVerifyForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "verify", pageData{
		Title: "Verify email",
		Form:  verifyForm{Email: r.URL.Query().Get("email")},
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	form := verifyForm{
		Email: formValue(r, "email"),
		Code:  formValue(r, "verification_code"),
	}
	data := pageData{Title: "Verify email", Form: form}

	if errs := s.check(form); errs != nil {
		data.FieldErrors = errs
		s.render(w, r, http.StatusUnprocessableEntity, "verify", data)
		return
	}

	c, err := s.apiClient(r)
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, "Service unavailable")
		return
	}
	if _, err := c.VerifyEmail(r.Context(), form.Email, form.Code); err != nil {
		data.Error = apiMessage(err)
		s.render(w, r, statusForForm(err), "verify", data)
		return
	}

	s.redirect(w, r, "/login", "Email verified. You can now log in.")
}

func (s *Server) handleResend(w http.ResponseWriter, r *http.Request) {
	form := emailForm{Email: formValue(r, "email")}
	data := pageData{Title: "Verify email", Form: verifyForm{Email: form.Email}}

	if errs := s.check(form); errs != nil {
		data.FieldErrors = errs
		s.render(w, r, http.StatusUnprocessableEntity, "verify", data)
		return
	}

	c, err := s.apiClient(r)
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, "Service unavailable")
		return
	}
	msg, err := c.ResendVerification(r.Context(), form.Email)
	if err != nil {
		data.Error = apiMessage(err)
		s.render(w, r, statusForForm(err), "verify", data)
		return
	}

	s.redirect(w, r, "/verify?email="+url.QueryEscape(form.Email), msg)
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	_, user, ok := s.begin(w, r)
	if !ok {
		return
	}
	if user != nil {
		http.Redirect(w, r, "/me", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "login", pageData{Title: "Log in", Form: loginForm{}})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	form := loginForm{
		Identifier: formValue(r, "identifier"),
		Password:   r.PostFormValue("password"),
	}
	data := pageData{Title: "Log in", Form: loginForm{Identifier: form.Identifier}}

	if errs := s.check(form); errs != nil {
		data.FieldErrors = errs
		s.render(w, r, http.StatusUnprocessableEntity, "login", data)
		return
	}

	c, err := s.apiClient(r)
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, "Service unavailable")
		return
	}
	session, err := c.Login(r.Context(), form.Identifier, form.Password)
	if err != nil {
		if client.StatusOf(err) == http.StatusForbidden {
			s.redirect(w, r, "/verify?email="+url.QueryEscape(emailOrEmpty(form.Identifier)), apiMessage(err))
			return
		}
		data.Error = apiMessage(err)
		s.render(w, r, statusForForm(err), "login", data)
		return
	}

	s.syncCookies(w, r, c)
	s.redirect(w, r, "/me", "Welcome back, "+session.User.Name)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := s.apiClient(r); err == nil {
		if err := c.Logout(r.Context()); err != nil {
			s.log.WithError(err).Warn("[web.handleLogout] api logout failed")
		}
	}
	s.clearAuthCookies(w)
	s.redirect(w, r, "/", "You have been logged out")
}

func (s *Server) handleLogoutAll(w http.ResponseWriter, r *http.Request) {
	c, _, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if err := c.LogoutAll(r.Context()); err != nil {
		s.log.WithError(err).Warn("[web.handleLogoutAll] api logout-all failed")
	}
	s.clearAuthCookies(w)
	s.redirect(w, r, "/", "You have been logged out everywhere")
}

// statusForForm maps an API failure to the status of the re-rendered form.
func statusForForm(err error) int {
	if status := client.StatusOf(err); status >= 400 && status < 500 {
		return status
	}
	return http.StatusBadGateway
}

func emailOrEmpty(identifier string) string {
	if emailPattern.MatchString(identifier) {
		return identifier
	}
	return ""
}
