package handlers

import (
	"net/http"
	"time"

	"github.com/dom/blog-website/internal/api/middleware"
	"github.com/dom/blog-website/internal/api/respond"
	"github.com/dom/blog-website/internal/domain"
	"github.com/dom/blog-website/internal/service"
	"github.com/sirupsen/logrus"
)

const RefreshTokenCookie = "refresh_token"

// CookieConfig controls the auth cookies set on login and refresh.
type CookieConfig struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AuthHandler struct {
	authService *service.AuthService
	cookies     CookieConfig
	log         *logrus.Logger
}

func NewAuthHandler(authService *service.AuthService, cookies CookieConfig, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies, log: log}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyEmailRequest struct {
	Email            string `json:"email"`
	VerificationCode string `json:"verification_code"`
}

type ResendVerificationRequest struct {
	Email string `json:"email"`
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type UserMessageResponse struct {
	User    domain.PublicUser `json:"user"`
	Message string            `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type TokenResponse struct {
	AccessToken string            `json:"access_token"`
	User        domain.PublicUser `json:"user"`
}

type UserResponse struct {
	User domain.PublicUser `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.authService.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respond.Error(w, r, h.log, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	respond.JSON(w, status, UserMessageResponse{
		User:    result.User.Public(),
		Message: "User registered successfully. Please check your email for verification code.",
	})
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.authService.VerifyEmail(r.Context(), service.VerifyEmailInput{
		Email: req.Email,
		Code:  req.VerificationCode,
	})
	if err != nil {
		respond.Error(w, r, h.log, err)
		return
	}

	respond.JSON(w, http.StatusOK, UserMessageResponse{
		User:    user.Public(),
		Message: "Email verified successfully! Welcome to our platform.",
	})
}

func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req ResendVerificationRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.authService.ResendVerification(r.Context(), req.Email); err != nil {
		respond.Error(w, r, h.log, err)
		return
	}

	respond.JSON(w, http.StatusOK, MessageResponse{Message: "New verification code sent to your email"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		respond.Error(w, r, h.log, err)
		return
	}

	h.setCookie(w, RefreshTokenCookie, result.RefreshToken, h.cookies.RefreshTTL)
	h.setCookie(w, middleware.AccessTokenCookie, result.AccessToken, h.cookies.AccessTTL)
	respond.JSON(w, http.StatusOK, TokenResponse{
		AccessToken: result.AccessToken,
		User:        result.User.Public(),
	})
}

func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var refreshToken string
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil {
		refreshToken = cookie.Value
	}

	result, err := h.authService.Refresh(r.Context(), refreshToken)
	if err != nil {
		respond.Error(w, r, h.log, err)
		return
	}

	h.setCookie(w, middleware.AccessTokenCookie, result.AccessToken, h.cookies.AccessTTL)
	respond.JSON(w, http.StatusOK, TokenResponse{
		AccessToken: result.AccessToken,
		User:        result.User.Public(),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			h.log.WithError(err).Warn("[AuthHandler.Logout] failed to delete session")
		}
	}

	h.clearCookies(w)
	respond.JSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// LogoutAll revokes every session of the caller.
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Status(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	if err := h.authService.RevokeSessions(r.Context(), userID); err != nil {
		respond.Error(w, r, h.log, err)
		return
	}

	h.clearCookies(w)
	respond.JSON(w, http.StatusOK, MessageResponse{Message: "Logged out from all sessions"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Status(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		respond.Error(w, r, h.log, err)
		return
	}

	respond.JSON(w, http.StatusOK, UserResponse{User: user.Public()})
}

func (h *AuthHandler) setCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearCookies(w http.ResponseWriter) {
	for _, name := range []string{RefreshTokenCookie, middleware.AccessTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
			HttpOnly: true,
			Secure:   h.cookies.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
