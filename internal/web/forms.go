package web

import (
	"errors"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/dom/blog-website/internal/client"
	"github.com/go-playground/validator/v10"
)

var (
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernamePattern   = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,}$`)
	verifyCodePattern = regexp.MustCompile(`^\d{6}$`)
)

type registerForm struct {
	Name            string `form:"name" validate:"required,min=3,max=50"`
	Username        string `form:"username" validate:"required"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

type verifyForm struct {
	Email string `form:"email" validate:"required,email"`
	Code  string `form:"verification_code" validate:"required,verifycode"`
}

type emailForm struct {
	Email string `form:"email" validate:"required,email"`
}

type loginForm struct {
	Identifier string `form:"identifier" validate:"required,identifier"`
	Password   string `form:"password" validate:"required,min=6"`
}

type postForm struct {
	ID          string `form:"-"`
	Title       string `form:"title" validate:"required,min=3,max=200"`
	Description string `form:"description" validate:"required,min=10,max=500"`
	Content     string `form:"content" validate:"required,min=50,max=10000"`
}

// editPostForm accepts partial input: blank fields are left unchanged.
type editPostForm struct {
	ID          string `form:"-"`
	Title       string `form:"title" validate:"omitempty,min=3,max=200"`
	Description string `form:"description" validate:"omitempty,min=10,max=500"`
	Content     string `form:"content" validate:"omitempty,min=50,max=10000"`
}

func (f editPostForm) update() client.PostUpdate {
	var u client.PostUpdate
	if f.Title != "" {
		u.Title = &f.Title
	}
	if f.Description != "" {
		u.Description = &f.Description
	}
	if f.Content != "" {
		u.Content = &f.Content
	}
	return u
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	_ = v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return emailPattern.MatchString(s) || usernamePattern.MatchString(s)
	})
	_ = v.RegisterValidation("verifycode", func(fl validator.FieldLevel) bool {
		return verifyCodePattern.MatchString(fl.Field().String())
	})
	return v
}

var fieldMessages = map[string]string{
	"name.required":                "Name is required",
	"name.min":                     "Name must be at least 3 characters long",
	"name.max":                     "Name must not exceed 50 characters",
	"username.required":            "Username is required",
	"email.required":               "Email is required",
	"email.email":                  "Invalid email address",
	"password.required":            "Password is required",
	"password.min":                 "Password must be at least 6 characters long",
	"password.max":                 "Password must not exceed 72 characters",
	"confirm_password.required":    "Confirm Password is required",
	"confirm_password.eqfield":     "Passwords do not match",
	"verification_code.required":   "Verification code is required",
	"verification_code.verifycode": "Verification code must be exactly 6 digits",
	"identifier.required":          "Email or username is required",
	"identifier.identifier":        "Enter a valid email or username (min 3 characters)",
	"title.required":               "Title is required",
	"title.min":                    "Title must be at least 3 characters long",
	"title.max":                    "Title must not exceed 200 characters",
	"description.required":         "Description is required",
	"description.min":              "Description must be at least 10 characters long",
	"description.max":              "Description must not exceed 500 characters",
	"content.required":             "Content is required",
	"content.min":                  "Content must be at least 50 characters long",
	"content.max":                  "Content must not exceed 10,000 characters",
}

// check validates form and returns per-field messages, or nil when the form is valid.
func (s *Server) check(form any) map[string]string {
	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		msg, ok := fieldMessages[field+"."+fe.Tag()]
		if !ok {
			msg = "Invalid value"
		}
		out[field] = msg
	}
	return out
}

// formValue returns the trimmed value of a posted field.
func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}
