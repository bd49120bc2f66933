package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                     uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name                   string     `json:"name" gorm:"not null"`
	Username               string     `json:"username" gorm:"not null"`
	Email                  string     `json:"email" gorm:"not null"`
	PasswordHash           string     `json:"-" gorm:"not null"`
	IsVerified             bool       `json:"is_verified" gorm:"not null"`
	VerificationCode       *string    `json:"-"`
	VerificationCodeExpiry *time.Time `json:"-"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

// PublicUser is the projection of a user that may leave the server.
type PublicUser struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Name:       u.Name,
		Username:   u.Username,
		Email:      u.Email,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// HasPendingCode reports whether a verification code is on file.
func (u *User) HasPendingCode() bool {
	return u.VerificationCode != nil && *u.VerificationCode != "" && u.VerificationCodeExpiry != nil
}

// MarkVerified moves the user into the verified state and clears the code fields.
func (u *User) MarkVerified() {
	u.IsVerified = true
	u.VerificationCode = nil
	u.VerificationCodeExpiry = nil
}

type UserSession struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID `json:"userId" gorm:"type:uuid;not null"`
	RefreshTokenHash string    `json:"-" gorm:"not null"`
	ExpiresAt        time.Time `json:"expiresAt" gorm:"not null"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (s *UserSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// TableName returns the table name for GORM
func (UserSession) TableName() string {
	return "user_sessions"
}
