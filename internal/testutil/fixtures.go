package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/dom/blog-website/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern. Users are verified unless told otherwise.
type UserBuilder struct {
	name       string
	username   string
	email      string
	password   string
	verified   bool
	code       string
	codeExpiry time.Time
	createdAt  time.Time
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		name:      "Test User",
		username:  "user_" + suffix,
		email:     fmt.Sprintf("user_%s@example.com", suffix),
		password:  "testpassword123",
		verified:  true,
		createdAt: time.Now(),
	}
}

func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Unverified stores the user with a pending verification code.
func (b *UserBuilder) Unverified(code string, expiry time.Time) *UserBuilder {
	b.verified = false
	b.code = code
	b.codeExpiry = expiry
	return b
}

func (b *UserBuilder) CreatedAt(at time.Time) *UserBuilder {
	b.createdAt = at
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         b.name,
		Username:     b.username,
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		IsVerified:   b.verified,
		CreatedAt:    b.createdAt,
		UpdatedAt:    b.createdAt,
	}
	if !b.verified {
		code, expiry := b.code, b.codeExpiry
		user.VerificationCode = &code
		user.VerificationCodeExpiry = &expiry
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// PostBuilder creates test posts with a builder pattern
type PostBuilder struct {
	author      *domain.User
	title       string
	description string
	content     string
	createdAt   time.Time
}

func NewPostBuilder() *PostBuilder {
	return &PostBuilder{
		title:       "A test post",
		description: "Short description",
		content:     "Body of the test post.",
		createdAt:   time.Now(),
	}
}

func (b *PostBuilder) WithAuthor(user *domain.User) *PostBuilder {
	b.author = user
	return b
}

func (b *PostBuilder) WithTitle(title string) *PostBuilder {
	b.title = title
	return b
}

func (b *PostBuilder) WithDescription(description string) *PostBuilder {
	b.description = description
	return b
}

func (b *PostBuilder) WithContent(content string) *PostBuilder {
	b.content = content
	return b
}

func (b *PostBuilder) CreatedAt(at time.Time) *PostBuilder {
	b.createdAt = at
	return b
}

// Build creates the post in the database, creating an author first when none was given.
func (b *PostBuilder) Build(t *testing.T, db *gorm.DB) *domain.Post {
	t.Helper()

	if b.author == nil {
		user, _ := NewUserBuilder().Build(t, db)
		b.author = user
	}

	post := &domain.Post{
		ID:          uuid.New(),
		Title:       b.title,
		Description: b.description,
		Content:     b.content,
		UserID:      b.author.ID,
		CreatedAt:   b.createdAt,
		UpdatedAt:   b.createdAt,
	}

	if err := db.Omit("Author").Create(post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	post.Author = b.author

	return post
}
