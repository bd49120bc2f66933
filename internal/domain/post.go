package domain

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"not null"`
	Content     string    `json:"content" gorm:"not null"`
	UserID      uuid.UUID `json:"-" gorm:"type:uuid;not null"`
	Author      *User     `json:"-" gorm:"foreignKey:UserID"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsOwnedBy reports whether userID authored the post.
func (p *Post) IsOwnedBy(userID uuid.UUID) bool {
	return p.UserID == userID
}

type PostEventType string

const (
	PostCreated PostEventType = "post.created"
	PostUpdated PostEventType = "post.updated"
	PostDeleted PostEventType = "post.deleted"
)

// PostEvent is published after a post mutation has been persisted.
type PostEvent struct {
	Type PostEventType
	Post *Post
}

// AuthorView is the author summary embedded in every serialized post.
type AuthorView struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
}

type PostView struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	User        AuthorView `json:"user"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (p *Post) View() PostView {
	view := PostView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Content:     p.Content,
		User:        AuthorView{ID: p.UserID},
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Author != nil {
		view.User.Name = p.Author.Name
		view.User.Username = p.Author.Username
	}
	return view
}

func PostViews(posts []*Post) []PostView {
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, p.View())
	}
	return views
}
