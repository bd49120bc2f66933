package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dom/blog-website/internal/domain"
	"github.com/dom/blog-website/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PostPublisher receives an event after each successful post mutation.
type PostPublisher interface {
	PublishPost(event domain.PostEvent)
}

type PostService struct {
	postRepo  repository.PostRepository
	publisher PostPublisher
	log       *logrus.Logger
}

func NewPostService(postRepo repository.PostRepository, publisher PostPublisher, log *logrus.Logger) *PostService {
	return &PostService{postRepo: postRepo, publisher: publisher, log: log}
}

type CreatePostInput struct {
	Title       string
	Description string
	Content     string
}

// UpdatePostInput fields left nil or blank are not changed.
type UpdatePostInput struct {
	Title       *string
	Description *string
	Content     *string
}

type PostList struct {
	Posts      []*domain.Post
	Pagination domain.Pagination
}

type SearchResult struct {
	Posts []*domain.Post
	Query string
	Page  domain.Page
}

func (s *PostService) Create(ctx context.Context, authorID uuid.UUID, input CreatePostInput) (*domain.Post, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	content := strings.TrimSpace(input.Content)
	if title == "" || description == "" || content == "" {
		return nil, domain.BadRequest("Title, description, and content are required")
	}

	now := time.Now()
	post := &domain.Post{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Content:     content,
		UserID:      authorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, domain.Internal("Failed to create post", err)
	}

	created, err := s.Get(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	s.publish(domain.PostCreated, created)
	return created, nil
}

func (s *PostService) Get(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("Post not found")
		}
		return nil, domain.Internal("Failed to fetch post", err)
	}
	return post, nil
}

func (s *PostService) List(ctx context.Context, page domain.Page) (*PostList, error) {
	posts, err := s.postRepo.List(ctx, page)
	if err != nil {
		return nil, domain.Internal("Failed to fetch posts", err)
	}
	total, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, domain.Internal("Failed to count posts", err)
	}
	return &PostList{Posts: posts, Pagination: domain.NewPagination(page, total)}, nil
}

func (s *PostService) ListByAuthor(ctx context.Context, authorID uuid.UUID, page domain.Page) (*PostList, error) {
	posts, err := s.postRepo.ListByUserID(ctx, authorID, page)
	if err != nil {
		return nil, domain.Internal("Failed to fetch posts", err)
	}
	total, err := s.postRepo.CountByUserID(ctx, authorID)
	if err != nil {
		return nil, domain.Internal("Failed to count posts", err)
	}
	return &PostList{Posts: posts, Pagination: domain.NewPagination(page, total)}, nil
}

func (s *PostService) Search(ctx context.Context, query string, page domain.Page) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.BadRequest("Search query is required")
	}
	posts, err := s.postRepo.Search(ctx, query, page)
	if err != nil {
		return nil, domain.Internal("Failed to search posts", err)
	}
	return &SearchResult{Posts: posts, Query: query, Page: page}, nil
}

func (s *PostService) Update(ctx context.Context, callerID, postID uuid.UUID, input UpdatePostInput) (*domain.Post, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.IsOwnedBy(callerID) {
		return nil, domain.Forbidden("You can only update your own posts")
	}

	var columns []string
	if v, ok := supplied(input.Title); ok {
		post.Title = v
		columns = append(columns, "title")
	}
	if v, ok := supplied(input.Description); ok {
		post.Description = v
		columns = append(columns, "description")
	}
	if v, ok := supplied(input.Content); ok {
		post.Content = v
		columns = append(columns, "content")
	}
	if len(columns) == 0 {
		return nil, domain.BadRequest("At least one field (title, description, content) is required for update")
	}

	post.UpdatedAt = time.Now()
	if err := s.postRepo.Update(ctx, post, columns...); err != nil {
		return nil, domain.Internal("Failed to update post", err)
	}

	s.publish(domain.PostUpdated, post)
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, callerID, postID uuid.UUID) error {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if !post.IsOwnedBy(callerID) {
		return domain.Forbidden("You can only delete your own posts")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return domain.Internal("Failed to delete post", err)
	}

	s.publish(domain.PostDeleted, post)
	return nil
}

func (s *PostService) publish(eventType domain.PostEventType, post *domain.Post) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishPost(domain.PostEvent{Type: eventType, Post: post})
	s.log.WithFields(logrus.Fields{"type": eventType, "post_id": post.ID}).Debug("[PostService.publish] event published")
}

func supplied(v *string) (string, bool) {
	if v == nil {
		return "", false
	}
	trimmed := strings.TrimSpace(*v)
	return trimmed, trimmed != ""
}
