package postgres

import (
	"context"
	"strings"

	"github.com/dom/blog-website/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *postRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	return r.db.WithContext(ctx).Omit("Author").Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	var post domain.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, page domain.Page) ([]*domain.Post, error) {
	var posts []*domain.Post
	err := r.paged(ctx, page).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Post{}).Count(&total).Error
	return total, err
}

func (r *postRepository) ListByUserID(ctx context.Context, userID uuid.UUID, page domain.Page) ([]*domain.Post, error) {
	var posts []*domain.Post
	err := r.paged(ctx, page).
		Where("user_id = ?", userID).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&domain.Post{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

func (r *postRepository) Search(ctx context.Context, query string, page domain.Page) ([]*domain.Post, error) {
	pattern := "%" + escapeLike(query) + "%"
	var posts []*domain.Post
	err := r.paged(ctx, page).
		Where("title ILIKE ? OR description ILIKE ? OR content ILIKE ?", pattern, pattern, pattern).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *domain.Post, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(post).
		Select(append([]string{"updated_at"}, columns...)).
		Updates(post).Error
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Post{}, "id = ?", id).Error
}

func (r *postRepository) paged(ctx context.Context, page domain.Page) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC").
		Order("id DESC").
		Limit(page.Limit).
		Offset(page.Offset())
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes query match literally inside an ILIKE pattern.
func escapeLike(query string) string {
	return likeEscaper.Replace(query)
}
