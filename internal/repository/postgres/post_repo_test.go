package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/blog-website/internal/domain"
	"github.com/dom/blog-website/internal/repository/postgres"
	"github.com/dom/blog-website/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPostRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewPostRepository(testDB.DB)
	ctx := context.Background()

	author, _ := testutil.NewUserBuilder().WithName("Ada").WithUsername("ada").Build(t, testDB.DB)

	post := &domain.Post{
		ID:          uuid.New(),
		Title:       "Hello",
		Description: "First post",
		Content:     "Body",
		UserID:      author.ID,
		Author:      author,
	}
	require.NoError(t, repo.Create(ctx, post))

	found, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", found.Title)
	require.NotNil(t, found.Author)
	assert.Equal(t, "ada", found.Author.Username)
	assert.Equal(t, "Ada", found.Author.Name)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPostRepository_List(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewPostRepository(testDB.DB)
	ctx := context.Background()

	author, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	base := time.Now().Add(-time.Hour)

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		post := testutil.NewPostBuilder().
			WithAuthor(author).
			CreatedAt(base.Add(time.Duration(i) * time.Minute)).
			Build(t, testDB.DB)
		ids = append(ids, post.ID)
	}
	testutil.NewPostBuilder().WithAuthor(other).CreatedAt(base).Build(t, testDB.DB)

	tests := []struct {
		name    string
		page    domain.Page
		wantIDs []uuid.UUID
	}{
		{
			name:    "first page newest first",
			page:    domain.NewPage(1, 2),
			wantIDs: []uuid.UUID{ids[4], ids[3]},
		},
		{
			name:    "second page",
			page:    domain.NewPage(2, 2),
			wantIDs: []uuid.UUID{ids[2], ids[1]},
		},
		{
			name:    "past the end",
			page:    domain.NewPage(10, 2),
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := repo.ListByUserID(ctx, author.ID, tt.page)
			require.NoError(t, err)

			var got []uuid.UUID
			for _, p := range posts {
				got = append(got, p.ID)
				require.NotNil(t, p.Author)
				assert.Equal(t, author.Username, p.Author.Username)
			}
			assert.Equal(t, tt.wantIDs, got)
		})
	}

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)

	mine, err := repo.CountByUserID(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), mine)

	all, err := repo.List(ctx, domain.NewPage(1, 10))
	require.NoError(t, err)
	assert.Len(t, all, 6)
	assert.Equal(t, ids[4], all[0].ID)
}

func TestPostRepository_Search(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewPostRepository(testDB.DB)
	ctx := context.Background()

	author, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	testutil.NewPostBuilder().WithAuthor(author).WithTitle("Learning Go").Build(t, testDB.DB)
	testutil.NewPostBuilder().WithAuthor(author).WithDescription("all about GOLANG tooling").Build(t, testDB.DB)
	testutil.NewPostBuilder().WithAuthor(author).WithContent("100% coverage is a myth").Build(t, testDB.DB)
	testutil.NewPostBuilder().WithAuthor(author).WithTitle("snake_case names").Build(t, testDB.DB)
	testutil.NewPostBuilder().WithAuthor(author).WithTitle("Cooking").Build(t, testDB.DB)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "case insensitive across fields", query: "go", want: 2},
		{name: "percent is literal", query: "100%", want: 1},
		{name: "underscore is literal", query: "e_c", want: 1},
		{name: "no match", query: "rust", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := repo.Search(ctx, tt.query, domain.NewPage(1, 10))
			require.NoError(t, err)
			assert.Len(t, posts, tt.want)
		})
	}
}

func TestPostRepository_Update(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewPostRepository(testDB.DB)
	ctx := context.Background()

	post := testutil.NewPostBuilder().
		WithTitle("Original").
		WithContent("Original content").
		CreatedAt(time.Now().Add(-time.Hour)).
		Build(t, testDB.DB)

	// Only the title column is written even though content changed in memory.
	post.Title = "Renamed"
	post.Content = "Not persisted"
	require.NoError(t, repo.Update(ctx, post, "title"))

	found, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", found.Title)
	assert.Equal(t, "Original content", found.Content)
	assert.True(t, found.UpdatedAt.After(found.CreatedAt))
}

func TestPostRepository_Delete(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewPostRepository(testDB.DB)
	ctx := context.Background()

	post := testutil.NewPostBuilder().Build(t, testDB.DB)
	require.NoError(t, repo.Delete(ctx, post.ID))

	_, err := repo.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
