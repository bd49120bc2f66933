package handlers

import (
	"net/http"

	"github.com/dom/blog-website/internal/api/middleware"
	"github.com/dom/blog-website/internal/api/respond"
	"github.com/dom/blog-website/internal/domain"
	"github.com/dom/blog-website/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type PostHandler struct {
	postService *service.PostService
	log         *logrus.Logger
}

func NewPostHandler(postService *service.PostService, log *logrus.Logger) *PostHandler {
	return &PostHandler{postService: postService, log: log}
}

type CreatePostRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

type UpdatePostRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
}

type PostListResponse struct {
	Posts      []domain.PostView `json:"posts"`
	Pagination domain.Pagination `json:"pagination"`
}

type SearchPagination struct {
	CurrentPage  int `json:"currentPage"`
	Limit        int `json:"limit"`
	ResultsCount int `json:"resultsCount"`
}

type SearchResponse struct {
	Posts       []domain.PostView `json:"posts"`
	SearchQuery string            `json:"searchQuery"`
	Pagination  SearchPagination  `json:"pagination"`
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Status(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	var req CreatePostRequest
	if !decode(w, r, &req) {
		return
	}

	post, err := h.postService.Create(r.Context(), userID, service.CreatePostInput{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
	})
	if err != nil {
		respond.Error(w, r, h.log, err)
		return
	}

	respond.JSON(w, http.StatusCreated, post.View())
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.postService.List(r.Context(), pageFromQuery(r))
	if err != nil {
		respond.Error(w, r, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, listResponse(list))
}

func (h *PostHandler) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.postService.Search(r.Context(), r.URL.Query().Get("q"), pageFromQuery(r))
	if err != nil {
		respond.Error(w, r, h.log, err)
		return
	}

	respond.JSON(w, http.StatusOK, SearchResponse{
		Posts:       domain.PostViews(result.Posts),
		SearchQuery: result.Query,
		Pagination: SearchPagination{
			CurrentPage:  result.Page.Number,
			Limit:        result.Page.Limit,
			ResultsCount: len(result.Posts),
		},
	})
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	post, err := h.postService.Get(r.Context(), postID)
	if err != nil {
		respond.Error(w, r, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, post.View())
}

func (h *PostHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		respond.Status(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	list, err := h.postService.ListByAuthor(r.Context(), userID, pageFromQuery(r))
	if err != nil {
		respond.Error(w, r, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, listResponse(list))
}

func (h *PostHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Status(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	list, err := h.postService.ListByAuthor(r.Context(), userID, pageFromQuery(r))
	if err != nil {
		respond.Error(w, r, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, listResponse(list))
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Status(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	var req UpdatePostRequest
	if !decode(w, r, &req) {
		return
	}

	post, err := h.postService.Update(r.Context(), userID, postID, service.UpdatePostInput{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
	})
	if err != nil {
		respond.Error(w, r, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, post.View())
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Status(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	if err := h.postService.Delete(r.Context(), userID, postID); err != nil {
		respond.Error(w, r, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, nil)
}

// postID parses the {id} path parameter. A malformed id cannot name a post, so it is a 404.
func (h *PostHandler) postID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Status(w, http.StatusNotFound, "Post not found")
		return uuid.Nil, false
	}
	return id, true
}

func listResponse(list *service.PostList) PostListResponse {
	return PostListResponse{
		Posts:      domain.PostViews(list.Posts),
		Pagination: list.Pagination,
	}
}
