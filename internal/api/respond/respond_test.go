package respond_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dom/blog-website/internal/api/respond"
	"github.com/dom/blog-website/internal/domain"
	"github.com/dom/blog-website/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantBody string
		wantCode int
	}{
		{
			name:     "client error keeps its status",
			err:      domain.NotFound("Post not found"),
			wantCode: http.StatusNotFound,
			wantBody: `{"apiError":{"statusCode":404,"message":"Post not found"}}`,
		},
		{
			name:     "wrapped client error",
			err:      errors.Join(errors.New("context"), domain.Conflict("This username is already taken")),
			wantCode: http.StatusConflict,
			wantBody: `{"apiError":{"statusCode":409,"message":"This username is already taken"}}`,
		},
		{
			name:     "internal error hides the cause",
			err:      domain.Internal("Failed to create post", errors.New("pq: connection refused")),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"apiError":{"statusCode":500,"message":"Failed to create post"}}`,
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"apiError":{"statusCode":500,"message":"Internal server error"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			respond.Error(rec, req, logging.Discard(), tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.JSON(rec, http.StatusCreated, map[string]string{"message": "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":{"message":"ok"}}`, rec.Body.String())
}
