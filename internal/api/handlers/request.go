package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/dom/blog-website/internal/api/respond"
	"github.com/dom/blog-website/internal/domain"
)

const maxBodyBytes = 1 << 20

// decode reads a JSON body into dst. An empty body decodes as the zero value so the
// service reports which fields are missing.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		respond.Status(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// pageFromQuery reads page and limit, falling back to the defaults for bad values.
func pageFromQuery(r *http.Request) domain.Page {
	q := r.URL.Query()
	return domain.NewPage(atoiOrZero(q.Get("page")), atoiOrZero(q.Get("limit")))
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
