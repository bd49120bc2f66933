package web

import (
	"net/http"
	"strconv"

	"github.com/dom/blog-website/internal/client"
	"github.com/go-chi/chi/v5"
)

const pageSize = 10

func (s *Server) begin(w http.ResponseWriter, r *http.Request) (*client.Client, *client.User, bool) {
	c, user := s.session(w, r)
	if c == nil {
		s.renderError(w, r, http.StatusInternalServerError, "Service unavailable")
		return nil, nil, false
	}
	return c, user, true
}

// requireUser is begin for pages that need a signed-in user.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (*client.Client, *client.User, bool) {
	c, user, ok := s.begin(w, r)
	if !ok {
		return nil, nil, false
	}
	if user == nil {
		s.redirect(w, r, "/login", "Please log in to continue")
		return nil, nil, false
	}
	return c, user, true
}

// apiFailure renders the error page matching an API failure on a read.
func (s *Server) apiFailure(w http.ResponseWriter, r *http.Request, user *client.User, err error) {
	status := client.StatusOf(err)
	if status == 0 {
		s.log.WithError(err).Error("[web.apiFailure] api unreachable")
		status = http.StatusBadGateway
	}
	s.render(w, r, status, "error", pageData{Title: apiMessage(err), User: user})
}

func queryPage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	c, user, ok := s.begin(w, r)
	if !ok {
		return
	}

	list, err := c.ListPosts(r.Context(), queryPage(r), pageSize)
	if err != nil {
		s.apiFailure(w, r, user, err)
		return
	}
	s.render(w, r, http.StatusOK, "index", pageData{Title: "Latest posts", User: user, Data: list})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	c, user, ok := s.begin(w, r)
	if !ok {
		return
	}

	q := r.URL.Query().Get("q")
	data := pageData{Title: "Search", User: user, Query: q}
	if q == "" {
		s.render(w, r, http.StatusOK, "search", data)
		return
	}

	result, err := c.SearchPosts(r.Context(), q, queryPage(r), pageSize)
	if err != nil {
		data.Error = apiMessage(err)
		s.render(w, r, http.StatusOK, "search", data)
		return
	}
	data.Data = result
	s.render(w, r, http.StatusOK, "search", data)
}

type postPage struct {
	Post  *client.Post
	Owned bool
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	c, user, ok := s.begin(w, r)
	if !ok {
		return
	}

	post, err := c.GetPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.apiFailure(w, r, user, err)
		return
	}
	s.render(w, r, http.StatusOK, "post", pageData{
		Title: post.Title,
		User:  user,
		Data:  postPage{Post: post, Owned: user != nil && user.ID == post.User.ID},
	})
}

type userPostsPage struct {
	AuthorName string
	List       *client.PostList
}

func (s *Server) handleUserPosts(w http.ResponseWriter, r *http.Request) {
	c, user, ok := s.begin(w, r)
	if !ok {
		return
	}

	list, err := c.GetPostsByUser(r.Context(), chi.URLParam(r, "userID"), queryPage(r), pageSize)
	if err != nil {
		s.apiFailure(w, r, user, err)
		return
	}

	name := "this author"
	if len(list.Posts) > 0 {
		name = list.Posts[0].User.Name
	}
	s.render(w, r, http.StatusOK, "user_posts", pageData{
		Title: "Posts by " + name,
		User:  user,
		Data:  userPostsPage{AuthorName: name, List: list},
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	c, user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	list, err := c.GetMyPosts(r.Context(), queryPage(r), pageSize)
	if err != nil {
		s.apiFailure(w, r, user, err)
		return
	}
	s.render(w, r, http.StatusOK, "profile", pageData{Title: user.Name, User: user, Data: list})
}
