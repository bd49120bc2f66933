package web

import (
	"net/http"
	"net/url"

	"github.com/dom/blog-website/internal/client"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleNewPostForm(w http.ResponseWriter, r *http.Request) {
	_, user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "post_form", pageData{Title: "New post", User: user, Form: postForm{}})
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	c, user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	form := postForm{
		Title:       formValue(r, "title"),
		Description: formValue(r, "description"),
		Content:     formValue(r, "content"),
	}
	data := pageData{Title: "New post", User: user, Form: form}

	if errs := s.check(form); errs != nil {
		data.FieldErrors = errs
		s.render(w, r, http.StatusUnprocessableEntity, "post_form", data)
		return
	}

	post, err := c.CreatePost(r.Context(), client.PostInput{
		Title:       form.Title,
		Description: form.Description,
		Content:     form.Content,
	})
	if err != nil {
		data.Error = apiMessage(err)
		s.render(w, r, statusForForm(err), "post_form", data)
		return
	}

	s.redirect(w, r, "/posts/"+url.PathEscape(post.ID), "Post published")
}

func (s *Server) handleEditPostForm(w http.ResponseWriter, r *http.Request) {
	c, user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	post, err := c.GetPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.apiFailure(w, r, user, err)
		return
	}
	if post.User.ID != user.ID {
		s.render(w, r, http.StatusForbidden, "error", pageData{Title: "You can only update your own posts", User: user})
		return
	}

	s.render(w, r, http.StatusOK, "post_form", pageData{
		Title: "Edit post",
		User:  user,
		Form: editPostForm{
			ID:          post.ID,
			Title:       post.Title,
			Description: post.Description,
			Content:     post.Content,
		},
	})
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	c, user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	form := editPostForm{
		ID:          chi.URLParam(r, "id"),
		Title:       formValue(r, "title"),
		Description: formValue(r, "description"),
		Content:     formValue(r, "content"),
	}
	data := pageData{Title: "Edit post", User: user, Form: form}

	errs := s.check(form)
	if errs == nil && form.Title == "" && form.Description == "" && form.Content == "" {
		errs = map[string]string{"title": "At least one field (title, description, or content) must be provided"}
	}
	if errs != nil {
		data.FieldErrors = errs
		s.render(w, r, http.StatusUnprocessableEntity, "post_form", data)
		return
	}

	post, err := c.UpdatePost(r.Context(), form.ID, form.update())
	if err != nil {
		data.Error = apiMessage(err)
		s.render(w, r, statusForForm(err), "post_form", data)
		return
	}

	s.redirect(w, r, "/posts/"+url.PathEscape(post.ID), "Post updated")
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	c, _, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := c.DeletePost(r.Context(), id); err != nil {
		s.redirect(w, r, "/posts/"+url.PathEscape(id), apiMessage(err))
		return
	}
	s.redirect(w, r, "/me", "Post deleted")
}
