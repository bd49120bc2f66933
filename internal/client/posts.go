package client

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) CreatePost(ctx context.Context, input PostInput) (*Post, error) {
	var out Post
	if err := c.do(ctx, http.MethodPost, "/posts", nil, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePost(ctx context.Context, id string, update PostUpdate) (*Post, error) {
	var out Post
	if err := c.do(ctx, http.MethodPut, "/posts/"+url.PathEscape(id), nil, update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/posts/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) GetMyPosts(ctx context.Context, page, limit int) (*PostList, error) {
	var out PostList
	if err := c.do(ctx, http.MethodGet, "/posts/me/my-posts", pageQuery(page, limit), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListPosts(ctx context.Context, page, limit int) (*PostList, error) {
	var out PostList
	if err := c.do(ctx, http.MethodGet, "/posts", pageQuery(page, limit), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchPosts(ctx context.Context, query string, page, limit int) (*SearchResult, error) {
	q := pageQuery(page, limit)
	q.Set("q", query)
	var out SearchResult
	if err := c.do(ctx, http.MethodGet, "/posts/search", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPost(ctx context.Context, id string) (*Post, error) {
	var out Post
	if err := c.do(ctx, http.MethodGet, "/posts/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPostsByUser(ctx context.Context, userID string, page, limit int) (*PostList, error) {
	var out PostList
	if err := c.do(ctx, http.MethodGet, "/posts/user/"+url.PathEscape(userID), pageQuery(page, limit), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
