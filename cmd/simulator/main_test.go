package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedURL(t *testing.T) {
	tests := []struct {
		name   string
		apiURL string
		want   string
	}{
		{"http", "http://localhost:5174", "ws://localhost:5174/api/v1/ws/posts"},
		{"https", "https://blog.example.com", "wss://blog.example.com/api/v1/ws/posts"},
		{"trailing slash", "http://localhost:5174/", "ws://localhost:5174/api/v1/ws/posts"},
		{"path prefix", "https://example.com/blog", "wss://example.com/blog/api/v1/ws/posts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := feedURL(tt.apiURL)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDescribeEvent(t *testing.T) {
	msg := `{"type":"post.created","timestamp":0,"payload":{"id":"p1","title":"Hello","user":{"username":"alice"}}}`
	line := describeEvent([]byte(msg))
	assert.Contains(t, line, "post.created")
	assert.Contains(t, line, `"Hello" by @alice`)

	assert.Contains(t, describeEvent([]byte("not json")), "unreadable message")
}

func TestFakePost(t *testing.T) {
	for i := 1; i <= len(topics)+1; i++ {
		post := fakePost(i)
		assert.GreaterOrEqual(t, len(post.Title), 3)
		assert.GreaterOrEqual(t, len(post.Description), 10)
		assert.GreaterOrEqual(t, len(post.Content), 50)
	}
}
