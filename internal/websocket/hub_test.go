package websocket_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dom/blog-website/internal/domain"
	"github.com/dom/blog-website/internal/logging"
	"github.com/dom/blog-website/internal/websocket"
	"github.com/google/uuid"
	gorillaWS "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedServer(t *testing.T) (*websocket.Hub, string) {
	t.Helper()

	hub := websocket.NewHub(logging.Discard())
	go hub.Run()

	upgrader := gorillaWS.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := websocket.NewClient(hub, conn)
		hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	}))

	t.Cleanup(func() {
		server.Close()
		hub.Stop()
	})

	return hub, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, url string) *gorillaWS.Conn {
	t.Helper()
	conn, _, err := gorillaWS.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *gorillaWS.Conn) websocket.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg websocket.Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func samplePost() *domain.Post {
	author := &domain.User{ID: uuid.New(), Name: "Ada", Username: "ada"}
	return &domain.Post{
		ID:          uuid.New(),
		Title:       "Hello",
		Description: "Intro",
		Content:     "Body",
		UserID:      author.ID,
		Author:      author,
	}
}

func TestHub_BroadcastsToEveryClient(t *testing.T) {
	hub, url := newFeedServer(t)

	first := dial(t, url)
	second := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, 5*time.Second, 10*time.Millisecond)

	post := samplePost()
	hub.PublishPost(domain.PostEvent{Type: domain.PostUpdated, Post: post})

	for _, conn := range []*gorillaWS.Conn{first, second} {
		msg := readMessage(t, conn)
		assert.Equal(t, websocket.MessageTypePostUpdated, msg.Type)
		assert.NotZero(t, msg.Timestamp)

		var view domain.PostView
		require.NoError(t, json.Unmarshal(msg.Payload, &view))
		assert.Equal(t, post.ID, view.ID)
		assert.Equal(t, "ada", view.User.Username)
	}
}

func TestHub_UnregistersClosedClients(t *testing.T) {
	hub, url := newFeedServer(t)

	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 5*time.Second, 10*time.Millisecond)

	// Publishing with nobody listening must not block.
	hub.PublishPost(domain.PostEvent{Type: domain.PostDeleted, Post: samplePost()})
}

func TestHub_StopClosesClients(t *testing.T) {
	hub, url := newFeedServer(t)

	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 5*time.Second, 10*time.Millisecond)

	hub.Stop()
	assert.Equal(t, 0, hub.ClientCount())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	// Stop is idempotent and publishing afterwards is a no-op.
	hub.Stop()
	hub.PublishPost(domain.PostEvent{Type: domain.PostCreated, Post: samplePost()})
}

func TestNewPostMessage(t *testing.T) {
	post := samplePost()
	msg, err := websocket.NewPostMessage(domain.PostEvent{Type: domain.PostCreated, Post: post})
	require.NoError(t, err)

	assert.Equal(t, websocket.MessageTypePostCreated, msg.Type)
	assert.Contains(t, string(msg.Payload), `"username":"ada"`)
	assert.NotContains(t, string(msg.Payload), "passwordHash")
}
