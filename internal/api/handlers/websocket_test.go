package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dom/blog-website/internal/testutil"
	"github.com/dom/blog-website/internal/websocket"
	gorillaWS "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketHandler_PostFeed(t *testing.T) {
	ts := testutil.NewTestServer(t)
	session, _ := loginUser(t, ts, testutil.NewUserBuilder().WithUsername("ada"))

	conn, _, err := gorillaWS.DefaultDialer.Dial(ts.PostsWebSocketURL(), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return ts.Hub.ClientCount() == 1
	}, 5*time.Second, 10*time.Millisecond)

	resp := withBearer(t, http.MethodPost, ts.APIURL("/posts"), session.AccessToken, map[string]string{
		"title":       "Live",
		"description": "Streamed",
		"content":     "Body",
	})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg websocket.Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, websocket.MessageTypePostCreated, msg.Type)

	var post apiPost
	require.NoError(t, json.Unmarshal(msg.Payload, &post))
	assert.Equal(t, "Live", post.Title)
	assert.Equal(t, "ada", post.User.Username)
}

func TestWebSocketHandler_RejectsForeignOrigin(t *testing.T) {
	ts := testutil.NewTestServer(t)

	header := http.Header{"Origin": []string{"http://evil.example.com"}}
	_, resp, err := gorillaWS.DefaultDialer.Dial(ts.PostsWebSocketURL(), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
