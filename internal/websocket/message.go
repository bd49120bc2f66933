package websocket

import (
	"encoding/json"
	"time"

	"github.com/dom/blog-website/internal/domain"
)

type MessageType string

const (
	MessageTypePostCreated MessageType = "post.created"
	MessageTypePostUpdated MessageType = "post.updated"
	MessageTypePostDeleted MessageType = "post.deleted"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// NewPostMessage converts a post event into its wire message.
func NewPostMessage(event domain.PostEvent) (*Message, error) {
	return NewMessage(MessageType(event.Type), event.Post.View())
}
