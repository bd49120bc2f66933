// Package mail renders and sends transactional e-mail.
package mail

import (
	"context"
)

type Kind string

const (
	KindVerification Kind = "verification"
	KindWelcome      Kind = "welcome"
)

type Message struct {
	Kind    Kind
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a rendered message to a mail provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}
