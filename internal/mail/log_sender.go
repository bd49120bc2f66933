package mail

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogSender writes messages to the logger instead of delivering them. Development only.
type LogSender struct {
	log *logrus.Logger
}

func NewLogSender(log *logrus.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Name() string {
	return "log"
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.WithFields(logrus.Fields{
		"kind":    msg.Kind,
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("[LogSender.Send] " + msg.Text)
	return nil
}
