// Package respond writes the API's JSON envelope.
//
// Success bodies are {"data": ...}; failures are {"apiError": {"statusCode": n, "message": "..."}}.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dom/blog-website/internal/domain"
	"github.com/sirupsen/logrus"
)

type APIError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

type successEnvelope struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	APIError APIError `json:"apiError"`
}

func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, successEnvelope{Data: data})
}

func Status(w http.ResponseWriter, status int, message string) {
	write(w, status, errorEnvelope{APIError: APIError{StatusCode: status, Message: message}})
}

// Error renders err. Anything that is not a client-facing *domain.Error, or is an
// internal one, is logged and reported as a generic 500.
func Error(w http.ResponseWriter, r *http.Request, log *logrus.Logger, err error) {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) && domainErr.Kind != domain.KindInternal {
		Status(w, domainErr.StatusCode(), domainErr.Message)
		return
	}

	entry := log.WithError(err).WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	})
	message := "Internal server error"
	if domainErr != nil && domainErr.Message != "" {
		message = domainErr.Message
	}
	entry.Error("[respond.Error] " + message)
	Status(w, http.StatusInternalServerError, message)
}

func write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
