package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope mirrors the API response wrapper.
type Envelope struct {
	Data     json.RawMessage `json:"data"`
	APIError *struct {
		StatusCode int    `json:"statusCode"`
		Message    string `json:"message"`
	} `json:"apiError"`
}

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// DecodeData checks for a success envelope and decodes its data field into v.
func DecodeData(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	var env Envelope
	require.NoError(t, json.Unmarshal(body, &env), "failed to unmarshal response: %s", string(body))
	require.Nil(t, env.APIError, "unexpected error envelope: %s", string(body))
	if v != nil {
		require.NoError(t, json.Unmarshal(env.Data, v), "failed to unmarshal data: %s", string(env.Data))
	}
}

// AssertErrorResponse verifies an error envelope with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	var env Envelope
	require.NoError(t, json.Unmarshal(body, &env), "failed to unmarshal response: %s", string(body))
	require.NotNil(t, env.APIError, "expected error envelope: %s", string(body))
	assert.Equal(t, expectedStatus, env.APIError.StatusCode)
	assert.Equal(t, expectedMessage, env.APIError.Message, "error message mismatch")
}

// FindCookie returns the named cookie set by resp, or nil.
func FindCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
