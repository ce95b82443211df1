package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Envelope mirrors the API response wrapper with data left raw
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
	Meta *struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		PageSize   int   `json:"page_size"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

// Request describes one call against a test engine
type Request struct {
	Method  string
	Path    string
	Body    any
	Token   string
	Headers map[string]string
}

// Do performs req against handler and returns the recorder
func Do(t *testing.T, handler http.Handler, req Request) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		require.NoError(t, err, "Failed to marshal request body")
		body = bytes.NewReader(raw)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	r := httptest.NewRequest(method, req.Path, body)
	if req.Body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		r.Header.Set("Authorization", "Bearer "+req.Token)
	}
	for k, v := range req.Headers {
		r.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w
}

// DecodeEnvelope parses the response body as an Envelope
func DecodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "Failed to unmarshal response: %s", w.Body.String())
	return env
}

// DecodeData parses the envelope's data into T
func DecodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	env := DecodeEnvelope(t, w)
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out), "Failed to unmarshal data: %s", string(env.Data))
	return out
}

// AssertError checks the status and error code of a failed response
func AssertError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) Envelope {
	t.Helper()
	assert.Equal(t, status, w.Code, "body: %s", w.Body.String())
	env := DecodeEnvelope(t, w)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, code, env.Error.Code)
	return env
}
