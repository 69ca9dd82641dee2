package diagnostics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEchoHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/diagnostics/echo", strings.NewReader(`{"a":1}`))
	req.Header.Set("X-Probe", "yes")
	rec := httptest.NewRecorder()
	EchoHandler("k-123")(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Headers map[string][]string `json:"headers"`
		Key     string              `json:"key"`
		Body    map[string]any      `json:"body"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "k-123", got.Key)
	assert.Equal(t, []string{"yes"}, got.Headers["X-Probe"])
	assert.EqualValues(t, 1, got.Body["a"])
}

func TestEchoHandler_Defaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/diagnostics/echo", nil)
	req.Header = http.Header{}
	rec := httptest.NewRecorder()
	EchoHandler("")(rec, req)

	assert.JSONEq(t, `{"headers":"No headers","key":"","body":"No body"}`, rec.Body.String())
}

func TestEchoHandler_TextBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/diagnostics/echo", strings.NewReader("plain"))
	rec := httptest.NewRecorder()
	EchoHandler("k")(rec, req)

	assert.Contains(t, rec.Body.String(), `"body":"plain"`)
}
