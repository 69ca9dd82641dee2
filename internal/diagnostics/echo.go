// Package diagnostics exposes a request echo used to check what the server
// receives from a client or proxy.
package diagnostics

import (
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/ayush/movie-review-api/internal/httpx"
)

const maxEchoBody = 64 << 10

// Echo is the diagnostic response.
type Echo struct {
	Headers any    `json:"headers"`
	Key     string `json:"key"`
	Body    any    `json:"body"`
}

// EchoHandler reflects the request headers and body together with key.
// A body that is not JSON is returned as a string.
func EchoHandler(key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := Echo{Headers: "No headers", Key: key, Body: "No body"}
		if len(r.Header) > 0 {
			resp.Headers = r.Header
		}

		if r.Body != nil {
			data, err := io.ReadAll(io.LimitReader(r.Body, maxEchoBody))
			if err == nil && len(data) > 0 {
				var parsed any
				if json.Unmarshal(data, &parsed) == nil {
					resp.Body = parsed
				} else {
					resp.Body = string(data)
				}
			}
		}

		httpx.WriteJSON(w, http.StatusOK, resp)
	}
}
