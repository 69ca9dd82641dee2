// Package httpx holds the JSON response helpers shared by the handlers.
package httpx

import (
	"io"
	"mime"
	"net/http"

	"github.com/go-playground/form/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Ack is the {success, msg} acknowledgment body.
type Ack struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg,omitempty"`
	ID      string `json:"id,omitempty"`
}

// Failure is the error body every handler uses.
type Failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Message is the {message} body used by the review endpoints.
type Message struct {
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// WriteRaw writes an already encoded JSON body.
func WriteRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Fail writes {success:false, message}.
func Fail(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Failure{Success: false, Message: message})
}

var formDecoder = newFormDecoder()

// Form fields share the JSON names of the request structs.
func newFormDecoder() *form.Decoder {
	d := form.NewDecoder()
	d.SetTagName("json")
	return d
}

// Decode reads a JSON or urlencoded form request body into v. An empty body
// yields io.EOF.
func Decode(r *http.Request, v any) error {
	if r.Body == nil {
		return io.EOF
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return err
		}
		if len(r.PostForm) == 0 {
			return io.EOF
		}
		return formDecoder.Decode(v, r.PostForm)
	}
	return json.NewDecoder(r.Body).Decode(v)
}

// MethodNotAllowed answers with the structured 405 body.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusMethodNotAllowed, map[string]any{
		"status":  http.StatusMethodNotAllowed,
		"message": "HTTP method not supported.",
	})
}
