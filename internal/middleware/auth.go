package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/ayush/movie-review-api/internal/auth"
	"github.com/ayush/movie-review-api/internal/httpx"
)

// TokenHeader is the header checked after the body and the query string.
const TokenHeader = "x-access-token"

const maxTokenBody = 1 << 20

type claimsKey struct{}

// ClaimsFrom returns the claims RequireToken attached to ctx.
func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok
}

// TokenVerifier checks a raw token string.
type TokenVerifier interface {
	Verify(raw string) (*auth.Claims, error)
}

// ExtractToken returns the first non-empty token from the body field "token",
// the query parameter "token" or the x-access-token header, in that order.
// The body is left readable for the next handler.
func ExtractToken(r *http.Request) string {
	if tok := tokenFromBody(r); tok != "" {
		return tok
	}
	if tok := r.URL.Query().Get("token"); tok != "" {
		return tok
	}
	return r.Header.Get(TokenHeader)
}

func tokenFromBody(r *http.Request) string {
	if r.Body == nil || r.Body == http.NoBody {
		return ""
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "", "application/json", "application/x-www-form-urlencoded":
	default:
		// Binary uploads never carry the token in the body.
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxTokenBody))
	// Whatever lies past the limit is still unread in r.Body.
	r.Body = readCloser{io.MultiReader(bytes.NewReader(data), r.Body), r.Body}
	if err != nil || len(data) == 0 {
		return ""
	}

	if mediaType == "application/x-www-form-urlencoded" {
		form, err := url.ParseQuery(string(data))
		if err != nil {
			return ""
		}
		return form.Get("token")
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Token
}

type readCloser struct {
	io.Reader
	io.Closer
}

// RequireToken rejects requests without a valid token and injects the
// decoded claims into the request context.
func RequireToken(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := ExtractToken(r)
			if raw == "" {
				httpx.Fail(w, http.StatusForbidden, "No token provided.")
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				if errors.Is(err, auth.ErrNoToken) {
					httpx.Fail(w, http.StatusForbidden, "No token provided.")
					return
				}
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("token rejected")
				httpx.Fail(w, http.StatusUnauthorized, "Failed to authenticate token.")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
