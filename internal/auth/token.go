package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ayush/movie-review-api/internal/models"
)

// TokenScheme prefixes every issued token. Existing clients send it back verbatim.
const TokenScheme = "JWT "

var (
	// ErrNoToken means the request carried no token at all.
	ErrNoToken = errors.New("no token provided")
	// ErrInvalidToken covers malformed tokens, bad signatures and decode failures alike.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims identify the signed-in user. There is no expiry; a token stays
// valid until the signing secret changes.
type Claims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies session tokens with a fixed HMAC secret.
type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	return &TokenIssuer{secret: []byte(secret)}, nil
}

// Issue returns a scheme-prefixed HS256 token for user.
func (t *TokenIssuer) Issue(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   user.ID,
		Username: user.Username,
	})
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return TokenScheme + signed, nil
}

// Verify checks the token signature and returns its claims. The scheme
// prefix is optional.
func (t *TokenIssuer) Verify(raw string) (*Claims, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(raw, TokenScheme))
	if raw == "" {
		return nil, ErrNoToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
