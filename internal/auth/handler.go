package auth

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ayush/movie-review-api/internal/httpx"
	"github.com/ayush/movie-review-api/internal/models"
	"github.com/ayush/movie-review-api/internal/store"
	"github.com/ayush/movie-review-api/internal/validation"
)

// Handler holds the signup and signin HTTP handlers.
type Handler struct {
	users  UserStore
	authn  *Authenticator
	tokens *TokenIssuer
}

func NewHandler(users UserStore, tokens *TokenIssuer) *Handler {
	return &Handler{users: users, authn: NewAuthenticator(users), tokens: tokens}
}

// Signup creates a new user.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := validation.Struct(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Please include both username and password to signup.")
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("hash password")
		httpx.Fail(w, http.StatusInternalServerError, "Internal error.")
		return
	}

	if _, err := h.users.CreateUser(r.Context(), req.Name, req.Username, hashed); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			httpx.Fail(w, http.StatusConflict, "A user with that username already exists.")
			return
		}
		log.Error().Err(err).Str("username", req.Username).Msg("create user")
		httpx.Fail(w, http.StatusInternalServerError, "Could not create user.")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.Ack{Success: true, Msg: "Successfully created new user."})
}

type signinResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// Signin verifies credentials and returns a session token.
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var req models.SigninRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := validation.Struct(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authn.VerifyCredentials(r.Context(), req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		httpx.WriteJSON(w, http.StatusUnauthorized, httpx.Ack{Success: false, Msg: "Authentication failed."})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("verify credentials")
		httpx.Fail(w, http.StatusInternalServerError, "Internal error.")
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		log.Error().Err(err).Msg("issue token")
		httpx.Fail(w, http.StatusInternalServerError, "Internal error.")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, signinResponse{Success: true, Token: token})
}
