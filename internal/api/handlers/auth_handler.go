package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/isdelr/employee-records/internal/auth"
	"github.com/isdelr/employee-records/internal/common"
	"github.com/isdelr/employee-records/internal/services"
	"github.com/isdelr/employee-records/internal/views"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration, login, logout and session checks.
type AuthHandler struct {
	service       services.UserServiceProvider
	codec         *auth.Codec
	guard         *auth.Guard
	renderer      views.Renderer
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler. secureCookies marks the session
// cookie Secure and should be set in production.
func NewAuthHandler(service services.UserServiceProvider, codec *auth.Codec, guard *auth.Guard, renderer views.Renderer, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		service:       service,
		codec:         codec,
		guard:         guard,
		renderer:      renderer,
		secureCookies: secureCookies,
	}
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	render(w, h.renderer, "login", page(r, "Log in"))
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	render(w, h.renderer, "register", page(r, "Register"))
}

// Register handles new user registration. The token is returned in the body;
// no cookie is set.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var username, email, password string
	if err := decodePayload(w, r, map[string]*string{"username": &username, "email": &email, "password": &password}); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		writeMessage(w, http.StatusBadRequest, "Username, email and password are required")
		return
	}

	user, err := h.service.Register(r.Context(), username, email, password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrDuplicateEmail):
			writeMessage(w, http.StatusBadRequest, "Email already exists")
		case errors.Is(err, common.ErrDuplicateUsername):
			writeMessage(w, http.StatusBadRequest, "Username already exists")
		case errors.Is(err, common.ErrValidation):
			writeMessage(w, http.StatusBadRequest, validationMessage(err))
		default:
			log.Error().Err(err).Str("email", email).Msg("Failed to register user")
			writeMessage(w, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	token, err := h.codec.Issue(auth.Claims{UserID: user.ID, Username: user.Username})
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate JWT")
		writeMessage(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Login handles user authentication. On success the token is set as the
// session cookie and the client is sent to the dashboard.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var username, password string
	if err := decodePayload(w, r, map[string]*string{"username": &username, "password": &password}); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(username) == "" || password == "" {
		writeMessage(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := h.service.Authenticate(r.Context(), username, password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			log.Warn().Str("username", username).Msg("Login for unknown user")
			writeMessage(w, http.StatusBadRequest, "User not found")
		case errors.Is(err, auth.ErrInvalidCredential):
			log.Warn().Str("username", username).Msg("Failed authentication attempt")
			writeMessage(w, http.StatusBadRequest, "Invalid credentials")
		default:
			log.Error().Err(err).Str("username", username).Msg("Failed to authenticate user")
			writeMessage(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	token, expiresAt, err := h.codec.IssueWithExpiry(auth.Claims{UserID: user.ID, Username: user.Username})
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate JWT")
		writeMessage(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	// The cookie lives exactly as long as the token it carries.
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(h.codec.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// Logout clears the session cookie. The token itself stays valid until it expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusFound)
}

// AuthCheck reports the identity carried by the session cookie.
func (h *AuthHandler) AuthCheck(w http.ResponseWriter, r *http.Request) {
	claims, err := h.guard.Authenticate(r)
	if err != nil {
		if auth.IsRejection(err) {
			auth.WriteUnauthorized(w)
			return
		}
		log.Error().Err(err).Msg("Failed to check session")
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user": map[string]string{
			"id":       claims.UserID,
			"username": claims.Username,
		},
	})
}

// Dashboard renders the landing page for an authenticated user.
func (h *AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}
	log.Debug().Str("user_id", claims.UserID).Msg("Dashboard requested")
	render(w, h.renderer, "dashboard", page(r, "Dashboard"))
}

// validationMessage strips the sentinel prefix from a validation error.
func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), common.ErrValidation.Error()+": ")
	if msg == "" {
		return "Invalid input"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
