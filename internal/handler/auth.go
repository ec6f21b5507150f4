package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/mockmatch/internal/domain"
	"github.com/msomdec/mockmatch/internal/service"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth         *service.AuthService
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, cookieSecure: cookieSecure}
}

// HandleRegister creates an account and signs the new user in.
// POST /api/register
// Response: 201 with the user
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, "register user", err)
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FullName:        req.FullName,
		Email:           req.Email,
		ExperienceLevel: req.ExperienceLevel,
		Skills:          req.Skills,
		TargetRole:      req.TargetRole,
		Bio:             req.Bio,
	})
	if err != nil {
		writeServiceError(w, "register user", err)
		return
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		writeServiceError(w, "issue token after register", err)
		return
	}
	h.setAuthCookie(w, token)

	slog.Info("user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

// HandleLogin verifies credentials and sets the session cookie.
// POST /api/login
// Request:  {"username":"...","password":"..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, "login user", err)
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, "login user", err)
		return
	}
	h.setAuthCookie(w, token)

	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleLogout clears the auth cookie.
// POST /api/logout
// Response: 204 No Content
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the currently authenticated user.
// GET /api/user
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeServiceError(w, "get current user", domain.ErrUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, toUserDTO(user))
}

func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(service.TokenTTL.Seconds()),
	})
}
