package handler

import (
	"net/http"

	"github.com/msomdec/mockmatch/internal/service"
)

// UserHandler serves the user directory and profile edits.
type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// HandleList lists other users.
// GET /api/users?experienceLevel=&skill=&limit=&offset=
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	limit, err := queryInt(r, "limit")
	if err != nil {
		writeServiceError(w, "list users", err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeServiceError(w, "list users", err)
		return
	}

	q := r.URL.Query()
	users, err := h.users.List(r.Context(), user.ID, service.ListUsersInput{
		ExperienceLevel: q.Get("experienceLevel"),
		Skill:           q.Get("skill"),
		Limit:           limit,
		Offset:          offset,
	})
	if err != nil {
		writeServiceError(w, "list users", err)
		return
	}

	writeJSON(w, http.StatusOK, toUserDTOs(users))
}

// HandleGet returns one user's profile.
// GET /api/users/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, "get user", err)
		return
	}

	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get user", err)
		return
	}

	writeJSON(w, http.StatusOK, toUserDTO(u))
}

// HandleUpdate edits the caller's own profile.
// PUT /api/users/{id}
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, "update profile", err)
		return
	}

	var req updateProfileRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, "update profile", err)
		return
	}

	updated, err := h.users.UpdateProfile(r.Context(), user.ID, id, service.UpdateProfileInput{
		FullName:        req.FullName,
		Email:           req.Email,
		ExperienceLevel: req.ExperienceLevel,
		Skills:          req.Skills,
		TargetRole:      req.TargetRole,
		Bio:             req.Bio,
	})
	if err != nil {
		writeServiceError(w, "update profile", err)
		return
	}

	writeJSON(w, http.StatusOK, toUserDTO(updated))
}
