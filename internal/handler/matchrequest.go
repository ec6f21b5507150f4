package handler

import (
	"net/http"

	"github.com/msomdec/mockmatch/internal/service"
)

// MatchRequestHandler handles match request HTTP requests.
type MatchRequestHandler struct {
	requests *service.MatchRequestService
}

// NewMatchRequestHandler creates a new MatchRequestHandler.
func NewMatchRequestHandler(requests *service.MatchRequestService) *MatchRequestHandler {
	return &MatchRequestHandler{requests: requests}
}

// HandleCreate broadcasts a new pending request.
// POST /api/match-requests
func (h *MatchRequestHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req createMatchRequestBody
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, "create match request", err)
		return
	}

	created, err := h.requests.Create(r.Context(), user.ID, service.CreateMatchRequestInput{
		TargetExperienceLevel: req.TargetExperienceLevel,
		TargetSkills:          req.TargetSkills,
		PreferredTime:         req.PreferredTime,
		Notes:                 req.Notes,
	})
	if err != nil {
		writeServiceError(w, "create match request", err)
		return
	}

	writeJSON(w, http.StatusCreated, toMatchRequestDTO(created))
}

// HandleList returns both incoming and outgoing requests.
// GET /api/match-requests
// Response: {"incoming": [...], "outgoing": [...]}
func (h *MatchRequestHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	lists, err := h.requests.List(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, "list match requests", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"incoming": toMatchRequestDTOs(lists.Incoming),
		"outgoing": toMatchRequestDTOs(lists.Outgoing),
	})
}

// HandleIncoming lists pending requests the caller qualifies for.
// GET /api/match-requests/incoming
func (h *MatchRequestHandler) HandleIncoming(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	reqs, err := h.requests.Incoming(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, "list incoming match requests", err)
		return
	}

	writeJSON(w, http.StatusOK, toMatchRequestDTOs(reqs))
}

// HandleOutgoing lists the caller's own requests.
// GET /api/match-requests/outgoing
func (h *MatchRequestHandler) HandleOutgoing(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	reqs, err := h.requests.Outgoing(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, "list outgoing match requests", err)
		return
	}

	writeJSON(w, http.StatusOK, toMatchRequestDTOs(reqs))
}

// HandleGet returns one request visible to the caller.
// GET /api/match-requests/{id}
func (h *MatchRequestHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, "get match request", err)
		return
	}

	req, err := h.requests.Get(r.Context(), user.ID, id)
	if err != nil {
		writeServiceError(w, "get match request", err)
		return
	}

	writeJSON(w, http.StatusOK, toMatchRequestDTO(req))
}

// HandleUpdateStatus accepts, rejects or cancels a pending request.
// PUT /api/match-requests/{id}/status
// Request: {"status":"accepted"}
func (h *MatchRequestHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, "update match request status", err)
		return
	}

	var req updateStatusRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, "update match request status", err)
		return
	}

	updated, err := h.requests.UpdateStatus(r.Context(), user.ID, id, req.Status)
	if err != nil {
		writeServiceError(w, "update match request status", err)
		return
	}

	writeJSON(w, http.StatusOK, toMatchRequestDTO(updated))
}
