package handler

import (
	"context"
	"net/http"

	"github.com/msomdec/mockmatch/internal/domain"
	"github.com/msomdec/mockmatch/internal/service"
)

// SlotHandler handles interview slot HTTP requests.
type SlotHandler struct {
	slots *service.SlotService
}

// NewSlotHandler creates a new SlotHandler.
func NewSlotHandler(slots *service.SlotService) *SlotHandler {
	return &SlotHandler{slots: slots}
}

// HandleCreate offers a new available slot with the caller as interviewer.
// POST /api/interview-slots
func (h *SlotHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req createSlotRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, "create interview slot", err)
		return
	}

	slot, err := h.slots.Create(r.Context(), user.ID, service.CreateSlotInput{
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		MeetingLink: req.MeetingLink,
		MeetingType: req.MeetingType,
		Notes:       req.Notes,
	})
	if err != nil {
		writeServiceError(w, "create interview slot", err)
		return
	}

	writeJSON(w, http.StatusCreated, toInterviewSlotDTO(slot))
}

// HandleMine returns the caller's upcoming and past interviews.
// GET /api/interview-slots
// Response: {"upcoming": [...], "past": [...]}
func (h *SlotHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	lists, err := h.slots.Mine(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, "list interview slots", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"upcoming": toInterviewSlotDTOs(lists.Upcoming),
		"past":     toInterviewSlotDTOs(lists.Past),
	})
}

// HandleAvailable lists open slots offered by others.
// GET /api/interview-slots/available
func (h *SlotHandler) HandleAvailable(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "list available interview slots", h.slots.Available)
}

// GET /api/interview-slots/upcoming
func (h *SlotHandler) HandleUpcoming(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "list upcoming interviews", h.slots.Upcoming)
}

// GET /api/interview-slots/past
func (h *SlotHandler) HandlePast(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "list past interviews", h.slots.Past)
}

func (h *SlotHandler) list(w http.ResponseWriter, r *http.Request, action string,
	fetch func(ctx context.Context, userID int64) ([]domain.InterviewSlot, error)) {
	user := UserFromContext(r.Context())

	slots, err := fetch(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, action, err)
		return
	}

	writeJSON(w, http.StatusOK, toInterviewSlotDTOs(slots))
}

// HandleGet returns one slot.
// GET /api/interview-slots/{id}
func (h *SlotHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, "get interview slot", err)
		return
	}

	slot, err := h.slots.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get interview slot", err)
		return
	}

	writeJSON(w, http.StatusOK, toInterviewSlotDTO(slot))
}

// HandleBook claims an available slot for the caller.
// PUT /api/interview-slots/{id}/book
func (h *SlotHandler) HandleBook(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "book interview slot", h.slots.Book)
}

// HandleCancel cancels or releases a booking depending on the caller's role.
// PUT /api/interview-slots/{id}/cancel
func (h *SlotHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "cancel interview slot", h.slots.Cancel)
}

func (h *SlotHandler) act(w http.ResponseWriter, r *http.Request, action string,
	do func(ctx context.Context, callerID, id int64) (*domain.InterviewSlot, error)) {
	user := UserFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, action, err)
		return
	}

	slot, err := do(r.Context(), user.ID, id)
	if err != nil {
		writeServiceError(w, action, err)
		return
	}

	writeJSON(w, http.StatusOK, toInterviewSlotDTO(slot))
}

// HandleUpdateMeetingLink replaces the slot's meeting link.
// PUT /api/interview-slots/{id}/meeting-link
// Request: {"meetingLink":"https://..."}
func (h *SlotHandler) HandleUpdateMeetingLink(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, "update meeting link", err)
		return
	}

	var req meetingLinkRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, "update meeting link", err)
		return
	}

	slot, err := h.slots.UpdateMeetingLink(r.Context(), user.ID, id, req.MeetingLink)
	if err != nil {
		writeServiceError(w, "update meeting link", err)
		return
	}

	writeJSON(w, http.StatusOK, toInterviewSlotDTO(slot))
}
