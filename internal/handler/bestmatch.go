package handler

import (
	"net/http"

	"github.com/msomdec/mockmatch/internal/service"
)

type BestMatchHandler struct {
	matches *service.BestMatchService
}

func NewBestMatchHandler(matches *service.BestMatchService) *BestMatchHandler {
	return &BestMatchHandler{matches: matches}
}

// HandleBestMatch returns the caller's top candidates with their scores.
// GET /api/best-match
func (h *BestMatchHandler) HandleBestMatch(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	candidates, err := h.matches.BestMatches(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, "find best matches", err)
		return
	}

	writeJSON(w, http.StatusOK, toCandidateDTOs(candidates))
}
