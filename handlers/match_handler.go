package handlers

import (
	"net/http"

	"github.com/khaleegram/earena/middleware"
	"github.com/khaleegram/earena/models"
	"github.com/khaleegram/earena/services"
)

type MatchHandler struct {
	lifecycle services.MatchLifecycleService
}

func NewMatchHandler(lifecycle services.MatchLifecycleService) *MatchHandler {
	return &MatchHandler{lifecycle: lifecycle}
}

func (h *MatchHandler) respondWithMatch(w http.ResponseWriter, r *http.Request, match *models.Match, err error) {
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler handles GET /matches/{matchID}
func (h *MatchHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	match, err := h.lifecycle.GetMatch(r.Context(), id)
	h.respondWithMatch(w, r, match, err)
}

// SubmitReportHandler handles POST /matches/{matchID}/report
func (h *MatchHandler) SubmitReportHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to report a result")
		return
	}
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.SubmitReportInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.ActorUserID = userID
	match, err := h.lifecycle.SubmitReport(r.Context(), id, input)
	h.respondWithMatch(w, r, match, err)
}

// ForfeitHandler handles POST /matches/{matchID}/forfeit
func (h *MatchHandler) ForfeitHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to forfeit a match")
		return
	}
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input struct {
		TeamID int `json:"team_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	match, err := h.lifecycle.Forfeit(r.Context(), id, input.TeamID, userID)
	h.respondWithMatch(w, r, match, err)
}

// OverrideResultHandler handles POST /matches/{matchID}/override
func (h *MatchHandler) OverrideResultHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.OverrideResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	match, err := h.lifecycle.OverrideResult(r.Context(), id, input)
	h.respondWithMatch(w, r, match, err)
}

// ForceReplayHandler handles POST /matches/{matchID}/force-replay
func (h *MatchHandler) ForceReplayHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	match, err := h.lifecycle.ForceReplay(r.Context(), id)
	h.respondWithMatch(w, r, match, err)
}

// RequestReplayHandler handles POST /matches/{matchID}/replay-requests
func (h *MatchHandler) RequestReplayHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to request a replay")
		return
	}
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input struct {
		TeamID int    `json:"team_id"`
		Reason string `json:"reason"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	match, err := h.lifecycle.RequestReplay(r.Context(), id, input.TeamID, userID, input.Reason)
	h.respondWithMatch(w, r, match, err)
}

// RespondReplayHandler handles POST /matches/{matchID}/replay-requests/response
func (h *MatchHandler) RespondReplayHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to answer a replay request")
		return
	}
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input struct {
		TeamID int  `json:"team_id"`
		Accept bool `json:"accept"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	match, err := h.lifecycle.RespondReplay(r.Context(), id, input.TeamID, userID, input.Accept)
	h.respondWithMatch(w, r, match, err)
}

// ApproveReplayHandler handles POST /matches/{matchID}/replay-requests/approval
func (h *MatchHandler) ApproveReplayHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input struct {
		Approve bool `json:"approve"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	match, err := h.lifecycle.ApproveReplay(r.Context(), id, input.Approve)
	h.respondWithMatch(w, r, match, err)
}
