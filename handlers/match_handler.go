package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/courtside/padel-system/middleware"
	"github.com/courtside/padel-system/models"
	"github.com/courtside/padel-system/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

type createMatchRequest struct {
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	OpenJoin        bool      `json:"open_join"`
}

type recordPastMatchRequest struct {
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	PlayerIDs       [4]int    `json:"player_ids"`
}

type updateScheduleRequest struct {
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
}

type submitScoreRequest struct {
	Teams models.TeamAssignment `json:"teams"`
	Sets  []models.SetScore     `json:"sets"`
}

type approveRejectRequest struct {
	PlayerID int `json:"player_id"`
}

// CreateHandler обрабатывает POST /matches
func (h *MatchHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var req createMatchRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.Create(r.Context(), services.CreateMatchInput{
		CreatorID:       userID,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		OpenJoin:        req.OpenJoin,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordPastHandler обрабатывает POST /matches/past —
// матч, который уже сыгран вне приложения, создаётся сразу с полным составом.
func (h *MatchHandler) RecordPastHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var req recordPastMatchRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.RecordPast(r.Context(), services.RecordPastMatchInput{
		CreatorID:       userID,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		PlayerIDs:       req.PlayerIDs,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler обрабатывает GET /matches/{matchID}
func (h *MatchHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.Get(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateScheduleHandler обрабатывает PATCH /matches/{matchID}/schedule
func (h *MatchHandler) UpdateScheduleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var req updateScheduleRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.UpdateSchedule(r.Context(), id, userID, req.StartTime, req.DurationMinutes)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler обрабатывает DELETE /matches/{matchID}
func (h *MatchHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	if err := h.matchService.Delete(r.Context(), id, userID, middleware.IsAdminFromContext(r.Context())); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// JoinHandler обрабатывает POST /matches/{matchID}/join
func (h *MatchHandler) JoinHandler(w http.ResponseWriter, r *http.Request) {
	h.rosterAction(w, r, h.matchService.Join)
}

// LeaveHandler обрабатывает POST /matches/{matchID}/leave
func (h *MatchHandler) LeaveHandler(w http.ResponseWriter, r *http.Request) {
	h.rosterAction(w, r, h.matchService.Leave)
}

// ApproveHandler обрабатывает POST /matches/{matchID}/approve
func (h *MatchHandler) ApproveHandler(w http.ResponseWriter, r *http.Request) {
	h.moderationAction(w, r, h.matchService.Approve)
}

// RejectHandler обрабатывает POST /matches/{matchID}/reject
func (h *MatchHandler) RejectHandler(w http.ResponseWriter, r *http.Request) {
	h.moderationAction(w, r, h.matchService.Reject)
}

// SubmitScoreHandler обрабатывает POST /matches/{matchID}/score
func (h *MatchHandler) SubmitScoreHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var req submitScoreRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.SubmitScore(r.Context(), id, userID, req.Teams, req.Sets)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ConfirmScoreHandler обрабатывает POST /matches/{matchID}/score/confirm
func (h *MatchHandler) ConfirmScoreHandler(w http.ResponseWriter, r *http.Request) {
	h.rosterAction(w, r, h.matchService.ConfirmScore)
}

// ForceConfirmHandler обрабатывает POST /admin/matches/{matchID}/force-confirm —
// админ закрывает зависшую подачу, не дожидаясь дедлайна.
func (h *MatchHandler) ForceConfirmHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.matchService.ForceConfirm(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MatchHandler) rosterAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, matchID, playerID int) (*models.Match, error)) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	match, err := action(r.Context(), id, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) moderationAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, matchID, actorID, playerID int) (*models.Match, error)) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var req approveRejectRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := action(r.Context(), id, userID, req.PlayerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
