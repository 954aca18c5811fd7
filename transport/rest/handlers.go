package rest

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/hub"
)

type registerRequest struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type createMatchRequest struct {
	Participant string `json:"participant"`
	AI          bool   `json:"ai"`
	Tier        int    `json:"tier"`
}

type joinRequest struct {
	Participant string   `json:"participant"`
	Role        hub.Role `json:"role"`
}

type moveRequest struct {
	Participant string `json:"participant"`
	Cell        *int   `json:"cell"`
}

type skillRequest struct {
	Participant string `json:"participant"`
	Skill       string `json:"skill"`
	Target      *int   `json:"target"`
	Params      string `json:"params"`
}

type leaveRequest struct {
	Participant string `json:"participant"`
}

type recordResponse struct {
	MatchID    string               `json:"match_id"`
	SeatA      string               `json:"seat_a"`
	SeatB      string               `json:"seat_b"`
	Winner     string               `json:"winner"`
	Status     string               `json:"status"`
	Moves      []entity.MoveRecord  `json:"moves"`
	Skills     []entity.SkillRecord `json:"skills"`
	StartedAt  *time.Time           `json:"started_at,omitempty"`
	EndedAt    *time.Time           `json:"ended_at,omitempty"`
	DurationMs int64                `json:"duration_ms"`
}

func newRecordResponse(record entity.MatchRecord) recordResponse {
	resp := recordResponse{
		MatchID:    record.MatchID,
		SeatA:      record.SeatA,
		SeatB:      record.SeatB,
		Winner:     record.Winner,
		Status:     record.Status,
		Moves:      record.Moves,
		Skills:     record.Skills,
		DurationMs: record.Duration.Milliseconds(),
	}

	if !record.StartedAt.IsZero() {
		resp.StartedAt = &record.StartedAt
	}
	if !record.EndedAt.IsZero() {
		resp.EndedAt = &record.EndedAt
	}

	return resp
}

func (that *Server) handleListSkills(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, that.manager.Skills())
}

func (that *Server) handleRegisterPlayer(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		that.writeError(w, err)
		return
	}

	profile, err := that.manager.RegisterPlayer(r.Context(), entity.Profile{ID: req.ID, Name: req.Name, Avatar: req.Avatar})
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, profile)
}

func (that *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := decodeBody(r, &req); err != nil {
		that.writeError(w, err)
		return
	}

	snapshot, err := that.manager.CreateMatch(r.Context(), req.Participant, req.AI, req.Tier)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, snapshot)
}

func (that *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.manager.GetMatch(r.Context(), chi.URLParam(r, "matchID"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *Server) handleJoinMatch(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := decodeBody(r, &req); err != nil {
		that.writeError(w, err)
		return
	}

	snapshot, err := that.manager.JoinMatch(r.Context(), chi.URLParam(r, "matchID"), req.Participant, req.Role)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeBody(r, &req); err != nil {
		that.writeError(w, err)
		return
	}

	if req.Cell == nil {
		that.writeError(w, fmt.Errorf("%w: cell is required", apperror.ErrValidation))
		return
	}

	snapshot, err := that.manager.MakeMove(r.Context(), chi.URLParam(r, "matchID"), req.Participant, *req.Cell)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *Server) handleSkill(w http.ResponseWriter, r *http.Request) {
	var req skillRequest
	if err := decodeBody(r, &req); err != nil {
		that.writeError(w, err)
		return
	}

	snapshot, err := that.manager.UseSkill(r.Context(), chi.URLParam(r, "matchID"), req.Skill, entity.SkillRequest{
		ParticipantID: req.Participant,
		Target:        req.Target,
		Params:        req.Params,
	})
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	var req leaveRequest
	if err := decodeBody(r, &req); err != nil {
		that.writeError(w, err)
		return
	}

	snapshot, err := that.manager.LeaveMatch(r.Context(), chi.URLParam(r, "matchID"), req.Participant)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *Server) handleCooldowns(w http.ResponseWriter, r *http.Request) {
	cooldowns, err := that.manager.Cooldowns(r.Context(), chi.URLParam(r, "matchID"), r.URL.Query().Get("participant"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, cooldowns)
}

func (that *Server) handleOpenMatches(w http.ResponseWriter, r *http.Request) {
	that.writeJSON(w, http.StatusOK, that.manager.OpenMatches(r.Context()))
}

func (that *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	record, err := that.manager.GetRecord(r.Context(), chi.URLParam(r, "matchID"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newRecordResponse(*record))
}

func (that *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			that.writeError(w, fmt.Errorf("%w: limit must be a number", apperror.ErrValidation))
			return
		}
		limit = parsed
	}

	records, err := that.manager.History(r.Context(), chi.URLParam(r, "participantID"), limit)
	if err != nil {
		that.writeError(w, err)
		return
	}

	history := make([]recordResponse, 0, len(records))
	for _, record := range records {
		history = append(history, newRecordResponse(record))
	}

	that.writeJSON(w, http.StatusOK, history)
}
