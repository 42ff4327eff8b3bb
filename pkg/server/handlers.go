package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gnahuy123/liftSim/pkg/building"
	"github.com/gnahuy123/liftSim/pkg/lift"
	"github.com/gnahuy123/liftSim/pkg/policy"
	"github.com/gnahuy123/liftSim/pkg/session"
)

const maxBodyBytes = 1 << 16

type createSessionRequest struct {
	Algorithm string `json:"algorithm"`
	MaxFloors int    `json:"max_floors"`
}

type createComparisonRequest struct {
	Algorithm1 string `json:"algorithm1"`
	Algorithm2 string `json:"algorithm2"`
	MaxFloors  int    `json:"max_floors"`
}

type passengerRequest struct {
	PassengerID string `json:"passenger_id"`
	FromLevel   *int   `json:"from_level"`
	ToLevel     *int   `json:"to_level"`
}

type algorithmInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "lift-simulation",
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"max_floors":        s.cfg.MaxFloor,
		"min_floor":         s.cfg.MinFloor,
		"default_algorithm": s.cfg.DefaultPolicy,
	})
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	algorithms := []algorithmInfo{}
	for _, p := range policy.All() {
		algorithms = append(algorithms, algorithmInfo{Name: p.Name, Description: p.Description})
	}
	writeJSON(w, http.StatusOK, map[string]any{"algorithms": algorithms})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Algorithm == "" {
		req.Algorithm = s.cfg.DefaultPolicy
	}
	if req.MaxFloors == 0 {
		req.MaxFloors = s.cfg.MaxFloor
	}

	sess, err := s.sessions.CreateBuilding(req.Algorithm, req.MaxFloors)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sess.ID(),
		"algorithm":  sess.Policies()[0],
		"max_floors": req.MaxFloors,
		"type":       building.KindSingle,
	})
}

func (s *Server) handleCreateComparison(w http.ResponseWriter, r *http.Request) {
	var req createComparisonRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Algorithm1 == "" {
		req.Algorithm1 = s.cfg.DefaultPolicy
	}
	if req.Algorithm2 == "" {
		req.Algorithm2 = s.cfg.DefaultPolicy
	}
	if req.MaxFloors == 0 {
		req.MaxFloors = s.cfg.MaxFloor
	}

	sess, err := s.sessions.CreateComparison(req.Algorithm1, req.Algorithm2, req.MaxFloors)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	policies := sess.Policies()
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sess.ID(),
		"algorithm1": policies[0],
		"algorithm2": policies[1],
		"max_floors": req.MaxFloors,
		"type":       building.KindComparison,
	})
}

func (s *Server) handleAddPassenger(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req passengerRequest
	if err := decodeRequired(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.PassengerID == "" || req.FromLevel == nil || req.ToLevel == nil {
		writeError(w, http.StatusBadRequest, "passenger_id, from_level and to_level are required")
		return
	}

	if err := s.sessions.Submit(id, req.PassengerID, *req.FromLevel, *req.ToLevel); err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Request added"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state, err := s.sessions.Snapshot(r.PathValue("id"))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	state, err := s.sessions.Tick(id)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	s.hub.broadcast(id, stateUpdate(state))
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.sessions.Remove(id) {
		writeSessionError(w, fmt.Errorf("%w: %s", session.ErrUnknownSession, id))
		return
	}

	s.hub.closeSession(id, "session deleted")
	Logger.Info().Str("session", id).Msg("Deleted session")
	w.WriteHeader(http.StatusNoContent)
}

// decodeOptional decodes a JSON body, leaving v untouched when the body is empty
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("invalid request body: %w", err)
}

func decodeRequired(r *http.Request, v any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrUnknownSession):
		writeError(w, http.StatusNotFound, "Invalid session ID")
	case errors.Is(err, lift.ErrInvalidFloor),
		errors.Is(err, lift.ErrDuplicatePassenger),
		errors.Is(err, session.ErrInvalidBounds):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		Logger.Error().Err(err).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		Logger.Warn().Err(err).Msg("Failed to write response")
	}
}
