package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/dyike/FolioGo/internal/models"
)

const defaultHistoryLimit = 20

type holdingRequest struct {
	Ticker              string           `json:"ticker"`
	CostBasis           decimal.Decimal  `json:"cost_basis"`
	Quantity            decimal.Decimal  `json:"quantity"`
	Currency            string           `json:"currency"`
	TargetReturnPercent *decimal.Decimal `json:"target_return_percent"`
}

func (req holdingRequest) holding() models.Holding {
	target := models.DefaultTargetReturnPercent
	if req.TargetReturnPercent != nil {
		target = *req.TargetReturnPercent
	}
	return models.Holding{
		Ticker:              req.Ticker,
		CostBasis:           req.CostBasis,
		Quantity:            req.Quantity,
		Currency:            models.Currency(req.Currency),
		TargetReturnPercent: target,
	}.Normalized()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "foliogo",
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := s.dashboard.Run(r.Context())
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.dashboard.Rate(r.Context()))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	if s.history == nil {
		s.writeJSON(w, http.StatusOK, []models.Snapshot{})
		return
	}

	snapshots, err := s.history.List(r.Context(), limit)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list snapshots")
		s.writeError(w, http.StatusInternalServerError, "failed to list snapshots")
		return
	}
	s.writeJSON(w, http.StatusOK, snapshots)
}

func (s *Server) handleAddHolding(w http.ResponseWriter, r *http.Request) {
	var req holdingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	h := req.holding()
	if err := s.dashboard.AddHolding(r.Context(), h); err != nil {
		if errors.Is(err, models.ErrInvalidHolding) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error().Err(err).Str("ticker", h.Ticker).Msg("Failed to add holding")
		s.writeError(w, http.StatusInternalServerError, "failed to save holding")
		return
	}
	s.writeJSON(w, http.StatusCreated, h)
}

func (s *Server) handleResetHoldings(w http.ResponseWriter, r *http.Request) {
	if err := s.dashboard.Reset(r.Context()); err != nil {
		s.log.Error().Err(err).Msg("Failed to reset portfolio")
		s.writeError(w, http.StatusInternalServerError, "failed to reset portfolio")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
