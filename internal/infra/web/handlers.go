package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"profitscan-ai/internal/domain"
	"profitscan-ai/internal/domain/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain sentinels onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrUnknownProvider):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrAlreadyExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrQuotaExceeded):
		http.Error(w, err.Error(), http.StatusTooManyRequests)
	case errors.Is(err, domain.ErrMailNotConfigured):
		http.Error(w, err.Error(), http.StatusPreconditionFailed)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var in model.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	res, err := s.calcUC.Calculate(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleScanCost(w http.ResponseWriter, r *http.Request) {
	prov, err := model.ParseProvider(r.URL.Query().Get("provider"))
	if err != nil {
		writeError(w, err)
		return
	}
	cost, err := s.calcUC.EstimateScanCost(r.Context(), prov)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Provider     model.AIProvider `json:"provider"`
		CostUSD      float64          `json:"estimatedCostUsd"`
		InputTokens  int              `json:"inputTokens"`
		OutputTokens int              `json:"outputTokens"`
	}{prov, cost, model.ScanInputTokens, model.ScanOutputTokens})
}

func (s *Server) handleScanStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.quotaUC.Status(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	usage, err := s.quotaUC.Enroll(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, usage)
}

func (s *Server) handleConsume(w http.ResponseWriter, r *http.Request) {
	st, err := s.quotaUC.Consume(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleAccessByEmail(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		http.Error(w, "email query parameter required", http.StatusBadRequest)
		return
	}
	ent, err := s.accessUC.CheckByEmail(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ent)
}

func (s *Server) handleAccessByAccount(w http.ResponseWriter, r *http.Request) {
	ent, err := s.accessUC.CheckProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ent)
}

type commentaryRequest struct {
	Provider string             `json:"provider"`
	Input    model.ProductInput `json:"produto"`
}

func (s *Server) handleCommentary(w http.ResponseWriter, r *http.Request) {
	var req commentaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	prov, err := model.ParseProvider(req.Provider)
	if err != nil {
		writeError(w, err)
		return
	}
	text, calc, err := s.calcUC.Commentary(r.Context(), chi.URLParam(r, "id"), prov, req.Input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Commentary string                  `json:"comentario"`
		Result     model.CalculationResult `json:"resultado"`
	}{text, calc})
}
