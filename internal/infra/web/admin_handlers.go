package web

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"profitscan-ai/internal/domain/model"
)

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if s.adminKey == "" {
		s.log.Error().Msg("admin key is not configured")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Key), []byte(s.adminKey)) != 1 {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	tok, err := s.auth.Mint(w)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": tok})
}

func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// --- SMTP settings ---

type smtpSettingsRequest struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	FromAddress string `json:"fromAddress"`
	UseTLS      bool   `json:"useTls"`
}

func (s *Server) handleGetSMTP(w http.ResponseWriter, r *http.Request) {
	settings, err := s.mailUC.GetSettings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	// Password never leaves the server.
	writeJSON(w, http.StatusOK, struct {
		Host        string    `json:"host"`
		Port        int       `json:"port"`
		Username    string    `json:"username"`
		FromAddress string    `json:"fromAddress"`
		UseTLS      bool      `json:"useTls"`
		UpdatedAt   time.Time `json:"updatedAt"`
	}{settings.Host, settings.Port, settings.Username, settings.FromAddress, settings.UseTLS, settings.UpdatedAt})
}

func (s *Server) handlePutSMTP(w http.ResponseWriter, r *http.Request) {
	var req smtpSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	settings := &model.SMTPSettings{
		Host:        req.Host,
		Port:        req.Port,
		Username:    req.Username,
		Password:    req.Password,
		FromAddress: req.FromAddress,
		UseTLS:      req.UseTLS,
	}
	if err := s.mailUC.UpdateSettings(r.Context(), settings); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSMTPTest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Template string            `json:"template"`
		To       string            `json:"to"`
		Data     map[string]string `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.mailUC.SendTest(r.Context(), req.Template, req.To, req.Data); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// --- Email templates ---

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	tpls, err := s.mailUC.ListTemplates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tpls)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := s.mailUC.GetTemplate(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) handlePutTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	tpl, err := s.mailUC.UpsertTemplate(r.Context(), chi.URLParam(r, "name"), req.Subject, req.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.mailUC.DeleteTemplate(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Provider pricing ---

func (s *Server) handleListPricing(w http.ResponseWriter, r *http.Request) {
	rows, err := s.pricingUC.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handlePutPricing(w http.ResponseWriter, r *http.Request) {
	prov, err := model.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		InputPriceMicrosPer1M  int64 `json:"inputPriceMicrosPer1M"`
		OutputPriceMicrosPer1M int64 `json:"outputPriceMicrosPer1M"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	row, err := s.pricingUC.Set(r.Context(), prov, req.InputPriceMicrosPer1M, req.OutputPriceMicrosPer1M)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleDeletePricing(w http.ResponseWriter, r *http.Request) {
	prov, err := model.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.pricingUC.Reset(r.Context(), prov); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleScanHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := s.calcUC.ScanHistory(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// --- Access grants ---

func (s *Server) handleGrantAccess(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key       string     `json:"key"`
		Product   string     `json:"product"`
		Active    bool       `json:"active"`
		ExpiresAt *time.Time `json:"expiresAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	rec, err := s.accessUC.Grant(r.Context(), req.Key, req.Product, req.Active, req.ExpiresAt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}
