package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"

	"qrsafe/internal/forms"
	"qrsafe/internal/gate"
	"qrsafe/internal/logging"
	"qrsafe/internal/pipeline"
	"qrsafe/internal/services"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := StatusResponse{
		Running: true,
		PID:     os.Getpid(),
	}
	if s.store != nil {
		status.HistoryDBPath = s.store.Path()
		if count, err := s.store.Count(r.Context()); err == nil {
			status.HistoryCount = count
		}
	}
	s.writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	templates := forms.Templates()
	out := make([]TemplateSummary, 0, len(templates))
	for _, tmpl := range templates {
		out = append(out, TemplateSummary{
			ID:     tmpl.ID,
			Label:  tmpl.Label,
			Fields: tmpl.Fields,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string][]TemplateSummary{"templates": out})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.pipeline.Generate(r.Context(), recordFromRequest(req))
	if err != nil {
		s.writePipelineError(w, r, err)
		return
	}
	s.writeJSON(w, generateStatus(result), toGenerateResponse(result))
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.pipeline.ConfirmSummary(r.Context(), recordFromRequest(req.GenerateRequest), req.Summary)
	if err != nil {
		s.writePipelineError(w, r, err)
		return
	}
	s.writeJSON(w, generateStatus(result), toGenerateResponse(result))
}

// generateStatus maps pipeline outcomes to HTTP codes: a pending summary is a
// conflict the client must resolve before a QR code exists.
func generateStatus(result *pipeline.Result) int {
	if result.SummaryPending != nil {
		return http.StatusConflict
	}
	return http.StatusOK
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	encoded := r.URL.Query().Get("data")
	g := s.pipeline.View(encoded)
	resp := ViewResponse{State: string(g.State()), Reason: g.Reason()}
	if content, ok := g.Content(); ok {
		resp.Content = content
	}
	s.writeJSON(w, gateStatus(g, encoded), resp)
}

// gateStatus distinguishes absent data (bad request) from present-but-corrupt
// data (unprocessable).
func gateStatus(g *gate.Gate, encoded string) int {
	if g.State() != gate.StateError {
		return http.StatusOK
	}
	if encoded == "" {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}

func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req UnlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	g := s.pipeline.View(req.Data)
	if g.State() == gate.StateAwaitingPassword {
		g.Submit(req.Password)
	}

	resp := UnlockResponse{
		Unlocked: g.State() == gate.StateUnlocked,
		State:    string(g.State()),
		Reason:   g.Reason(),
	}
	if content, ok := g.Content(); ok {
		resp.Content = content
	}
	status := gateStatus(g, req.Data)
	if status == http.StatusOK && !resp.Unlocked {
		status = http.StatusUnauthorized
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeJSON(w, http.StatusOK, HistoryListResponse{Entries: []HistoryEntry{}})
		return
	}
	switch r.Method {
	case http.MethodGet:
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				s.writeError(w, http.StatusBadRequest, "invalid limit")
				return
			}
			limit = parsed
		}
		entries, err := s.store.List(r.Context(), limit)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp := HistoryListResponse{Entries: make([]HistoryEntry, 0, len(entries))}
		for _, entry := range entries {
			resp.Entries = append(resp.Entries, HistoryEntry{
				ID:          entry.ID,
				CreatedAt:   entry.CreatedAt,
				TemplateID:  entry.TemplateID,
				Template:    forms.Label(entry.TemplateID),
				DisplayName: entry.DisplayName,
			})
		}
		s.writeJSON(w, http.StatusOK, resp)
	case http.MethodDelete:
		if err := s.store.Clear(r.Context()); err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleHistoryEntry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.store == nil {
		s.writeError(w, http.StatusNotFound, "history entry not found")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/history/")
	id, wantImage := rest, false
	if trimmed, ok := strings.CutSuffix(rest, "/image"); ok {
		id, wantImage = trimmed, true
	}
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusNotFound, "history entry not found")
		return
	}

	entry, err := s.store.Get(r.Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "history entry not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if wantImage {
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(entry.QRPNG)
		return
	}
	s.writeJSON(w, http.StatusOK, HistoryEntry{
		ID:          entry.ID,
		CreatedAt:   entry.CreatedAt,
		TemplateID:  entry.TemplateID,
		Template:    forms.Label(entry.TemplateID),
		DisplayName: entry.DisplayName,
	})
}

func toGenerateResponse(result *pipeline.Result) GenerateResponse {
	if result.SummaryPending != nil {
		return GenerateResponse{
			Status:         statusSummaryPending,
			Summary:        result.SummaryPending.Summary,
			NeedsUserInput: result.SummaryPending.NeedsUserInput,
			Reason:         result.SummaryPending.Reason,
		}
	}
	return GenerateResponse{
		Status:  statusGenerated,
		EntryID: result.Generated.EntryID,
		URL:     result.Generated.URL,
		DataURI: result.Generated.DataURI,
		Payload: result.Generated.Payload,
	}
}

func (s *Server) writePipelineError(w http.ResponseWriter, r *http.Request, err error) {
	logging.WithContext(r.Context(), s.logger).Warn("request failed", logging.Error(err))
	switch {
	case errors.Is(err, services.ErrValidation):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrGeneration):
		s.writeError(w, http.StatusUnprocessableEntity, services.UserFacing(err))
	case errors.Is(err, services.ErrConfiguration):
		s.writeError(w, http.StatusServiceUnavailable, services.UserFacing(err))
	default:
		s.writeError(w, http.StatusInternalServerError, services.UserFacing(err))
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
