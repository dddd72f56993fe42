package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/smartdwell/dwellsearch/internal/models"
	"github.com/smartdwell/dwellsearch/internal/store"
	"go.uber.org/zap"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("search request",
		zap.String("query", req.Query),
		zap.String("mode", string(req.Mode)),
		zap.Int("limit", req.Limit))
	resp, err := s.engine.Search(r.Context(), &req)
	if err != nil {
		s.respondEngineError(w, "search failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.Stats(r.Context())
	if err != nil {
		s.respondEngineError(w, "stats failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	raw, err := s.store.Get(r.Context(), s.indices.Properties, id)
	if err != nil {
		s.respondEngineError(w, "get property failed", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := s.engine.Recommend(r.Context(), id, limit)
	if err != nil {
		s.respondEngineError(w, "recommendations failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"property_id":     id,
		"recommendations": results,
		"total":           len(results),
	})
}

func (s *Server) handleIndexProperty(w http.ResponseWriter, r *http.Request) {
	var prop models.Property
	if err := json.NewDecoder(r.Body).Decode(&prop); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := prop.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	now := time.Now().UTC()
	if prop.CreatedAt.IsZero() {
		prop.CreatedAt = now
	}
	prop.UpdatedAt = now
	if err := s.store.IndexDocument(r.Context(), s.indices.Properties, prop.PropertyID, &prop, true); err != nil {
		s.respondEngineError(w, "index property failed", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{"id": prop.PropertyID, "status": "indexed"})
}

func (s *Server) handleBulkProperties(w http.ResponseWriter, r *http.Request) {
	var props []*models.Property
	if err := json.NewDecoder(r.Body).Decode(&props); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := s.loader.LoadProperties(r.Context(), props)
	if err != nil {
		s.respondEngineError(w, "bulk index failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateInquiry(w http.ResponseWriter, r *http.Request) {
	var inq models.Inquiry
	if err := json.NewDecoder(r.Body).Decode(&inq); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if inq.PropertyID == "" || inq.UserName == "" {
		s.respondError(w, http.StatusBadRequest, "property_id and user_name are required")
		return
	}
	inq.InquiryID = uuid.NewString()
	if inq.Status == "" {
		inq.Status = "new"
	}
	now := time.Now().UTC()
	inq.CreatedAt = now
	inq.UpdatedAt = now
	if err := s.store.IndexDocument(r.Context(), s.indices.Inquiries, inq.InquiryID, &inq, true); err != nil {
		s.respondEngineError(w, "create inquiry failed", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{"inquiry_id": inq.InquiryID, "status": inq.Status})
}

func (s *Server) handleScheduleVisit(w http.ResponseWriter, r *http.Request) {
	var visit models.SiteVisit
	if err := json.NewDecoder(r.Body).Decode(&visit); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if visit.PropertyID == "" || visit.UserName == "" {
		s.respondError(w, http.StatusBadRequest, "property_id and user_name are required")
		return
	}
	visit.VisitID = uuid.NewString()
	if visit.Status == "" {
		visit.Status = "requested"
	}
	now := time.Now().UTC()
	visit.CreatedAt = now
	visit.UpdatedAt = now
	if err := s.store.IndexDocument(r.Context(), s.indices.SiteVisits, visit.VisitID, &visit, true); err != nil {
		s.respondEngineError(w, "schedule visit failed", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{"visit_id": visit.VisitID, "status": visit.Status})
}

func (s *Server) handleSaveChatMessage(w http.ResponseWriter, r *http.Request) {
	var msg models.ConversationMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	msg.SessionID = chi.URLParam(r, "session")
	if msg.Role == "" {
		msg.Role = models.RoleUser
	}
	if err := s.convlog.SaveMessage(r.Context(), &msg); err != nil {
		s.respondEngineError(w, "save message failed", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{"status": "saved"})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	session := chi.URLParam(r, "session")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	messages, err := s.convlog.History(r.Context(), session, limit)
	if err != nil {
		s.respondEngineError(w, "history failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"session_id": session,
		"messages":   messages,
		"total":      len(messages),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ai := "disconnected"
	if s.aiAvailable {
		ai = "connected"
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "dwellsearch",
		"services": map[string]string{
			"document_store": "connected",
			"ai_platform":    ai,
		},
	})
}

// respondEngineError maps the error taxonomy onto status codes: a missing
// document is 404, an unreachable store is 503, anything else is 500.
func (s *Server) respondEngineError(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, zap.Error(err))
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrUnavailable):
		s.respondError(w, http.StatusServiceUnavailable, "document store unavailable")
	default:
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
