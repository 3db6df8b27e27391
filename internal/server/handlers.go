package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/truevail/internal/model"
)

// errorResponse is the generic error envelope
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "truevail",
		"version": s.version,
		"status":  "running",
		"endpoints": []string{
			"POST /analyze",
			"GET /health",
			"GET /ready",
			"GET /metrics",
		},
		"types": model.Kinds,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady always answers 200: the heuristic fallback serves requests
// even while no model client exists.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ready",
		"model_ready": s.analyzer.Ready(),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)

	var req model.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large",
				fmt.Sprintf("Request body exceeds %d bytes.", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", "Request body must be a JSON object.")
		return
	}

	if strings.TrimSpace(req.Content) == "" && strings.TrimSpace(req.ImageData) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "Provide text or image_data to analyze.")
		return
	}

	req.Kind = model.ParseKind(string(req.Kind))
	result := s.analyzer.Analyze(r.Context(), req)
	s.metrics.RecordVerdict(req.Kind, result.Source)

	s.logger.Debug("analysis complete",
		zap.String("request_id", RequestIDFromContext(r.Context())),
		zap.String("kind", string(req.Kind)),
		zap.String("status", result.Status),
		zap.String("source", string(result.Source)))

	writeJSON(w, http.StatusOK, result)
}
