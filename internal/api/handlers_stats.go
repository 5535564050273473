package api

import (
	"net/http"
)

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "llm stats unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"provider": s.cfg.ExtractProvider,
		"model":    s.model(),
		"stats":    s.stats.Snapshot(),
	})
}

func (s *Server) model() string {
	if s.cfg.ExtractProvider == "claude" {
		return s.cfg.AnthropicModel
	}
	return s.cfg.GeminiModel
}
