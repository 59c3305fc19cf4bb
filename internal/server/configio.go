package server

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/procurement-tools/procdash/internal/config"
)

const maxConfigBytes = 1 << 20

func (s *Server) handleConfigExport(w http.ResponseWriter, _ *http.Request) {
	data, err := config.ExportJSON(s.currentConfig())
	if err != nil {
		s.logger.Error("config export failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not export configuration")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="procdash-config.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleConfigImport validates an uploaded configuration document against the
// embedded JSON Schema, persists it wholesale and swaps it in.
func (s *Server) handleConfigImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxConfigBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	cfg, warnings, err := config.ImportJSON(data)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.SaveAll(r.Context(), cfg); err != nil {
		s.logger.Error("config import save failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not persist configuration")
		return
	}

	s.setConfig(cfg)
	s.logger.Info("configuration imported", zap.Int("category_entries", len(cfg.CategoryMapping)))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "imported",
		"warnings": warnings,
	})
}
