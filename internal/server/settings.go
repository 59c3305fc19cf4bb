package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/procurement-tools/procdash/internal/config"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.currentConfig().Settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings config.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		respondError(w, http.StatusBadRequest, "invalid settings body")
		return
	}

	switch settings.DateFormat {
	case "auto", "dd-mm-yyyy", "yyyy-mm-dd":
	default:
		respondError(w, http.StatusUnprocessableEntity,
			"date_format must be auto, dd-mm-yyyy or yyyy-mm-dd")
		return
	}
	settings.PROpenStatuses = trimAll(settings.PROpenStatuses)
	settings.POOpenDeliveryStatuses = trimAll(settings.POOpenDeliveryStatuses)
	if settings.CategoryColors == nil {
		settings.CategoryColors = s.currentConfig().Settings.CategoryColors
	}

	if err := s.store.SaveSettings(r.Context(), settings); err != nil {
		s.logger.Error("save settings failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not save settings")
		return
	}

	cfg := s.currentConfig().Clone()
	cfg.Settings = settings
	s.setConfig(cfg)
	respondJSON(w, http.StatusOK, settings)
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
