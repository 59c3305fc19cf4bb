package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/procurement-tools/procdash/internal/schema"
)

func (s *Server) handleGetCategoryMapping(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": schema.Categories(),
		"mapping":    s.currentConfig().CategoryMapping,
	})
}

// handlePutCategoryMapping replaces the whole in-app mapping, the editor's
// "save" action. Unknown categories are rejected outright here, unlike sheet
// ingestion, because the editor only offers canonical names.
func (s *Server) handlePutCategoryMapping(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.decodeCategoryEntries(w, r)
	if !ok {
		return
	}
	if err := s.store.ReplaceCategoryMapping(r.Context(), entries); err != nil {
		s.logger.Error("replace category mapping failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not save category mapping")
		return
	}

	cfg := s.currentConfig().Clone()
	cfg.CategoryMapping = entries
	s.setConfig(cfg)
	respondJSON(w, http.StatusOK, map[string]interface{}{"mapping": entries})
}

// handleUpsertCategoryEntries merges entries into the mapping, last write wins.
func (s *Server) handleUpsertCategoryEntries(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.decodeCategoryEntries(w, r)
	if !ok {
		return
	}
	if err := s.store.UpsertCategoryEntries(r.Context(), entries); err != nil {
		s.logger.Error("upsert category mapping failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not save category mapping")
		return
	}

	cfg := s.currentConfig().Clone()
	for k, v := range entries {
		cfg.CategoryMapping[k] = v
	}
	s.setConfig(cfg)
	respondJSON(w, http.StatusOK, map[string]interface{}{"mapping": cfg.CategoryMapping})
}

func (s *Server) handleExportCategoryMapping(w http.ResponseWriter, _ *http.Request) {
	data, err := s.exporter.CategoryMappingXLSX(s.currentConfig().CategoryMapping)
	if err != nil {
		s.logger.Error("category mapping export failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "export failed")
		return
	}
	respondXLSX(w, "Category_Mapping.xlsx", data)
}

func (s *Server) decodeCategoryEntries(w http.ResponseWriter, r *http.Request) (map[string]string, bool) {
	var raw map[string]string
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		respondError(w, http.StatusBadRequest, "body must be a key -> category object")
		return nil, false
	}

	entries := map[string]string{}
	for key, value := range raw {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		cat, ok := schema.Canonicalize(value)
		if !ok {
			respondError(w, http.StatusUnprocessableEntity,
				"unknown category "+value+" for key "+key)
			return nil, false
		}
		entries[key] = string(cat)
	}
	return entries, true
}
