package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/procurement-tools/procdash/internal/schema"
)

func recordSheetFromPath(r *http.Request) (string, bool) {
	sheet := r.PathValue("sheet")
	return sheet, sheet == schema.SheetPRs || sheet == schema.SheetPOs
}

func (s *Server) handleGetMapping(w http.ResponseWriter, r *http.Request) {
	sheet, ok := recordSheetFromPath(r)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown sheet; use PRs or POs")
		return
	}
	def, _ := schema.SheetFor(sheet)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sheet":           sheet,
		"mapping":         s.currentConfig().ColumnMap(sheet),
		"expected_fields": def.FieldNames(),
		"required_fields": def.RequiredFields(),
	})
}

// handlePutMapping replaces the column map of one sheet. Fields must be from the
// sheet's expected field list; source columns are free-form since they name the
// user's uploaded columns.
func (s *Server) handlePutMapping(w http.ResponseWriter, r *http.Request) {
	sheet, ok := recordSheetFromPath(r)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown sheet; use PRs or POs")
		return
	}

	var mapping map[string]string
	if err := json.NewDecoder(r.Body).Decode(&mapping); err != nil {
		respondError(w, http.StatusBadRequest, "body must be a field -> source column object")
		return
	}

	def, _ := schema.SheetFor(sheet)
	known := map[string]struct{}{}
	for _, f := range def.Fields {
		known[f.Name] = struct{}{}
	}
	for field := range mapping {
		if _, ok := known[field]; !ok {
			respondError(w, http.StatusUnprocessableEntity, "unknown field "+field)
			return
		}
	}

	if err := s.store.SaveColumnMap(r.Context(), sheet, mapping); err != nil {
		s.logger.Error("save column map failed", zap.String("sheet", sheet), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not save mapping")
		return
	}

	cfg := s.currentConfig().Clone()
	cleaned := map[string]string{}
	for field, source := range mapping {
		if source != "" {
			cleaned[field] = source
		}
	}
	cfg.ColumnMaps[sheet] = cleaned
	s.setConfig(cfg)

	respondJSON(w, http.StatusOK, map[string]interface{}{"sheet": sheet, "mapping": cleaned})
}
