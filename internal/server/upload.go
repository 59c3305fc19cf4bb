package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/procurement-tools/procdash/internal/common"
	"github.com/procurement-tools/procdash/internal/ingest"
	"github.com/procurement-tools/procdash/internal/schema"
	"github.com/procurement-tools/procdash/internal/table"
)

// maxUploadBytes bounds workbook uploads; everything is held in memory.
const maxUploadBytes = 32 << 20

type sheetSummary struct {
	Sheet          string   `json:"sheet"`
	Present        bool     `json:"present"`
	Rows           int      `json:"rows"`
	Columns        []string `json:"columns"`
	ExpectedFields []string `json:"expected_fields"`
	RequiredFields []string `json:"required_fields"`
}

type sessionSummary struct {
	SessionID string         `json:"session_id"`
	Filename  string         `json:"filename"`
	Sheets    []sheetSummary `json:"sheets"`
	Warnings  []string       `json:"warnings"`
}

// handleUpload ingests a multipart XLSX upload, seeds the persisted category
// mapping from the workbook's Category_Mapping sheet and opens a session.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "expected a multipart upload with a 'file' part")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing 'file' part")
		return
	}
	defer file.Close()

	wb, err := ingest.ParseWorkbook(file, s.logger)
	if err != nil {
		if errors.Is(err, common.ErrBadWorkbook) {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.Error("upload parse failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not parse workbook")
		return
	}

	// merge the mapping sheet into the persisted category mapping, last write
	// wins; row warnings surface via the session summary and the health report
	if wb.CategoryMapping != nil {
		entries, _ := ingest.ParseCategoryMapping(wb.CategoryMapping)
		if len(entries) > 0 {
			if err := s.store.UpsertCategoryEntries(r.Context(), entries); err != nil {
				s.logger.Error("seed category mapping failed", zap.Error(err))
				respondError(w, http.StatusInternalServerError, "could not save category mapping")
				return
			}
			cfg := s.currentConfig().Clone()
			for k, v := range entries {
				cfg.CategoryMapping[k] = v
			}
			s.setConfig(cfg)
		}
	}

	sess := s.sessions.Create(header.Filename, wb)
	s.logger.Info("workbook uploaded",
		zap.String("session_id", sess.ID),
		zap.String("filename", sess.Filename),
	)
	respondJSON(w, http.StatusCreated, s.summarize(sess))
}

func (s *Server) handleSessionSummary(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Get(r.PathValue("id"))
	if !ok {
		respondError(w, http.StatusNotFound, "session not found or expired")
		return
	}
	respondJSON(w, http.StatusOK, s.summarize(sess))
}

func (s *Server) summarize(sess *Session) sessionSummary {
	warnings := append([]string(nil), sess.Workbook.Warnings...)
	if sess.Workbook.CategoryMapping != nil {
		_, mapWarnings := ingest.ParseCategoryMapping(sess.Workbook.CategoryMapping)
		warnings = append(warnings, mapWarnings...)
	}
	summary := sessionSummary{
		SessionID: sess.ID,
		Filename:  sess.Filename,
		Warnings:  warnings,
	}
	add := func(name string, t *table.Table) {
		sheet, _ := schema.SheetFor(name)
		sum := sheetSummary{
			Sheet:          name,
			Present:        t != nil,
			ExpectedFields: sheet.FieldNames(),
			RequiredFields: sheet.RequiredFields(),
		}
		if t != nil {
			sum.Rows = t.Len()
			sum.Columns = t.Columns
		}
		summary.Sheets = append(summary.Sheets, sum)
	}
	add(schema.SheetPRs, sess.Workbook.PRs)
	add(schema.SheetPOs, sess.Workbook.POs)
	add(schema.SheetCategoryMapping, sess.Workbook.CategoryMapping)
	return summary
}
