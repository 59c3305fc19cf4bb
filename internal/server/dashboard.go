package server

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/procurement-tools/procdash/internal/dashboard"
	"github.com/procurement-tools/procdash/internal/filter"
	"github.com/procurement-tools/procdash/internal/schema"
	"github.com/procurement-tools/procdash/internal/table"
)

// snapshotForRequest resolves the session and derives its snapshot plus the
// filter selection from the query string. A nil snapshot means the response has
// already been written.
func (s *Server) snapshotForRequest(w http.ResponseWriter, r *http.Request) (*dashboard.Snapshot, filter.Selection, bool) {
	sess, ok := s.sessions.Get(r.PathValue("id"))
	if !ok {
		respondError(w, http.StatusNotFound, "session not found or expired")
		return nil, filter.Selection{}, false
	}

	cfg := s.currentConfig()
	sel, bad := filter.FromQuery(r.URL.Query(), table.DateFormat(cfg.Settings.DateFormat))
	if len(bad) > 0 {
		respondError(w, http.StatusBadRequest,
			"invalid date parameter(s): "+strings.Join(bad, ", ")+" (want YYYY-MM-DD)")
		return nil, filter.Selection{}, false
	}

	return s.svc.Build(sess.Workbook, cfg), sel, true
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, sel, ok := s.snapshotForRequest(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.svc.Dashboard(snap, sel, s.currentConfig()))
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	snap, sel, ok := s.snapshotForRequest(w, r)
	if !ok {
		return
	}
	t, ok := filteredSheet(snap, sel, r.PathValue("sheet"))
	if !ok {
		respondError(w, http.StatusNotFound, "unknown sheet; use PRs or POs")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sheet": r.PathValue("sheet"),
		"rows":  t.Len(),
		"table": t,
	})
}

func (s *Server) handleExportSheet(w http.ResponseWriter, r *http.Request) {
	snap, sel, ok := s.snapshotForRequest(w, r)
	if !ok {
		return
	}
	sheet := r.PathValue("sheet")
	t, ok := filteredSheet(snap, sel, sheet)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown sheet; use PRs or POs")
		return
	}

	data, err := s.exporter.TableXLSX(t, sheet)
	if err != nil {
		s.logger.Error("sheet export failed", zap.String("sheet", sheet), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "export failed")
		return
	}
	respondXLSX(w, sheet+"_filtered.xlsx", data)
}

func (s *Server) handleDataHealth(w http.ResponseWriter, r *http.Request) {
	snap, _, ok := s.snapshotForRequest(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.svc.Health(snap, s.currentConfig()))
}

func filteredSheet(snap *dashboard.Snapshot, sel filter.Selection, sheet string) (*table.Table, bool) {
	switch sheet {
	case schema.SheetPRs:
		return sel.PRs(snap.PRs), true
	case schema.SheetPOs:
		return sel.POs(snap.POs), true
	}
	return nil, false
}
