package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/spektr-org/aadhaar-pulse/engine"
	"github.com/spektr-org/aadhaar-pulse/helpers"
	"github.com/spektr-org/aadhaar-pulse/schema"
)

var (
	errUnknownTable = errors.New("unknown table")
	errBadFormat    = errors.New("unsupported format")
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Query parameters that are not filters.
var reservedParams = []string{"format"}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"snapshot":  s.dataset.ID,
		"source":    s.dataset.Source,
		"loadedAt":  s.dataset.LoadedAt,
		"records":   s.dataset.Len(),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
		"timestamp": time.Now().UTC(),
	})
}

// optionsResponse feeds the dashboard sidebar.
type optionsResponse struct {
	Filter  engine.FilterSpec    `json:"filter"`
	Choices engine.FilterChoices `json:"choices"`
	Tables  []string             `json:"tables"`
	Schema  schema.Config        `json:"schema"`
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	spec, err := s.translator.FromValues(r.URL.Query(), reservedParams...)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, optionsResponse{
		Filter:  spec,
		Choices: engine.FilterOptions(s.dataset.View(), spec),
		Tables:  engine.TableNames(),
		Schema:  s.profile,
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, ok := s.filteredDashboard(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	d, ok := s.filteredDashboard(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	var buf bytes.Buffer
	if err := helpers.WriteReport(&buf, d.Report, format); err != nil {
		s.respondErr(w, r, fmt.Errorf("%w %q for report", errBadFormat, format))
		return
	}

	switch format {
	case helpers.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
	case helpers.FormatText:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	default:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !lo.Contains(engine.TableNames(), name) {
		s.respondErr(w, r, fmt.Errorf("%w %q", errUnknownTable, name))
		return
	}

	d, ok := s.filteredDashboard(w, r)
	if !ok {
		return
	}
	table, found := d.Table(name)
	if !found {
		s.respondErr(w, r, fmt.Errorf("%w %q", errUnknownTable, name))
		return
	}

	format := r.URL.Query().Get("format")
	var (
		buf         bytes.Buffer
		contentType string
		err         error
	)
	switch format {
	case "", "json":
		respondJSON(w, http.StatusOK, table)
		return
	case "csv":
		contentType = "text/csv; charset=utf-8"
		err = helpers.WriteCSV(&buf, table)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, name))
	case "text":
		contentType = "text/plain; charset=utf-8"
		err = helpers.WriteText(&buf, table)
	case "xlsx":
		contentType = xlsxContentType
		err = helpers.WriteXLSX(&buf, table)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, name))
	default:
		s.respondErr(w, r, fmt.Errorf("%w %q for tables", errBadFormat, format))
		return
	}
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	d, ok := s.filteredDashboard(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := helpers.WriteXLSX(&buf, d.Tables...); err != nil {
		s.respondErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="aadhaar-pulse.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// filteredDashboard parses the request's filters and returns the dashboard,
// writing the error response itself when it fails.
func (s *Server) filteredDashboard(w http.ResponseWriter, r *http.Request) (*engine.Dashboard, bool) {
	spec, err := s.translator.FromValues(r.URL.Query(), reservedParams...)
	if err != nil {
		s.respondErr(w, r, err)
		return nil, false
	}
	d, err := s.dashboard(r.Context(), spec)
	if err != nil {
		s.respondErr(w, r, err)
		return nil, false
	}
	return d, true
}
