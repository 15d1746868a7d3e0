package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/spektr-org/homesight/engine"
	"github.com/spektr-org/homesight/export"
	"github.com/spektr-org/homesight/render"
)

// ============================================================================
// HANDLERS — JSON API over the filter-and-aggregate pipeline
// ============================================================================
// Every JSON response uses one envelope: status "ok" with data, status
// "empty" with a no-data message when a view evaluates to nothing, or
// status "error" with a message. Handlers parse criteria, filter the
// shared view and hand off to the engine; no aggregation happens here.
// ============================================================================

// response is the wire envelope for every JSON endpoint.
type response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

const (
	statusOK    = "ok"
	statusEmpty = "empty"
	statusError = "error"
)

// maxHistogramBins caps the bins query parameter.
const maxHistogramBins = 100

func (s *Server) writeJSON(w http.ResponseWriter, code int, body response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Warn("encode response", zap.Error(err))
	}
}

// criteriaFromRequest builds Criteria from query parameters. Absent bounds
// stay infinite; countries is a comma-separated list where the sentinel
// "All" disables country filtering.
func criteriaFromRequest(r *http.Request) (engine.Criteria, error) {
	c := engine.Unbounded()
	q := r.URL.Query()

	if raw := q.Get("min_total"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) {
			return c, fmt.Errorf("min_total: not a number: %q", raw)
		}
		c.MinTotal = v
	}
	if raw := q.Get("max_total"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) {
			return c, fmt.Errorf("max_total: not a number: %q", raw)
		}
		c.MaxTotal = v
	}
	if raw := q.Get("countries"); raw != "" {
		parts := strings.Split(raw, ",")
		countries := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				countries = append(countries, p)
			}
		}
		c.Countries = countries
	}
	return c, nil
}

// handleView serves GET /api/v1/views/{view}.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	kind, err := engine.ParseViewKind(mux.Vars(r)["view"])
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, response{Status: statusError, Message: err.Error()})
		return
	}

	criteria, err := criteriaFromRequest(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, response{Status: statusError, Message: err.Error()})
		return
	}

	opts := []engine.Option{
		engine.WithRegions(s.cfg.Regions),
		engine.WithSpotlight(s.cfg.Views.Spotlight),
		engine.WithBins(s.cfg.Views.HistogramBins),
	}
	if raw := r.URL.Query().Get("bins"); raw != "" {
		bins, err := strconv.Atoi(raw)
		if err != nil || bins < 1 || bins > maxHistogramBins {
			s.writeJSON(w, http.StatusBadRequest, response{
				Status:  statusError,
				Message: fmt.Sprintf("bins must be an integer between 1 and %d", maxHistogramBins),
			})
			return
		}
		opts = append(opts, engine.WithBins(bins))
	}

	filtered := engine.Filter(s.store.View(), criteria)
	result, err := engine.Build(kind, filtered, opts...)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, response{Status: statusError, Message: err.Error()})
		return
	}

	if result.Empty != nil {
		s.writeJSON(w, http.StatusOK, response{
			Status:  statusEmpty,
			Message: result.Empty.Message(),
			Data:    result.Payload(),
		})
		return
	}
	s.writeJSON(w, http.StatusOK, response{Status: statusOK, Data: result.Payload()})
}

// controlsPayload describes the filter widgets: slider bounds from the
// data, configured defaults clamped into them, and the country options
// headed by the sentinel.
type controlsPayload struct {
	MinTotal        float64  `json:"minTotal"`
	MaxTotal        float64  `json:"maxTotal"`
	DefaultMinTotal float64  `json:"defaultMinTotal"`
	DefaultMaxTotal float64  `json:"defaultMaxTotal"`
	Countries       []string `json:"countries"`
}

// handleControls serves GET /api/v1/controls.
func (s *Server) handleControls(w http.ResponseWriter, r *http.Request) {
	view := s.store.View()

	lo, hi, ok := engine.TotalBounds(view)
	if !ok {
		s.writeJSON(w, http.StatusOK, response{
			Status:  statusEmpty,
			Message: "dataset has no finite totals to bound the range slider",
		})
		return
	}

	defMin := clamp(s.cfg.Dataset.DefaultMinTotal, lo, hi)
	defMax := clamp(s.cfg.Dataset.DefaultMaxTotal, lo, hi)
	if defMin > defMax {
		defMin, defMax = lo, hi
	}

	countries := append([]string{engine.CountryAll}, engine.Countries(view)...)

	s.writeJSON(w, http.StatusOK, response{Status: statusOK, Data: controlsPayload{
		MinTotal:        lo,
		MaxTotal:        hi,
		DefaultMinTotal: defMin,
		DefaultMaxTotal: defMax,
		Countries:       countries,
	}})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// statePayload reports the dataset lifecycle to the dashboard shell.
type statePayload struct {
	State    DatasetState `json:"state"`
	Source   string       `json:"source"`
	Records  int          `json:"records"`
	Skipped  int          `json:"skipped,omitempty"`
	LoadedAt time.Time    `json:"loadedAt"`
	Message  string       `json:"message,omitempty"`
}

// handleState serves GET /api/v1/state.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state, ds, message := s.store.Snapshot()
	s.writeJSON(w, http.StatusOK, response{Status: statusOK, Data: statePayload{
		State:    state,
		Source:   ds.Source,
		Records:  ds.Len(),
		Skipped:  ds.Skipped,
		LoadedAt: ds.LoadedAt,
		Message:  message,
	}})
}

// handleReload serves POST /api/v1/reload. A memoized source returns
// immediately; a previously failed source is retried. A schema mismatch
// reports an error and leaves the current dataset serving.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.LoadDataset(r.Context()); err != nil {
		s.writeJSON(w, http.StatusInternalServerError, response{Status: statusError, Message: err.Error()})
		return
	}
	s.handleState(w, r)
}

// handleExportCSV serves GET /api/v1/export.csv.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromRequest(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, response{Status: statusError, Message: err.Error()})
		return
	}
	filtered := engine.Filter(s.store.View(), criteria)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="homesight.csv"`)
	if err := export.WriteCSV(w, filtered); err != nil {
		s.log.Warn("csv export", zap.Error(err))
	}
}

// handleExportXLSX serves GET /api/v1/export.xlsx. The workbook is built
// in memory so a build failure can still produce a clean error response.
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromRequest(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, response{Status: statusError, Message: err.Error()})
		return
	}
	filtered := engine.Filter(s.store.View(), criteria)

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, filtered, engine.SumByCountry(filtered)); err != nil {
		s.log.Warn("xlsx export", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, response{Status: statusError, Message: "export failed"})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="homesight.xlsx"`)
	w.Write(buf.Bytes())
}

// handleChartPNG serves GET /api/v1/charts/{chart}.png. An empty view is
// a 404 with the empty envelope rather than a broken image.
func (s *Server) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromRequest(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, response{Status: statusError, Message: err.Error()})
		return
	}
	filtered := engine.Filter(s.store.View(), criteria)

	var buf bytes.Buffer
	switch mux.Vars(r)["chart"] {
	case "bar":
		bar, empty := engine.BuildBar(filtered)
		if empty != nil {
			s.writeJSON(w, http.StatusNotFound, response{Status: statusEmpty, Message: empty.Message()})
			return
		}
		err = render.BarPNG(&buf, bar.Bars)
	case "share":
		share, empty := engine.BuildShare(filtered)
		if empty != nil {
			s.writeJSON(w, http.StatusNotFound, response{Status: statusEmpty, Message: empty.Message()})
			return
		}
		err = render.SharePNG(&buf, share.Slices)
	default:
		s.writeJSON(w, http.StatusNotFound, response{Status: statusError, Message: "unknown chart"})
		return
	}
	if err != nil {
		s.log.Warn("chart render", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, response{Status: statusError, Message: "chart render failed"})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

// handleHealthz serves GET /healthz.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, response{Status: statusOK})
}
