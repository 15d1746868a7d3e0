package engine

import (
	"fmt"
	"math"
	"strings"
)

// ============================================================================
// CORE TYPES — Criteria, aggregation rows and view payloads
// ============================================================================
// Everything here is a plain value. Handlers build a Criteria from request
// state, the pipeline returns payload structs, and nothing holds a pointer
// back into the dataset. Payloads contain only finite numbers and marshal
// straight to the wire.
// ============================================================================

// CountryAll is the multi-select sentinel that disables country filtering.
const CountryAll = "All"

// Criteria captures one render's worth of filter state. MinTotal and
// MaxTotal form an inclusive range on the total column; Countries is the
// multi-select value, where an empty list or the sentinel means no
// restriction. A Criteria with MinTotal greater than MaxTotal is vacuous
// and matches nothing.
type Criteria struct {
	MinTotal  float64
	MaxTotal  float64
	Countries []string
}

// Unbounded returns a Criteria whose range admits every finite total and
// whose selection is the sentinel.
func Unbounded() Criteria {
	return Criteria{
		MinTotal:  math.Inf(-1),
		MaxTotal:  math.Inf(1),
		Countries: []string{CountryAll},
	}
}

// HasCountryFilter reports whether the selection names specific countries.
// An empty selection, or one containing the sentinel, admits every
// country.
func (c Criteria) HasCountryFilter() bool {
	if len(c.Countries) == 0 {
		return false
	}
	for _, name := range c.Countries {
		if strings.EqualFold(name, CountryAll) {
			return false
		}
	}
	return true
}

// CountrySum is one country's aggregated total.
type CountrySum struct {
	Country string  `json:"country"`
	Total   float64 `json:"total"`
}

// ShareSlice is one country's percentage of a combined total.
type ShareSlice struct {
	Country string  `json:"country"`
	Total   float64 `json:"total"`
	Share   float64 `json:"share"`
}

// RegionSlice is one country's total nested under its region.
type RegionSlice struct {
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Total   float64 `json:"total"`
}

// MapPoint is one plottable country marker.
type MapPoint struct {
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Total     float64 `json:"total"`
	Radius    float64 `json:"radius"`
}

// BarView ranks countries by summed total, largest first.
type BarView struct {
	Bars []CountrySum `json:"bars"`
}

// ShareView holds each country's percentage of the combined total.
type ShareView struct {
	Slices     []ShareSlice `json:"slices"`
	GrandTotal float64      `json:"grandTotal"`
}

// SpotlightView is a ShareView restricted to a fixed allow-list.
type SpotlightView struct {
	Slices     []ShareSlice `json:"slices"`
	GrandTotal float64      `json:"grandTotal"`
	Allowed    []string     `json:"allowed"`
}

// TreemapView nests country totals under regions. Countries absent from
// the region table are listed in Unmapped and omitted from Slices.
type TreemapView struct {
	Slices   []RegionSlice `json:"slices"`
	Unmapped []string      `json:"unmapped,omitempty"`
}

// HistogramView bins the total column. Edges has one more entry than
// Counts; every bucket is half-open except the last, which includes its
// upper edge.
type HistogramView struct {
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
}

// MapView holds the plottable markers.
type MapView struct {
	Points []MapPoint `json:"points"`
}

// TableView is the records grid: canonical columns and formatted rows.
type TableView struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// SummaryView holds the dashboard's headline figures.
type SummaryView struct {
	Records            int     `json:"records"`
	Countries          int     `json:"countries"`
	Total              float64 `json:"total"`
	Individuals        float64 `json:"individuals"`
	FamilyHouseholds   float64 `json:"familyHouseholds"`
	Veterans           float64 `json:"veterans"`
	UnaccompaniedYouth float64 `json:"unaccompaniedYouth"`
	TopCountry         string  `json:"topCountry,omitempty"`
	TopTotal           float64 `json:"topTotal"`
}

// ViewKind names one buildable view.
type ViewKind string

const (
	ViewBar       ViewKind = "bar"
	ViewShare     ViewKind = "share"
	ViewSpotlight ViewKind = "spotlight"
	ViewTreemap   ViewKind = "treemap"
	ViewHistogram ViewKind = "histogram"
	ViewMap       ViewKind = "map"
	ViewTable     ViewKind = "table"
	ViewSummary   ViewKind = "summary"
)

// ParseViewKind maps a route segment to a ViewKind.
func ParseViewKind(s string) (ViewKind, error) {
	kind := ViewKind(strings.ToLower(strings.TrimSpace(s)))
	switch kind {
	case ViewBar, ViewShare, ViewSpotlight, ViewTreemap,
		ViewHistogram, ViewMap, ViewTable, ViewSummary:
		return kind, nil
	}
	return "", fmt.Errorf("unknown view kind %q", s)
}

// EmptyResultWarning signals that a view evaluated to no data. It is a
// value, not an error: an empty result is a valid outcome the dashboard
// renders as a no-data state, never a failure it reports.
type EmptyResultWarning struct {
	View   string `json:"view"`
	Reason string `json:"reason"`
}

// Message returns the user-facing no-data line.
func (w *EmptyResultWarning) Message() string {
	if w == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", w.View, w.Reason)
}

// ViewResult is the outcome of building one view: the kind, exactly one
// populated payload, and the empty warning when the view held no data.
type ViewResult struct {
	Kind      ViewKind            `json:"kind"`
	Bar       *BarView            `json:"bar,omitempty"`
	Share     *ShareView          `json:"share,omitempty"`
	Spotlight *SpotlightView      `json:"spotlight,omitempty"`
	Treemap   *TreemapView        `json:"treemap,omitempty"`
	Histogram *HistogramView      `json:"histogram,omitempty"`
	Map       *MapView            `json:"map,omitempty"`
	Table     *TableView          `json:"table,omitempty"`
	Summary   *SummaryView        `json:"summary,omitempty"`
	Empty     *EmptyResultWarning `json:"empty,omitempty"`
}

// Payload returns the kind-specific payload for wire encoding.
func (r *ViewResult) Payload() any {
	switch r.Kind {
	case ViewBar:
		return r.Bar
	case ViewShare:
		return r.Share
	case ViewSpotlight:
		return r.Spotlight
	case ViewTreemap:
		return r.Treemap
	case ViewHistogram:
		return r.Histogram
	case ViewMap:
		return r.Map
	case ViewTable:
		return r.Table
	case ViewSummary:
		return r.Summary
	}
	return nil
}
