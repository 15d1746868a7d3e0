package engine

import (
	"math"
	"reflect"
	"testing"

	"github.com/spektr-org/homesight/dataset"
)

// ============================================================================
// VIEW BUILDER TESTS
// ============================================================================

var spotlightAllow = []string{"United States", "Australia", "Japan"}

var testRegions = map[string]string{
	"United States":  "North America",
	"Canada":         "North America",
	"Mexico":         "North America",
	"United Kingdom": "Europe",
	"Germany":        "Europe",
	"France":         "Europe",
	"Japan":          "Asia",
	"India":          "Asia",
	"Australia":      "Oceania",
}

func TestBuildBar(t *testing.T) {
	view := testView(rec("Japan", 4977), rec("United States", 567715), rec("Japan", 23))

	bar, warn := BuildBar(view)
	if warn != nil {
		t.Fatalf("unexpected warning: %v", warn.Message())
	}
	want := []CountrySum{{Country: "United States", Total: 567715}, {Country: "Japan", Total: 5000}}
	if !reflect.DeepEqual(bar.Bars, want) {
		t.Errorf("Bars = %v, want %v", bar.Bars, want)
	}
}

func TestBuildBarEmpty(t *testing.T) {
	bar, warn := BuildBar(testView())
	if warn == nil {
		t.Fatal("want an empty-result warning")
	}
	if warn.Reason != "no rows match the current filters" {
		t.Errorf("Reason = %q", warn.Reason)
	}
	if bar == nil || bar.Bars == nil || len(bar.Bars) != 0 {
		t.Errorf("payload = %+v, want non-nil with an empty slice", bar)
	}
}

func TestBuildShare(t *testing.T) {
	view := testView(rec("A", 150), rec("B", 50))

	share, warn := BuildShare(view)
	if warn != nil {
		t.Fatalf("unexpected warning: %v", warn.Message())
	}
	if share.GrandTotal != 200 {
		t.Errorf("GrandTotal = %v, want 200", share.GrandTotal)
	}
	want := []ShareSlice{
		{Country: "A", Total: 150, Share: 75},
		{Country: "B", Total: 50, Share: 25},
	}
	if !reflect.DeepEqual(share.Slices, want) {
		t.Errorf("Slices = %v, want %v", share.Slices, want)
	}
}

func TestBuildShareZeroGrandTotal(t *testing.T) {
	view := testView(rec("A", 0), rec("B", 0))

	share, warn := BuildShare(view)
	if warn == nil {
		t.Fatal("want a warning: a zero grand total cannot be shared out")
	}
	if warn.Reason != "no positive totals to share out" {
		t.Errorf("Reason = %q", warn.Reason)
	}
	if len(share.Slices) != 0 {
		t.Errorf("len(Slices) = %d, want 0", len(share.Slices))
	}
}

func TestBuildSpotlight(t *testing.T) {
	view := testView(
		rec("United States", 300),
		rec("Germany", 262600),
		rec("Australia", 100),
		rec("Japan", 100),
	)

	sp, warn := BuildSpotlight(view, spotlightAllow)
	if warn != nil {
		t.Fatalf("unexpected warning: %v", warn.Message())
	}
	if sp.GrandTotal != 500 {
		t.Errorf("GrandTotal = %v, want 500: Germany stays outside the spotlight", sp.GrandTotal)
	}
	want := []ShareSlice{
		{Country: "United States", Total: 300, Share: 60},
		{Country: "Australia", Total: 100, Share: 20},
		{Country: "Japan", Total: 100, Share: 20},
	}
	if !reflect.DeepEqual(sp.Slices, want) {
		t.Errorf("Slices = %v, want %v", sp.Slices, want)
	}
	if !reflect.DeepEqual(sp.Allowed, spotlightAllow) {
		t.Errorf("Allowed = %v, want %v", sp.Allowed, spotlightAllow)
	}
}

func TestBuildSpotlightEmpty(t *testing.T) {
	sp, warn := BuildSpotlight(testView(rec("Germany", 262600)), spotlightAllow)
	if warn == nil {
		t.Fatal("want an empty-result warning")
	}
	if warn.Reason != "no data available for the selected countries" {
		t.Errorf("Reason = %q", warn.Reason)
	}
	if len(sp.Slices) != 0 {
		t.Errorf("len(Slices) = %d, want 0", len(sp.Slices))
	}
}

func TestBuildTreemap(t *testing.T) {
	view := testView(
		rec("India", 1770000),
		rec("United States", 567715),
		rec("Atlantis", 5),
	)

	tm, warn := BuildTreemap(view, testRegions)
	if warn != nil {
		t.Fatalf("unexpected warning: %v", warn.Message())
	}
	want := []RegionSlice{
		{Region: "Asia", Country: "India", Total: 1770000},
		{Region: "North America", Country: "United States", Total: 567715},
	}
	if !reflect.DeepEqual(tm.Slices, want) {
		t.Errorf("Slices = %v, want %v", tm.Slices, want)
	}
	if !reflect.DeepEqual(tm.Unmapped, []string{"Atlantis"}) {
		t.Errorf("Unmapped = %v, want [Atlantis]", tm.Unmapped)
	}
}

func TestBuildTreemapNoMatches(t *testing.T) {
	tm, warn := BuildTreemap(testView(rec("Atlantis", 5)), testRegions)
	if warn == nil {
		t.Fatal("want an empty-result warning")
	}
	if warn.Reason != "no filtered country appears in the region table" {
		t.Errorf("Reason = %q", warn.Reason)
	}
	if tm.Slices == nil || len(tm.Slices) != 0 {
		t.Errorf("Slices = %v, want empty non-nil", tm.Slices)
	}
}

func TestBuildHistogramView(t *testing.T) {
	view := testView(rec("A", 0), rec("B", 5), rec("C", 10))

	hv, warn := BuildHistogram(view, 5)
	if warn != nil {
		t.Fatalf("unexpected warning: %v", warn.Message())
	}
	if len(hv.Edges) != 6 || len(hv.Counts) != 5 {
		t.Errorf("len(Edges) = %d, len(Counts) = %d, want 6 and 5", len(hv.Edges), len(hv.Counts))
	}
}

func TestBuildHistogramNoFinite(t *testing.T) {
	hv, warn := BuildHistogram(testView(rec("A", math.NaN())), 10)
	if warn == nil || warn.Reason != "no finite totals to bin" {
		t.Fatalf("warning = %v, want the no-finite-totals reason", warn)
	}
	if hv.Edges == nil || hv.Counts == nil {
		t.Error("payload slices must stay non-nil")
	}
}

func TestBuildMap(t *testing.T) {
	view := testView(
		dataset.Record{Country: "United States", Total: 567715, Latitude: 37.0902, Longitude: -95.7129},
		dataset.Record{Country: "Nowhere", Total: 100, Latitude: math.NaN(), Longitude: 10},
		dataset.Record{Country: "Australia", Total: math.NaN(), Latitude: -25.2744, Longitude: 133.7751},
	)

	mv, warn := BuildMap(view)
	if warn != nil {
		t.Fatalf("unexpected warning: %v", warn.Message())
	}
	if len(mv.Points) != 1 {
		t.Fatalf("len(Points) = %d, want 1: rows without a full position drop", len(mv.Points))
	}
	p := mv.Points[0]
	if p.Country != "United States" || p.Radius != 56.7715 {
		t.Errorf("point = %+v, want United States with radius 56.7715", p)
	}
}

func TestBuildMapEmpty(t *testing.T) {
	mv, warn := BuildMap(testView())
	if warn == nil || warn.Reason != "no rows with plottable coordinates" {
		t.Fatalf("warning = %v, want the no-coordinates reason", warn)
	}
	if mv.Points == nil || len(mv.Points) != 0 {
		t.Errorf("Points = %v, want empty non-nil", mv.Points)
	}
}

func TestBuildTable(t *testing.T) {
	view := testView(dataset.Record{
		Country:            "United States",
		Total:              567715,
		Individuals:        369081,
		FamilyHouseholds:   171670,
		Veterans:           37085,
		UnaccompaniedYouth: 35038,
		Latitude:           37.0902,
		Longitude:          -95.7129,
	})

	tv, warn := BuildTable(view)
	if warn != nil {
		t.Fatalf("unexpected warning: %v", warn.Message())
	}
	if !reflect.DeepEqual(tv.Columns, dataset.Columns()) {
		t.Errorf("Columns = %v, want canonical order", tv.Columns)
	}
	want := []string{"United States", "567,715", "369,081", "171,670", "37,085", "35,038", "37.0902", "-95.7129"}
	if !reflect.DeepEqual(tv.Rows[0], want) {
		t.Errorf("row = %v, want %v", tv.Rows[0], want)
	}
}

func TestBuildTableBlanksNaN(t *testing.T) {
	view := testView(dataset.Record{Country: "Iceland", Total: math.NaN(), Latitude: math.NaN(), Longitude: -19.0208})

	tv, warn := BuildTable(view)
	if warn != nil {
		t.Fatalf("unexpected warning: %v", warn.Message())
	}
	row := tv.Rows[0]
	if row[1] != "" || row[6] != "" {
		t.Errorf("row = %v, want blank cells where the source held NaN", row)
	}
	if row[7] != "-19.0208" {
		t.Errorf("longitude = %q, want %q", row[7], "-19.0208")
	}
}

func TestBuildSummary(t *testing.T) {
	view := testView(
		dataset.Record{Country: "United States", Total: 567715, Individuals: 369081, FamilyHouseholds: 171670, Veterans: 37085, UnaccompaniedYouth: 35038},
		dataset.Record{Country: "Japan", Total: 4977, Individuals: 3992, FamilyHouseholds: 985},
		dataset.Record{Country: "Japan", Total: 23},
	)

	sv, warn := BuildSummary(view)
	if warn != nil {
		t.Fatalf("unexpected warning: %v", warn.Message())
	}
	if sv.Records != 3 || sv.Countries != 2 {
		t.Errorf("Records = %d, Countries = %d, want 3 and 2", sv.Records, sv.Countries)
	}
	if sv.Total != 572715 {
		t.Errorf("Total = %v, want 572715", sv.Total)
	}
	if sv.Individuals != 373073 {
		t.Errorf("Individuals = %v, want 373073", sv.Individuals)
	}
	if sv.TopCountry != "United States" || sv.TopTotal != 567715 {
		t.Errorf("top = (%q, %v), want United States at 567715", sv.TopCountry, sv.TopTotal)
	}
}

func TestBuildSummaryEmpty(t *testing.T) {
	_, warn := BuildSummary(testView())
	if warn == nil || warn.Reason != "no rows match the current filters" {
		t.Fatalf("warning = %v, want the no-rows reason", warn)
	}
}

// ============================================================================
// DISPATCH TESTS
// ============================================================================

func TestBuildDispatch(t *testing.T) {
	view := testView(rec("United States", 567715), rec("Japan", 4977))

	result, err := Build(ViewBar, view)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if result.Kind != ViewBar || result.Bar == nil {
		t.Fatalf("result = %+v, want a bar payload", result)
	}
	if result.Payload().(*BarView) != result.Bar {
		t.Error("Payload() should return the bar view")
	}
	if result.Empty != nil {
		t.Errorf("Empty = %v, want nil", result.Empty)
	}
}

func TestBuildOptions(t *testing.T) {
	view := testView(rec("United States", 100), rec("India", 200), rec("Atlantis", 5))

	result, err := Build(ViewTreemap, view, WithRegions(testRegions))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(result.Treemap.Slices) != 2 {
		t.Errorf("len(Slices) = %d, want 2", len(result.Treemap.Slices))
	}

	result, err = Build(ViewHistogram, view, WithBins(4))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(result.Histogram.Counts) != 4 {
		t.Errorf("len(Counts) = %d, want 4", len(result.Histogram.Counts))
	}

	result, err = Build(ViewSpotlight, view, WithSpotlight([]string{"United States"}))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(result.Spotlight.Slices) != 1 || result.Spotlight.Slices[0].Country != "United States" {
		t.Errorf("Slices = %v, want only United States", result.Spotlight.Slices)
	}
}

func TestBuildDefaultBins(t *testing.T) {
	view := testView(rec("A", 1), rec("B", 2), rec("C", 3))

	result, err := Build(ViewHistogram, view)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(result.Histogram.Counts) != DefaultBins {
		t.Errorf("len(Counts) = %d, want %d", len(result.Histogram.Counts), DefaultBins)
	}
}

func TestBuildUnknownKind(t *testing.T) {
	if _, err := Build(ViewKind("sankey"), testView()); err == nil {
		t.Error("unknown kind should error")
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	view := testView(
		rec("United States", 567715),
		rec("Australia", 116427),
		rec("Japan", 4977),
		rec("India", 1770000),
	)
	opts := []Option{WithRegions(testRegions), WithSpotlight(spotlightAllow), WithBins(6)}

	kinds := []ViewKind{ViewBar, ViewShare, ViewSpotlight, ViewTreemap, ViewHistogram, ViewMap, ViewTable, ViewSummary}
	for _, kind := range kinds {
		first, err := Build(kind, view, opts...)
		if err != nil {
			t.Fatalf("Build(%s) failed: %v", kind, err)
		}
		second, err := Build(kind, view, opts...)
		if err != nil {
			t.Fatalf("Build(%s) failed: %v", kind, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Build(%s) is not deterministic", kind)
		}
	}
}

func TestParseViewKind(t *testing.T) {
	tests := []struct {
		input   string
		want    ViewKind
		wantErr bool
	}{
		{"bar", ViewBar, false},
		{"Share", ViewShare, false},
		{" histogram ", ViewHistogram, false},
		{"MAP", ViewMap, false},
		{"pie", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseViewKind(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseViewKind(%q) should fail", tt.input)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseViewKind(%q) = (%v, %v), want %v", tt.input, got, err, tt.want)
		}
	}
}

func TestEmptyResultWarningMessage(t *testing.T) {
	w := &EmptyResultWarning{View: "bar", Reason: "no rows match the current filters"}
	if got := w.Message(); got != "bar: no rows match the current filters" {
		t.Errorf("Message = %q", got)
	}

	var nilWarn *EmptyResultWarning
	if nilWarn.Message() != "" {
		t.Error("nil warning should render an empty message")
	}
}
