package engine

import "fmt"

// ============================================================================
// EXECUTOR — Single dispatch point from view kind to builder
// ============================================================================
// Entry point: Build(kind, view, opts...)
//
// Handlers call Build with an already-filtered View. Options carry the
// injected configuration (region table, spotlight allow-list, histogram
// bins) so builders stay pure: same dataset, same criteria, same options,
// same result. No builder touches I/O or shared state.
// ============================================================================

// Build runs the builder for kind over view and wraps the outcome in a
// ViewResult. An unknown kind is the only error path; a view that holds no
// data comes back as a payload plus EmptyResultWarning.
func Build(kind ViewKind, view View, opts ...Option) (*ViewResult, error) {
	cfg := applyOptions(opts)
	result := &ViewResult{Kind: kind}

	switch kind {
	case ViewBar:
		result.Bar, result.Empty = BuildBar(view)
	case ViewShare:
		result.Share, result.Empty = BuildShare(view)
	case ViewSpotlight:
		result.Spotlight, result.Empty = BuildSpotlight(view, cfg.Spotlight)
	case ViewTreemap:
		result.Treemap, result.Empty = BuildTreemap(view, cfg.Regions)
	case ViewHistogram:
		result.Histogram, result.Empty = BuildHistogram(view, cfg.Bins)
	case ViewMap:
		result.Map, result.Empty = BuildMap(view)
	case ViewTable:
		result.Table, result.Empty = BuildTable(view)
	case ViewSummary:
		result.Summary, result.Empty = BuildSummary(view)
	default:
		return nil, fmt.Errorf("unknown view kind %q", kind)
	}

	return result, nil
}
