// Package homesight turns a per-country homelessness CSV into a
// filterable dashboard backend.
//
// Usage:
//
//	import "github.com/spektr-org/homesight/engine"
//
//	filtered := engine.Filter(engine.NewView(ds), criteria)
//	result, err := engine.Build(engine.ViewBar, filtered,
//	    engine.WithRegions(regions),
//	)
//
// The pipeline is pure: handlers build a Criteria from request state, the
// engine filters and aggregates a loaded dataset, and every view is a
// deterministic function of (dataset, criteria, options). Loading is
// memoized per source, a schema mismatch stops startup, and a fetch
// failure degrades to an empty dataset instead of taking the process
// down.
package homesight
