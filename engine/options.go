package engine

// ============================================================================
// ENGINE OPTIONS — Functional options for Build()
// ============================================================================

// DefaultBins is the histogram bucket count when none is configured.
const DefaultBins = 10

// Option configures builder behavior via functional options.
type Option func(*config)

type config struct {
	Regions   map[string]string // country → region lookup for the treemap
	Spotlight []string          // allow-list for the spotlight share view
	Bins      int               // histogram bucket count
}

// WithRegions injects the country-to-region lookup used by the treemap.
func WithRegions(regions map[string]string) Option {
	return func(c *config) {
		c.Regions = regions
	}
}

// WithSpotlight injects the allow-list for the spotlight share view.
func WithSpotlight(countries []string) Option {
	return func(c *config) {
		c.Spotlight = countries
	}
}

// WithBins overrides the histogram bucket count. Non-positive values are
// ignored.
func WithBins(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.Bins = n
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Bins: DefaultBins,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
