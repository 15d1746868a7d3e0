package render

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/spektr-org/homesight/engine"
)

// ============================================================================
// RENDER — Server-side PNG charts
// ============================================================================
// PNG fallbacks for embedding the two headline charts outside the web
// dashboard. The chart library refuses to draw zero values, so callers
// gate on the builder's empty warning before rendering.
// ============================================================================

// BarPNG renders the country ranking as a bar chart.
func BarPNG(w io.Writer, bars []engine.CountrySum) error {
	if len(bars) == 0 {
		return fmt.Errorf("no bars to render")
	}

	values := make([]chart.Value, 0, len(bars))
	for _, b := range bars {
		values = append(values, chart.Value{Label: b.Country, Value: b.Total})
	}

	bc := chart.BarChart{
		Title:    "Total homeless by country",
		Height:   512,
		BarWidth: 48,
		Bars:     values,
	}
	return bc.Render(chart.PNG, w)
}

// SharePNG renders country shares of the combined total as a pie chart.
func SharePNG(w io.Writer, slices []engine.ShareSlice) error {
	if len(slices) == 0 {
		return fmt.Errorf("no slices to render")
	}

	values := make([]chart.Value, 0, len(slices))
	for _, s := range slices {
		values = append(values, chart.Value{Label: s.Country, Value: s.Total})
	}

	pc := chart.PieChart{
		Title:  "Share of homeless population by country",
		Width:  512,
		Height: 512,
		Values: values,
	}
	return pc.Render(chart.PNG, w)
}
