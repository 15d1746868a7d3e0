package engine

// ============================================================================
// MAP BUILDER — Geographic points for the scatter map
// ============================================================================

// mapRadiusDivisor scales totals down to plottable marker radii.
const mapRadiusDivisor = 10000

// BuildMap converts records to map points. Rows with a non-finite total or
// coordinate are dropped: a marker needs a position and a size, and the
// loader does not reconcile inconsistent source data.
func BuildMap(view View) (*MapView, *EmptyResultWarning) {
	n := view.Len()
	points := make([]MapPoint, 0, n)
	for i := 0; i < n; i++ {
		rec := view.Record(i)
		if !finite(rec.Total) || !finite(rec.Latitude) || !finite(rec.Longitude) {
			continue
		}
		points = append(points, MapPoint{
			Country:   rec.Country,
			Latitude:  rec.Latitude,
			Longitude: rec.Longitude,
			Total:     rec.Total,
			Radius:    rec.Total / mapRadiusDivisor,
		})
	}

	mv := &MapView{Points: points}
	if len(points) == 0 {
		return mv, &EmptyResultWarning{View: "map", Reason: "no rows with plottable coordinates"}
	}
	return mv, nil
}
