package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ============================================================================
// CSV PARSER — Raw bytes to typed Records
// ============================================================================
// Mirrors the forgiving posture of spreadsheet tooling: malformed rows are
// skipped and counted, blank or unparsable numeric cells become NaN, and
// rows with an empty country are dropped. Missing required columns are a
// SchemaError, not a row-level problem, because nothing downstream can
// render a partial schema.
// ============================================================================

// ParseCSV parses CSV bytes into Records. It returns the records, the
// number of skipped rows, and an error: a *SchemaError when required
// columns are missing, or a plain error when the header itself cannot be
// read. The caller fills SchemaError.Source.
func ParseCSV(data []byte) ([]Record, int, error) {
	reader := csv.NewReader(bytes.NewReader(data))

	headers, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}

	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}

	if missing := missingColumns(normalized); len(missing) > 0 {
		return nil, 0, &SchemaError{Missing: missing}
	}

	// First occurrence wins when a source repeats a column
	idx := make(map[string]int, len(normalized))
	for i, h := range normalized {
		if _, seen := idx[h]; !seen {
			idx[h] = i
		}
	}

	records := make([]Record, 0, 64)
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		country := strings.TrimSpace(row[idx[ColCountry]])
		if country == "" {
			skipped++
			continue
		}

		records = append(records, Record{
			Country:            country,
			Total:              parseNumber(row[idx[ColTotal]]),
			Individuals:        parseNumber(row[idx[ColIndividuals]]),
			FamilyHouseholds:   parseNumber(row[idx[ColFamilyHouseholds]]),
			Veterans:           parseNumber(row[idx[ColVeterans]]),
			UnaccompaniedYouth: parseNumber(row[idx[ColUnaccompaniedYouth]]),
			Latitude:           parseNumber(row[idx[ColLatitude]]),
			Longitude:          parseNumber(row[idx[ColLongitude]]),
		})
	}

	return records, skipped, nil
}

// parseNumber converts a cell to float64, mapping blank and unparsable
// values to NaN so pipeline cleaning can drop them later.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
