package export

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/homesight/dataset"
	"github.com/spektr-org/homesight/engine"
)

func exportView() engine.View {
	return engine.NewView(&dataset.Dataset{Records: []dataset.Record{
		{Country: "United States", Total: 567715, Individuals: 369081, FamilyHouseholds: 171670, Veterans: 37085, UnaccompaniedYouth: 35038, Latitude: 37.0902, Longitude: -95.7129},
		{Country: "Japan", Total: 4977, Individuals: 3992, FamilyHouseholds: 985, Veterans: 0, UnaccompaniedYouth: 0, Latitude: 36.2048, Longitude: 138.2529},
	}})
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, exportView()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "country,total,individuals,family_households,veterans,unaccompanied_youth,latitude,longitude", lines[0])
	assert.Equal(t, "United States,567715,369081,171670,37085,35038,37.0902,-95.7129", lines[1])
	assert.Equal(t, "Japan,4977,3992,985,0,0,36.2048,138.2529", lines[2])
}

func TestWriteCSVBlanksNaN(t *testing.T) {
	view := engine.NewView(&dataset.Dataset{Records: []dataset.Record{
		{Country: "Iceland", Total: math.NaN(), Individuals: 349, Latitude: 64.9631, Longitude: -19.0208},
	}})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, view))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Iceland,,349,0,0,0,64.9631,-19.0208", lines[1])
}

func TestWriteXLSX(t *testing.T) {
	sums := []engine.CountrySum{
		{Country: "United States", Total: 567715},
		{Country: "Japan", Total: 4977},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, exportView(), sums))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{recordsSheet, totalsSheet}, f.GetSheetList())

	rows, err := f.GetRows(recordsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, dataset.Columns(), rows[0])
	assert.Equal(t, "United States", rows[1][0])
	assert.Equal(t, "567715", rows[1][1])
	assert.Equal(t, "Japan", rows[2][0])

	total, err := f.GetCellValue(totalsSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "567715", total)

	country, err := f.GetCellValue(totalsSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Japan", country)
}

func TestWriteXLSXSkipsNaNCells(t *testing.T) {
	view := engine.NewView(&dataset.Dataset{Records: []dataset.Record{
		{Country: "Iceland", Total: math.NaN(), Individuals: 349, Latitude: 64.9631, Longitude: -19.0208},
	}})

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, view, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	total, err := f.GetCellValue(recordsSheet, "B2")
	require.NoError(t, err)
	assert.Empty(t, total)

	individuals, err := f.GetCellValue(recordsSheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, "349", individuals)
}

func TestWriteXLSXEmptyView(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, engine.NewView(dataset.Empty("test")), nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(recordsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
