package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmfausti/whereabouts/pkg/records"
)

func sampleRecords() []records.Record {
	temp := 18.5
	wind := 12.0
	condition := "cloudy"

	return []records.Record{
		{
			ID:           "2HFakeKSUID1",
			Query:        "London",
			Name:         "London, England, United Kingdom",
			Country:      "United Kingdom",
			Admin1:       "England",
			Latitude:     51.50853,
			Longitude:    -0.12574,
			ResolvedBy:   "geocoding",
			TemperatureC: &temp,
			WindSpeedKmh: &wind,
			Condition:    &condition,
			CreatedAt:    time.Date(2023, 11, 4, 9, 30, 0, 0, time.UTC),
		},
		{
			ID:         "2HFakeKSUID2",
			Query:      "90210",
			Name:       "Beverly Hills, California, United States",
			Country:    "United States",
			Admin1:     "California",
			Latitude:   34.0901,
			Longitude:  -118.4065,
			ResolvedBy: "zipcode",
			CreatedAt:  time.Date(2023, 11, 5, 16, 45, 0, 0, time.UTC),
		},
	}
}

func TestMarkdown(t *testing.T) {
	out := Markdown(sampleRecords())

	assert.Contains(t, out, "| London, England, United Kingdom")
	assert.Contains(t, out, "51.5085")
	assert.Contains(t, out, "18.5ºC")
	assert.Contains(t, out, "cloudy")
	// The second record has no weather snapshot; its row still renders.
	assert.Contains(t, out, "Beverly Hills, California, United States")
	assert.Contains(t, out, "2023-11-05 16:45")
}

func TestMarkdownEmpty(t *testing.T) {
	assert.Equal(t, "No records yet.\n", Markdown(nil))
}

func TestCSV(t *testing.T) {
	out, err := CSV(sampleRecords())
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, header, rows[0])
	assert.Equal(t, "London, England, United Kingdom", rows[1][0])
	assert.Equal(t, "51.5085", rows[1][3])
	assert.Equal(t, "18.5ºC", rows[1][6])
	// Optional fields come through empty, not as a literal nil.
	assert.Equal(t, "", rows[2][6])
	assert.Equal(t, "", rows[2][7])
}

func TestCSVEmpty(t *testing.T) {
	out, err := CSV(nil)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, header, rows[0])
}
