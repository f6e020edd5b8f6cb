// Package export renders persisted records for download. Markdown uses
// the same table writer the rest of the app uses for human-facing
// output; CSV sticks to the standard encoder.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/rmfausti/whereabouts/pkg/records"
)

var header = []string{"Name", "Country", "Region", "Latitude", "Longitude", "Resolved By", "Temperature", "Condition", "Created At"}

func Markdown(recs []records.Record) string {
	if len(recs) == 0 {
		return "No records yet.\n"
	}

	b := bytes.NewBuffer([]byte{})
	table := tablewriter.NewWriter(b)

	table.SetHeader(header)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetAutoWrapText(false)

	for _, r := range recs {
		table.Append(recordRow(r))
	}

	table.Render()
	return b.String()
}

func CSV(recs []records.Record) (string, error) {
	b := bytes.NewBuffer([]byte{})
	w := csv.NewWriter(b)

	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	for _, r := range recs {
		if err := w.Write(recordRow(r)); err != nil {
			return "", fmt.Errorf("write record %s: %w", r.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush: %w", err)
	}

	return b.String(), nil
}

func recordRow(r records.Record) []string {
	temperature := ""
	if r.TemperatureC != nil {
		temperature = fmt.Sprintf("%.1fºC", *r.TemperatureC)
	}

	condition := ""
	if r.Condition != nil {
		condition = *r.Condition
	}

	return []string{
		r.Name,
		r.Country,
		r.Admin1,
		strconv.FormatFloat(r.Latitude, 'f', 4, 64),
		strconv.FormatFloat(r.Longitude, 'f', 4, 64),
		r.ResolvedBy,
		temperature,
		condition,
		r.CreatedAt.Format("2006-01-02 15:04"),
	}
}
