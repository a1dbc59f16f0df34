// Package report renders estimation results for display and export. It only
// formats: numeric values are never altered, just printed.
package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/mamadbah2/agriadvisor/internal/domain/models"
)

// DefaultTitle is used when ToReportDocument receives an empty title.
const DefaultTitle = "Yield Report"

var header = []string{
	"Crop",
	"Acres",
	"Yield per Acre (kg)",
	"Expected Yield (kg)",
	"Price per kg",
	"Total Income",
}

// Row is the display form of one projection.
type Row struct {
	Crop          string
	Acres         string
	YieldPerAcre  string
	ExpectedYield string
	PricePerKg    string
	TotalIncome   string
}

// Cells returns the row in column order.
func (r Row) Cells() []string {
	return []string{r.Crop, r.Acres, r.YieldPerAcre, r.ExpectedYield, r.PricePerKg, r.TotalIncome}
}

// Header returns the column titles matching Row.Cells.
func Header() []string {
	out := make([]string, len(header))
	copy(out, header)
	return out
}

// FormatAmount renders a number with exactly two decimals.
func FormatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

// ToRows maps each projection to a display row.
func ToRows(result models.EstimationResult) []Row {
	rows := make([]Row, 0, len(result.Projections))
	for _, p := range result.Projections {
		rows = append(rows, Row{
			Crop:          p.Crop,
			Acres:         FormatAmount(p.Acres),
			YieldPerAcre:  FormatAmount(p.YieldPerAcre),
			ExpectedYield: FormatAmount(p.ExpectedYield),
			PricePerKg:    FormatAmount(p.PricePerKg),
			TotalIncome:   FormatAmount(p.TotalIncome),
		})
	}
	return rows
}

// ToReportDocument renders a Markdown document: a title, a table with one
// row per projection (numerics rounded to two decimals) and a closing total
// income line.
func ToReportDocument(result models.EstimationResult, title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escapeCell(title))

	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, row := range ToRows(result) {
		cells := row.Cells()
		cells[0] = escapeCell(cells[0])
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	fmt.Fprintf(&b, "\n**Total Income:** %s\n", FormatAmount(result.TotalIncome))
	return b.String()
}

// ToHTML renders the Markdown report as an HTML fragment for exporters.
func ToHTML(document string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var buf bytes.Buffer
	if err := md.Convert([]byte(document), &buf); err != nil {
		return "", fmt.Errorf("render report html: %w", err)
	}
	return buf.String(), nil
}

// escapeCell keeps user supplied crop names from breaking the table layout.
func escapeCell(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	return strings.ReplaceAll(value, "|", `\|`)
}
