package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/agriadvisor/internal/domain/models"
	"github.com/mamadbah2/agriadvisor/internal/service/estimation"
	"github.com/mamadbah2/agriadvisor/internal/service/reference"
	"github.com/mamadbah2/agriadvisor/internal/service/report"
	"github.com/mamadbah2/agriadvisor/internal/service/yield"
	"github.com/mamadbah2/agriadvisor/pkg/logger"
)

const (
	formatRows     = "rows"
	formatMarkdown = "markdown"
	formatHTML     = "html"
)

type options struct {
	crops      []string
	title      string
	matchMode  string
	reference  string
	format     string
	maxEntries int
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "yieldcalc",
		Short: "Estimates crop yield and income from a reference table.",
		Long: `yieldcalc projects expected yield and income for a list of crops.

Each --crop flag takes NAME:ACRES. Acres that are missing or not a positive
number default to 1. Reference records are matched by position unless
--match-mode=name is given.`,
		Example:       "  yieldcalc --crop Rice:2 --crop Wheat:3.5 --format markdown",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.crops, "crop", "c", nil, "crop entry as NAME:ACRES (repeatable)")
	flags.StringVarP(&opts.title, "title", "t", report.DefaultTitle, "report title")
	flags.StringVar(&opts.matchMode, "match-mode", yield.MatchPositional.String(), "reference matching: positional or name")
	flags.StringVarP(&opts.reference, "reference", "r", "", "JSON file with reference records (default: bundled dataset)")
	flags.StringVarP(&opts.format, "format", "f", formatRows, "output format: rows, markdown or html")
	flags.IntVar(&opts.maxEntries, "max-entries", estimation.DefaultMaxEntries, "maximum number of crops, 0 for no limit")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose logging to stderr")

	return cmd
}

func run(out io.Writer, opts *options) error {
	log := logger.Must(logger.NewCLI(opts.verbose))
	defer func() { _ = log.Sync() }()

	switch opts.format {
	case formatRows, formatMarkdown, formatHTML:
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}

	if len(opts.crops) == 0 {
		return errors.New("at least one --crop is required")
	}
	if opts.maxEntries > 0 && len(opts.crops) > opts.maxEntries {
		return fmt.Errorf("%w: you can only add up to %d crops", estimation.ErrTooManyEntries, opts.maxEntries)
	}

	entries := make([]models.CropEntry, 0, len(opts.crops))
	for _, raw := range opts.crops {
		entries = append(entries, parseEntry(raw))
	}

	records, err := loadReference(opts.reference)
	if err != nil {
		return err
	}
	log.Debug("reference loaded", zap.Int("records", len(records)), zap.String("source", opts.reference))

	mode := yield.ParseMatchMode(opts.matchMode)
	result, err := yield.Estimate(entries, records, yield.WithMatchMode(mode))
	if err != nil {
		return fmt.Errorf("estimate: %w", err)
	}
	if err := estimation.CheckFinite(result); err != nil {
		return err
	}
	log.Debug("estimation complete",
		zap.Int("entries", len(entries)),
		zap.Stringer("match_mode", mode),
		zap.Float64("total_income", result.TotalIncome),
	)

	switch opts.format {
	case formatMarkdown:
		_, err = io.WriteString(out, report.ToReportDocument(result, opts.title))
		return err
	case formatHTML:
		html, err := report.ToHTML(report.ToReportDocument(result, opts.title))
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, html)
		return err
	default:
		return writeRows(out, result)
	}
}

// parseEntry splits NAME:ACRES on the last colon. Unparsable acres default.
func parseEntry(raw string) models.CropEntry {
	name, acres := raw, ""
	if idx := strings.LastIndex(raw, ":"); idx >= 0 {
		name, acres = raw[:idx], raw[idx+1:]
	}
	return models.CropEntry{
		CropName: strings.TrimSpace(name),
		Acres:    yield.ParseAcres(acres),
	}
}

func loadReference(path string) ([]models.ReferenceYieldRecord, error) {
	if path == "" {
		provider, err := reference.Bundled()
		if err != nil {
			return nil, err
		}
		return provider.Records(context.Background())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference file: %w", err)
	}
	defer f.Close()

	records, err := reference.LoadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("load reference file %s: %w", path, err)
	}
	return records, nil
}

func writeRows(out io.Writer, result models.EstimationResult) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, strings.Join(report.Header(), "\t")+"\t")
	for _, row := range report.ToRows(result) {
		fmt.Fprintln(w, strings.Join(row.Cells(), "\t")+"\t")
	}
	fmt.Fprintf(w, "\nTotal Income: %s\n", report.FormatAmount(result.TotalIncome))
	return w.Flush()
}
