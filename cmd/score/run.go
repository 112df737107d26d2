package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"questionnaire-reader/internal/config"
	"questionnaire-reader/internal/dataset"
	"questionnaire-reader/internal/report"
	"questionnaire-reader/internal/service"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "load, clean and score an export",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "CSV export, - for stdin", Required: true},
			&cli.StringFlag{Name: "layout", Usage: "layout YAML applied over the defaults", EnvVars: []string{"LAYOUT_FILE"}},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file, stdout when empty"},
			&cli.StringFlag{Name: "format", Value: "csv", Usage: "csv or json"},
			&cli.StringFlag{Name: "report", Usage: "write an HTML chart report to this file"},
			&cli.StringSliceFlag{Name: "column", Usage: "column to chart in the report (repeatable, default scored columns)"},
			&cli.BoolFlag{Name: "summary", Usage: "print n, mean, sd, min and max of the scored columns"},
			&cli.IntFlag{Name: "workers", Usage: "parallel scorers (default SCORING_WORKERS or GOMAXPROCS)"},
		},
		Action: runAction,
	}
}

func runAction(c *cli.Context) error {
	format := c.String("format")
	if format != "csv" && format != "json" {
		return fmt.Errorf("unknown format %q", format)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	layout, err := dataset.LoadLayout(c.String("layout"))
	if err != nil {
		return err
	}

	in, err := openInput(c.String("input"))
	if err != nil {
		return err
	}
	defer in.Close()

	workers := cfg.ScoringWorkers
	if c.IsSet("workers") {
		workers = c.Int("workers")
	}
	res, err := service.NewScoringService(workers, logger).ScoreDataset(c.Context, in, layout)
	if err != nil {
		return err
	}

	if err := writeResult(c, res, format); err != nil {
		return err
	}
	for _, sc := range res.Respondents {
		for _, is := range sc.Issues() {
			logger.Debug("issue", zap.String("respondent", sc.ID), zap.String("issue", is.String()))
		}
	}

	if c.Bool("summary") {
		if err := writeSummary(c.App.ErrWriter, res); err != nil {
			return err
		}
	}
	if path := c.String("report"); path != "" {
		if err := writeReport(path, res, c.StringSlice("column")); err != nil {
			return err
		}
		logger.Info("report written", zap.String("path", path))
	}
	return nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

func writeResult(c *cli.Context, res *service.BatchResult, format string) (err error) {
	var w io.Writer = c.App.Writer
	if path := c.String("output"); path != "" {
		f, cerr := os.Create(path)
		if cerr != nil {
			return fmt.Errorf("create output: %w", cerr)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return res.Table.WriteCSV(w)
}

func writeSummary(w io.Writer, res *service.BatchResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "column\tn\tmean\tsd\tmin\tmax")
	for _, col := range res.Columns {
		values, err := res.Table.Column(col)
		if err != nil {
			return err
		}
		nums, ok := report.Numeric(values)
		if !ok {
			continue
		}
		s := report.Summarize(col, nums)
		fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.3f\t%.3f\t%.3f\n", s.Column, s.N, s.Mean, s.SD, s.Min, s.Max)
	}
	fmt.Fprintf(tw, "issues\t%d\n", res.IssueCount)
	return tw.Flush()
}

func writeReport(path string, res *service.BatchResult, columns []string) error {
	if len(columns) == 0 {
		columns = res.Columns
	}
	sections, err := report.Describe(res.Table, columns, dataset.NAValue)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := report.Render(f, "Questionnaire Report", sections); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
