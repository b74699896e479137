package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/spektr-org/aadhaar-pulse/config"
	"github.com/spektr-org/aadhaar-pulse/engine"
	"github.com/spektr-org/aadhaar-pulse/helpers"
	"github.com/spektr-org/aadhaar-pulse/logging"
	"github.com/spektr-org/aadhaar-pulse/translator"
)

// session is everything a command needs: config, logger, the loaded
// snapshot and the filtered view.
type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	dataset *engine.Dataset
	spec    engine.FilterSpec
	view    engine.RecordView
}

// openSession loads config, builds the logger, loads the dataset and applies
// the filter flags.
func openSession(ctx context.Context, g *GlobalFlags) (*session, error) {
	cfg, err := config.LoadFromEnv(g.Config)
	if err != nil {
		return nil, err
	}
	if g.Data != "" {
		cfg.Dataset.Source = g.Data
	}

	level, format := cfg.Logging.Level, cfg.Logging.Format
	if g.Verbose {
		level, format = "debug", "console"
	}
	logger, err := logging.New(level, format)
	if err != nil {
		return nil, err
	}

	spec, err := filterFromFlags(g)
	if err != nil {
		return nil, err
	}

	ds, err := helpers.Load(ctx, cfg.Dataset.Source, helpers.WithRegion(cfg.Dataset.S3Region))
	if err != nil {
		if errors.Is(err, helpers.ErrNoSource) {
			return nil, fmt.Errorf("%w (use --data or dataset.source)", err)
		}
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	logger.Debug("dataset loaded",
		zap.String("source", ds.Source),
		zap.String("snapshot", ds.ID),
		zap.Int("records", ds.Len()))

	return &session{
		cfg:     cfg,
		logger:  logger,
		dataset: ds,
		spec:    spec,
		view:    engine.ApplyFilters(ds.View(), spec),
	}, nil
}

// filterFromFlags merges --filter with the per-dimension flags; the
// per-dimension flags win.
func filterFromFlags(g *GlobalFlags) (engine.FilterSpec, error) {
	tr := translator.Default()

	spec, err := tr.ParseExpr(g.Filter)
	if err != nil {
		return engine.FilterSpec{}, err
	}

	values := url.Values{}
	for key, v := range map[string]string{
		engine.FieldState:    g.State,
		engine.FieldDistrict: g.District,
		engine.FieldMonth:    g.Month,
		engine.FieldWeekday:  g.Weekday,
	} {
		if v != "" {
			values.Set(key, v)
		}
	}
	flags, err := tr.FromValues(values)
	if err != nil {
		return engine.FilterSpec{}, err
	}

	if flags.State != "" {
		spec.State = flags.State
	}
	if flags.District != "" {
		spec.District = flags.District
	}
	if flags.Month != "" {
		spec.Month = flags.Month
	}
	if flags.Weekday != "" {
		spec.Weekday = flags.Weekday
	}
	return spec, nil
}

// openOutput returns stdout or the --out file.
func openOutput(g *GlobalFlags) (io.Writer, func() error, error) {
	if g.Out == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(g.Out)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, f.Close, nil
}

// emitTables writes tables in the --format of g. notes are printed above
// the tables in the human-readable formats only.
func emitTables(g *GlobalFlags, notes []string, tables ...*engine.TableData) error {
	w, closeOut, err := openOutput(g)
	if err != nil {
		return err
	}

	for _, n := range notes {
		note(w, g.Format, n)
	}
	if err := writeTables(w, g.Format, tables...); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func writeTables(w io.Writer, format string, tables ...*engine.TableData) error {
	switch format {
	case "xlsx":
		return helpers.WriteXLSX(w, tables...)
	case "json":
		return writeJSON(w, tables)
	}

	for i, t := range tables {
		if i > 0 {
			fmt.Fprintln(w)
		}
		var err error
		switch format {
		case "csv":
			err = helpers.WriteCSV(w, t)
		case "markdown":
			fmt.Fprintf(w, "**%s**\n\n", t.Title)
			err = helpers.WriteMarkdown(w, t)
		default:
			heading(w, t.Title)
			err = helpers.WriteText(w, t)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var headingColor = color.New(color.FgCyan, color.Bold)

func heading(w io.Writer, title string) {
	headingColor.Fprintln(w, title)
}

// note prints a secondary line for the human-readable formats only.
func note(w io.Writer, format, msg string) {
	if format == "table" || format == "text" {
		color.New(color.Faint).Fprintln(w, msg)
	}
}

// orDefault returns v unless it is zero or negative.
func orDefault[T int | int64 | float64](v, def T) T {
	if v <= 0 {
		return def
	}
	return v
}
