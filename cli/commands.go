package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spektr-org/aadhaar-pulse/engine"
	"github.com/spektr-org/aadhaar-pulse/helpers"
	"github.com/spektr-org/aadhaar-pulse/server"
)

// ============================================================================
// COMMANDS — one go-flags Commander per analysis
// ============================================================================
// Each command opens a session (config → logger → dataset → filter), runs
// one analysis on the filtered view and writes it in --format.
// ============================================================================

// Execute implements the go-flags Commander interface for ReportCommand.
func (c *ReportCommand) Execute(args []string) error {
	s, err := openSession(context.Background(), c.globals)
	if err != nil {
		return err
	}
	defer s.logger.Sync()

	summary, err := engine.ComposeReport(s.view)
	if err != nil {
		return err
	}

	w, closeOut, err := openOutput(c.globals)
	if err != nil {
		return err
	}

	format := helpers.FormatMarkdown
	switch c.globals.Format {
	case "table", "text":
		format = helpers.FormatText
		heading(w, fmt.Sprintf("%s · %s · %s", s.spec.Label(), engine.DerivePeriod(s.view), engine.FormatInt(int64(s.view.Len()))+" records"))
	case "json":
		format = helpers.FormatJSON
	case "csv", "xlsx":
		closeOut()
		return fmt.Errorf("report supports --format table, text, markdown or json")
	}

	if err := helpers.WriteReport(w, summary, format); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

// Execute implements the go-flags Commander interface for MetricsCommand.
func (c *MetricsCommand) Execute(args []string) error {
	s, err := openSession(context.Background(), c.globals)
	if err != nil {
		return err
	}
	defer s.logger.Sync()

	km, err := engine.ComputeKeyMetrics(s.view)
	if err != nil {
		return err
	}
	return emitTables(c.globals, []string{"Filter: " + s.spec.Label()}, engine.BuildKeyMetricsTable(km))
}

// Execute implements the go-flags Commander interface for TopCommand.
func (c *TopCommand) Execute(args []string) error {
	s, err := openSession(context.Background(), c.globals)
	if err != nil {
		return err
	}
	defer s.logger.Sync()

	lim := s.cfg.Analysis.Limits
	var (
		name, title   string
		keys          []string
		field         string
		limit         int
		distinctLabel string
	)
	switch c.By {
	case "pincode":
		name, keys, field = engine.TableTopPincodes, []string{engine.FieldPincode}, engine.FieldTotalActivity
		limit = orDefault(c.Limit, lim.TopPincodes)
		title, distinctLabel = fmt.Sprintf("Top %d Pincodes by Total Activity", limit), "pincodes"
	case "stress":
		name, keys, field = engine.TableStressIndex, []string{engine.FieldState, engine.FieldDistrict}, engine.FieldStressIndex
		limit = orDefault(c.Limit, lim.StressTop)
		title, distinctLabel = fmt.Sprintf("Top %d Districts by Stress Index", limit), "districts"
	default:
		name, keys, field = engine.TableTopDistricts, []string{engine.FieldState, engine.FieldDistrict}, engine.FieldTotalActivity
		limit = orDefault(c.Limit, lim.TopDistricts)
		title, distinctLabel = fmt.Sprintf("Top %d Districts by Total Activity", limit), "districts"
	}

	groups, err := engine.GroupSum(s.view, keys, []string{field})
	if err != nil {
		return err
	}
	top, err := engine.TopN(groups, field, limit, true)
	if err != nil {
		return err
	}

	table := engine.BuildGroupTable(name, title, top, keys, []string{field})
	return emitTables(c.globals, []string{fmt.Sprintf("%d %s in %s", len(groups), distinctLabel, s.spec.Label())}, table)
}

// Execute implements the go-flags Commander interface for AnomaliesCommand.
func (c *AnomaliesCommand) Execute(args []string) error {
	s, err := openSession(context.Background(), c.globals)
	if err != nil {
		return err
	}
	defer s.logger.Sync()

	z := orDefault(c.Z, s.cfg.Analysis.ZThreshold)
	anomalies, err := engine.DetectAnomalies(s.view, engine.FieldTotalActivity, z)
	if err != nil {
		return err
	}

	limit := orDefault(c.Limit, s.cfg.Analysis.Limits.AnomalyDisplay)
	table := engine.BuildAnomalyTable(anomalies, limit)
	summary := fmt.Sprintf("%d anomalies (z > %s) among %s records", len(anomalies), engine.FormatFloat(z, 1), engine.FormatInt(int64(s.view.Len())))
	return emitTables(c.globals, []string{summary}, table)
}

// Execute implements the go-flags Commander interface for ConcentrationCommand.
func (c *ConcentrationCommand) Execute(args []string) error {
	s, err := openSession(context.Background(), c.globals)
	if err != nil {
		return err
	}
	defer s.logger.Sync()

	target := orDefault(c.Target, s.cfg.Analysis.TargetShare)
	by := c.By
	if by == "" {
		by = engine.FieldPincode
	}

	res, err := engine.Concentration(s.view, by, engine.FieldTotalActivity, target)
	if err != nil {
		return err
	}

	summary := fmt.Sprintf("%d of %d %ss reach %s%% of total activity, %d stay within it (HHI %s)",
		res.GroupsNeeded, res.TotalGroups, by,
		engine.FormatFloat(target*100, 0), res.WithinTarget, engine.FormatFloat(res.HHI, 4))
	return emitTables(c.globals, []string{summary}, engine.BuildConcentrationTable(res))
}

// Execute implements the go-flags Commander interface for MatureCommand.
func (c *MatureCommand) Execute(args []string) error {
	s, err := openSession(context.Background(), c.globals)
	if err != nil {
		return err
	}
	defer s.logger.Sync()

	minUpdates := c.MinUpdates
	if minUpdates < 0 {
		minUpdates = s.cfg.Analysis.MatureMinUpdates
	}
	regions, err := engine.MatureRegions(s.view, minUpdates)
	if err != nil {
		return err
	}

	limit := orDefault(c.Limit, s.cfg.Analysis.Limits.MatureTop)
	summary := fmt.Sprintf("%d states with more than %s updates", len(regions), engine.FormatInt(minUpdates))
	return emitTables(c.globals, []string{summary}, engine.BuildMatureRegionsTable(regions, limit))
}

// Execute implements the go-flags Commander interface for BioCommand.
func (c *BioCommand) Execute(args []string) error {
	s, err := openSession(context.Background(), c.globals)
	if err != nil {
		return err
	}
	defer s.logger.Sync()

	rows, err := engine.BioDominance(s.view)
	if err != nil {
		return err
	}
	limit := orDefault(c.Limit, s.cfg.Analysis.Limits.BioTop)
	return emitTables(c.globals, nil, engine.BuildBioDominanceTable(rows, limit))
}

// Execute implements the go-flags Commander interface for OptionsCommand.
func (c *OptionsCommand) Execute(args []string) error {
	s, err := openSession(context.Background(), c.globals)
	if err != nil {
		return err
	}
	defer s.logger.Sync()

	choices := engine.FilterOptions(s.dataset.View(), s.spec)

	w, closeOut, err := openOutput(c.globals)
	if err != nil {
		return err
	}
	if c.globals.Format == "json" {
		if err := writeJSON(w, choices); err != nil {
			closeOut()
			return err
		}
		return closeOut()
	}

	for _, group := range []struct {
		label  string
		values []string
	}{
		{"States", choices.States},
		{"Districts", choices.Districts},
		{"Months", choices.Months},
		{"Weekdays", choices.Weekdays},
	} {
		heading(w, fmt.Sprintf("%s (%d)", group.label, len(group.values)))
		for _, v := range group.values {
			fmt.Fprintf(w, "  %s\n", v)
		}
	}
	return closeOut()
}

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	ctx := context.Background()
	s, err := openSession(ctx, c.globals)
	if err != nil {
		return err
	}
	defer s.logger.Sync()

	if c.globals.Out == "" {
		c.globals.Out = "aadhaar-pulse.xlsx"
	}
	c.globals.Format = "xlsx"

	d, err := engine.Analyze(ctx, s.dataset.View(), s.spec, s.cfg.Analysis.EngineOptions(s.logger)...)
	if err != nil {
		return err
	}
	if err := emitTables(c.globals, nil, d.Tables...); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Exported %d tables (%s) to %s\n", len(d.Tables), d.FilterLabel, c.globals.Out)
	return nil
}

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, c.globals)
	if err != nil {
		return err
	}
	defer s.logger.Sync()

	cfg := s.cfg.Server
	if c.Host != "" {
		cfg.Host = c.Host
	}
	if c.Port != 0 {
		cfg.Port = c.Port
	}

	srv := server.New(s.dataset, cfg, s.logger, s.cfg.Analysis.EngineOptions(s.logger)...)
	return srv.ListenAndServe(ctx)
}
