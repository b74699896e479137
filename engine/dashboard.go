package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ============================================================================
// DASHBOARD — Filter once, run every analysis concurrently
// ============================================================================
// Entry point: Analyze(ctx, view, spec, opts...)
//
// Pipeline:
//   1. Apply FilterSpec → SubView (zero-copy)
//   2. Fan out the independent analyses on the read-only subset (errgroup)
//   3. Assemble tables and charts in fixed display order
//
// No analysis mutates its input, so the fan-out needs no locking. The first
// failing analysis cancels those not yet started.
// ============================================================================

// Dashboard is every analysis of one filtered subset, render- and export-ready.
type Dashboard struct {
	Filter        FilterSpec           `json:"filter"`
	FilterLabel   string               `json:"filterLabel"`
	Records       int                  `json:"records"`
	Period        string               `json:"period"`
	Reply         string               `json:"reply"`
	KeyMetrics    KeyMetrics           `json:"keyMetrics"`
	Report        ReportSummary        `json:"report"`
	AnomalyCount  int                  `json:"anomalyCount"`
	Concentration *ConcentrationResult `json:"concentration"`
	Tables        []*TableData         `json:"tables"`
	Charts        []*ChartConfig       `json:"charts"`
}

// Table returns the named table.
func (d *Dashboard) Table(name string) (*TableData, bool) {
	for _, t := range d.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// dashboardParts collects analysis outputs; each goroutine owns its fields.
type dashboardParts struct {
	keyMetrics    KeyMetrics
	report        ReportSummary
	anomalies     []Anomaly
	concentration *ConcentrationResult

	monthlyChart  *ChartConfig
	weekdayChart  *ChartConfig
	districtChart *ChartConfig
	stressChart   *ChartConfig
	matureChart   *ChartConfig
	bioChart      *ChartConfig
	curveChart    *ChartConfig
}

// Analyze filters view by spec and runs the dashboard analyses on the subset.
//
// Options:
//   - WithZThreshold(z) — anomaly threshold (default 5.0)
//   - WithTargetShare(s) — concentration target (default 0.80)
//   - WithMatureMinUpdates(n) — mature-region floor (default 1000)
//   - WithLimits(l) — table sizes
//   - WithParallelism(n) — bound concurrent analyses
//   - WithLogger(l) — debug traces
func Analyze(ctx context.Context, view RecordView, spec FilterSpec, opts ...Option) (*Dashboard, error) {
	cfg := applyOptions(opts)
	log := cfg.Logger
	lim := cfg.Limits

	filtered := ApplyFilters(view, spec)
	log.Debug("filter applied",
		zap.String("filter", spec.Label()),
		zap.Int("records_before", view.Len()),
		zap.Int("records_after", filtered.Len()))

	// Each task writes only its own variables.
	var (
		p        dashboardParts
		tKey     *TableData
		tMonthly *TableData
		tWeekday *TableData
		tDist    *TableData
		tPin     *TableData
		tStress  *TableData
		tMature  *TableData
		tBio     *TableData
		tAnom    *TableData
		tConc    *TableData
	)

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Parallelism > 0 {
		g.SetLimit(cfg.Parallelism)
	}
	run := func(name string, fn func() error) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			if err := fn(); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			log.Debug("analysis done", zap.String("analysis", name), zap.Duration("took", time.Since(start)))
			return nil
		})
	}

	run("report", func() error {
		km, err := ComputeKeyMetrics(filtered)
		if err != nil {
			return err
		}
		report, err := ComposeReport(filtered)
		if err != nil {
			return err
		}
		p.keyMetrics, p.report = km, report
		tKey = BuildKeyMetricsTable(km)
		return nil
	})

	run("monthly trend", func() error {
		fields := []string{FieldDemoTotal, FieldBioTotal, FieldEnroTotal}
		groups, err := GroupSum(filtered, []string{FieldMonth}, fields)
		if err != nil {
			return err
		}
		SortGroupsByKey(groups)
		tMonthly = BuildGroupTable(TableMonthlyTrend, "Monthly Trend (Demo vs Bio vs Enrol)", groups, []string{FieldMonth}, fields)
		p.monthlyChart = BuildLineChart("Monthly Trend (Demo vs Bio vs Enrol)", "Month", "Count", groups, fields)
		return nil
	})

	run("weekday distribution", func() error {
		groups, err := GroupSum(filtered, []string{FieldWeekday}, []string{FieldTotalActivity})
		if err != nil {
			return err
		}
		ranked, err := TopN(groups, FieldTotalActivity, len(groups), true)
		if err != nil {
			return err
		}
		tWeekday = BuildGroupTable(TableWeekday, "Weekday Distribution (Total Activity)", ranked, []string{FieldWeekday}, []string{FieldTotalActivity})
		p.weekdayChart = BuildBarChart("Weekday Distribution (Total Activity)", "Weekday", ranked, FieldTotalActivity)
		return nil
	})

	run("districts", func() error {
		keys := []string{FieldState, FieldDistrict}
		groups, err := GroupSum(filtered, keys, []string{FieldTotalActivity, FieldStressIndex})
		if err != nil {
			return err
		}
		top, err := TopN(groups, FieldTotalActivity, lim.TopDistrictsExport, true)
		if err != nil {
			return err
		}
		stress, err := TopN(groups, FieldStressIndex, lim.StressTop, true)
		if err != nil {
			return err
		}
		tDist = BuildGroupTable(TableTopDistricts, fmt.Sprintf("Top %d Districts by Total Activity", lim.TopDistrictsExport), top, keys, []string{FieldTotalActivity})
		tStress = BuildGroupTable(TableStressIndex, fmt.Sprintf("Top %d Districts by Stress Index", lim.StressTop), stress, keys, []string{FieldStressIndex})

		chartTop := top
		if len(chartTop) > lim.TopDistricts {
			chartTop = chartTop[:lim.TopDistricts]
		}
		p.districtChart = BuildBarChart(fmt.Sprintf("Top %d Districts by Total Activity", lim.TopDistricts), "State, District", chartTop, FieldTotalActivity)
		p.stressChart = BuildBarChart("Stress Index (Weighted Workload)", "State, District", stress, FieldStressIndex)
		return nil
	})

	run("pincodes", func() error {
		groups, err := GroupSum(filtered, []string{FieldPincode}, []string{FieldTotalActivity})
		if err != nil {
			return err
		}
		top, err := TopN(groups, FieldTotalActivity, lim.TopPincodes, true)
		if err != nil {
			return err
		}
		tPin = BuildGroupTable(TableTopPincodes, fmt.Sprintf("Top %d Pincodes by Total Activity", lim.TopPincodes), top, []string{FieldPincode}, []string{FieldTotalActivity})
		return nil
	})

	run("mature regions", func() error {
		regions, err := MatureRegions(filtered, cfg.MatureMinUpdates)
		if err != nil {
			return err
		}
		tMature = BuildMatureRegionsTable(regions, lim.MatureTop)

		n := min(len(regions), lim.MatureChart)
		labels, values := make([]string, n), make([]float64, n)
		for i, r := range regions[:n] {
			labels[i], values[i] = r.State, RoundTo2(r.Ratio)
		}
		p.matureChart = BuildRatioChart("Update/Enrolment Ratio (Top States)", "State", "Ratio", labels, values)
		return nil
	})

	run("bio dominance", func() error {
		rows, err := BioDominance(filtered)
		if err != nil {
			return err
		}
		tBio = BuildBioDominanceTable(rows, lim.BioTop)

		n := min(len(rows), lim.BioChart)
		labels, values := make([]string, n), make([]float64, n)
		for i, r := range rows[:n] {
			labels[i], values[i] = groupLabel([]string{r.State, r.District}), r.BioShare
		}
		p.bioChart = BuildRatioChart(fmt.Sprintf("Top %d Districts by Biometric Share", lim.BioChart), "State, District", "Bio Share", labels, values)
		return nil
	})

	run("anomalies", func() error {
		anomalies, err := DetectAnomalies(filtered, FieldTotalActivity, cfg.ZThreshold)
		if err != nil {
			return err
		}
		p.anomalies = anomalies
		tAnom = BuildAnomalyTable(anomalies, lim.AnomalyExport)
		return nil
	})

	run("concentration", func() error {
		res, err := Concentration(filtered, FieldPincode, FieldTotalActivity, cfg.TargetShare)
		if err != nil {
			return err
		}
		p.concentration = res
		tConc = BuildConcentrationTable(res)
		p.curveChart = BuildCurveChart(res)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := &Dashboard{
		Filter:        spec,
		FilterLabel:   spec.Label(),
		Records:       filtered.Len(),
		Period:        DerivePeriod(filtered),
		KeyMetrics:    p.keyMetrics,
		Report:        p.report,
		AnomalyCount:  len(p.anomalies),
		Concentration: p.concentration,
		Tables:        []*TableData{tKey, tMonthly, tWeekday, tDist, tPin, tStress, tMature, tBio, tAnom, tConc},
	}
	for _, c := range []*ChartConfig{p.monthlyChart, p.weekdayChart, p.districtChart, p.stressChart, p.matureChart, p.bioChart, p.curveChart} {
		if c != nil {
			d.Charts = append(d.Charts, c)
		}
	}
	d.Reply = buildReply(d)

	log.Debug("dashboard ready",
		zap.Int("records", d.Records),
		zap.Int("anomalies", d.AnomalyCount),
		zap.Int("charts", len(d.Charts)))
	return d, nil
}

// buildReply summarises the dashboard in one sentence.
func buildReply(d *Dashboard) string {
	if d.Records == 0 {
		return "No records match the selected filters. Try removing some filters."
	}
	return fmt.Sprintf("Found %s records (%s) totalling %s activity; %d anomalies; %d of %d pincodes reach %.0f%% of activity (%d stay within it).",
		FormatInt(int64(d.Records)), d.FilterLabel, FormatInt(d.KeyMetrics.TotalActivity),
		d.AnomalyCount, d.Concentration.GroupsNeeded, d.Concentration.TotalGroups,
		d.Concentration.TargetShare*100, d.Concentration.WithinTarget)
}
