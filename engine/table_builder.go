package engine

import (
	"strconv"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from analysis results
// ============================================================================
// Every table keeps one column order for display and export. Cells hold
// plain numbers (no thousands separators) so CSV exports stay machine-readable.
// ============================================================================

// Dashboard table names.
const (
	TableKeyMetrics    = "key_metrics"
	TableMonthlyTrend  = "monthly_trend"
	TableWeekday       = "weekday_distribution"
	TableTopDistricts  = "top_districts"
	TableTopPincodes   = "top_pincodes"
	TableStressIndex   = "stress_index"
	TableMatureRegions = "mature_regions"
	TableBioDominance  = "bio_dominance"
	TableAnomalies     = "anomalies"
	TableConcentration = "concentration"
)

// Column keys that are not record fields.
const (
	columnUpdateRatio = "update_enrol_ratio"
	columnZScore      = "zscore"
	columnRank        = "rank"
	columnCumulative  = "cumulative_share"
	columnWithin      = "within_target"
	columnMetric      = "metric"
	columnValue       = "value"
)

const ratioDecimals = 4

// TableNames lists the dashboard tables in display order.
func TableNames() []string {
	return []string{
		TableKeyMetrics, TableMonthlyTrend, TableWeekday, TableTopDistricts, TableTopPincodes,
		TableStressIndex, TableMatureRegions, TableBioDominance, TableAnomalies, TableConcentration,
	}
}

// ratioFields are rendered with fixed decimals instead of as counts.
var ratioFields = map[string]bool{
	FieldStressIndex:  true,
	FieldBioShare:     true,
	columnUpdateRatio: true,
	columnZScore:      true,
	columnCumulative:  true,
}

func textColumn(key string) Column {
	return Column{Key: key, Label: LabelForField(key), Type: "text", Align: "left"}
}

func valueColumn(key string) Column {
	typ := "number"
	if ratioFields[key] {
		typ = "ratio"
	}
	return Column{Key: key, Label: LabelForField(key), Type: typ, Align: "right"}
}

func formatCell(key string, v float64) string {
	if ratioFields[key] {
		return FormatFloat(v, ratioDecimals)
	}
	return FormatFloat(v, 0)
}

// ============================================================================
// GROUP TABLE — one row per group
// ============================================================================

// BuildGroupTable lays out groups as key columns followed by value columns.
func BuildGroupTable(name, title string, groups []Group, keyFields, valueFields []string) *TableData {
	columns := make([]Column, 0, len(keyFields)+len(valueFields))
	for _, k := range keyFields {
		columns = append(columns, textColumn(k))
	}
	for _, v := range valueFields {
		columns = append(columns, valueColumn(v))
	}

	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		row := make([]string, 0, len(columns))
		row = append(row, g.Key...)
		for _, v := range valueFields {
			row = append(row, formatCell(v, g.Values[v]))
		}
		rows = append(rows, row)
	}

	return &TableData{Name: name, Title: title, Columns: columns, Rows: rows}
}

// ============================================================================
// ANALYSIS TABLES
// ============================================================================

// BuildKeyMetricsTable lays out the headline totals as metric/value rows.
func BuildKeyMetricsTable(km KeyMetrics) *TableData {
	return &TableData{
		Name:  TableKeyMetrics,
		Title: "Key Metrics",
		Columns: []Column{
			textColumn(columnMetric),
			valueColumn(columnValue),
		},
		Rows: [][]string{
			{"Records", strconv.Itoa(km.Records)},
			{"Enrolments", strconv.FormatInt(km.Enrolments, 10)},
			{"Demographic Updates", strconv.FormatInt(km.DemoUpdates, 10)},
			{"Biometric Updates", strconv.FormatInt(km.BioUpdates, 10)},
			{"Total Activity", strconv.FormatInt(km.TotalActivity, 10)},
		},
	}
}

// BuildAnomalyTable lists up to limit anomalies with their location and z-score.
func BuildAnomalyTable(anomalies []Anomaly, limit int) *TableData {
	keys := []string{FieldState, FieldDistrict, FieldPincode, FieldMonth, FieldDay}
	columns := make([]Column, 0, len(keys)+2)
	for _, k := range keys {
		columns = append(columns, textColumn(k))
	}
	columns = append(columns, valueColumn(FieldTotalActivity), valueColumn(columnZScore))

	if limit > 0 && len(anomalies) > limit {
		anomalies = anomalies[:limit]
	}
	rows := make([][]string, 0, len(anomalies))
	for _, a := range anomalies {
		row := make([]string, 0, len(columns))
		for _, k := range keys {
			row = append(row, a.Dimensions[k])
		}
		row = append(row, formatCell(FieldTotalActivity, a.Value), formatCell(columnZScore, a.ZScore))
		rows = append(rows, row)
	}

	return &TableData{Name: TableAnomalies, Title: "Anomalies (Total Activity Spikes)", Columns: columns, Rows: rows}
}

// BuildMatureRegionsTable lists up to limit states by update/enrolment ratio.
func BuildMatureRegionsTable(regions []RegionRatio, limit int) *TableData {
	if limit > 0 && len(regions) > limit {
		regions = regions[:limit]
	}
	rows := make([][]string, 0, len(regions))
	for _, r := range regions {
		rows = append(rows, []string{
			r.State,
			formatCell(FieldUpdatesTotal, r.UpdatesTotal),
			formatCell(FieldEnroTotal, r.EnroTotal),
			formatCell(columnUpdateRatio, r.Ratio),
		})
	}
	return &TableData{
		Name:  TableMatureRegions,
		Title: "States with High Updates but Low Enrolments",
		Columns: []Column{
			textColumn(FieldState),
			valueColumn(FieldUpdatesTotal),
			valueColumn(FieldEnroTotal),
			valueColumn(columnUpdateRatio),
		},
		Rows: rows,
	}
}

// BuildBioDominanceTable lists up to limit districts by biometric share.
func BuildBioDominanceTable(rows []BioShareRow, limit int) *TableData {
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.State,
			r.District,
			formatCell(FieldBioTotal, r.BioTotal),
			formatCell(FieldDemoTotal, r.DemoTotal),
			formatCell(FieldBioShare, r.BioShare),
		})
	}
	return &TableData{
		Name:  TableBioDominance,
		Title: "Biometric Dominance Districts",
		Columns: []Column{
			textColumn(FieldState),
			textColumn(FieldDistrict),
			valueColumn(FieldBioTotal),
			valueColumn(FieldDemoTotal),
			valueColumn(FieldBioShare),
		},
		Rows: out,
	}
}

// BuildConcentrationTable lists the cumulative share curve rank by rank.
func BuildConcentrationTable(res *ConcentrationResult) *TableData {
	rows := make([][]string, 0, len(res.Curve))
	for i, p := range res.Curve {
		rows = append(rows, []string{
			strconv.Itoa(p.Rank),
			p.Key,
			formatCell(res.ValueField, p.Value),
			formatCell(columnCumulative, p.CumulativeShare),
			withinLabel(i < res.WithinTarget),
		})
	}
	return &TableData{
		Name:  TableConcentration,
		Title: "Cumulative Share of " + LabelForField(res.ValueField) + " by " + LabelForField(res.GroupField),
		Columns: []Column{
			valueColumn(columnRank),
			textColumn(res.GroupField),
			valueColumn(res.ValueField),
			valueColumn(columnCumulative),
			textColumn(columnWithin),
		},
		Rows: rows,
	}
}

// withinLabel marks rows counted by ConcentrationResult.WithinTarget.
func withinLabel(within bool) string {
	if within {
		return "yes"
	}
	return "no"
}
