package engine

// ============================================================================
// CHART BUILDER — Produces ChartConfig from groups and curves
// ============================================================================
// Figures are delivered as labelled series; nothing is drawn.
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// BuildBarChart plots one value field of groups as a single bar series.
func BuildBarChart(title, xAxis string, groups []Group, field string) *ChartConfig {
	if len(groups) == 0 {
		return nil
	}
	config := &ChartConfig{
		ChartType:  "bar",
		Title:      title,
		XAxis:      xAxis,
		YAxis:      LabelForField(field),
		Series:     buildSingleSeries(groups, field, LabelForField(field)),
		ShowLegend: false,
		ShowGrid:   true,
	}
	config.Colors = assignColors(len(config.Series))
	return config
}

// BuildLineChart plots several value fields of groups, one series per field.
func BuildLineChart(title, xAxis, yAxis string, groups []Group, fields []string) *ChartConfig {
	if len(groups) == 0 {
		return nil
	}
	series := make([]ChartSeries, 0, len(fields))
	for i, f := range fields {
		s := buildSingleSeries(groups, f, f)[0]
		s.Color = defaultColors[i%len(defaultColors)]
		series = append(series, s)
	}
	return &ChartConfig{
		ChartType:  "line",
		Title:      title,
		XAxis:      xAxis,
		YAxis:      yAxis,
		Series:     series,
		Colors:     assignColors(len(series)),
		ShowLegend: true,
		ShowGrid:   true,
	}
}

// BuildCurveChart plots a concentration curve by rank.
func BuildCurveChart(res *ConcentrationResult) *ChartConfig {
	if res == nil || len(res.Curve) == 0 {
		return nil
	}
	points := make([]ChartPoint, 0, len(res.Curve))
	for _, p := range res.Curve {
		points = append(points, ChartPoint{Label: p.Key, Value: p.CumulativeShare})
	}
	return &ChartConfig{
		ChartType: "line",
		Title:     "Cumulative Share of " + LabelForField(res.ValueField) + " by " + LabelForField(res.GroupField),
		XAxis:     LabelForField(res.GroupField) + "s (sorted high → low)",
		YAxis:     "Cumulative Share",
		Series:    []ChartSeries{{Name: "Cumulative Share", Data: points, Color: defaultColors[0]}},
		Colors:    assignColors(1),
		ShowGrid:  true,
	}
}

// BuildRatioChart plots a per-row ratio as bars, e.g. mature regions or bio share.
func BuildRatioChart(title, xAxis, yAxis string, labels []string, values []float64) *ChartConfig {
	if len(labels) == 0 {
		return nil
	}
	points := make([]ChartPoint, 0, len(labels))
	for i, l := range labels {
		points = append(points, ChartPoint{Label: l, Value: values[i]})
	}
	return &ChartConfig{
		ChartType: "bar",
		Title:     title,
		XAxis:     xAxis,
		YAxis:     yAxis,
		Series:    []ChartSeries{{Name: yAxis, Data: points, Color: defaultColors[0]}},
		Colors:    assignColors(1),
		ShowGrid:  true,
	}
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

func buildSingleSeries(groups []Group, field, seriesName string) []ChartSeries {
	if seriesName == "" {
		seriesName = "Value"
	}

	points := make([]ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, ChartPoint{
			Label: g.Label,
			Value: RoundTo2(g.Values[field]),
		})
	}

	return []ChartSeries{{
		Name: seriesName,
		Data: points,
	}}
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
