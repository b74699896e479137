package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// TEXT BUILDER — Renders ReportSummary as markdown or plain text
// ============================================================================
// Pure formatting over the summary. Percentages are rounded to 2 decimals.
// ============================================================================

// RenderMarkdown formats the summary as the dashboard's markdown report.
func RenderMarkdown(s ReportSummary) string {
	var b strings.Builder
	b.WriteString("**Summary Report**\n")
	fmt.Fprintf(&b, "- Total Enrolments: **%d**\n", s.TotalEnrolments)
	fmt.Fprintf(&b, "- Total Demographic Updates: **%d**\n", s.TotalDemoUpdates)
	fmt.Fprintf(&b, "- Total Biometric Updates: **%d**\n", s.TotalBioUpdates)
	fmt.Fprintf(&b, "- Total Activity: **%d**\n", s.TotalActivity)
	b.WriteString("\n**Peak Patterns**\n")
	fmt.Fprintf(&b, "- Highest Activity Month: **%s**\n", s.BestMonth)
	fmt.Fprintf(&b, "- Highest Activity Weekday: **%s**\n", s.BestWeekday)
	fmt.Fprintf(&b, "- Top District: **%s (%s)** with **%d** activity\n",
		s.TopDistrict.District, s.TopDistrict.State, s.TopDistrictActivity)
	b.WriteString("\n**Service Nature**\n")
	fmt.Fprintf(&b, "- Updates Share (Demo+Bio / Total): **%s%%**\n", sharePercent(s.UpdatesShare))
	return b.String()
}

// RenderText formats the summary as plain text with aligned labels.
func RenderText(s ReportSummary) string {
	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "  %-34s %s\n", label+":", value)
	}

	b.WriteString("SUMMARY REPORT\n")
	line("Total Enrolments", FormatInt(s.TotalEnrolments))
	line("Total Demographic Updates", FormatInt(s.TotalDemoUpdates))
	line("Total Biometric Updates", FormatInt(s.TotalBioUpdates))
	line("Total Activity", FormatInt(s.TotalActivity))
	b.WriteString("\nPEAK PATTERNS\n")
	line("Highest Activity Month", s.BestMonth)
	line("Highest Activity Weekday", s.BestWeekday)
	line("Top District", fmt.Sprintf("%s (%s), %s activity",
		s.TopDistrict.District, s.TopDistrict.State, FormatInt(s.TopDistrictActivity)))
	b.WriteString("\nSERVICE NATURE\n")
	line("Updates Share (Demo+Bio / Total)", sharePercent(s.UpdatesShare)+"%")
	return b.String()
}

func sharePercent(share float64) string {
	return FormatFloat(RoundTo2(share*100), 2)
}

// ============================================================================
// PERIOD HELPER
// ============================================================================

// DerivePeriod builds a human-readable month range from a view.
func DerivePeriod(view RecordView) string {
	if view.Len() == 0 {
		return "No data"
	}

	months := DistinctValues(view, FieldMonth)
	switch len(months) {
	case 0:
		return "All time"
	case 1:
		return "Month " + months[0]
	default:
		return fmt.Sprintf("Months %s – %s", months[0], months[len(months)-1])
	}
}
