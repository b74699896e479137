package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config   string `long:"config" description:"Path to YAML config file" default:""`
	Data     string `long:"data" description:"Dataset source: path, file://, s3://bucket/key, sqlite://path?table=t, postgres://...?table=t"`
	Filter   string `long:"filter" description:"Filter expression, e.g. state=Kerala,month=3"`
	State    string `long:"state" description:"Only records of this state (All = no filter)"`
	District string `long:"district" description:"Only records of this district (All = no filter)"`
	Month    string `long:"month" description:"Only records of this month (All = no filter)"`
	Weekday  string `long:"weekday" description:"Only records of this weekday (All = no filter)"`
	Format   string `long:"format" description:"Output format" choice:"table" choice:"text" choice:"csv" choice:"json" choice:"markdown" choice:"xlsx" default:"table"`
	Out      string `long:"out" description:"Write output to file instead of stdout"`
	Verbose  bool   `long:"verbose" short:"v" description:"Enable debug logging"`
	Version  bool   `long:"version" description:"Show version and exit"`
}

// ReportCommand — the summary report (totals, peaks, service nature).
type ReportCommand struct {
	globals *GlobalFlags
	version string
}

// MetricsCommand — headline totals.
type MetricsCommand struct {
	globals *GlobalFlags
	version string
}

// TopCommand — highest-ranked districts, pincodes or stress districts.
type TopCommand struct {
	By    string `long:"by" description:"Ranking" choice:"district" choice:"pincode" choice:"stress" default:"district"`
	Limit int    `long:"limit" description:"Maximum rows (0 = configured default)"`

	globals *GlobalFlags
	version string
}

// AnomaliesCommand — records whose total activity is an outlier.
type AnomaliesCommand struct {
	Z     float64 `long:"z" description:"Z-score threshold (0 = configured default)"`
	Limit int     `long:"limit" description:"Maximum rows (0 = configured default)"`

	globals *GlobalFlags
	version string
}

// ConcentrationCommand — how few groups carry the target share of activity.
type ConcentrationCommand struct {
	Target float64 `long:"target" description:"Target cumulative share in (0, 1] (0 = configured default)"`
	By     string  `long:"by" description:"Group field" choice:"pincode" choice:"district" choice:"state" default:"pincode"`

	globals *GlobalFlags
	version string
}

// MatureCommand — states ranked by update/enrolment ratio.
type MatureCommand struct {
	MinUpdates int64 `long:"min-updates" description:"Updates a state must exceed (-1 = configured default)" default:"-1"`
	Limit      int   `long:"limit" description:"Maximum rows (0 = configured default)"`

	globals *GlobalFlags
	version string
}

// BioCommand — districts ranked by biometric share.
type BioCommand struct {
	Limit int `long:"limit" description:"Maximum rows (0 = configured default)"`

	globals *GlobalFlags
	version string
}

// OptionsCommand — selectable filter values given the current filter.
type OptionsCommand struct {
	globals *GlobalFlags
	version string
}

// ExportCommand — every dashboard table to one workbook.
type ExportCommand struct {
	globals *GlobalFlags
	version string
}

// ServeCommand — HTTP backend for the dashboard.
type ServeCommand struct {
	Host string `long:"host" description:"Override server host"`
	Port int    `long:"port" description:"Override server port"`

	globals *GlobalFlags
	version string
}
