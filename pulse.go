// Package pulse analyses regional enrolment and update activity records:
// per-record derived metrics, cascading filters, group totals and rankings,
// z-score anomalies, activity concentration and a summary report.
//
// Usage:
//
//	import "github.com/spektr-org/aadhaar-pulse/engine"
//
//	spec := engine.FilterSpec{State: "Kerala"}
//	dash, err := engine.Analyze(ctx, ds.View(), spec,
//	    engine.WithZThreshold(5),
//	    engine.WithTargetShare(0.8),
//	)
//
// Records come from the helpers package (CSV file, S3 object, SQLite or
// PostgreSQL table). The server package exposes the same analyses over
// HTTP and the cli package as subcommands. All computation is local.
package pulse
