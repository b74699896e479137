package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Report        *ReportCommand
	Metrics       *MetricsCommand
	Top           *TopCommand
	Anomalies     *AnomaliesCommand
	Concentration *ConcentrationCommand
	Mature        *MatureCommand
	Bio           *BioCommand
	Options       *OptionsCommand
	Export        *ExportCommand
	Serve         *ServeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "aadhaar-pulse"
	parser.LongDescription = "Regional enrolment and update activity analytics: totals, rankings, anomalies and concentration."

	cmds := &commands{
		Report:        &ReportCommand{globals: &globals, version: version},
		Metrics:       &MetricsCommand{globals: &globals, version: version},
		Top:           &TopCommand{globals: &globals, version: version},
		Anomalies:     &AnomaliesCommand{globals: &globals, version: version},
		Concentration: &ConcentrationCommand{globals: &globals, version: version},
		Mature:        &MatureCommand{globals: &globals, version: version},
		Bio:           &BioCommand{globals: &globals, version: version},
		Options:       &OptionsCommand{globals: &globals, version: version},
		Export:        &ExportCommand{globals: &globals, version: version},
		Serve:         &ServeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("report", "Print the summary report", "Print totals, peak month/weekday, top district and the updates share.", cmds.Report)
	parser.AddCommand("metrics", "Print headline totals", "Print record count, enrolments, demographic and biometric updates, total activity.", cmds.Metrics)
	parser.AddCommand("top", "Rank districts or pincodes", "Rank districts or pincodes by total activity, or districts by stress index.", cmds.Top)
	parser.AddCommand("anomalies", "List outlier records", "List records whose total activity lies more than --z standard deviations above the mean.", cmds.Anomalies)
	parser.AddCommand("concentration", "Show activity concentration", "Show how many groups account for the target share of total activity.", cmds.Concentration)
	parser.AddCommand("mature", "Rank states by update/enrolment ratio", "Rank states whose updates exceed --min-updates by their update/enrolment ratio.", cmds.Mature)
	parser.AddCommand("bio", "Rank districts by biometric share", "Rank districts by the share of biometric updates among all updates.", cmds.Bio)
	parser.AddCommand("options", "List filter choices", "List the values selectable for each filter, given the filters already set.", cmds.Options)
	parser.AddCommand("export", "Export every table to xlsx", "Write every dashboard table to one workbook, one sheet per table.", cmds.Export)
	parser.AddCommand("serve", "Start the HTTP backend", "Serve the dashboard API over HTTP until interrupted.", cmds.Serve)

	return parser, &globals, cmds
}

// Run is the main entry point for the CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// --version is valid without a subcommand.
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("aadhaar-pulse %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
