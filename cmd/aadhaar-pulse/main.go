package main

import (
	"fmt"
	"os"

	"github.com/spektr-org/aadhaar-pulse/cli"
)

// ============================================================================
// AADHAAR PULSE CLI — enrolment and update activity analytics
// ============================================================================

var version = "0.1.0"

func main() {
	if err := cli.Run(version); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
