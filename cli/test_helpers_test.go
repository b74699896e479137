package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const fixtureCSV = `state,district,pincode,month,day,weekday,demo_age_5_17,demo_age_17_,bio_age_5_17,bio_age_17_,enro_age_0_5,enro_age_5_17,enro_age_18_greater
Kerala,Ernakulam,682001,3,1,Monday,5,5,10,0,1,1,1
Kerala,Thrissur,680001,3,1,Tuesday,0,0,0,0,10,10,10
Bihar,Patna,800001,12,1,Monday,50,50,0,0,0,0,0
Kerala,Ernakulam,682002,12,1,Sunday,1,1,2,2,0,0,1
`

// captureOutput redirects stdout during fn and returns what was written.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// writeFixture stores the fixture dataset in a temp dir and isolates the
// environment from any PULSE_* settings of the host.
func writeFixture(t *testing.T) string {
	t.Helper()
	t.Setenv("PULSE_DATA", "")
	t.Setenv("PULSE_LOG_LEVEL", "error")

	path := filepath.Join(t.TempDir(), "activity.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixtureCSV), 0o644))
	return path
}

// run executes the CLI against the fixture and returns stdout.
func run(t *testing.T, data string, args ...string) (string, error) {
	t.Helper()
	var err error
	out := captureOutput(t, func() {
		err = RunWithArgs("test", append(args, "--data", data))
	})
	return out, err
}
