package cli

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/aadhaar-pulse/engine"
	"github.com/spektr-org/aadhaar-pulse/helpers"
)

func TestVersionFlag(t *testing.T) {
	var err error
	out := captureOutput(t, func() {
		err = RunWithArgs("1.2.3", []string{"--version"})
	})
	assert.NoError(t, err)
	assert.Equal(t, "aadhaar-pulse 1.2.3", strings.TrimSpace(out))
}

func TestSubcommandsRegistered(t *testing.T) {
	parser, _, _ := buildParser("test")
	for _, name := range []string{"report", "metrics", "top", "anomalies", "concentration", "mature", "bio", "options", "export", "serve"} {
		assert.NotNil(t, parser.Find(name), name)
	}
}

func TestReport_Markdown(t *testing.T) {
	data := writeFixture(t)
	out, err := run(t, data, "report", "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "**Patna (Bihar)**")
	assert.Contains(t, out, "78.26%")
}

func TestReport_JSON(t *testing.T) {
	data := writeFixture(t)
	out, err := run(t, data, "report", "--format", "json", "--state", "Kerala")
	require.NoError(t, err)

	var s engine.ReportSummary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, int64(60), s.TotalActivity)
	assert.Equal(t, "Kerala", s.TopDistrict.State)
}

func TestReport_RejectsTabularFormats(t *testing.T) {
	data := writeFixture(t)
	_, err := run(t, data, "report", "--format", "csv")
	assert.Error(t, err)
}

func TestMetrics_CSV(t *testing.T) {
	data := writeFixture(t)
	out, err := run(t, data, "metrics", "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines, "Records,4")
	assert.Contains(t, lines, "Total Activity,160")
}

func TestTop_PincodesWithinState(t *testing.T) {
	data := writeFixture(t)
	out, err := run(t, data, "top", "--by", "pincode", "--state", "Kerala", "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "pincode,total_activity", lines[0])
	assert.Equal(t, "680001,30", lines[1])
	assert.Equal(t, "682002,7", lines[3])
}

func TestTop_Limit(t *testing.T) {
	data := writeFixture(t)
	out, err := run(t, data, "top", "--limit", "1", "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Bihar,Patna,100", lines[1])
}

func TestAnomalies_JSON(t *testing.T) {
	data := writeFixture(t)
	out, err := run(t, data, "anomalies", "--z", "1", "--format", "json")
	require.NoError(t, err)

	var tables []engine.TableData
	require.NoError(t, json.Unmarshal([]byte(out), &tables))
	require.Len(t, tables, 1)
	assert.Equal(t, engine.TableAnomalies, tables[0].Name)
	require.Len(t, tables[0].Rows, 1)
	assert.Equal(t, "Patna", tables[0].Rows[0][1])
}

func TestConcentration_Note(t *testing.T) {
	data := writeFixture(t)
	out, err := run(t, data, "concentration", "--target", "0.8")
	require.NoError(t, err)
	assert.Contains(t, out, "2 of 4 pincodes reach 80% of total activity, 1 stay within it")
}

func TestConcentration_InvalidTarget(t *testing.T) {
	data := writeFixture(t)
	_, err := run(t, data, "concentration", "--target", "1.5")
	assert.ErrorIs(t, err, engine.ErrInvalidArgument)
}

func TestOptions_JSON(t *testing.T) {
	data := writeFixture(t)
	out, err := run(t, data, "options", "--state", "Kerala", "--format", "json")
	require.NoError(t, err)

	var choices engine.FilterChoices
	require.NoError(t, json.Unmarshal([]byte(out), &choices))
	assert.Equal(t, []string{"Bihar", "Kerala"}, choices.States)
	assert.Equal(t, []string{"Ernakulam", "Thrissur"}, choices.Districts)
}

func TestExport_Workbook(t *testing.T) {
	data := writeFixture(t)
	path := filepath.Join(t.TempDir(), "pulse.xlsx")

	_, err := run(t, data, "export", "--out", path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, engine.TableNames(), f.GetSheetList())
}

func TestFilter_InvalidKey(t *testing.T) {
	data := writeFixture(t)
	_, err := run(t, data, "metrics", "--filter", "pincode=682001")
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrInvalidKey))
}

func TestFilter_FlagsOverrideExpression(t *testing.T) {
	spec, err := filterFromFlags(&GlobalFlags{Filter: "state=Kerala,month=3", State: "Bihar", Weekday: "All"})
	require.NoError(t, err)
	assert.Equal(t, "Bihar", spec.State)
	assert.Equal(t, "3", spec.Month)
	assert.Empty(t, spec.Weekday)
}

func TestMissingDataSource(t *testing.T) {
	t.Setenv("PULSE_DATA", "")
	var err error
	captureOutput(t, func() {
		err = RunWithArgs("test", []string{"metrics"})
	})
	assert.ErrorIs(t, err, helpers.ErrNoSource)
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, 10, orDefault(0, 10))
	assert.Equal(t, 3, orDefault(3, 10))
	assert.Equal(t, 2.5, orDefault(-1.0, 2.5))
}
