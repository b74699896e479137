package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spektr-org/aadhaar-pulse/config"
	"github.com/spektr-org/aadhaar-pulse/engine"
	"github.com/spektr-org/aadhaar-pulse/helpers"
	"github.com/spektr-org/aadhaar-pulse/schema"
)

const fixtureCSV = `state,district,pincode,month,day,weekday,demo_age_5_17,demo_age_17_,bio_age_5_17,bio_age_17_,enro_age_0_5,enro_age_5_17,enro_age_18_greater
Kerala,Ernakulam,682001,3,1,Monday,5,5,10,0,1,1,1
Kerala,Thrissur,680001,3,1,Tuesday,0,0,0,0,10,10,10
Bihar,Patna,800001,12,1,Monday,50,50,0,0,0,0,0
Kerala,Ernakulam,682002,12,1,Sunday,1,1,2,2,0,0,1
`

func setupTestServer(t *testing.T, logger *zap.Logger) *Server {
	t.Helper()
	records, err := helpers.ParseCSV(strings.NewReader(fixtureCSV), schema.Enrolment())
	require.NoError(t, err)

	ds := engine.NewDataset("fixture.csv", records)
	return New(ds, config.Default().Server, logger)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	s := setupTestServer(t, nil)
	rec := get(t, s, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decode(t, rec, &body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(4), body["records"])
	assert.Equal(t, s.dataset.ID, body["snapshot"])
}

func TestOptions_Cascade(t *testing.T) {
	s := setupTestServer(t, nil)
	rec := get(t, s, "/api/options?state=Kerala")
	require.Equal(t, http.StatusOK, rec.Code)

	var body optionsResponse
	decode(t, rec, &body)
	assert.Equal(t, []string{"Bihar", "Kerala"}, body.Choices.States)
	assert.Equal(t, []string{"Ernakulam", "Thrissur"}, body.Choices.Districts)
	assert.Equal(t, []string{"3", "12"}, body.Choices.Months)
	assert.Equal(t, "Kerala", body.Filter.State)
	assert.Len(t, body.Tables, 10)
	assert.Equal(t, 2, body.Schema.Dimensions[0].Cardinality)
}

func TestDashboard(t *testing.T) {
	s := setupTestServer(t, nil)

	rec := get(t, s, "/api/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)

	var d engine.Dashboard
	decode(t, rec, &d)
	assert.Equal(t, 4, d.Records)
	assert.Equal(t, "12", d.Report.BestMonth)
	assert.Equal(t, "Monday", d.Report.BestWeekday)
	assert.Equal(t, int64(160), d.KeyMetrics.TotalActivity)
	assert.Len(t, d.Tables, 10)

	rec = get(t, s, "/api/dashboard?state=Kerala&weekday=All")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &d)
	assert.Equal(t, 3, d.Records)
	assert.Equal(t, "state=Kerala", d.FilterLabel)
}

func TestDashboard_EmptySubset(t *testing.T) {
	s := setupTestServer(t, nil)
	rec := get(t, s, "/api/dashboard?state=Goa")
	require.Equal(t, http.StatusOK, rec.Code)

	var d engine.Dashboard
	decode(t, rec, &d)
	assert.Equal(t, 0, d.Records)
	assert.Equal(t, engine.NotAvailable, d.Report.BestMonth)
}

func TestDashboard_InvalidKey(t *testing.T) {
	s := setupTestServer(t, nil)
	rec := get(t, s, "/api/dashboard?pincode=682001")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorBody
	decode(t, rec, &body)
	assert.Equal(t, http.StatusBadRequest, body.Code)
	assert.Contains(t, body.Error, "pincode")
	assert.NotEmpty(t, body.RequestID)
}

func TestDashboard_Cached(t *testing.T) {
	s := setupTestServer(t, nil)

	get(t, s, "/api/dashboard?state=Kerala")
	get(t, s, "/api/tables/top_districts?state=Kerala&format=csv")
	assert.Equal(t, 1, s.results.ItemCount())

	get(t, s, "/api/dashboard?state=Bihar")
	assert.Equal(t, 2, s.results.ItemCount())
}

func TestReport(t *testing.T) {
	s := setupTestServer(t, nil)

	rec := get(t, s, "/api/report")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, rec.Body.String(), "**Summary Report**")
	assert.Contains(t, rec.Body.String(), "Patna (Bihar)")

	rec = get(t, s, "/api/report?format=text")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SUMMARY REPORT")

	rec = get(t, s, "/api/report?format=pdf")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTable_Formats(t *testing.T) {
	s := setupTestServer(t, nil)

	rec := get(t, s, "/api/tables/top_districts")
	require.Equal(t, http.StatusOK, rec.Code)
	var table engine.TableData
	decode(t, rec, &table)
	assert.Equal(t, engine.TableTopDistricts, table.Name)
	assert.Equal(t, []string{"Bihar", "Patna", "100"}, table.Rows[0])

	rec = get(t, s, "/api/tables/top_districts?format=csv")
	require.Equal(t, http.StatusOK, rec.Code)
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Equal(t, "state,district,total_activity", lines[0])
	assert.Equal(t, "Bihar,Patna,100", lines[1])
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "top_districts.csv")

	rec = get(t, s, "/api/tables/top_districts?format=text")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Patna")

	rec = get(t, s, "/api/tables/key_metrics?format=xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{engine.TableKeyMetrics}, f.GetSheetList())
}

func TestTable_Errors(t *testing.T) {
	s := setupTestServer(t, nil)

	rec := get(t, s, "/api/tables/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, s, "/api/tables/top_districts?format=pdf")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport(t *testing.T) {
	s := setupTestServer(t, nil)
	rec := get(t, s, "/api/export.xlsx?state=Kerala")
	require.Equal(t, http.StatusOK, rec.Code)

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, engine.TableNames(), f.GetSheetList())
}

func TestRequestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := setupTestServer(t, zap.New(core))

	get(t, s, "/health")
	get(t, s, "/api/tables/nope")

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
	assert.Equal(t, "/health", entries[0].ContextMap()["path"])
	assert.Equal(t, int64(http.StatusNotFound), entries[1].ContextMap()["status"])
}

func TestCORSPreflight(t *testing.T) {
	s := setupTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/dashboard", nil)
	req.Header.Set("Origin", "https://dashboard.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
