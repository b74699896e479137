package helpers

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/aadhaar-pulse/engine"
	"github.com/spektr-org/aadhaar-pulse/schema"
)

const createActivity = `CREATE TABLE activity (
	state TEXT, district TEXT, pincode TEXT, month TEXT, day TEXT, weekday TEXT,
	demo_age_5_17 INTEGER, demo_age_17_ INTEGER, bio_age_5_17 INTEGER, bio_age_17_ INTEGER,
	enro_age_0_5 INTEGER, enro_age_5_17 INTEGER, enro_age_18_greater INTEGER
)`

const insertActivity = `INSERT INTO activity VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func seedSQLite(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(createActivity)
	require.NoError(t, err)

	rows := [][]any{
		{"Kerala", "Ernakulam", "682001", "3", "1", "Monday", 5, 5, 10, 0, 1, 1, 1},
		{"Bihar", "Patna", "800001", "12", "2", "Monday", 50, 50, 0, 0, 0, 0, 0},
	}
	for _, r := range rows {
		_, err := db.Exec(insertActivity, r...)
		require.NoError(t, err)
	}
}

func TestLoadSQL_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	seedSQLite(t, db)

	records, err := LoadSQL(context.Background(), db, "activity", schema.Enrolment())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Kerala", records[0].State)
	assert.Equal(t, int64(23), records[0].Metrics().TotalActivity)
	assert.Equal(t, int64(100), records[1].Metrics().DemoTotal)
}

func TestLoadSQL_Mock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := schema.Enrolment().RequiredColumns()
	mock.ExpectQuery("SELECT state, district, pincode, .* FROM public.activity").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("Kerala", "Ernakulam", []byte("682001"), "3", "1", "Monday",
				int64(5), int64(5), int64(10), int64(0), int64(1), int64(1), int64(1)).
			AddRow("Bihar", "Patna", "800001", "12", "2", "Monday",
				float64(50), "50", int64(0), int64(0), int64(0), int64(0), int64(0)))

	records, err := LoadSQL(context.Background(), db, "public.activity", schema.Enrolment())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "682001", records[0].Pincode)
	assert.Equal(t, int64(100), records[1].Metrics().DemoTotal)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSQL_MalformedRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := schema.Enrolment().RequiredColumns()
	mock.ExpectQuery("SELECT .* FROM activity").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("Kerala", "Ernakulam", "682001", "3", "1", "Monday",
				int64(5), int64(5), int64(10), int64(0), int64(1), int64(1), int64(1)).
			AddRow("Kerala", "Ernakulam", "682001", "3", "1", "Monday",
				int64(5), int64(-5), int64(10), int64(0), int64(1), int64(1), nil))

	_, err = LoadSQL(context.Background(), db, "activity", schema.Enrolment())
	require.Error(t, err)

	var mr *engine.MalformedRecordError
	require.ErrorAs(t, err, &mr)
	assert.Equal(t, 3, mr.Line)
	assert.Equal(t, engine.FieldDemoAge17Plus, mr.Column)
}

func TestLoadSQL_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT .* FROM activity").WillReturnError(errors.New("connection reset"))

	_, err = LoadSQL(context.Background(), db, "activity", schema.Enrolment())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestLoadSQL_InvalidTable(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = LoadSQL(context.Background(), db, "activity; DROP TABLE x", schema.Enrolment())
	assert.Error(t, err)
}

func TestLoad_SQLiteSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pulse.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	seedSQLite(t, db)
	require.NoError(t, db.Close())

	ds, err := Load(context.Background(), "sqlite://"+path+"?table=activity")
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.NotEmpty(t, ds.ID)
}
