package helpers

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/spektr-org/aadhaar-pulse/engine"
	"github.com/spektr-org/aadhaar-pulse/schema"
)

// ============================================================================
// SOURCE DISPATCH — one URI, one immutable snapshot
// ============================================================================
//   data/activity.csv, file:///data/activity.csv   → ParseCSV
//   s3://bucket/path/activity.csv                  → FetchS3 + ParseCSV
//   sqlite://data/pulse.db?table=activity          → LoadSQL (sqlite3)
//   postgres://user@host/db?table=activity         → LoadSQL (postgres)
// ============================================================================

// DefaultTable is read when a database source names no table.
const DefaultTable = "enrolment_activity"

// ErrNoSource is returned when Load is called with an empty source.
var ErrNoSource = errors.New("no dataset source configured")

type loadConfig struct {
	schema   schema.Config
	s3Client S3GetObjectAPI
	region   string
}

// LoadOption configures Load.
type LoadOption func(*loadConfig)

// WithSchema overrides the dataset description used to locate columns.
func WithSchema(sch schema.Config) LoadOption {
	return func(c *loadConfig) { c.schema = sch }
}

// WithS3Client sets the client used for s3:// sources.
func WithS3Client(api S3GetObjectAPI) LoadOption {
	return func(c *loadConfig) { c.s3Client = api }
}

// WithRegion sets the AWS region used when Load builds its own S3 client.
func WithRegion(region string) LoadOption {
	return func(c *loadConfig) { c.region = region }
}

// Load reads source into a Dataset snapshot.
func Load(ctx context.Context, source string, opts ...LoadOption) (*engine.Dataset, error) {
	cfg := &loadConfig{schema: schema.Enrolment()}
	for _, o := range opts {
		o(cfg)
	}

	records, err := loadRecords(ctx, source, cfg)
	if err != nil {
		return nil, err
	}
	return engine.NewDataset(source, records), nil
}

func loadRecords(ctx context.Context, source string, cfg *loadConfig) ([]engine.Record, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrNoSource
	}

	u, err := url.Parse(source)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain path (a single-letter scheme is a drive letter).
		return loadFile(source, cfg.schema)
	}

	switch u.Scheme {
	case "file":
		return loadFile(u.Host+u.Path, cfg.schema)

	case "s3":
		api := cfg.s3Client
		if api == nil {
			client, err := NewS3Client(ctx, cfg.region)
			if err != nil {
				return nil, err
			}
			api = client
		}
		body, err := FetchS3(ctx, api, u.Host, strings.TrimPrefix(u.Path, "/"))
		if err != nil {
			return nil, err
		}
		return ParseCSV(bytes.NewReader(body), cfg.schema)

	case "sqlite", "sqlite3":
		table := tableParam(u)
		return loadDB(ctx, "sqlite3", u.Host+u.Path, table, cfg.schema)

	case "postgres", "postgresql":
		table := tableParam(u)
		return loadDB(ctx, "postgres", u.String(), table, cfg.schema)

	default:
		return nil, fmt.Errorf("unsupported source scheme %q", u.Scheme)
	}
}

// tableParam pops the table query parameter so the rest of the URI can be
// handed to the driver untouched.
func tableParam(u *url.URL) string {
	q := u.Query()
	table := q.Get("table")
	q.Del("table")
	u.RawQuery = q.Encode()
	if table == "" {
		return DefaultTable
	}
	return table
}

func loadFile(path string, sch schema.Config) ([]engine.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()
	return ParseCSV(f, sch)
}

func loadDB(ctx context.Context, driver, dsn, table string, sch schema.Config) ([]engine.Record, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}
	defer db.Close()
	return LoadSQL(ctx, db, table, sch)
}
