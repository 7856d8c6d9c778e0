package columnar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/de-tools/tenant-health/pkg/models/domain"
	"github.com/rs/zerolog"
)

const driverName = "clickhouse"

var (
	ErrUnknownRegion = errors.New("no columnar store configured for region")
	ErrMissingDSN    = errors.New("columnar store dsn is not set")
)

// Record is one result row keyed by column name.
type Record map[string]any

// Executor runs a parameterized query against the columnar store of a region.
// Parameters are bound server side with the {name:Type} syntax.
type Executor interface {
	Run(ctx context.Context, query string, params map[string]string, region domain.Region) ([]Record, error)
}

type Settings struct {
	DSN string
}

// Opener opens a database handle for a DSN. sql.Open is used unless the pool
// is built with another one.
type Opener func(driverName, dsn string) (*sql.DB, error)

// Pool keeps one database handle per region, opened and pinged on first use.
type Pool struct {
	settings map[domain.Region]Settings
	open     Opener

	mu  sync.Mutex
	dbs map[domain.Region]*regionDB
}

// regionDB guards the connect of a single region so a slow store only holds
// up callers of that region.
type regionDB struct {
	mu sync.Mutex
	db *sql.DB
}

func NewPool(settings map[domain.Region]Settings) *Pool {
	return NewPoolWithOpener(settings, sql.Open)
}

func NewPoolWithOpener(settings map[domain.Region]Settings, open Opener) *Pool {
	return &Pool{
		settings: settings,
		open:     open,
		dbs:      make(map[domain.Region]*regionDB),
	}
}

func (p *Pool) Run(ctx context.Context, query string, params map[string]string, region domain.Region) ([]Record, error) {
	logger := zerolog.Ctx(ctx).With().Str("region", region.String()).Logger()

	db, err := p.db(ctx, region)
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("query", query).Msg("running columnar query")

	queryCtx := clickhouse.Context(ctx, clickhouse.WithParameters(clickhouse.Parameters(params)))
	rows, err := db.QueryContext(queryCtx, query)
	if err != nil {
		return nil, fmt.Errorf("columnar query failed: %w", err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close columnar query rows")
		}
	}(rows)

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}

	logger.Debug().Int("rows", len(records)).Msg("columnar query returned")
	return records, nil
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var records []Record
	for rows.Next() {
		values := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		record := make(Record, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
				continue
			}
			record[col] = values[i]
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return records, nil
}

func (p *Pool) db(ctx context.Context, region domain.Region) (*sql.DB, error) {
	settings, ok := p.settings[region]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRegion, region)
	}
	if settings.DSN == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingDSN, region)
	}

	p.mu.Lock()
	entry, ok := p.dbs[region]
	if !ok {
		entry = &regionDB{}
		p.dbs[region] = entry
	}
	p.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.db != nil {
		return entry.db, nil
	}

	db, err := p.open(driverName, settings.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open columnar store for %s: %w", region, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping columnar store for %s: %w", region, err)
	}

	zerolog.Ctx(ctx).Info().Str("region", region.String()).Msg("columnar store connected")
	entry.db = db
	return db, nil
}

func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	logger := zerolog.Ctx(ctx)

	var errs []error
	for region, entry := range p.dbs {
		entry.mu.Lock()
		if entry.db != nil {
			if err := entry.db.Close(); err != nil {
				logger.Error().Err(err).Str("region", region.String()).Msg("failed to close columnar store")
				errs = append(errs, fmt.Errorf("close %s: %w", region, err))
			}
			entry.db = nil
		}
		entry.mu.Unlock()
		delete(p.dbs, region)
	}

	return errors.Join(errs...)
}
