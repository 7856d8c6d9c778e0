package columnar

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/tenant-health/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) (*Pool, sqlmock.Sqlmock, *int) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	opened := new(int)
	pool := NewPoolWithOpener(
		map[domain.Region]Settings{"us": {DSN: "clickhouse://localhost:9000/default"}},
		func(driver, dsn string) (*sql.DB, error) {
			assert.Equal(t, "clickhouse", driver)
			*opened++
			return db, nil
		},
	)

	return pool, mock, opened
}

func TestPool_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("anomaly refresh rows are keyed by column", func(t *testing.T) {
		pool, mock, opened := newMockPool(t)
		query, params := AnomalyRefreshQuery("org-1")

		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WillReturnRows(sqlmock.NewRows([]string{"organizationid", "lastRefresh"}).
				AddRow("org-1", "2026-02-21 11:15:32"))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) AS insightCount")).
			WillReturnRows(sqlmock.NewRows([]string{"insightCount"}).AddRow([]byte("3")))

		records, err := pool.Run(ctx, query, params, "us")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "org-1", records[0]["organizationid"])
		assert.Equal(t, "2026-02-21 11:15:32", records[0]["lastRefresh"])

		query, params = PolicyInsightsQuery("org-1", time.Now())
		records, err = pool.Run(ctx, query, params, "us")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "3", records[0]["insightCount"])

		assert.Equal(t, 1, *opened)

		mock.ExpectClose()
		assert.NoError(t, pool.Close(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows", func(t *testing.T) {
		pool, mock, _ := newMockPool(t)
		query, params := AnomalyRefreshQuery("org-1")

		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WillReturnRows(sqlmock.NewRows([]string{"organizationid", "lastRefresh"}))

		records, err := pool.Run(ctx, query, params, "us")

		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("query error is wrapped", func(t *testing.T) {
		pool, mock, _ := newMockPool(t)
		query, params := AnomalyRefreshQuery("org-1")
		cause := errors.New("read timeout")

		mock.ExpectQuery(regexp.QuoteMeta(query)).WillReturnError(cause)

		_, err := pool.Run(ctx, query, params, "us")

		assert.ErrorIs(t, err, cause)
	})

	t.Run("unknown region", func(t *testing.T) {
		pool, _, opened := newMockPool(t)

		_, err := pool.Run(ctx, "SELECT 1", nil, "ap")

		assert.ErrorIs(t, err, ErrUnknownRegion)
		assert.Equal(t, 0, *opened)
	})
}

func TestPolicyInsightsQuery(t *testing.T) {
	since := time.Date(2026, 10, 9, 15, 0, 0, 0, time.UTC)

	query, params := PolicyInsightsQuery("org-1", since)

	assert.Contains(t, query, "{sevenDaysAgo:String}")
	assert.Equal(t, map[string]string{"organizationId": "org-1", "sevenDaysAgo": "2026-10-09"}, params)
}

func TestPool_SlowRegionDoesNotBlockOthers(t *testing.T) {
	ctx := context.Background()

	usDB, _, err := sqlmock.New()
	require.NoError(t, err)
	euDB, euMock, err := sqlmock.New()
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	pool := NewPoolWithOpener(
		map[domain.Region]Settings{
			"us": {DSN: "clickhouse://us:9000/default"},
			"eu": {DSN: "clickhouse://eu:9000/default"},
		},
		func(_, dsn string) (*sql.DB, error) {
			if dsn == "clickhouse://us:9000/default" {
				close(entered)
				<-release
				return usDB, nil
			}
			return euDB, nil
		},
	)

	usDone := make(chan error, 1)
	go func() {
		_, err := pool.db(ctx, "us")
		usDone <- err
	}()
	<-entered

	euMock.ExpectQuery(regexp.QuoteMeta("SELECT 1")).
		WillReturnRows(sqlmock.NewRows([]string{"one"}).AddRow(int64(1)))

	euDone := make(chan error, 1)
	go func() {
		_, err := pool.Run(ctx, "SELECT 1", nil, "eu")
		euDone <- err
	}()

	select {
	case err := <-euDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("eu query waited on the us connect")
	}

	close(release)
	require.NoError(t, <-usDone)
	assert.NoError(t, euMock.ExpectationsWereMet())
}

func TestPool_ConcurrentCallersShareOneHandle(t *testing.T) {
	ctx := context.Background()
	pool, _, opened := newMockPool(t)

	var wg sync.WaitGroup
	handles := make([]*sql.DB, 8)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			db, err := pool.db(ctx, "us")
			assert.NoError(t, err)
			handles[i] = db
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, *opened)
	for _, db := range handles {
		assert.Same(t, handles[0], db)
	}
}
