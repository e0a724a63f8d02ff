package migration

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pantryapi/internal/logger"
)

const sentinelQuery = `SELECT to_regclass\('public.pantry_items'\) IS NOT NULL`

func TestEnsureMigrated(t *testing.T) {
	t.Run("runs every step when the table is missing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		var buf bytes.Buffer
		log := logger.New(logger.Options{Output: &buf})

		mock.ExpectQuery(sentinelQuery).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS pantry_items").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_pantry_items_name").WillReturnResult(sqlmock.NewResult(0, 0))

		err = EnsureMigrated(context.Background(), db, log, "db.local")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.Contains(t, buf.String(), "db_migration_success")
	})

	t.Run("skips when the table exists", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(sentinelQuery).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err = EnsureMigrated(context.Background(), db, logger.Nop(), "db.local")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sentinel check error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(sentinelQuery).WillReturnError(errors.New("connection refused"))

		err = EnsureMigrated(context.Background(), db, logger.Nop(), "db.local")

		assert.ErrorContains(t, err, "failed to check sentinel table")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("step error stops the run", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(sentinelQuery).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS pantry_items").WillReturnError(errors.New("permission denied"))

		err = EnsureMigrated(context.Background(), db, logger.Nop(), "db.local")

		assert.ErrorContains(t, err, "migration step create_table_pantry_items failed")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
