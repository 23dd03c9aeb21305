package counter_test

import (
	"context"
	"regexp"
	"testing"

	"go-madrasah/internal/shared/counter"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupCounterRepo(t *testing.T) (counter.Repository, sqlmock.Sqlmock, func()) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	assert.NoError(t, err)

	return counter.NewRepository(gormDB), mock, func() { _ = sqlDB.Close() }
}

func TestCounterRepository_GetNextValue(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta("INSERT INTO tenant_counters")

	t.Run("outside transaction", func(t *testing.T) {
		repo, mock, closeFn := setupCounterRepo(t)
		defer closeFn()

		mock.ExpectQuery(query).
			WithArgs("tenant-1", counter.CounterPayrollRun).
			WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(7))

		got, err := repo.GetNextValue(ctx, "tenant-1", counter.CounterPayrollRun)

		assert.NoError(t, err)
		assert.Equal(t, int64(7), got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("inside transaction", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer sqlDB.Close()

		gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
		assert.NoError(t, err)
		repo := counter.NewRepository(gormDB)

		mock.ExpectBegin()
		mock.ExpectQuery(query).
			WithArgs("tenant-1", counter.CounterPayrollRun).
			WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(1))
		mock.ExpectCommit()

		tx, err := sqlDB.BeginTx(ctx, nil)
		assert.NoError(t, err)

		got, err := repo.WithTx(tx).GetNextValue(ctx, "tenant-1", counter.CounterPayrollRun)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), got)
		assert.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
