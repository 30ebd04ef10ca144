package migrations_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Dashboard-api/internal/infrastructure/postgres/migrations"
)

func TestApplyEjecutaTodasLasMigracionesEnOrden(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS customers")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS invoices")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS users")).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, migrations.Apply(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyDetieneEnElPrimerError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(".*").WillReturnError(errors.New("permission denied"))

	err = migrations.Apply(context.Background(), db)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_customers.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNames(t *testing.T) {
	names, err := migrations.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"sql/001_customers.sql", "sql/002_invoices.sql", "sql/003_users.sql"}, names)
}
