package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	domainaccount "github.com/amirasaad/bankledger/pkg/domain/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func newSavings(t *testing.T) *domainaccount.Account {
	t.Helper()
	a, err := domainaccount.New().
		WithNumber(1001).
		WithClientID(uuid.New()).
		WithRateID(uuid.New()).
		WithBalance(decimal.NewFromInt(1000)).
		AsSavings(decimal.NewFromInt(5)).
		Build()
	require.NoError(t, err)
	return a
}

func TestRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo{db: db}
	a := newSavings(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "accounts" (.+) VALUES (.+)`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	require.NoError(t, r.Create(context.Background(), a))

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "accounts" (.+) VALUES (.+)`).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()
	err := r.Create(context.Background(), a)
	assert.ErrorIs(t, err, domainaccount.ErrDuplicateAccountNumber)
}

func TestRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo{db: db}
	a := newSavings(t)

	rows := sqlmock.NewRows([]string{
		"id", "number", "client_id", "rate_id", "kind",
		"balance", "interest_rate", "overdraft_limit", "version",
		"created_at", "updated_at",
	}).AddRow(
		a.ID, a.Number, a.ClientID, a.RateID, string(a.Kind),
		"1000", "5", "0", int64(3),
		time.Now().UTC(), time.Now().UTC(),
	)
	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1`).
		WithArgs(a.ID, 1).WillReturnRows(rows)

	got, err := r.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, domainaccount.KindSavings, got.Kind)
	assert.Equal(t, "1000", got.Balance.String())
	assert.Equal(t, int64(3), got.Version)

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1`).
		WithArgs(sqlmock.AnyArg(), 1).WillReturnError(gorm.ErrRecordNotFound)
	_, err = r.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainaccount.ErrAccountNotFound)
}

// Save must only commit when the stored version still matches, and must report
// a conflict when another writer got there first.
func TestRepository_Save(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo{db: db}
	a := newSavings(t)
	loadedVersion := a.Version

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "accounts" SET (.+) WHERE id = \$\d+ AND version = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, r.Save(context.Background(), a))
	assert.Equal(t, loadedVersion+1, a.Version, "successful save advances the token")

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "accounts" SET (.+) WHERE id = \$\d+ AND version = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	err := r.Save(context.Background(), a)
	assert.ErrorIs(t, err, domainaccount.ErrConcurrencyConflict)
	assert.Equal(t, loadedVersion+1, a.Version, "a lost race leaves the token alone")

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "accounts" SET (.+) WHERE id = \$\d+ AND version = \$\d+`).
		WillReturnError(errors.New("save error"))
	mock.ExpectRollback()
	assert.Error(t, r.Save(context.Background(), a))
}

func TestRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo{db: db}
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "accounts" WHERE id = \$1`).
		WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, r.Delete(context.Background(), id))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "accounts" WHERE id = \$1`).
		WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	assert.ErrorIs(t, r.Delete(context.Background(), id), domainaccount.ErrAccountNotFound)
}
