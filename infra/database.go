// Package infra wires the durable storage the ledger core runs against.
package infra

import (
	"errors"
	"time"

	accountmodel "github.com/amirasaad/bankledger/infra/repository/account"
	entrymodel "github.com/amirasaad/bankledger/infra/repository/entry"
	ratemodel "github.com/amirasaad/bankledger/infra/repository/rate"
	transactionmodel "github.com/amirasaad/bankledger/infra/repository/transaction"
	"github.com/amirasaad/bankledger/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDBConnection opens the postgres connection and configures the pool.
// TranslateError is on so unique-constraint violations surface as
// gorm.ErrDuplicatedKey and can be mapped onto domain errors.
func NewDBConnection(cfg config.DB, appEnv string) (*gorm.DB, error) {
	if cfg.Url == "" {
		return nil, errors.New("BANKLEDGER_DB_URL is not set")
	}

	logMode := logger.Silent
	if appEnv == "development" {
		logMode = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.Url), &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// AutoMigrate creates or updates the schema for all ledger-core tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&ratemodel.Rate{},
		&accountmodel.Account{},
		&transactionmodel.Transaction{},
		&entrymodel.Entry{},
	)
}
