// Package repository provides the GORM implementation of the unit of work.
package repository

import (
	"context"

	accountrepo "github.com/amirasaad/bankledger/infra/repository/account"
	entryrepo "github.com/amirasaad/bankledger/infra/repository/entry"
	raterepo "github.com/amirasaad/bankledger/infra/repository/rate"
	transactionrepo "github.com/amirasaad/bankledger/infra/repository/transaction"
	"github.com/amirasaad/bankledger/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides the transaction boundary and repository access in one
// abstraction. Repositories handed out inside Do are bound to the open
// database transaction, so a balance save, the ledger write and the link
// writes commit or roll back together; repositories obtained outside Do run
// on plain sessions.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// Do runs fn inside one database transaction. If fn returns an error the
// transaction is rolled back and the error re-raised unchanged; no partial
// state survives.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// AccountRepository returns an account repository bound to the current session.
func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	return accountrepo.New(u.session()), nil
}

// RateRepository returns a rate repository bound to the current session.
func (u *UoW) RateRepository() (repository.RateRepository, error) {
	return raterepo.New(u.session()), nil
}

// TransactionRepository returns a ledger record repository bound to the current session.
func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	return transactionrepo.New(u.session()), nil
}

// EntryRepository returns a link-row repository bound to the current session.
func (u *UoW) EntryRepository() (repository.EntryRepository, error) {
	return entryrepo.New(u.session()), nil
}
