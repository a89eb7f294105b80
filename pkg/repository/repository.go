// Package repository defines the data-access contracts the ledger core
// depends on. Implementations live in infra/repository (GORM/postgres) and in
// internal/fixtures (in-memory, for tests).
package repository

import (
	"context"

	"github.com/amirasaad/bankledger/pkg/currency"
	"github.com/amirasaad/bankledger/pkg/domain/account"
	"github.com/amirasaad/bankledger/pkg/domain/ledger"
	"github.com/amirasaad/bankledger/pkg/domain/rate"
	"github.com/google/uuid"
)

// AccountRepository defines data access for accounts.
//
// Save is a compare-and-swap on the account's Version token: it persists the
// account only if the stored row still carries the version the account was
// loaded with, bumps the version on success, and returns
// account.ErrConcurrencyConflict otherwise. The token check, not any
// in-process lock, is the authoritative guard against lost updates, because
// concurrent operations load independent copies of the same logical account.
type AccountRepository interface {
	Create(ctx context.Context, a *account.Account) error
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
	List(ctx context.Context) ([]*account.Account, error)
	ListByKind(ctx context.Context, kind account.Kind) ([]*account.Account, error)
	Save(ctx context.Context, a *account.Account) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RateRepository defines data access for conversion rates.
type RateRepository interface {
	Create(ctx context.Context, r *rate.Rate) error
	Get(ctx context.Context, id uuid.UUID) (*rate.Rate, error)
	GetByCurrency(ctx context.Context, code currency.Code) (*rate.Rate, error)
	List(ctx context.Context) ([]*rate.Rate, error)
}

// TransactionRepository defines data access for ledger records. Records are
// immutable: there is no update operation, only create and delete.
type TransactionRepository interface {
	Create(ctx context.Context, t *ledger.Transaction) error
	Get(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// EntryRepository defines data access for account-transaction link rows.
type EntryRepository interface {
	Create(ctx context.Context, e *ledger.Entry) error
	// ListDetails returns the flattened history for one account, with the
	// counterpart link of each transfer resolved. No ordering is guaranteed.
	ListDetails(ctx context.Context, accountID uuid.UUID, scope ledger.Scope) ([]ledger.TransactionDetails, error)
	// DeleteByAccount removes all link rows referencing the account.
	DeleteByAccount(ctx context.Context, accountID uuid.UUID) error
	// DeleteByTransaction removes all link rows referencing the transaction.
	DeleteByTransaction(ctx context.Context, transactionID uuid.UUID) error
}

// UnitOfWork provides the transaction boundary and repository access in one
// abstraction. Repositories obtained inside Do share the transactional
// session, so a balance save, a ledger write and its link writes either all
// commit or all roll back. If the function passed to Do returns an error, the
// whole unit is rolled back and the error is re-raised unchanged.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	AccountRepository() (AccountRepository, error)
	RateRepository() (RateRepository, error)
	TransactionRepository() (TransactionRepository, error)
	EntryRepository() (EntryRepository, error)
}
