// Package account provides the business logic for account operations: opening
// accounts and executing every balance-affecting operation as one atomic unit.
//
// Each operation runs inside a unit of work: load the account(s), apply the
// variant's balance rules, save the new balance with a concurrency-token
// check, and record the ledger row plus its link rows. Any failure at any
// step rolls the whole unit back; the caller observes either full success or
// full failure. Token conflicts are retried against fresh state up to a
// configured bound.
package account

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amirasaad/bankledger/pkg/config"
	"github.com/amirasaad/bankledger/pkg/domain/account"
	"github.com/amirasaad/bankledger/pkg/domain/rate"
	"github.com/amirasaad/bankledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service coordinates account operations over a unit of work.
type Service struct {
	uow        repository.UnitOfWork
	logger     *slog.Logger
	maxRetries int
}

// New creates a Service with the provided dependencies.
func New(uow repository.UnitOfWork, cfg config.Ledger, logger *slog.Logger) *Service {
	return &Service{
		uow:        uow,
		logger:     logger,
		maxRetries: cfg.MaxConflictRetries,
	}
}

// OpenParams carries everything needed to open an account of either variant.
type OpenParams struct {
	Kind     account.Kind
	Number   int64
	ClientID uuid.UUID
	RateID   uuid.UUID
	Balance  decimal.Decimal

	// InterestRate applies to savings accounts.
	InterestRate decimal.Decimal
	// OverdraftLimit applies to checking accounts; nil selects the default.
	OverdraftLimit *decimal.Decimal
}

// Open creates a new account after verifying its rate exists and its account
// number is unused.
func (s *Service) Open(ctx context.Context, p OpenParams) (a *account.Account, err error) {
	logger := s.logger.With("op", "open", "number", p.Number, "kind", p.Kind)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		rates, err := uow.RateRepository()
		if err != nil {
			return err
		}
		if _, err = rates.Get(ctx, p.RateID); err != nil {
			return err
		}
		b := account.New().
			WithNumber(p.Number).
			WithClientID(p.ClientID).
			WithRateID(p.RateID).
			WithBalance(p.Balance)
		switch p.Kind {
		case account.KindSavings:
			b = b.AsSavings(p.InterestRate)
		case account.KindChecking:
			overdraft := account.DefaultOverdraft
			if p.OverdraftLimit != nil {
				overdraft = *p.OverdraftLimit
			}
			b = b.AsChecking(overdraft)
		default:
			return account.ErrAccountTypeMismatch
		}
		if a, err = b.Build(); err != nil {
			return err
		}
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		return accounts.Create(ctx, a)
	})
	if err != nil {
		logger.Error("open failed", "error", err)
		return nil, err
	}
	logger.Info("account opened", "accountID", a.ID)
	return a, nil
}

// Get returns one account by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return accounts.Get(ctx, id)
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]*account.Account, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return accounts.List(ctx)
}

// ListByKind returns all accounts of one variant.
func (s *Service) ListByKind(ctx context.Context, kind account.Kind) ([]*account.Account, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return accounts.ListByKind(ctx, kind)
}

// Delete removes an account and, first, every link row referencing it, in one
// unit. The transactions themselves are kept; they remain valid history for
// their counterpart accounts.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		entries, err := uow.EntryRepository()
		if err != nil {
			return err
		}
		if err = entries.DeleteByAccount(ctx, id); err != nil {
			return err
		}
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		return accounts.Delete(ctx, id)
	})
}

// withConflictRetry executes one atomic unit, retrying it from scratch when
// the save lost a concurrency-token race. Every retry re-reads the accounts
// inside a fresh unit, so the second committer always operates on the first
// committer's result.
func (s *Service) withConflictRetry(
	ctx context.Context,
	op string,
	fn func(uow repository.UnitOfWork) error,
) error {
	for attempt := 0; ; attempt++ {
		err := s.uow.Do(ctx, fn)
		if !errors.Is(err, account.ErrConcurrencyConflict) || attempt >= s.maxRetries {
			return err
		}
		s.logger.Warn("retrying after concurrent update", "op", op, "attempt", attempt+1)
	}
}

// resolveRates loads the rate the request amount is denominated in (falling
// back to the account's own rate when none is given) and the account's rate.
func resolveRates(
	ctx context.Context,
	rates repository.RateRepository,
	requestRateID, accountRateID uuid.UUID,
) (reqRate, acctRate *rate.Rate, err error) {
	if requestRateID == uuid.Nil {
		requestRateID = accountRateID
	}
	if reqRate, err = rates.Get(ctx, requestRateID); err != nil {
		return nil, nil, err
	}
	if requestRateID == accountRateID {
		return reqRate, reqRate, nil
	}
	if acctRate, err = rates.Get(ctx, accountRateID); err != nil {
		return nil, nil, err
	}
	return reqRate, acctRate, nil
}
