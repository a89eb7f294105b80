// Package ledger provides the read paths over the account-transaction link
// table: full, source-only and destination-only history for one account.
package ledger

import (
	"context"
	"log/slog"

	domainledger "github.com/amirasaad/bankledger/pkg/domain/ledger"
	"github.com/amirasaad/bankledger/pkg/repository"
	"github.com/google/uuid"
)

// Service answers ledger history queries.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a Service with the provided dependencies.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// List returns the flattened transaction records linked to the account,
// filtered by scope. The account must exist. Ordering is not guaranteed;
// callers needing determinism sort by timestamp themselves.
func (s *Service) List(
	ctx context.Context,
	accountID uuid.UUID,
	scope domainledger.Scope,
) ([]domainledger.TransactionDetails, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	if _, err = accounts.Get(ctx, accountID); err != nil {
		return nil, err
	}
	entries, err := s.uow.EntryRepository()
	if err != nil {
		return nil, err
	}
	details, err := entries.ListDetails(ctx, accountID, scope)
	if err != nil {
		s.logger.Error("history query failed", "accountID", accountID, "scope", scope, "error", err)
		return nil, err
	}
	return details, nil
}

// Get returns one ledger record by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domainledger.Transaction, error) {
	transactions, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return transactions.Get(ctx, id)
}

// Delete removes one ledger record and its link rows in one unit. Records are
// immutable, so this is the only write the ledger surface offers; balances are
// not restated.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		entries, err := uow.EntryRepository()
		if err != nil {
			return err
		}
		if err = entries.DeleteByTransaction(ctx, id); err != nil {
			return err
		}
		transactions, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		return transactions.Delete(ctx, id)
	})
	if err != nil {
		s.logger.Error("transaction delete failed", "transactionID", id, "error", err)
		return err
	}
	s.logger.Info("transaction deleted", "transactionID", id)
	return nil
}
