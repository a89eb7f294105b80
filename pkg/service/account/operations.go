package account

import (
	"context"

	"github.com/amirasaad/bankledger/pkg/domain/account"
	"github.com/amirasaad/bankledger/pkg/domain/ledger"
	"github.com/amirasaad/bankledger/pkg/domain/rate"
	"github.com/amirasaad/bankledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Deposit credits an account inside one atomic unit. The amount is
// denominated in rateID (the account's own rate when Nil) and converted into
// the account's currency before the balance mutation; the ledger records the
// requested amount and rate. Returns the refreshed account and the ledger row.
func (s *Service) Deposit(
	ctx context.Context,
	accountID uuid.UUID,
	amount decimal.Decimal,
	rateID uuid.UUID,
) (a *account.Account, tx *ledger.Transaction, err error) {
	logger := s.logger.With("op", "deposit", "accountID", accountID)
	err = s.withConflictRetry(ctx, "deposit", func(uow repository.UnitOfWork) error {
		a, tx = nil, nil
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		rates, err := uow.RateRepository()
		if err != nil {
			return err
		}
		if a, err = accounts.Get(ctx, accountID); err != nil {
			return err
		}
		reqRate, acctRate, err := resolveRates(ctx, rates, rateID, a.RateID)
		if err != nil {
			return err
		}
		credit, err := rate.Convert(amount, reqRate.UnitsPerBase, acctRate.UnitsPerBase)
		if err != nil {
			return err
		}
		if err = a.Deposit(credit); err != nil {
			return err
		}
		if err = accounts.Save(ctx, a); err != nil {
			return err
		}
		tx, err = ledger.NewTransaction(ledger.KindDeposit, amount, reqRate.ID)
		if err != nil {
			return err
		}
		return s.record(ctx, uow, tx, ledger.Entry{
			AccountID:     a.ID,
			TransactionID: tx.ID,
			Source:        true,
		})
	})
	if err != nil {
		logger.Error("deposit failed", "error", err)
		return nil, nil, err
	}
	logger.Info("deposit committed", "transactionID", tx.ID, "balance", a.Balance)
	return a, tx, nil
}

// Withdraw debits an account inside one atomic unit, applying the variant's
// own rule (checking accounts may draw on their overdraft). Denomination
// follows Deposit: the amount is converted into the account's currency before
// the mutation, and the ledger records the requested amount and rate.
func (s *Service) Withdraw(
	ctx context.Context,
	accountID uuid.UUID,
	amount decimal.Decimal,
	rateID uuid.UUID,
) (a *account.Account, tx *ledger.Transaction, err error) {
	logger := s.logger.With("op", "withdraw", "accountID", accountID)
	err = s.withConflictRetry(ctx, "withdraw", func(uow repository.UnitOfWork) error {
		a, tx = nil, nil
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		rates, err := uow.RateRepository()
		if err != nil {
			return err
		}
		if a, err = accounts.Get(ctx, accountID); err != nil {
			return err
		}
		reqRate, acctRate, err := resolveRates(ctx, rates, rateID, a.RateID)
		if err != nil {
			return err
		}
		debit, err := rate.Convert(amount, reqRate.UnitsPerBase, acctRate.UnitsPerBase)
		if err != nil {
			return err
		}
		if err = a.Withdraw(debit); err != nil {
			return err
		}
		if err = accounts.Save(ctx, a); err != nil {
			return err
		}
		tx, err = ledger.NewTransaction(ledger.KindWithdraw, amount, reqRate.ID)
		if err != nil {
			return err
		}
		return s.record(ctx, uow, tx, ledger.Entry{
			AccountID:     a.ID,
			TransactionID: tx.ID,
			Source:        true,
		})
	})
	if err != nil {
		logger.Error("withdraw failed", "error", err)
		return nil, nil, err
	}
	logger.Info("withdraw committed", "transactionID", tx.ID, "balance", a.Balance)
	return a, tx, nil
}

// Transfer moves funds between two accounts as one atomic unit: the source is
// debited under its own variant rule, the amount is converted through the
// rate table into the target's currency, and one transfer row with two link
// rows (source and destination) is recorded. Both balances are saved inside
// the same unit, in ascending account-id order so two opposing transfers
// cannot interleave their token checks in conflicting orders.
func (s *Service) Transfer(
	ctx context.Context,
	sourceID, targetID uuid.UUID,
	amount decimal.Decimal,
	rateID uuid.UUID,
) (source, target *account.Account, tx *ledger.Transaction, err error) {
	logger := s.logger.With("op", "transfer", "sourceID", sourceID, "targetID", targetID)
	if sourceID == targetID {
		return nil, nil, nil, account.ErrCannotTransferToSameAccount
	}
	err = s.withConflictRetry(ctx, "transfer", func(uow repository.UnitOfWork) error {
		source, target, tx = nil, nil, nil
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		rates, err := uow.RateRepository()
		if err != nil {
			return err
		}
		if source, err = accounts.Get(ctx, sourceID); err != nil {
			return err
		}
		if target, err = accounts.Get(ctx, targetID); err != nil {
			return err
		}
		reqRate, sourceRate, err := resolveRates(ctx, rates, rateID, source.RateID)
		if err != nil {
			return err
		}
		targetRate := sourceRate
		if target.RateID != source.RateID {
			if targetRate, err = rates.Get(ctx, target.RateID); err != nil {
				return err
			}
		}
		// The requested amount is re-denominated into the source currency;
		// the variant engine then debits it and credits the conversion into
		// the target currency.
		debit, err := rate.Convert(amount, reqRate.UnitsPerBase, sourceRate.UnitsPerBase)
		if err != nil {
			return err
		}
		if err = source.Transfer(target, debit, sourceRate.UnitsPerBase, targetRate.UnitsPerBase); err != nil {
			return err
		}
		for _, a := range orderByID(source, target) {
			if err = accounts.Save(ctx, a); err != nil {
				return err
			}
		}
		if tx, err = ledger.NewTransaction(ledger.KindTransfer, amount, reqRate.ID); err != nil {
			return err
		}
		return s.record(ctx, uow, tx,
			ledger.Entry{AccountID: source.ID, TransactionID: tx.ID, Source: true},
			ledger.Entry{AccountID: target.ID, TransactionID: tx.ID, Source: false},
		)
	})
	if err != nil {
		logger.Error("transfer failed", "error", err)
		return nil, nil, nil, err
	}
	logger.Info("transfer committed", "transactionID", tx.ID)
	return source, target, tx, nil
}

// AddInterest compounds interest on a savings account for the given number of
// periods, saving the new balance under the concurrency token. No ledger row
// is written; interest accrual is a balance restatement, not a movement.
func (s *Service) AddInterest(ctx context.Context, accountID uuid.UUID, periods int) (a *account.Account, err error) {
	logger := s.logger.With("op", "add_interest", "accountID", accountID, "periods", periods)
	err = s.withConflictRetry(ctx, "add_interest", func(uow repository.UnitOfWork) error {
		a = nil
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if a, err = accounts.Get(ctx, accountID); err != nil {
			return err
		}
		if err = a.AddInterest(periods); err != nil {
			return err
		}
		return accounts.Save(ctx, a)
	})
	if err != nil {
		logger.Error("add interest failed", "error", err)
		return nil, err
	}
	logger.Info("interest added", "balance", a.Balance)
	return a, nil
}

// CalculateInterest simulates the compounding and returns the accumulated
// interest without mutating any stored state.
func (s *Service) CalculateInterest(ctx context.Context, accountID uuid.UUID, periods int) (decimal.Decimal, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return decimal.Zero, err
	}
	a, err := accounts.Get(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return a.CalculateInterest(periods)
}

// record writes the ledger row and its link rows through the unit's
// transactional session.
func (s *Service) record(
	ctx context.Context,
	uow repository.UnitOfWork,
	tx *ledger.Transaction,
	entries ...ledger.Entry,
) error {
	transactions, err := uow.TransactionRepository()
	if err != nil {
		return err
	}
	if err = transactions.Create(ctx, tx); err != nil {
		return err
	}
	entryRepo, err := uow.EntryRepository()
	if err != nil {
		return err
	}
	for i := range entries {
		if err = entryRepo.Create(ctx, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

func orderByID(a, b *account.Account) [2]*account.Account {
	if a.ID.String() <= b.ID.String() {
		return [2]*account.Account{a, b}
	}
	return [2]*account.Account{b, a}
}
