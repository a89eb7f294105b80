// Package entry provides the GORM-backed account-transaction link repository
// and the flattened history queries built on top of it.
package entry

import (
	"context"
	"time"

	"github.com/amirasaad/bankledger/pkg/currency"
	domainledger "github.com/amirasaad/bankledger/pkg/domain/ledger"
	"github.com/amirasaad/bankledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New creates an entry repository bound to the given session.
func New(db *gorm.DB) repository.EntryRepository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, e *domainledger.Entry) error {
	row := Entry{
		AccountID:     e.AccountID,
		TransactionID: e.TransactionID,
		Source:        e.Source,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *repo) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Entry{}, "account_id = ?", accountID).Error
}

func (r *repo) DeleteByTransaction(ctx context.Context, transactionID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Entry{}, "transaction_id = ?", transactionID).Error
}

// detailRow is the flat scan target for the link/transaction/rate join.
type detailRow struct {
	AccountID     uuid.UUID
	Source        bool
	TransactionID uuid.UUID
	Kind          string
	Amount        decimal.Decimal
	Currency      string
	Timestamp     time.Time
}

// ListDetails joins the account's link rows with their transactions and the
// transaction's rate, then resolves each transfer's counterpart through the
// other link row sharing the transaction id. Two queries total; no ordering
// is guaranteed.
func (r *repo) ListDetails(
	ctx context.Context,
	accountID uuid.UUID,
	scope domainledger.Scope,
) ([]domainledger.TransactionDetails, error) {
	q := r.db.WithContext(ctx).
		Table("account_transactions AS at").
		Select("at.account_id, at.source, t.id AS transaction_id, t.kind, t.amount, r.currency, t.timestamp").
		Joins("JOIN transactions t ON t.id = at.transaction_id").
		Joins("JOIN rates r ON r.id = t.rate_id").
		Where("at.account_id = ?", accountID)
	switch scope {
	case domainledger.ScopeSource:
		q = q.Where("at.source")
	case domainledger.ScopeDestination:
		q = q.Where("NOT at.source")
	}

	var rows []detailRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []domainledger.TransactionDetails{}, nil
	}

	// Fetch the counterpart link rows for all listed transactions in one go.
	txIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		txIDs = append(txIDs, row.TransactionID)
	}
	var others []Entry
	if err := r.db.WithContext(ctx).
		Where("transaction_id IN ? AND account_id <> ?", txIDs, accountID).
		Find(&others).Error; err != nil {
		return nil, err
	}
	counterpart := make(map[uuid.UUID]uuid.UUID, len(others))
	for _, o := range others {
		counterpart[o.TransactionID] = o.AccountID
	}

	details := make([]domainledger.TransactionDetails, 0, len(rows))
	for _, row := range rows {
		d := domainledger.TransactionDetails{
			TransactionID: row.TransactionID,
			Kind:          domainledger.Kind(row.Kind),
			Amount:        row.Amount,
			Currency:      currency.Code(row.Currency),
			Timestamp:     row.Timestamp,
		}
		other, hasOther := counterpart[row.TransactionID]
		if row.Source {
			d.AccountID = row.AccountID
			if hasOther {
				d.ReceiverID = &other
			}
		} else {
			// This account is the credited side; the debited side is the
			// counterpart link with source = true.
			d.AccountID = other
			receiver := row.AccountID
			d.ReceiverID = &receiver
		}
		details = append(details, d)
	}
	return details, nil
}
