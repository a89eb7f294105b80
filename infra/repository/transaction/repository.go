// Package transaction provides the GORM-backed ledger record repository.
package transaction

import (
	"context"
	"errors"

	domainledger "github.com/amirasaad/bankledger/pkg/domain/ledger"
	"github.com/amirasaad/bankledger/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New creates a transaction repository bound to the given session.
func New(db *gorm.DB) repository.TransactionRepository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, t *domainledger.Transaction) error {
	row := Transaction{
		ID:        t.ID,
		Kind:      string(t.Kind),
		Amount:    t.Amount,
		RateID:    t.RateID,
		Timestamp: t.Timestamp,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *repo) Get(ctx context.Context, id uuid.UUID) (*domainledger.Transaction, error) {
	var row Transaction
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainledger.ErrTransactionNotFound
		}
		return nil, err
	}
	return &domainledger.Transaction{
		ID:        row.ID,
		Kind:      domainledger.Kind(row.Kind),
		Amount:    row.Amount,
		RateID:    row.RateID,
		Timestamp: row.Timestamp,
	}, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Transaction{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainledger.ErrTransactionNotFound
	}
	return nil
}
