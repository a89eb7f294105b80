// Package account provides the GORM-backed account repository.
package account

import (
	"context"
	"errors"
	"time"

	domainaccount "github.com/amirasaad/bankledger/pkg/domain/account"
	"github.com/amirasaad/bankledger/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New creates an account repository bound to the given session.
func New(db *gorm.DB) repository.AccountRepository {
	return &repo{db: db}
}

// Create persists a new account. A reused account number surfaces as
// account.ErrDuplicateAccountNumber, backed by the unique index on number.
func (r *repo) Create(ctx context.Context, a *domainaccount.Account) error {
	row := mapDomainToModel(a)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainaccount.ErrDuplicateAccountNumber
		}
		return err
	}
	return nil
}

func (r *repo) Get(ctx context.Context, id uuid.UUID) (*domainaccount.Account, error) {
	var row Account
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainaccount.ErrAccountNotFound
		}
		return nil, err
	}
	return mapModelToDomain(&row)
}

func (r *repo) List(ctx context.Context) ([]*domainaccount.Account, error) {
	var rows []Account
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return mapModelsToDomain(rows)
}

func (r *repo) ListByKind(ctx context.Context, kind domainaccount.Kind) ([]*domainaccount.Account, error) {
	var rows []Account
	if err := r.db.WithContext(ctx).Where("kind = ?", string(kind)).Find(&rows).Error; err != nil {
		return nil, err
	}
	return mapModelsToDomain(rows)
}

// Save persists the mutated balance with a compare-and-swap on the version
// token. Zero affected rows means another operation committed since this
// account was loaded; the caller must reload and retry or fail.
func (r *repo) Save(ctx context.Context, a *domainaccount.Account) error {
	res := r.db.WithContext(ctx).Model(&Account{}).
		Where("id = ? AND version = ?", a.ID, a.Version).
		Updates(map[string]any{
			"balance":         a.Balance,
			"interest_rate":   a.InterestRate,
			"overdraft_limit": a.OverdraftLimit,
			"version":         a.Version + 1,
			"updated_at":      time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainaccount.ErrConcurrencyConflict
	}
	a.Version++
	return nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Account{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainaccount.ErrAccountNotFound
	}
	return nil
}

func mapDomainToModel(a *domainaccount.Account) Account {
	return Account{
		ID:             a.ID,
		Number:         a.Number,
		ClientID:       a.ClientID,
		RateID:         a.RateID,
		Kind:           string(a.Kind),
		Balance:        a.Balance,
		InterestRate:   a.InterestRate,
		OverdraftLimit: a.OverdraftLimit,
		Version:        a.Version,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func mapModelToDomain(row *Account) (*domainaccount.Account, error) {
	b := domainaccount.New().
		WithID(row.ID).
		WithNumber(row.Number).
		WithClientID(row.ClientID).
		WithRateID(row.RateID).
		WithBalance(row.Balance).
		WithVersion(row.Version).
		WithTimestamps(row.CreatedAt, row.UpdatedAt)
	switch domainaccount.Kind(row.Kind) {
	case domainaccount.KindSavings:
		b = b.AsSavings(row.InterestRate)
	case domainaccount.KindChecking:
		b = b.AsChecking(row.OverdraftLimit)
	}
	return b.Build()
}

func mapModelsToDomain(rows []Account) ([]*domainaccount.Account, error) {
	out := make([]*domainaccount.Account, 0, len(rows))
	for i := range rows {
		a, err := mapModelToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
