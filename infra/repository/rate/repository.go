// Package rate provides the GORM-backed rate repository.
package rate

import (
	"context"
	"errors"

	"github.com/amirasaad/bankledger/pkg/currency"
	domainrate "github.com/amirasaad/bankledger/pkg/domain/rate"
	"github.com/amirasaad/bankledger/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New creates a rate repository bound to the given session.
func New(db *gorm.DB) repository.RateRepository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, rt *domainrate.Rate) error {
	row := Rate{
		ID:           rt.ID,
		Currency:     rt.Currency.String(),
		UnitsPerBase: rt.UnitsPerBase,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainrate.ErrDuplicateCurrency
		}
		return err
	}
	return nil
}

func (r *repo) Get(ctx context.Context, id uuid.UUID) (*domainrate.Rate, error) {
	var row Rate
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainrate.ErrRateNotFound
		}
		return nil, err
	}
	return mapModelToDomain(&row), nil
}

func (r *repo) GetByCurrency(ctx context.Context, code currency.Code) (*domainrate.Rate, error) {
	var row Rate
	if err := r.db.WithContext(ctx).Where("currency = ?", code.String()).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainrate.ErrRateNotFound
		}
		return nil, err
	}
	return mapModelToDomain(&row), nil
}

func (r *repo) List(ctx context.Context) ([]*domainrate.Rate, error) {
	var rows []Rate
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domainrate.Rate, 0, len(rows))
	for i := range rows {
		out = append(out, mapModelToDomain(&rows[i]))
	}
	return out, nil
}

func mapModelToDomain(row *Rate) *domainrate.Rate {
	return &domainrate.Rate{
		ID:           row.ID,
		Currency:     currency.Code(row.Currency),
		UnitsPerBase: row.UnitsPerBase,
	}
}
