// Package rate provides management of the conversion-rate table.
package rate

import (
	"context"
	"log/slog"

	"github.com/amirasaad/bankledger/pkg/currency"
	domainrate "github.com/amirasaad/bankledger/pkg/domain/rate"
	"github.com/amirasaad/bankledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service manages rate-table entries.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a Service with the provided dependencies.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Create validates and stores a new rate entry. Non-positive factors and
// duplicate currency codes are rejected.
func (s *Service) Create(
	ctx context.Context,
	code currency.Code,
	unitsPerBase decimal.Decimal,
) (r *domainrate.Rate, err error) {
	if r, err = domainrate.New(code, unitsPerBase); err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		rates, err := uow.RateRepository()
		if err != nil {
			return err
		}
		return rates.Create(ctx, r)
	})
	if err != nil {
		s.logger.Error("rate create failed", "currency", code, "error", err)
		return nil, err
	}
	s.logger.Info("rate created", "currency", code, "unitsPerBase", unitsPerBase)
	return r, nil
}

// Get returns one rate by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domainrate.Rate, error) {
	rates, err := s.uow.RateRepository()
	if err != nil {
		return nil, err
	}
	return rates.Get(ctx, id)
}

// GetByCurrency returns the rate entry for a currency code.
func (s *Service) GetByCurrency(ctx context.Context, code currency.Code) (*domainrate.Rate, error) {
	rates, err := s.uow.RateRepository()
	if err != nil {
		return nil, err
	}
	return rates.GetByCurrency(ctx, code)
}

// List returns all rate entries.
func (s *Service) List(ctx context.Context) ([]*domainrate.Rate, error) {
	rates, err := s.uow.RateRepository()
	if err != nil {
		return nil, err
	}
	return rates.List(ctx)
}
