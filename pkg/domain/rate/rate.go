// Package rate defines conversion-rate entries and the currency conversion rule.
package rate

import (
	"errors"

	"github.com/amirasaad/bankledger/pkg/currency"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrRateNotFound is returned when a rate cannot be found by id or currency code.
	ErrRateNotFound = errors.New("rate not found")

	// ErrRateNotPositive is returned when a conversion factor is zero or negative.
	ErrRateNotPositive = errors.New("conversion rate must be positive")

	// ErrDuplicateCurrency is returned when a currency code already has a rate entry.
	ErrDuplicateCurrency = errors.New("currency already has a rate")

	// ErrInvalidCurrencyCode is returned when a currency code is not three uppercase letters.
	ErrInvalidCurrencyCode = errors.New("invalid currency code")
)

// Rate maps a currency code to its conversion factor. UnitsPerBase is the
// number of units of this currency per one unit of the base currency, so the
// base currency's own row carries 1. Converting X units of currency A into
// currency B is X / A.UnitsPerBase * B.UnitsPerBase.
type Rate struct {
	ID           uuid.UUID
	Currency     currency.Code
	UnitsPerBase decimal.Decimal
}

// New validates and constructs a rate entry. Non-positive factors are rejected
// here so Convert can never divide by zero on a stored rate.
func New(code currency.Code, unitsPerBase decimal.Decimal) (*Rate, error) {
	if !code.IsValid() {
		return nil, ErrInvalidCurrencyCode
	}
	if !unitsPerBase.IsPositive() {
		return nil, ErrRateNotPositive
	}
	return &Rate{
		ID:           uuid.New(),
		Currency:     code,
		UnitsPerBase: unitsPerBase,
	}, nil
}

// Convert re-denominates amount from one currency into another by going
// through the base currency: amount / from * to.
func Convert(amount, from, to decimal.Decimal) (decimal.Decimal, error) {
	if !from.IsPositive() {
		return decimal.Zero, ErrRateNotPositive
	}
	return amount.Div(from).Mul(to), nil
}
