// Package currency defines the ISO 4217 currency code value type shared by
// rates, accounts and ledger records.
package currency

// DefaultCurrency is the base currency all conversion rates are expressed
// relative to. Its rate-table row carries a conversion factor of 1.
const DefaultCurrency = Code("USD")

// Code is a 3-letter ISO 4217 currency code (e.g. "USD", "EUR").
type Code string

func (c Code) String() string {
	return string(c)
}

// IsValid reports whether the code is exactly three uppercase ASCII letters.
func (c Code) IsValid() bool {
	if len(c) != 3 {
		return false
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
