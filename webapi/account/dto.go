package account

import (
	"time"

	"github.com/amirasaad/bankledger/pkg/domain/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpenAccountRequest opens a savings or checking account.
type OpenAccountRequest struct {
	Kind     string          `json:"kind" validate:"required,oneof=savings checking"`
	Number   int64           `json:"number" validate:"required,gt=0"`
	ClientID string          `json:"client_id" validate:"required,uuid4"`
	RateID   string          `json:"rate_id" validate:"required,uuid4"`
	Balance  decimal.Decimal `json:"balance"`

	// InterestRate is the per-period percentage; savings only.
	InterestRate decimal.Decimal `json:"interest_rate"`
	// OverdraftLimit applies to checking accounts; omitted selects the default.
	OverdraftLimit *decimal.Decimal `json:"overdraft_limit"`
}

// AmountRequest carries a deposit or withdrawal. RateID denominates the
// amount; when empty the account's own rate is used.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	RateID string          `json:"rate_id" validate:"omitempty,uuid4"`
}

// TransferRequest moves funds from the account in the URL to the target.
type TransferRequest struct {
	TargetID string          `json:"target_id" validate:"required,uuid4"`
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	RateID   string          `json:"rate_id" validate:"omitempty,uuid4"`
}

// InterestRequest applies or simulates compounding over the given periods.
type InterestRequest struct {
	Periods int `json:"periods" validate:"required,gt=0"`
}

// AccountResponse is the external representation of an account.
type AccountResponse struct {
	ID             uuid.UUID        `json:"id"`
	Number         int64            `json:"number"`
	ClientID       uuid.UUID        `json:"client_id"`
	RateID         uuid.UUID        `json:"rate_id"`
	Kind           account.Kind     `json:"kind"`
	Balance        decimal.Decimal  `json:"balance"`
	InterestRate   *decimal.Decimal `json:"interest_rate,omitempty"`
	OverdraftLimit *decimal.Decimal `json:"overdraft_limit,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// ToResponse maps a domain account onto its external representation,
// exposing only the variant field that applies.
func ToResponse(a *account.Account) AccountResponse {
	resp := AccountResponse{
		ID:        a.ID,
		Number:    a.Number,
		ClientID:  a.ClientID,
		RateID:    a.RateID,
		Kind:      a.Kind,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
	}
	switch a.Kind {
	case account.KindSavings:
		rate := a.InterestRate
		resp.InterestRate = &rate
	case account.KindChecking:
		limit := a.OverdraftLimit
		resp.OverdraftLimit = &limit
	}
	return resp
}

// ToResponses maps a slice of domain accounts.
func ToResponses(accounts []*account.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, ToResponse(a))
	}
	return out
}
