// Package ledger defines the immutable transaction records and the link rows
// tying each record to the account(s) it affects.
package ledger

import (
	"errors"
	"time"

	"github.com/amirasaad/bankledger/pkg/currency"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrTransactionNotFound is returned when a ledger entry cannot be found.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrAmountNotPositive is returned when a transaction is authored with a
	// non-positive amount. Transaction amounts are magnitudes; the Kind carries
	// the direction.
	ErrAmountNotPositive = errors.New("transaction amount must be positive")
)

// Kind classifies the intent of a monetary movement. Kinds carry no extra
// payload; a Transfer is distinguished from a Withdraw purely by its tag and
// its second link row.
type Kind string

const (
	KindDeposit  Kind = "deposit"
	KindWithdraw Kind = "withdraw"
	KindTransfer Kind = "transfer"
)

// Transaction is one immutable monetary movement. Amount is denominated in the
// rate it was authored with; it is never restated when rates change.
type Transaction struct {
	ID        uuid.UUID
	Kind      Kind
	Amount    decimal.Decimal
	RateID    uuid.UUID
	Timestamp time.Time
}

// NewTransaction authors a ledger record. The caller is the atomic operation
// coordinator; records are only ever created together with their link rows.
func NewTransaction(kind Kind, amount decimal.Decimal, rateID uuid.UUID) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}
	return &Transaction{
		ID:        uuid.New(),
		Kind:      kind,
		Amount:    amount,
		RateID:    rateID,
		Timestamp: time.Now().UTC(),
	}, nil
}

// Entry links one account to one transaction. A deposit or withdraw produces
// exactly one entry with Source=true; a transfer produces two entries sharing
// the transaction id, Source=true for the debited account and Source=false
// for the credited one.
type Entry struct {
	AccountID     uuid.UUID
	TransactionID uuid.UUID
	Source        bool
}

// TransactionDetails is the flattened read model served by history queries:
// the transaction joined with its rate's currency and with the counterpart
// link row resolved. AccountID is the debited side; ReceiverID is the credited
// side and is nil unless the transaction is a transfer.
type TransactionDetails struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	Kind          Kind            `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      currency.Code   `json:"currency"`
	Timestamp     time.Time       `json:"timestamp"`
	AccountID     uuid.UUID       `json:"account_id"`
	ReceiverID    *uuid.UUID      `json:"receiver_id,omitempty"`
}

// Scope selects which side of the link table a history query reads.
type Scope string

const (
	ScopeAll         Scope = "all"
	ScopeSource      Scope = "source"
	ScopeDestination Scope = "destination"
)

// ParseScope maps the external scope parameter onto a Scope, defaulting to ScopeAll.
func ParseScope(s string) (Scope, bool) {
	switch Scope(s) {
	case ScopeAll, "":
		return ScopeAll, true
	case ScopeSource:
		return ScopeSource, true
	case ScopeDestination:
		return ScopeDestination, true
	default:
		return ScopeAll, false
	}
}
