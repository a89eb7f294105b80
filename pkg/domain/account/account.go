// Package account contains the account aggregate and its balance rules.
//
// An account is a tagged union: every account carries the shared fields
// (number, owner, rate, balance, version) plus a Kind tag selecting the
// variant payload, the interest rate for savings accounts or the overdraft
// limit for checking accounts. Rule dispatch happens by switching on the
// tag, so every operation handles all variants exhaustively.
package account

import (
	"errors"
	"time"

	"github.com/amirasaad/bankledger/pkg/domain/rate"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrAmountNotPositive is returned when a deposit or withdrawal amount is zero or negative.
	ErrAmountNotPositive = errors.New("amount must be positive")

	// ErrInsufficientFunds is returned when a withdrawal or transfer exceeds the
	// account's withdrawable funds (balance, plus overdraft for checking accounts).
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountNotFound is returned when an account cannot be found.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateAccountNumber is returned when an account number is already in use.
	ErrDuplicateAccountNumber = errors.New("account number already in use")

	// ErrAccountTypeMismatch is returned when an operation requires a different
	// account variant, e.g. interest accrual on a checking account.
	ErrAccountTypeMismatch = errors.New("operation not supported for this account type")

	// ErrConcurrencyConflict is returned when a save observes that the account row
	// was modified by a concurrent operation since it was loaded.
	ErrConcurrencyConflict = errors.New("account was modified concurrently")

	// ErrCannotTransferToSameAccount is returned when a transfer targets its own source.
	ErrCannotTransferToSameAccount = errors.New("cannot transfer to same account")

	// ErrNilAccount is returned when a nil account is passed to a transfer.
	ErrNilAccount = errors.New("nil account")
)

// Kind tags the account variant.
type Kind string

const (
	// KindSavings is a plain-balance account that accrues interest and can never go negative.
	KindSavings Kind = "savings"
	// KindChecking is an overdraft-bearing account; its balance may go down to -OverdraftLimit.
	KindChecking Kind = "checking"
)

// DefaultOverdraft is the overdraft limit applied to checking accounts when
// none is given at opening.
var DefaultOverdraft = decimal.NewFromInt(500)

// Account is the aggregate root for a client's monetary balance. State changes
// go through Deposit, Withdraw, Transfer and AddInterest only; the Version
// field is the optimistic concurrency token checked by the storage layer on
// every save.
type Account struct {
	ID       uuid.UUID
	Number   int64 // externally assigned, globally unique
	ClientID uuid.UUID
	RateID   uuid.UUID
	Kind     Kind
	Balance  decimal.Decimal

	// InterestRate is the percentage applied per period. Savings only.
	InterestRate decimal.Decimal
	// OverdraftLimit is the non-negative amount the balance may go below zero. Checking only.
	OverdraftLimit decimal.Decimal

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Builder provides a fluent API for constructing Account instances, ensuring
// only valid accounts are built.
type Builder struct {
	id           uuid.UUID
	number       int64
	clientID     uuid.UUID
	rateID       uuid.UUID
	kind         Kind
	balance      decimal.Decimal
	interestRate decimal.Decimal
	overdraft    decimal.Decimal
	version      int64
	createdAt    time.Time
	updatedAt    time.Time
}

// New creates a Builder with a fresh id and creation timestamp.
func New() *Builder {
	return &Builder{
		id:        uuid.New(),
		createdAt: time.Now().UTC(),
	}
}

// WithID sets the account id. Used when hydrating from a data store.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithNumber sets the externally assigned account number. Mandatory.
func (b *Builder) WithNumber(number int64) *Builder {
	b.number = number
	return b
}

// WithClientID sets the owning client. Mandatory.
func (b *Builder) WithClientID(clientID uuid.UUID) *Builder {
	b.clientID = clientID
	return b
}

// WithRateID sets the rate-table row the account's balance is denominated in. Mandatory.
func (b *Builder) WithRateID(rateID uuid.UUID) *Builder {
	b.rateID = rateID
	return b
}

// WithBalance sets the opening balance.
func (b *Builder) WithBalance(balance decimal.Decimal) *Builder {
	b.balance = balance
	return b
}

// WithVersion sets the concurrency token. Used when hydrating from a data store.
func (b *Builder) WithVersion(v int64) *Builder {
	b.version = v
	return b
}

// WithTimestamps sets creation and update times. Used when hydrating from a data store.
func (b *Builder) WithTimestamps(createdAt, updatedAt time.Time) *Builder {
	b.createdAt = createdAt
	b.updatedAt = updatedAt
	return b
}

// AsSavings selects the savings variant with the given interest percentage per period.
func (b *Builder) AsSavings(interestRate decimal.Decimal) *Builder {
	b.kind = KindSavings
	b.interestRate = interestRate
	return b
}

// AsChecking selects the checking variant with the given overdraft limit.
func (b *Builder) AsChecking(overdraftLimit decimal.Decimal) *Builder {
	b.kind = KindChecking
	b.overdraft = overdraftLimit
	return b
}

// Build validates the variant invariants and returns the account.
func (b *Builder) Build() (*Account, error) {
	if b.clientID == uuid.Nil {
		return nil, errors.New("clientID is required")
	}
	if b.rateID == uuid.Nil {
		return nil, errors.New("rateID is required")
	}
	switch b.kind {
	case KindSavings:
		if b.interestRate.IsNegative() {
			return nil, errors.New("interest rate must not be negative")
		}
	case KindChecking:
		if b.overdraft.IsNegative() {
			return nil, errors.New("overdraft limit must not be negative")
		}
	default:
		return nil, errors.New("account kind is required")
	}
	if b.balance.LessThan(b.floor()) {
		return nil, ErrInsufficientFunds
	}
	return &Account{
		ID:             b.id,
		Number:         b.number,
		ClientID:       b.clientID,
		RateID:         b.rateID,
		Kind:           b.kind,
		Balance:        b.balance,
		InterestRate:   b.interestRate,
		OverdraftLimit: b.overdraft,
		Version:        b.version,
		CreatedAt:      b.createdAt,
		UpdatedAt:      b.updatedAt,
	}, nil
}

func (b *Builder) floor() decimal.Decimal {
	if b.kind == KindChecking {
		return b.overdraft.Neg()
	}
	return decimal.Zero
}

// floor is the lowest balance the variant permits: zero for savings,
// -OverdraftLimit for checking.
func (a *Account) floor() decimal.Decimal {
	if a.Kind == KindChecking {
		return a.OverdraftLimit.Neg()
	}
	return decimal.Zero
}

// Deposit credits the amount. There is no upper bound on the balance.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrAmountNotPositive
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}

// Withdraw debits the amount under the variant's own rule: savings accounts
// may not go below zero, checking accounts may draw down to -OverdraftLimit.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrAmountNotPositive
	}
	if a.Balance.Sub(amount).LessThan(a.floor()) {
		return ErrInsufficientFunds
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// Transfer withdraws amount (denominated in the source account's currency)
// using the source variant's own withdraw rule: a checking account draws on
// its overdraft when transferring out, exactly as it does when withdrawing
// directly. The amount is then converted as amount / sourceRate * targetRate
// and deposited into target. Non-positive rates are rejected before anything
// changes; if the withdraw step fails nothing changes either.
func (a *Account) Transfer(target *Account, amount, sourceRate, targetRate decimal.Decimal) error {
	if target == nil {
		return ErrNilAccount
	}
	if a.ID == target.ID {
		return ErrCannotTransferToSameAccount
	}
	converted, err := rate.Convert(amount, sourceRate, targetRate)
	if err != nil {
		return err
	}
	if err := a.Withdraw(amount); err != nil {
		return err
	}
	if err := target.Deposit(converted); err != nil {
		// undo the withdraw so a failed transfer leaves no trace
		a.Balance = a.Balance.Add(amount)
		return err
	}
	return nil
}

// AddInterest compounds the savings interest rate over the given number of
// periods, mutating the balance once per period. The iteration order matters:
// each period's interest is computed from the previous period's rounded
// balance, so a closed-form power computation would drift.
func (a *Account) AddInterest(periods int) error {
	if a.Kind != KindSavings {
		return ErrAccountTypeMismatch
	}
	for i := 0; i < periods; i++ {
		a.Balance = a.Balance.Add(a.Balance.Mul(a.InterestRate).Div(decimal.NewFromInt(100)))
	}
	return nil
}

// CalculateInterest runs the same per-period compounding as AddInterest on a
// copy of the balance and returns the accumulated interest. The stored balance
// is never touched.
func (a *Account) CalculateInterest(periods int) (decimal.Decimal, error) {
	if a.Kind != KindSavings {
		return decimal.Zero, ErrAccountTypeMismatch
	}
	simulated := a.Balance
	for i := 0; i < periods; i++ {
		simulated = simulated.Add(simulated.Mul(a.InterestRate).Div(decimal.NewFromInt(100)))
	}
	return simulated.Sub(a.Balance), nil
}
