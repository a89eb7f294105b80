package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is the database row for an account of either variant. The variant
// payload columns are nullable-by-zero: interest_rate is meaningful for
// savings rows, overdraft_limit for checking rows. version is the optimistic
// concurrency token; every balance-affecting save bumps it.
type Account struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Number         int64           `gorm:"uniqueIndex;not null"`
	ClientID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	RateID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	Kind           string          `gorm:"type:varchar(16);not null"`
	Balance        decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	InterestRate   decimal.Decimal `gorm:"type:numeric(10,4)"`
	OverdraftLimit decimal.Decimal `gorm:"type:numeric(20,8)"`
	Version        int64           `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}
