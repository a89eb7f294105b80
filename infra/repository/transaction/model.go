package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is the database row for one immutable ledger record. Rows are
// never updated; the only mutation after creation is deletion.
type Transaction struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Kind      string          `gorm:"type:varchar(16);not null"`
	Amount    decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	RateID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	Timestamp time.Time       `gorm:"not null"`
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}
