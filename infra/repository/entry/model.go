package entry

import "github.com/google/uuid"

// Entry is the database row linking one account to one transaction. The
// composite primary key (account_id, transaction_id) enforces at most one
// link per account per transaction; a transfer therefore occupies exactly two
// rows sharing the transaction id.
type Entry struct {
	AccountID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	TransactionID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Source        bool      `gorm:"not null"`
}

// TableName specifies the table name for the Entry model.
func (Entry) TableName() string {
	return "account_transactions"
}
