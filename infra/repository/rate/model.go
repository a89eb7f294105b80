package rate

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rate is the database row for one currency's conversion factor. The currency
// code is unique; the base currency's row carries units_per_base = 1.
type Rate struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Currency     string          `gorm:"type:varchar(3);uniqueIndex;not null"`
	UnitsPerBase decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for the Rate model.
func (Rate) TableName() string {
	return "rates"
}
