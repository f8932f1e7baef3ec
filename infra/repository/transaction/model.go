package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is the row stored in the transactions table. The artist
// identifier lives in artist_name, the column the dashboards read.
type Transaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID          string          `gorm:"column:user_id;type:text;not null;index"`
	ArtistName      string          `gorm:"column:artist_name;type:text;not null;index"`
	AmountBought    int             `gorm:"column:amount_bought;not null"`
	Cost            decimal.Decimal `gorm:"column:cost;type:numeric(12,2);not null"`
	StripeSessionID string          `gorm:"column:stripe_session_id;type:text;not null;uniqueIndex:transactions_stripe_session_id_key"`
	Timestamp       time.Time       `gorm:"column:timestamp;not null"`
	Email           string          `gorm:"column:email;type:text"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}
