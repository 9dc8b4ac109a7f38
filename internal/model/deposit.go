package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deposit is money a member puts into the mess fund.
type Deposit struct {
	ID        int64           `json:"id"`
	MessID    int64           `json:"mess_id"`
	MemberID  int64           `json:"member_id"`
	Date      time.Time       `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Note      string          `json:"note"`
	CreatedAt time.Time       `json:"created_at"`
}
