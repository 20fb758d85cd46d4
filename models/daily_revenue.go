package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyRevenue has one row per calendar day. Date is midnight UTC of that day.
type DailyRevenue struct {
	Date        time.Time       `gorm:"primaryKey;type:date" json:"date"`
	AdViews     int64           `gorm:"not null;default:0" json:"adViews"`
	Revenue     decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"revenue"`
	PaidOut     decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"paidOut"`
	Profit      decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"profit"`
	ActiveUsers int64           `gorm:"not null;default:0" json:"activeUsers"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (DailyRevenue) TableName() string {
	return "daily_revenues"
}
