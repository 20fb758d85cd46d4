package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Withdrawal struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"not null;index;uniqueIndex:idx_withdrawals_one_pending,where:status = 'pending'" json:"userId"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"amount"`
	Method        string          `gorm:"type:varchar(20);not null;default:'paypal'" json:"method"`
	Email         string          `gorm:"type:varchar(255)" json:"email"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	TransactionID string          `gorm:"type:varchar(128)" json:"transactionId"`
	Notes         string          `gorm:"type:text" json:"notes"`
	ProcessedAt   *time.Time      `json:"processedAt,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
