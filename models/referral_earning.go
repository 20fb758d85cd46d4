package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReferralEarning struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	ReferrerID uint            `gorm:"not null;index" json:"referrerId"`
	ReferredID uint            `gorm:"not null;index" json:"referredId"`
	Amount     decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"amount"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"createdAt"`

	Referrer User `gorm:"foreignKey:ReferrerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Referred User `gorm:"foreignKey:ReferredID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
