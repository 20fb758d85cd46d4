package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdView is written once per successful ad credit and never updated.
type AdView struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index:idx_ad_views_user_created,priority:1" json:"userId"`
	User      User            `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	AdType    string          `gorm:"type:varchar(32);not null;default:'video'" json:"adType"`
	Earning   decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"earning"`
	Revenue   decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"revenue"`
	IPAddress string          `gorm:"type:varchar(64)" json:"ipAddress"`
	UserAgent string          `gorm:"type:varchar(512)" json:"userAgent"`
	CreatedAt time.Time       `gorm:"autoCreateTime;index:idx_ad_views_user_created,priority:2" json:"createdAt"`
}
