package models

import (
	"time"

	"rewards/constants"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
	Username     string          `gorm:"type:varchar(32);uniqueIndex;not null" json:"username"`
	Email        string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password     string          `gorm:"not null" json:"-"`
	Balance      decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"balance"`
	TotalEarned  decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0" json:"totalEarned"`
	ReferralCode string          `gorm:"type:varchar(16);uniqueIndex;not null" json:"referralCode"`
	ReferredBy   *uint           `gorm:"index" json:"referredBy,omitempty"`
	Referrer     *User           `gorm:"foreignKey:ReferredBy;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	PaypalEmail  string          `gorm:"type:varchar(255)" json:"paypalEmail"`
	Status       string          `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	LastAdDate   *time.Time      `json:"lastAdDate,omitempty"`
}

func (u *User) IsActive() bool {
	return u.Status == constants.UserStatusActive
}
