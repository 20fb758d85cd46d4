package dto

import (
	"time"

	"rewards/models"
	"rewards/utils"
)

type PayoutRequest struct {
	PaypalEmail string `json:"paypalEmail" binding:"omitempty,email"`
}

type ReferralEarningResponse struct {
	ID         uint      `json:"id"`
	ReferredID uint      `json:"referredId"`
	Amount     float64   `json:"amount"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ReferralSummaryResponse struct {
	ReferralCode  string                    `json:"referralCode"`
	ReferredUsers int64                     `json:"referredUsers"`
	TotalBonus    float64                   `json:"totalBonus"`
	Recent        []ReferralEarningResponse `json:"recent"`
}

func NewReferralEarnings(rows []models.ReferralEarning) []ReferralEarningResponse {
	out := make([]ReferralEarningResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ReferralEarningResponse{
			ID:         r.ID,
			ReferredID: r.ReferredID,
			Amount:     utils.Money(r.Amount),
			CreatedAt:  r.CreatedAt,
		})
	}
	return out
}

type NotificationListResponse struct {
	Items  []models.Notification `json:"items"`
	Unread int64                 `json:"unread"`
}

type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}
