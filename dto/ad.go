package dto

type AdCreditRequest struct {
	AdType string `json:"adType" binding:"omitempty,adtype"`
}

type AdCreditResponse struct {
	Earned          float64 `json:"earned"`
	Balance         float64 `json:"balance"`
	TotalEarned     float64 `json:"totalEarned"`
	AdsWatchedToday int64   `json:"adsWatchedToday"`
	DailyLimit      int     `json:"dailyLimit"`
}

type AdStatusResponse struct {
	AdsWatchedToday          int64 `json:"adsWatchedToday"`
	DailyLimit               int   `json:"dailyLimit"`
	RemainingToday           int64 `json:"remainingToday"`
	CooldownRemainingSeconds int64 `json:"cooldownRemainingSeconds"`
}
