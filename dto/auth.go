package dto

import (
	"time"

	"rewards/models"
	"rewards/utils"
)

type RegisterInput struct {
	Username     string `json:"username" binding:"required,username"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6,max=72"`
	ReferralCode string `json:"referralCode" binding:"omitempty,referralcode"`
}

type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type GoogleLoginInput struct {
	IDToken string `json:"idToken" binding:"required"`
}

type UserResponse struct {
	ID           uint       `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Balance      float64    `json:"balance"`
	TotalEarned  float64    `json:"totalEarned"`
	ReferralCode string     `json:"referralCode"`
	ReferredBy   *uint      `json:"referredBy,omitempty"`
	PaypalEmail  string     `json:"paypalEmail"`
	Status       string     `json:"status"`
	LastAdDate   *time.Time `json:"lastAdDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Balance:      utils.Money(u.Balance),
		TotalEarned:  utils.Money(u.TotalEarned),
		ReferralCode: u.ReferralCode,
		ReferredBy:   u.ReferredBy,
		PaypalEmail:  u.PaypalEmail,
		Status:       u.Status,
		LastAdDate:   u.LastAdDate,
		CreatedAt:    u.CreatedAt,
	}
}

func NewUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
