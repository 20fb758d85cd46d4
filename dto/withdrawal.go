package dto

import (
	"time"

	"rewards/models"
	"rewards/utils"
)

type WithdrawalRequest struct {
	Method string `json:"method" binding:"omitempty,oneof=paypal bank_transfer"`
	Email  string `json:"email" binding:"omitempty,email"`
}

type WithdrawalCreatedResponse struct {
	ID      uint    `json:"id"`
	Amount  float64 `json:"amount"`
	Method  string  `json:"method"`
	Status  string  `json:"status"`
	Message string  `json:"message"`
}

type ProcessWithdrawalRequest struct {
	Status        string  `json:"status" binding:"required,max=20"`
	TransactionID *string `json:"transactionId" binding:"omitempty,max=128"`
	Notes         *string `json:"notes"`
}

type WithdrawalQuery struct {
	PageQuery
	Status string `form:"status" binding:"omitempty,oneof=pending completed failed cancelled"`
}

type WithdrawalResponse struct {
	ID            uint       `json:"id"`
	UserID        uint       `json:"userId"`
	Username      string     `json:"username,omitempty"`
	Amount        float64    `json:"amount"`
	Method        string     `json:"method"`
	Email         string     `json:"email"`
	Status        string     `json:"status"`
	TransactionID string     `json:"transactionId,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	ProcessedAt   *time.Time `json:"processedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func NewWithdrawalResponse(w *models.Withdrawal) WithdrawalResponse {
	return WithdrawalResponse{
		ID:            w.ID,
		UserID:        w.UserID,
		Username:      w.User.Username,
		Amount:        utils.Money(w.Amount),
		Method:        w.Method,
		Email:         w.Email,
		Status:        w.Status,
		TransactionID: w.TransactionID,
		Notes:         w.Notes,
		ProcessedAt:   w.ProcessedAt,
		CreatedAt:     w.CreatedAt,
	}
}

func NewWithdrawalResponses(rows []models.Withdrawal) []WithdrawalResponse {
	out := make([]WithdrawalResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewWithdrawalResponse(&rows[i]))
	}
	return out
}
