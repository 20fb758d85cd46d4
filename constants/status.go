package constants

// User status
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// Withdrawal status
const (
	WithdrawalStatusPending   = "pending"
	WithdrawalStatusCompleted = "completed"
	WithdrawalStatusFailed    = "failed"
	WithdrawalStatusCancelled = "cancelled"
)

// Withdrawal method
const (
	WithdrawalMethodPaypal       = "paypal"
	WithdrawalMethodBankTransfer = "bank_transfer"
)

const DefaultAdType = "video"

// Context keys set by middleware
const (
	ContextUserID    = "userID"
	ContextRequestID = "requestID"
)

func IsValidUserStatus(status string) bool {
	return status == UserStatusActive || status == UserStatusSuspended
}
