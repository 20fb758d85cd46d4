package errors

import (
	"errors"
	"fmt"
)

// ErrorCode is the machine-checkable reason sent to clients.
type ErrorCode string

const (
	// Auth errors
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeMissingToken       ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserExists         ErrorCode = "USER_EXISTS"
	ErrCodeInvalidReferral    ErrorCode = "INVALID_REFERRAL_CODE"

	// Account errors
	ErrCodeUserNotFound     ErrorCode = "USER_NOT_FOUND"
	ErrCodeAccountNotActive ErrorCode = "ACCOUNT_NOT_ACTIVE"

	// Ledger errors
	ErrCodeDailyLimitReached  ErrorCode = "DAILY_LIMIT_REACHED"
	ErrCodeCooldownNotElapsed ErrorCode = "COOLDOWN_NOT_ELAPSED"
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"

	// Withdrawal errors
	ErrCodeBelowMinimum       ErrorCode = "BELOW_MINIMUM"
	ErrCodePendingWithdrawal  ErrorCode = "PENDING_WITHDRAWAL_EXISTS"
	ErrCodeMissingDestination ErrorCode = "MISSING_DESTINATION"
	ErrCodeWithdrawalNotFound ErrorCode = "WITHDRAWAL_NOT_FOUND"

	// Validation errors
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// Internal errors
	ErrCodeDBError  ErrorCode = "DB_ERROR"
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Kind groups error codes into the status categories exposed over HTTP.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindRateLimited
)

var codeKinds = map[ErrorCode]Kind{
	ErrCodeUnauthorized:       KindUnauthorized,
	ErrCodeInvalidToken:       KindUnauthorized,
	ErrCodeMissingToken:       KindUnauthorized,
	ErrCodeInvalidCredentials: KindUnauthorized,
	ErrCodeUserExists:         KindConflict,
	ErrCodeInvalidReferral:    KindValidation,
	ErrCodeUserNotFound:       KindNotFound,
	ErrCodeAccountNotActive:   KindForbidden,
	ErrCodeDailyLimitReached:  KindRateLimited,
	ErrCodeCooldownNotElapsed: KindRateLimited,
	ErrCodeRateLimited:        KindRateLimited,
	ErrCodeBelowMinimum:       KindValidation,
	ErrCodePendingWithdrawal:  KindConflict,
	ErrCodeMissingDestination: KindValidation,
	ErrCodeWithdrawalNotFound: KindNotFound,
	ErrCodeValidation:         KindValidation,
	ErrCodeDBError:            KindInternal,
	ErrCodeInternal:           KindInternal,
}

// AppError định nghĩa lỗi của ứng dụng
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Kind returns the status category of the error code. Unknown codes are internal.
func (e *AppError) Kind() Kind {
	if k, ok := codeKinds[e.Code]; ok {
		return k
	}
	return KindInternal
}

// NewAppError tạo một AppError mới
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Internal wraps an unexpected fault. The message is safe to show to clients.
func Internal(err error) *AppError {
	return NewAppError(ErrCodeInternal, "Internal server error", err)
}

// DB wraps a store fault.
func DB(message string, err error) *AppError {
	return NewAppError(ErrCodeDBError, message, err)
}

func Validation(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, nil)
}

// IsAppError kiểm tra xem error có phải là AppError không
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError lấy AppError từ error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == code
}

// KindOf returns KindInternal for anything that is not an AppError.
func KindOf(err error) Kind {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Kind()
	}
	return KindInternal
}

var (
	ErrUserNotFound       = NewAppError(ErrCodeUserNotFound, "User not found", nil)
	ErrAccountNotActive   = NewAppError(ErrCodeAccountNotActive, "Account is not active", nil)
	ErrDailyLimitReached  = NewAppError(ErrCodeDailyLimitReached, "Daily ad limit reached", nil)
	ErrCooldownNotElapsed = NewAppError(ErrCodeCooldownNotElapsed, "Please wait before watching another ad", nil)
	ErrPendingWithdrawal  = NewAppError(ErrCodePendingWithdrawal, "A withdrawal request is already pending", nil)
	ErrMissingDestination = NewAppError(ErrCodeMissingDestination, "A PayPal email is required", nil)
	ErrWithdrawalNotFound = NewAppError(ErrCodeWithdrawalNotFound, "Withdrawal not found", nil)
	ErrInvalidCredentials = NewAppError(ErrCodeInvalidCredentials, "Invalid username or password", nil)
	ErrInvalidToken       = NewAppError(ErrCodeInvalidToken, "Invalid or expired token", nil)
	ErrMissingToken       = NewAppError(ErrCodeMissingToken, "Missing bearer token", nil)
	ErrInvalidReferral    = NewAppError(ErrCodeInvalidReferral, "Referral code does not exist", nil)
	ErrRateLimited        = NewAppError(ErrCodeRateLimited, "Too many requests", nil)
)
