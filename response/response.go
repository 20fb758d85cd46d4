package response

import (
	"net/http"

	apperrors "rewards/errors"
	"rewards/services/logger"

	"github.com/gin-gonic/gin"
)

// Response định nghĩa cấu trúc response
type Response struct {
	Code       int         `json:"code"`
	Mess       string      `json:"mess"`
	Reason     string      `json:"reason,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination định nghĩa cấu trúc phân trang
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// Success trả về response thành công
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: "Success",
		Data: data,
	})
}

// Created is Success with a 201 status.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code: 1,
		Mess: "Created",
		Data: data,
	})
}

// SuccessWithPagination trả về response thành công có phân trang
func SuccessWithPagination(c *gin.Context, data interface{}, page, limit int, total int64) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: "Success",
		Data: data,
		Pagination: &Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	})
}

// Error writes a failure envelope with an explicit status.
func Error(c *gin.Context, status int, reason apperrors.ErrorCode, message string) {
	c.JSON(status, Response{
		Code:   0,
		Mess:   message,
		Reason: string(reason),
	})
}

// ServerError trả về response lỗi server
func ServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, apperrors.ErrCodeInternal, "Internal server error")
}

// Unauthorized trả về response chưa xác thực
func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, apperrors.ErrCodeUnauthorized, "Unauthorized")
}

// Forbidden trả về response không có quyền
func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "FORBIDDEN", "Forbidden")
}

// NotFound trả về response không tìm thấy
func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "NOT_FOUND", "Not found")
}

// BadRequest trả về response lỗi bad request
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, apperrors.ErrCodeValidation, message)
}

// TooManyRequests trả về response 429
func TooManyRequests(c *gin.Context, message string) {
	Error(c, http.StatusTooManyRequests, apperrors.ErrCodeRateLimited, message)
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes the envelope for err. Internal faults are logged and hidden from the caller.
func FromError(c *gin.Context, log logger.Logger, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr == nil || appErr.Kind() == apperrors.KindInternal {
		if log != nil {
			log.Error("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
		}
		ServerError(c)
		return
	}
	Error(c, StatusFor(appErr.Kind()), appErr.Code, appErr.Message)
}
