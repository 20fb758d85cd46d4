package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "rewards/errors"

	"github.com/gin-gonic/gin"
)

func TestFromError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name   string
		err    error
		status int
		reason apperrors.ErrorCode
	}{
		{"validation", apperrors.Validation("bad amount"), http.StatusBadRequest, apperrors.ErrCodeValidation},
		{"unauthorized", apperrors.ErrInvalidToken, http.StatusUnauthorized, apperrors.ErrCodeInvalidToken},
		{"forbidden", apperrors.ErrAccountNotActive, http.StatusForbidden, apperrors.ErrCodeAccountNotActive},
		{"not found", apperrors.ErrUserNotFound, http.StatusNotFound, apperrors.ErrCodeUserNotFound},
		{"conflict", apperrors.ErrPendingWithdrawal, http.StatusConflict, apperrors.ErrCodePendingWithdrawal},
		{"cooldown", apperrors.ErrCooldownNotElapsed, http.StatusTooManyRequests, apperrors.ErrCodeCooldownNotElapsed},
		{"db fault", apperrors.DB("failed to load user", errors.New("connection refused")), http.StatusInternalServerError, apperrors.ErrCodeInternal},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, apperrors.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			FromError(c, nil, tt.err)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			var res Response
			if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if res.Code != 0 || res.Reason != string(tt.reason) {
				t.Errorf("envelope = %+v", res)
			}
			if strings.Contains(w.Body.String(), "connection refused") {
				t.Error("internal cause leaked to client")
			}
		})
	}
}

func TestSuccessWithPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SuccessWithPagination(c, []int{1, 2}, 2, 10, 12)

	var res Response
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Code != 1 || res.Pagination == nil || res.Pagination.Total != 12 || res.Pagination.Page != 2 {
		t.Errorf("envelope = %+v", res)
	}
}
