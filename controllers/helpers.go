package controllers

import (
	"strconv"

	"rewards/dto"
	apperrors "rewards/errors"
	"rewards/middleware"
	"rewards/response"
	"rewards/validator"

	"github.com/gin-gonic/gin"
)

// currentUser trả về user id đã xác thực, or writes a 401 and returns false.
func currentUser(c *gin.Context) (uint, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.FromError(c, nil, apperrors.ErrMissingToken)
		return 0, false
	}
	return userID, true
}

func bindJSON(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		response.BadRequest(c, validator.Message(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindQuery(target); err != nil {
		response.BadRequest(c, validator.Message(err))
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// pageOf mirrors the defaults applied by the services so the pagination block is accurate.
func pageOf(q dto.PageQuery) (int, int) {
	page, limit := q.Page, q.Limit
	if page < 0 {
		page = 0
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
