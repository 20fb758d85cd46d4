package controllers

import (
	"rewards/dto"
	"rewards/response"
	"rewards/services"
	"rewards/services/logger"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	inbox  *services.InboxService
	logger logger.Logger
}

func NewNotificationController(inbox *services.InboxService, log logger.Logger) *NotificationController {
	return &NotificationController{inbox: inbox, logger: log}
}

// GetAllNotifications godoc
// @Summary      Stored notifications of the current user
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (0-based)"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Response{data=dto.NotificationListResponse}
// @Router       /notifications [get]
func (ctrl *NotificationController) GetAllNotifications(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var query dto.PageQuery
	if !bindQuery(c, &query) {
		return
	}

	items, total, unread, err := ctrl.inbox.List(c.Request.Context(), userID, query.Page, query.Limit)
	if err != nil {
		response.FromError(c, ctrl.logger, err)
		return
	}
	page, limit := pageOf(query)
	response.SuccessWithPagination(c, dto.NotificationListResponse{Items: items, Unread: unread}, page, limit, total)
}

// MarkAllRead godoc
// @Summary      Mark every notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=dto.MarkReadResponse}
// @Router       /notifications/read [put]
func (ctrl *NotificationController) MarkAllRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	updated, err := ctrl.inbox.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, ctrl.logger, err)
		return
	}
	response.Success(c, dto.MarkReadResponse{Updated: updated})
}
