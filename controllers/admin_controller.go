package controllers

import (
	"rewards/dto"
	"rewards/response"
	"rewards/services"
	"rewards/services/logger"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	admin       *services.AdminService
	withdrawals *services.WithdrawalService
	logger      logger.Logger
}

func NewAdminController(admin *services.AdminService, withdrawals *services.WithdrawalService, log logger.Logger) *AdminController {
	return &AdminController{admin: admin, withdrawals: withdrawals, logger: log}
}

// GetStats godoc
// @Summary      Dashboard totals
// @Tags         admin
// @Produce      json
// @Security     AdminAuth
// @Success      200  {object}  response.Response{data=services.AdminStats}
// @Failure      401  {object}  response.Response
// @Router       /admin/stats [get]
func (ctrl *AdminController) GetStats(c *gin.Context) {
	stats, err := ctrl.admin.Stats(c.Request.Context())
	if err != nil {
		response.FromError(c, ctrl.logger, err)
		return
	}
	response.Success(c, stats)
}

// GetWithdrawals godoc
// @Summary      All withdrawals, optionally filtered by status
// @Tags         admin
// @Produce      json
// @Security     AdminAuth
// @Param        status  query     string  false  "pending|completed|failed|cancelled"
// @Param        page    query     int     false  "Page (0-based)"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  response.Response{data=[]dto.WithdrawalResponse}
// @Router       /admin/withdrawals [get]
func (ctrl *AdminController) GetWithdrawals(c *gin.Context) {
	var query dto.WithdrawalQuery
	if !bindQuery(c, &query) {
		return
	}

	rows, total, err := ctrl.withdrawals.List(c.Request.Context(), services.WithdrawalFilter{
		Status: query.Status,
		Page:   query.Page,
		Limit:  query.Limit,
	})
	if err != nil {
		response.FromError(c, ctrl.logger, err)
		return
	}
	page, limit := pageOf(query.PageQuery)
	response.SuccessWithPagination(c, dto.NewWithdrawalResponses(rows), page, limit, total)
}

// ProcessWithdrawal godoc
// @Summary      Set the status of a withdrawal
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     AdminAuth
// @Param        id    path      int                           true  "Withdrawal id"
// @Param        body  body      dto.ProcessWithdrawalRequest  true  "New status"
// @Success      200   {object}  response.Response{data=dto.WithdrawalResponse}
// @Failure      404   {object}  response.Response
// @Router       /admin/withdrawals/{id} [put]
func (ctrl *AdminController) ProcessWithdrawal(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input dto.ProcessWithdrawalRequest
	if !bindJSON(c, &input) {
		return
	}

	withdrawal, err := ctrl.withdrawals.Process(c.Request.Context(), services.ProcessInput{
		ID:            id,
		Status:        input.Status,
		TransactionID: input.TransactionID,
		Notes:         input.Notes,
	})
	if err != nil {
		response.FromError(c, ctrl.logger, err)
		return
	}
	ctrl.admin.InvalidateStats(c.Request.Context())
	response.Success(c, dto.NewWithdrawalResponse(withdrawal))
}

// GetUsers godoc
// @Summary      Search users by username or email
// @Tags         admin
// @Produce      json
// @Security     AdminAuth
// @Param        q       query     string  false  "Search text"
// @Param        status  query     string  false  "active|suspended"
// @Param        page    query     int     false  "Page (0-based)"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  response.Response{data=dto.UserListResponse}
// @Router       /admin/users [get]
func (ctrl *AdminController) GetUsers(c *gin.Context) {
	var query dto.UserQuery
	if !bindQuery(c, &query) {
		return
	}

	result, err := ctrl.admin.ListUsers(c.Request.Context(), services.UserFilter{
		Query:  query.Q,
		Status: query.Status,
		Page:   query.Page,
		Limit:  query.Limit,
	})
	if err != nil {
		response.FromError(c, ctrl.logger, err)
		return
	}
	page, limit := pageOf(query.PageQuery)
	response.SuccessWithPagination(c, dto.UserListResponse{
		Users:       dto.NewUserResponses(result.Users),
		Suggestions: result.Suggestions,
	}, page, limit, result.Total)
}

// ChangeUserStatus godoc
// @Summary      Activate or suspend a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     AdminAuth
// @Param        id    path      int                    true  "User id"
// @Param        body  body      dto.UserStatusRequest  true  "Status"
// @Success      200   {object}  response.Response{data=dto.UserResponse}
// @Failure      404   {object}  response.Response
// @Router       /admin/users/{id}/status [put]
func (ctrl *AdminController) ChangeUserStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input dto.UserStatusRequest
	if !bindJSON(c, &input) {
		return
	}

	user, err := ctrl.admin.SetUserStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		response.FromError(c, ctrl.logger, err)
		return
	}
	response.Success(c, dto.NewUserResponse(user))
}

// GetRevenue godoc
// @Summary      Daily revenue history, newest first
// @Tags         admin
// @Produce      json
// @Security     AdminAuth
// @Param        days  query     int  false  "Number of days (default 30)"
// @Success      200   {object}  response.Response{data=[]services.DayStats}
// @Router       /admin/revenue [get]
func (ctrl *AdminController) GetRevenue(c *gin.Context) {
	var query dto.RevenueQuery
	if !bindQuery(c, &query) {
		return
	}

	rows, err := ctrl.admin.RevenueHistory(c.Request.Context(), query.Days)
	if err != nil {
		response.FromError(c, ctrl.logger, err)
		return
	}
	response.Success(c, rows)
}

// Broadcast godoc
// @Summary      Push an announcement to every connected client
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     AdminAuth
// @Param        body  body      dto.BroadcastRequest  true  "Message"
// @Success      200   {object}  response.Response
// @Router       /admin/broadcast [post]
func (ctrl *AdminController) Broadcast(c *gin.Context) {
	var input dto.BroadcastRequest
	if !bindJSON(c, &input) {
		return
	}

	if err := ctrl.admin.Broadcast(input.Message); err != nil {
		response.FromError(c, ctrl.logger, err)
		return
	}
	response.Success(c, gin.H{"message": input.Message})
}
