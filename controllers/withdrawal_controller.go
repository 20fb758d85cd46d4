package controllers

import (
	"rewards/dto"
	"rewards/response"
	"rewards/services"
	"rewards/services/logger"
	"rewards/utils"

	"github.com/gin-gonic/gin"
)

type WithdrawalController struct {
	withdrawals *services.WithdrawalService
	logger      logger.Logger
}

func NewWithdrawalController(withdrawals *services.WithdrawalService, log logger.Logger) *WithdrawalController {
	return &WithdrawalController{withdrawals: withdrawals, logger: log}
}

// CreateWithdrawal godoc
// @Summary      Request a payout of the whole balance
// @Tags         withdrawals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.WithdrawalRequest  false  "Method and destination"
// @Success      201   {object}  response.Response{data=dto.WithdrawalCreatedResponse}
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /withdrawals [post]
func (ctrl *WithdrawalController) CreateWithdrawal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input dto.WithdrawalRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &input) {
		return
	}

	withdrawal, err := ctrl.withdrawals.Request(c.Request.Context(), services.WithdrawalInput{
		UserID: userID,
		Method: input.Method,
		Email:  input.Email,
	})
	if err != nil {
		response.FromError(c, ctrl.logger, err)
		return
	}

	response.Created(c, dto.WithdrawalCreatedResponse{
		ID:      withdrawal.ID,
		Amount:  utils.Money(withdrawal.Amount),
		Method:  withdrawal.Method,
		Status:  withdrawal.Status,
		Message: services.WithdrawalDisclaimer,
	})
}

// GetWithdrawals godoc
// @Summary      Current user's withdrawal history
// @Tags         withdrawals
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (0-based)"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Response{data=[]dto.WithdrawalResponse}
// @Router       /withdrawals [get]
func (ctrl *WithdrawalController) GetWithdrawals(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var query dto.PageQuery
	if !bindQuery(c, &query) {
		return
	}

	rows, total, err := ctrl.withdrawals.ListForUser(c.Request.Context(), userID, query.Page, query.Limit)
	if err != nil {
		response.FromError(c, ctrl.logger, err)
		return
	}
	page, limit := pageOf(query)
	response.SuccessWithPagination(c, dto.NewWithdrawalResponses(rows), page, limit, total)
}
