package controllers

import (
	"time"

	"rewards/dto"
	"rewards/response"
	"rewards/services"
	"rewards/services/logger"
	"rewards/utils"

	"github.com/gin-gonic/gin"
)

type AdController struct {
	ledger *services.LedgerService
	logger logger.Logger
}

func NewAdController(ledger *services.LedgerService, log logger.Logger) *AdController {
	return &AdController{ledger: ledger, logger: log}
}

// CreditAd godoc
// @Summary      Credit one watched ad
// @Tags         ads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.AdCreditRequest  false  "Ad type"
// @Success      200   {object}  response.Response{data=dto.AdCreditResponse}
// @Failure      403   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Router       /ads/credit [post]
func (ctrl *AdController) CreditAd(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input dto.AdCreditRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &input) {
		return
	}

	result, err := ctrl.ledger.CreditAd(c.Request.Context(), services.AdCreditInput{
		UserID:    userID,
		AdType:    input.AdType,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		response.FromError(c, ctrl.logger, err)
		return
	}

	response.Success(c, dto.AdCreditResponse{
		Earned:          utils.Money(result.Earned),
		Balance:         utils.Money(result.Balance),
		TotalEarned:     utils.Money(result.TotalEarned),
		AdsWatchedToday: result.AdsWatchedToday,
		DailyLimit:      result.DailyLimit,
	})
}

// GetStatus godoc
// @Summary      Today's ad counter and remaining cooldown
// @Tags         ads
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=dto.AdStatusResponse}
// @Router       /ads/status [get]
func (ctrl *AdController) GetStatus(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	status, err := ctrl.ledger.Status(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, ctrl.logger, err)
		return
	}
	response.Success(c, dto.AdStatusResponse{
		AdsWatchedToday:          status.AdsWatchedToday,
		DailyLimit:               status.DailyLimit,
		RemainingToday:           status.RemainingToday,
		CooldownRemainingSeconds: int64(status.CooldownRemaining.Round(time.Second).Seconds()),
	})
}
