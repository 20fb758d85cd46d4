package controllers

import (
	"rewards/dto"
	"rewards/response"
	"rewards/services"
	"rewards/services/logger"
	"rewards/utils"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	auth   *services.AuthService
	logger logger.Logger
}

func NewUserController(auth *services.AuthService, log logger.Logger) *UserController {
	return &UserController{auth: auth, logger: log}
}

// GetProfile godoc
// @Summary      Current user's profile
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=dto.UserResponse}
// @Failure      401  {object}  response.Response
// @Router       /me [get]
func (ctrl *UserController) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := ctrl.auth.Profile(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, ctrl.logger, err)
		return
	}
	response.Success(c, dto.NewUserResponse(user))
}

// UpdatePayout godoc
// @Summary      Set the saved PayPal email
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.PayoutRequest  true  "Payout destination"
// @Success      200   {object}  response.Response{data=dto.UserResponse}
// @Router       /me/payout [put]
func (ctrl *UserController) UpdatePayout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input dto.PayoutRequest
	if !bindJSON(c, &input) {
		return
	}

	user, err := ctrl.auth.UpdatePayoutEmail(c.Request.Context(), userID, input.PaypalEmail)
	if err != nil {
		response.FromError(c, ctrl.logger, err)
		return
	}
	response.Success(c, dto.NewUserResponse(user))
}

// GetReferrals godoc
// @Summary      Referral code and bonuses earned from referred users
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=dto.ReferralSummaryResponse}
// @Router       /referrals [get]
func (ctrl *UserController) GetReferrals(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	summary, err := ctrl.auth.Referrals(c.Request.Context(), userID, 20)
	if err != nil {
		response.FromError(c, ctrl.logger, err)
		return
	}
	response.Success(c, dto.ReferralSummaryResponse{
		ReferralCode:  summary.ReferralCode,
		ReferredUsers: summary.ReferredUsers,
		TotalBonus:    utils.Money(summary.TotalBonus),
		Recent:        dto.NewReferralEarnings(summary.Recent),
	})
}
