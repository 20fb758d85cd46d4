package controllers

import (
	"rewards/dto"
	"rewards/response"
	"rewards/services"
	"rewards/services/logger"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	auth   *services.AuthService
	logger logger.Logger
}

func NewAuthController(auth *services.AuthService, log logger.Logger) *AuthController {
	return &AuthController{auth: auth, logger: log}
}

func authResponse(result *services.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt,
		User:        dto.NewUserResponse(result.User),
	}
}

// Register godoc
// @Summary      Create an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterInput  true  "Account"
// @Success      201   {object}  response.Response{data=dto.AuthResponse}
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var input dto.RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	result, err := ctrl.auth.Register(c.Request.Context(), services.RegisterInput{
		Username:     input.Username,
		Email:        input.Email,
		Password:     input.Password,
		ReferralCode: input.ReferralCode,
	})
	if err != nil {
		response.FromError(c, ctrl.logger, err)
		return
	}
	response.Created(c, authResponse(result))
}

// Login godoc
// @Summary      Sign in with username or email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginInput  true  "Credentials"
// @Success      200   {object}  response.Response{data=dto.AuthResponse}
// @Failure      401   {object}  response.Response
// @Router       /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var input dto.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	result, err := ctrl.auth.Login(c.Request.Context(), input.Identifier, input.Password)
	if err != nil {
		response.FromError(c, ctrl.logger, err)
		return
	}
	response.Success(c, authResponse(result))
}

// AuthGoogle godoc
// @Summary      Sign in with a Google ID token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.GoogleLoginInput  true  "Google ID token"
// @Success      200   {object}  response.Response{data=dto.AuthResponse}
// @Failure      401   {object}  response.Response
// @Router       /auth/google [post]
func (ctrl *AuthController) AuthGoogle(c *gin.Context) {
	var input dto.GoogleLoginInput
	if !bindJSON(c, &input) {
		return
	}

	result, err := ctrl.auth.LoginWithGoogle(c.Request.Context(), input.IDToken)
	if err != nil {
		response.FromError(c, ctrl.logger, err)
		return
	}
	response.Success(c, authResponse(result))
}
