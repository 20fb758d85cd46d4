package routes

import (
	"net/http"

	"rewards/config"
	"rewards/controllers"
	_ "rewards/docs"
	middlewares "rewards/middleware"
	"rewards/services"
	"rewards/services/logger"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies gom các service đã khởi tạo trong main
type Dependencies struct {
	Config      *config.Config
	Logger      logger.Logger
	Tokens      *services.TokenService
	Auth        *services.AuthService
	Ledger      *services.LedgerService
	Withdrawals *services.WithdrawalService
	Admin       *services.AdminService
	Inbox       *services.InboxService
	Melody      *melody.Melody
	RateCounter middlewares.WindowCounter
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	cfg := deps.Config
	log := deps.Logger

	router.Use(
		middlewares.RequestID(),
		middlewares.RequestLogger(log),
		middlewares.Metrics(),
		middlewares.ErrorHandler(log),
	)

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if deps.Melody != nil {
		InitWebSocket(router, deps.Melody, deps.Tokens, log)
	}

	authController := controllers.NewAuthController(deps.Auth, log)
	userController := controllers.NewUserController(deps.Auth, log)
	adController := controllers.NewAdController(deps.Ledger, log)
	withdrawalController := controllers.NewWithdrawalController(deps.Withdrawals, log)
	notificationController := controllers.NewNotificationController(deps.Inbox, log)
	adminController := controllers.NewAdminController(deps.Admin, deps.Withdrawals, log)

	apiLimit := middlewares.RateLimit(deps.RateCounter, "api", cfg.RateLimit.Requests, cfg.RateLimit.Window, log)
	authLimit := middlewares.RateLimit(deps.RateCounter, "auth", cfg.RateLimit.AuthRequests, cfg.RateLimit.Window, log)
	requireUser := middlewares.AuthMiddleware(deps.Tokens)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth", authLimit)
	auth.POST("/register", authController.Register)
	auth.POST("/login", authController.Login)
	auth.POST("/google", authController.AuthGoogle)

	user := v1.Group("", apiLimit, requireUser)
	user.GET("/me", userController.GetProfile)
	user.PUT("/me/payout", userController.UpdatePayout)
	user.GET("/referrals", userController.GetReferrals)

	user.POST("/ads/credit", adController.CreditAd)
	user.GET("/ads/status", adController.GetStatus)

	//Đơn rút tiền
	user.POST("/withdrawals", withdrawalController.CreateWithdrawal)
	user.GET("/withdrawals", withdrawalController.GetWithdrawals)

	user.GET("/notifications", notificationController.GetAllNotifications)
	user.PUT("/notifications/read", notificationController.MarkAllRead)

	admin := v1.Group("/admin", authLimit, middlewares.AdminMiddleware(cfg.Admin))
	admin.GET("/stats", adminController.GetStats)
	admin.GET("/withdrawals", adminController.GetWithdrawals)
	admin.PUT("/withdrawals/:id", adminController.ProcessWithdrawal)
	admin.GET("/users", adminController.GetUsers)
	admin.PUT("/users/:id/status", adminController.ChangeUserStatus)
	admin.GET("/revenue", adminController.GetRevenue)
	admin.POST("/broadcast", adminController.Broadcast)
}
