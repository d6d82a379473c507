package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "github.com/arogyalabs/arogyabot/internal/app"
	"github.com/arogyalabs/arogyabot/internal/bootstrap"
	"github.com/arogyalabs/arogyabot/internal/repository"
	"github.com/arogyalabs/arogyabot/internal/transport/http/handler"
	"github.com/arogyalabs/arogyabot/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/", healthHandler.Root)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	conversationRepo := repository.NewConversationRepository(app.MySQL)
	messageRepo := repository.NewMessageRepository(app.MySQL)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.SessionSecret,
		time.Duration(app.Config.Auth.TokenExpireMinute)*time.Minute,
	)
	chatService := appsvc.NewChatService(
		conversationRepo,
		messageRepo,
		app.MessagePublisher,
		app.HistoryCache,
		app.Engine,
		app.Localizer,
	)
	webhookService := appsvc.NewWebhookService(
		conversationRepo,
		app.MessagePublisher,
		app.ReplyPublisher,
		app.Engine,
		app.Localizer,
		app.Config.Reply.Fast,
		time.Duration(app.Config.Reply.GenerateTimeoutSeconds*float64(time.Second)),
	)

	authHandler := handler.NewAuthHandler(authService)
	chatHandler := handler.NewChatHandler(chatService)
	webhookHandler := handler.NewWebhookHandler(webhookService, app.Sender, app.Localizer)

	router.POST("/webhook", webhookHandler.Inbound)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.AuthJWT(app.Config.Auth.SessionSecret), authHandler.Me)

	chatGroup := v1.Group("/chat")
	chatGroup.Use(middleware.AuthJWT(app.Config.Auth.SessionSecret))
	chatGroup.POST("/conversations", chatHandler.CreateConversation)
	chatGroup.GET("/conversations", chatHandler.ListConversations)
	chatGroup.DELETE("/conversations/:id", chatHandler.DeleteConversation)
	chatGroup.POST("/ask", chatHandler.Ask)
	chatGroup.GET("/history", chatHandler.GetHistory)

	whatsappGroup := v1.Group("/whatsapp")
	whatsappGroup.Use(middleware.AuthJWT(app.Config.Auth.SessionSecret))
	whatsappGroup.POST("/send-test", webhookHandler.SendTest)

	return router
}
