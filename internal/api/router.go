package api

import (
	"kbchat/docs"
	"kbchat/internal/api/handlers"
	"kbchat/pkg/auth"
	"kbchat/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func SetupRouter(
	authHandler *handlers.AuthHandler,
	chatHandler *handlers.ChatHandler,
	adminHandler *handlers.AdminHandler,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	// Swagger - importing docs registers the spec via init()
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes (public)
	authGroup := app.Group("/user/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.RefreshToken)

	api := app.Group("/api/v1")

	// Chat answers guests too, so auth is optional on the ask route
	api.Post("/chat", middleware.OptionalAuthMiddleware(jwtManager, appLogger), chatHandler.Chat)

	conversations := api.Group("/chat/conversations", middleware.AuthMiddleware(jwtManager, appLogger))
	conversations.Get("", chatHandler.Conversations)
	conversations.Get("/:id/messages", chatHandler.Messages)
	conversations.Post("/:id/pin", chatHandler.Pin)
	conversations.Post("/:id/unpin", chatHandler.Unpin)
	conversations.Delete("/:id", chatHandler.DeleteConversation)

	admin := api.Group("/admin",
		middleware.AuthMiddleware(jwtManager, appLogger),
		middleware.AdminMiddleware(appLogger),
	)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Put("/users/:id", adminHandler.UpdateUser)
	admin.Post("/users/:id/password", adminHandler.ChangePassword)
	admin.Delete("/users/:id", adminHandler.DeleteUser)
	admin.Get("/knowledge", adminHandler.ListKnowledge)
	admin.Post("/knowledge", adminHandler.CreateKnowledge)
	admin.Put("/knowledge/:id", adminHandler.UpdateKnowledge)
	admin.Delete("/knowledge/:id", adminHandler.DeleteKnowledge)

	return app
}
