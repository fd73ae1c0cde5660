package api

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/chatwire/messaging-api/docs"
	"github.com/chatwire/messaging-api/internal/api/handler"
	"github.com/chatwire/messaging-api/internal/api/middleware"
	"github.com/chatwire/messaging-api/internal/core/domain"
	"github.com/chatwire/messaging-api/internal/core/ports"
	"github.com/chatwire/messaging-api/internal/core/service"
	"github.com/chatwire/messaging-api/internal/infrastructure/config"
	mongodb "github.com/chatwire/messaging-api/internal/infrastructure/db/mongo"
	redisdb "github.com/chatwire/messaging-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, signer ports.TokenSigner, cfg *config.Config, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("messaging"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	tokenRepo := mongodb.NewRefreshTokenRepository(db)
	messageRepo := mongodb.NewMessageRepository(db)
	contactRepo := mongodb.NewContactRepository(db)
	throttle := redisdb.NewLoginThrottle(rdb, cfg.LoginMaxFailures, cfg.LoginWindow)
	hasher := service.NewBcryptHasher(cfg.BcryptCost)

	authService := service.NewAuthService(userRepo, tokenRepo, signer, hasher, throttle, cfg.RefreshTokenTTL, log)
	profileService := service.NewProfileService(userRepo, hasher, authService, log)
	messageService := service.NewMessageService(messageRepo, userRepo, log)
	contactService := service.NewContactService(contactRepo, userRepo, log)
	userService := service.NewUserService(userRepo, tokenRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	pubKeyHandler := handler.NewPublicKeyHandler(signer)
	profileHandler := handler.NewProfileHandler(profileService)
	messageHandler := handler.NewMessageHandler(messageService)
	contactHandler := handler.NewContactHandler(contactService)
	userHandler := handler.NewUserHandler(userService)

	verifyKey, err := jwt.ParseRSAPublicKeyFromPEM(signer.PublicKeyPEM())
	if err != nil {
		return nil, err
	}
	authMiddleware := middleware.Auth(verifyKey)

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/public-key", pubKeyHandler.Get)

	// --- Authenticated routes ---
	secured := e.Group("", authMiddleware, middleware.RBAC(domain.RoleUser))
	secured.POST("/auth/update-email", authHandler.UpdateEmail)
	secured.POST("/auth/update-username", authHandler.UpdateUsername)
	secured.GET("/profile/:userId", profileHandler.Get)
	secured.PATCH("/profile", profileHandler.Patch)
	secured.GET("/users", userHandler.List)
	secured.DELETE("/users", userHandler.Deactivate)
	secured.POST("/messages", messageHandler.Send)
	secured.GET("/messages", messageHandler.List)
	secured.POST("/contacts", contactHandler.Add)
	secured.GET("/contacts", contactHandler.List)

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	return e, nil
}
