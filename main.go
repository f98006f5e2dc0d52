package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"storefront/internal/handlers"
	"storefront/internal/mailer"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_DSN", "storefront.db")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables messaging
	viper.SetDefault("CORS_ORIGIN", "http://localhost")
	viper.SetDefault("SESSION_EXPIRATION", "24h")
	viper.SetDefault("SMTP_HOST", "") // empty disables email delivery
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("SMTP_FROM", "no-reply@storefront.local")
	viper.SetDefault("RESET_BASE_URL", "http://localhost/reset-password")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Logger ---
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// --- Database ---
	db, err := openDatabase(viper.GetString("DB_DRIVER"), viper.GetString("DB_DSN"))
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// --- RabbitMQ (optional) ---
	var mqClient *rabbitmq.Client
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: mqURL}, zapLogger)
		if err != nil {
			zapLogger.Fatal("failed to initialize RabbitMQ client", zap.Error(err))
		}
		defer mqClient.Close()
	} else {
		zapLogger.Warn("RABBITMQ_URL not set, order events will not be published")
	}

	// --- Mailer (optional) ---
	var m mailer.Mailer
	if smtpHost := viper.GetString("SMTP_HOST"); smtpHost != "" {
		m = mailer.NewSMTPMailer(
			smtpHost,
			viper.GetInt("SMTP_PORT"),
			viper.GetString("SMTP_USERNAME"),
			viper.GetString("SMTP_PASSWORD"),
			viper.GetString("SMTP_FROM"),
			viper.GetString("RESET_BASE_URL"),
			zapLogger,
		)
	} else {
		zapLogger.Warn("SMTP_HOST not set, reset tokens will not be delivered")
	}

	app, err := buildApp(db, mqClient, m, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to build application", zap.Error(err))
	}

	// --- Order event consumer ---
	if mqClient != nil {
		messageHandler := func(msg amqp.Delivery) error {
			// Downstream processing (inventory, notifications) hangs off this
			// queue; the API itself only logs deliveries.
			zapLogger.Info("order event received",
				zap.Uint64("delivery_tag", msg.DeliveryTag),
				zap.ByteString("body", msg.Body))
			return nil
		}
		if consumerErr := mqClient.ConsumeOrderEvents(messageHandler); consumerErr != nil {
			zapLogger.Error("failed to start order event consumer", zap.Error(consumerErr))
		}
	}

	// --- Start HTTP server ---
	zapLogger.Info("starting server", zap.String("port", appPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			zapLogger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("shutting down server")

	if err := app.Shutdown(); err != nil {
		zapLogger.Error("error during shutdown", zap.Error(err))
	}
	zapLogger.Info("server gracefully stopped")
}

// openDatabase opens the configured relational store. Error translation is on
// so unique-constraint violations surface as gorm.ErrDuplicatedKey on either
// driver.
func openDatabase(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	case "postgres":
		return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// buildApp migrates the schema and wires repositories, services, handlers and
// middleware into a Fiber app. mqClient and m may be nil.
func buildApp(db *gorm.DB, mqClient *rabbitmq.Client, m mailer.Mailer, zapLogger *zap.Logger) (*fiber.App, error) {
	err := db.AutoMigrate(
		&models.User{},
		&models.PasswordResetToken{},
		&models.Order{},
		&models.OrderItem{},
		&models.WishlistEntry{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	tokenRepo := repositories.NewGORMResetTokenRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	wishlistRepo := repositories.NewGORMWishlistRepository(db)

	// --- Services ---
	var publisher services.OrderEventPublisher
	if mqClient != nil {
		publisher = mqClient
	}
	authService := services.NewAuthService(userRepo, tokenRepo, m, zapLogger)
	orderService := services.NewOrderService(orderRepo, publisher, zapLogger)
	wishlistService := services.NewWishlistService(wishlistRepo)

	// --- Sessions ---
	store := session.New(session.Config{
		Expiration:     viper.GetDuration("SESSION_EXPIRATION"),
		KeyLookup:      "cookie:session_id",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, store, zapLogger)
	userHandler := handlers.NewUserHandler(authService, store)
	orderHandler := handlers.NewOrderHandler(orderService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)

	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     viper.GetString("CORS_ORIGIN"),
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")
	requireAuth := middleware.RequireAuth(store)

	authHandler.RegisterRoutes(apiV1, requireAuth)

	protectedRoutes := apiV1.Group("", requireAuth)
	userHandler.RegisterRoutes(protectedRoutes)
	orderHandler.RegisterRoutes(protectedRoutes)
	wishlistHandler.RegisterRoutes(protectedRoutes)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app, nil
}
