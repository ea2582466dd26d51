package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/peerpay/peer_pay/internal/config"
	"github.com/peerpay/peer_pay/internal/event"
	"github.com/peerpay/peer_pay/internal/middleware"
	"github.com/peerpay/peer_pay/internal/notification"
	"github.com/peerpay/peer_pay/internal/request"
	"github.com/peerpay/peer_pay/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes. Events and
// Notifications are built in main because the channel consumer's lifecycle
// belongs there.
type Deps struct {
	Cfg           config.Config
	DB            *pgxpool.Pool
	Cache         *redis.Client
	Events        event.Publisher
	Notifications *notification.Service
	Logger        *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}
	if d.Events == nil || d.Notifications == nil {
		return fmt.Errorf("event publisher and notification service are required")
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	var walletRepo wallet.Repository
	if d.DB != nil {
		walletRepo = wallet.NewPostgresRepository(d.DB)
	} else {
		walletRepo = wallet.NewMemoryRepository()
	}
	walletSvc := wallet.NewService(walletRepo, d.Events, d.Logger)

	var requestRepo request.Repository
	if d.DB != nil {
		requestRepo = request.NewPostgresRepository(d.DB)
	} else {
		requestRepo = request.NewMemoryRepository()
	}
	requestSvc := request.NewService(requestRepo, d.Events, d.Logger)

	walletHandler := wallet.NewHandler(walletSvc)
	requestHandler := request.NewHandler(requestSvc)
	notificationHandler := notification.NewHandler(d.Notifications)

	api := app.Group("/api")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterWalletRoutes(api, walletHandler)
	RegisterRequestRoutes(api, requestHandler)
	RegisterNotificationRoutes(api, notificationHandler)

	return nil
}
