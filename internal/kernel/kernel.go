// Package kernel boots the application: connections, services,
// controllers, background workers and the HTTP handler. Commands (serve,
// migrate, seed) call into here instead of wiring things themselves.
package kernel

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/eventnest/eventnest/app/controllers"
	"github.com/eventnest/eventnest/app/jobs"
	"github.com/eventnest/eventnest/app/models"
	"github.com/eventnest/eventnest/app/repositories"
	"github.com/eventnest/eventnest/app/routes"
	"github.com/eventnest/eventnest/app/services"
	"github.com/eventnest/eventnest/config"
	"github.com/eventnest/eventnest/internal/chat"
	"github.com/eventnest/eventnest/pkg/cache"
	"github.com/eventnest/eventnest/pkg/database"
	"github.com/eventnest/eventnest/pkg/logger"
	"github.com/eventnest/eventnest/pkg/metrics"
	"github.com/eventnest/eventnest/pkg/middleware"
	"github.com/eventnest/eventnest/pkg/queue"
	"github.com/eventnest/eventnest/pkg/reqid"
	"github.com/eventnest/eventnest/pkg/router"
	"github.com/eventnest/eventnest/pkg/schedule"
	"github.com/eventnest/eventnest/pkg/session"
	"github.com/eventnest/eventnest/pkg/storage"
	"gorm.io/gorm"
)

// Models returns every persisted type, in an order that keeps foreign key
// creation happy. Migrations and AutoMigrate both use it.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.UserProfile{},
		&models.ServiceCategory{},
		&models.Service{},
		&models.EventManagement{},
		&models.Photography{},
		&models.Catering{},
		&models.PrintingService{},
		&models.StoreCategory{},
		&models.StoreItem{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Booking{},
		&models.Wishlist{},
		&models.Chat{},
		&models.ChatSession{},
		&models.Message{},
		&models.Notification{},
		&models.Contact{},
	}
}

// ConnectStores opens the database and Redis. Commands that only need the
// database (migrate, seed) call this and stop there.
func ConnectStores() error {
	if err := config.Load(); err != nil {
		return err
	}
	if err := database.Connect(); err != nil {
		return err
	}
	if err := cache.Connect(); err != nil {
		// Redis degrades sessions, cache-through reads and the queue
		// driver, but the core request path still works.
		logger.Warn("kernel: redis unavailable", "error", err)
	}
	return nil
}

// Boot wires the whole application and returns the HTTP handler. The
// returned stop function winds down workers; ctx cancellation does the
// same for anything that watches it.
func Boot(ctx context.Context) (http.Handler, func(), error) {
	if err := ConnectStores(); err != nil {
		return nil, nil, err
	}
	storage.Connect()

	db := database.DB
	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, nil, err
	}

	// Background machinery.
	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.UseDB(db)
	jobs.Configure(db)
	jobs.Register()

	workerCtx, stopWorkers := context.WithCancel(ctx)
	queue.StartWorkers(workerCtx, 4)

	hub := chat.NewHub()
	go hub.Run()

	// Repositories and services.
	users := repositories.NewUserRepository(db)
	catalog := repositories.NewCatalogRepository(db)

	inventory := services.NewInventoryService()
	carts := services.NewCartService(db, inventory)
	orders := services.NewOrderService(db, inventory)
	chats := services.NewChatService(db, config.OnlineWindow(), config.TypingWindow())
	authSvc := services.NewAuthService(db, users)
	bookings := services.NewBookingService(db, catalog)
	wishlists := services.NewWishlistService(db)
	notifications := services.NewNotificationService(db)
	contacts := services.NewContactService(db, catalog)

	consumer := chat.NewConsumer(db, chats, hub)

	// Typing flags left behind by dead sockets decay out of the typing
	// window on their own; this sweep just keeps the rows tidy.
	schedule.Every(5).Minutes().Name("chat.sweep_typing").Run(func() {
		cutoff := time.Now().Add(-config.TypingWindow())
		if err := db.Model(&models.ChatSession{}).
			Where("is_typing = ? AND last_seen < ?", true, cutoff).
			Update("is_typing", false).Error; err != nil {
			logger.Warn("kernel: typing sweep failed", "error", err)
		}
	})
	go schedule.Start(workerCtx)

	ctls := &routes.Controllers{
		Auth:          controllers.NewAuthController(authSvc, users),
		Catalog:       controllers.NewCatalogController(catalog),
		Cart:          controllers.NewCartController(carts),
		Orders:        controllers.NewOrderController(orders, notifications),
		Bookings:      controllers.NewBookingController(bookings, notifications),
		Wishlist:      controllers.NewWishlistController(wishlists),
		Notifications: controllers.NewNotificationController(notifications),
		Contact:       controllers.NewContactController(contacts),
		Chat:          controllers.NewChatController(chats, consumer),
		Admin: controllers.NewAdminController(
			db, inventory, orders, bookings, contacts, catalog, notifications),
	}

	return buildHandler(db, ctls), stopWorkers, nil
}

// buildHandler assembles the middleware stack and mounts the routes.
// Stack order, outermost first: metrics for true total latency, recovery
// before anything can die, request ID before anything logs.
func buildHandler(db *gorm.DB, ctls *routes.Controllers) http.Handler {
	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(session.Middleware(session.DefaultOptions()))
	r.Use(middleware.Authenticate(db))
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(200, time.Minute))

	// No auth or rate limit on the scrape endpoint.
	r.HandleFunc("/metrics", metrics.Handler())
	r.HandleFunc("/healthz", healthHandler(db))

	routes.RegisterAPI(r, ctls)
	return r.Handler()
}

// healthHandler reports database and Redis reachability. Redis being down
// degrades the app (sessions, queue) but does not stop it, so only a dead
// database returns 503.
func healthHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		checks := map[string]string{"database": "up", "redis": "up"}
		code := http.StatusOK

		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(req.Context()) != nil {
			checks["database"] = "down"
			code = http.StatusServiceUnavailable
		}
		if cache.RDB == nil || cache.RDB.Ping(req.Context()).Err() != nil {
			checks["redis"] = "down"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]any{"status": code, "data": checks}) //nolint:errcheck
	}
}

// Router builds a route table without connecting to anything, for
// route:list.
func Router() *router.Router {
	r := router.New()
	routes.RegisterAPI(r, &routes.Controllers{
		Auth:          &controllers.AuthController{},
		Catalog:       &controllers.CatalogController{},
		Cart:          &controllers.CartController{},
		Orders:        &controllers.OrderController{},
		Bookings:      &controllers.BookingController{},
		Wishlist:      &controllers.WishlistController{},
		Notifications: &controllers.NotificationController{},
		Contact:       &controllers.ContactController{},
		Chat:          &controllers.ChatController{},
		Admin:         &controllers.AdminController{},
	})
	return r
}
