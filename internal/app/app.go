package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/cinemor/booking-api/internal/catalog"
	"github.com/cinemor/booking-api/internal/domain"
	"github.com/cinemor/booking-api/internal/repository"
	"github.com/cinemor/booking-api/internal/ticketapi"
	appvalidator "github.com/cinemor/booking-api/internal/validator"
	"github.com/cinemor/booking-api/internal/vcs"
)

var (
	version = vcs.Version()
)

// CartItemListener observes "item added to cart" events, the hook for the
// toast notification surface.
type CartItemListener func(name string, price decimal.Decimal)

type application struct {
	config         config
	logger         *slog.Logger
	db             *pgxpool.Pool
	redis          redis.UniversalClient
	validator      *validator.Validate
	sessionManager *scs.SessionManager

	userRepo      domain.UserRepository
	bookingRepo   domain.BookingRepository
	cartRepo      domain.CartRepository
	pendingRepo   domain.PendingActionRepository
	selectionRepo domain.SeatSelectionRepository
	orderRepo     domain.OrderRepository
	checkoutLock  domain.CheckoutLock
	occupancy     domain.OccupancySource
	catalog       catalog.Source
	purchaseAPI   domain.PurchaseAPI

	cartListeners []CartItemListener
}

type config struct {
	port int
	env  string
	db   struct {
		dsn          string
		maxOpenConns int
		maxIdleTime  time.Duration
	}
	redis struct {
		url          string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  time.Duration
	}
	catalog struct {
		url     string
		timeout time.Duration
	}
	ticketAPI struct {
		url     string
		timeout time.Duration
	}
	jwt struct {
		secret string
		ttl    time.Duration
	}
	verifyBaseURL string
}

func Run() error {
	var cfg config

	flag.IntVar(&cfg.port, "port", 3000, "server port")
	flag.StringVar(&cfg.env, "env", "dev", "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.db.dsn, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.db.maxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.redis.url, "redis-url", "", "Redis URL")
	flag.IntVar(&cfg.redis.maxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.redis.maxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.redis.maxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.catalog.url, "catalog-url", "", "Movie catalog API base URL (empty: sample data only)")
	flag.DurationVar(&cfg.catalog.timeout, "catalog-timeout", catalog.DefaultTimeout, "Movie catalog API timeout")

	flag.StringVar(&cfg.ticketAPI.url, "ticket-api-url", "", "Ticket purchase API base URL")
	flag.DurationVar(&cfg.ticketAPI.timeout, "ticket-api-timeout", 10*time.Second, "Ticket purchase API timeout")

	flag.StringVar(&cfg.jwt.secret, "jwt-secret", "", "HMAC secret for bearer tokens")
	flag.DurationVar(&cfg.jwt.ttl, "jwt-ttl", 24*time.Hour, "Bearer token lifetime")

	flag.StringVar(&cfg.verifyBaseURL, "verify-base-url", "https://cinemor.example.com/ticket/verify", "Public base URL encoded into ticket QR links")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	validator := appvalidator.NewValidator()

	db, err := newDatabasePool(cfg)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		return err
	}
	defer db.Close()

	redisClient, err := newRedisClient(cfg)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		return err
	}
	defer redisClient.Close()

	catalogSource, err := catalog.NewClient(cfg.catalog.url, cfg.catalog.timeout, logger)
	if err != nil {
		return err
	}

	app := &application{
		config:         cfg,
		logger:         logger,
		db:             db,
		redis:          redisClient,
		validator:      validator,
		sessionManager: newSessionManager(redisClient),
		userRepo:       repository.NewPostgresUserRepository(db),
		bookingRepo:    repository.NewRedisBookingRepository(redisClient),
		cartRepo:       repository.NewRedisCartRepository(redisClient),
		pendingRepo:    repository.NewRedisPendingActionRepository(redisClient),
		selectionRepo:  repository.NewRedisSeatSelectionRepository(redisClient),
		orderRepo:      repository.NewRedisOrderRepository(redisClient),
		checkoutLock:   repository.NewRedisCheckoutLock(redisClient),
		occupancy:      domain.StaticOccupancy{},
		catalog:        catalogSource,
		purchaseAPI:    ticketapi.NewClient(cfg.ticketAPI.url, cfg.ticketAPI.timeout),
	}

	app.OnCartItemAdded(func(name string, price decimal.Decimal) {
		logger.Info("item added to cart", "item", name, "price", price)
	})

	return app.run()
}

// OnCartItemAdded registers an observer that fires after every successful
// cart addition.
func (app *application) OnCartItemAdded(listener CartItemListener) {
	app.cartListeners = append(app.cartListeners, listener)
}

func (app *application) notifyCartItemAdded(item domain.CartItem) {
	for _, listener := range app.cartListeners {
		listener(item.DisplayName(), item.LineTotal())
	}
}

func newSessionManager(client *redis.Client) *scs.SessionManager {
	sessionManager := scs.New()

	sessionManager.Store = goredisstore.New(client)
	sessionManager.IdleTimeout = 20 * time.Minute
	sessionManager.Cookie.Name = "session_id"

	return sessionManager
}

func newRedisClient(cfg config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.redis.url,
		MaxIdleConns:    cfg.redis.maxIdleConns,
		MaxActiveConns:  cfg.redis.maxOpenConns,
		ConnMaxIdleTime: cfg.redis.maxIdleTime,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func newDatabasePool(cfg config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.db.maxIdleTime
	config.MaxConns = int32(cfg.db.maxOpenConns)

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.port),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)
	r.Use(app.ensureGuestUserSession)
	r.Use(app.requestLogger)

	r.Get("/health", app.GetHealth)

	r.Post("/auth/register", app.RegisterUser)
	r.Post("/auth/login", app.Login)
	r.Post("/auth/logout", app.Logout)

	r.Get("/movies/{movieID}/showtimes", app.GetShowtimesByMovie)

	r.Route("/showtimes/{showtimeID}", func(r chi.Router) {
		r.Get("/seat-map", app.GetSeatMap)
		r.Post("/seats/{seatID}/toggle", app.ToggleSeat)
		r.Put("/tickets", app.UpdateTicketCounts)
	})

	r.Route("/booking", func(r chi.Router) {
		r.Get("/", app.GetBooking)
		r.Patch("/", app.UpdateBooking)
		r.Post("/continue", app.PromoteSelection)
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", app.GetCart)
		r.Delete("/", app.ClearCart)
		r.Post("/snacks", app.AddSnack)
		r.Patch("/items/{itemID}", app.UpdateCartItemQuantity)
		r.Delete("/items/{itemID}", app.RemoveCartItem)
	})

	r.Post("/checkout", app.Checkout)

	r.With(app.requireAuthentication).Get("/orders", app.GetOrderHistory)

	r.Get("/tickets/verify", app.VerifyTicket)
	r.Get("/tickets/verify/{code}", app.VerifyTicketByCode)

	return r
}
