package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-listing-api/internal/config"
	"github.com/iliyamo/hotel-listing-api/internal/database"
	"github.com/iliyamo/hotel-listing-api/internal/handler"
	"github.com/iliyamo/hotel-listing-api/internal/logger"
	"github.com/iliyamo/hotel-listing-api/internal/middleware"
	"github.com/iliyamo/hotel-listing-api/internal/model"
	"github.com/iliyamo/hotel-listing-api/internal/queue"
	"github.com/iliyamo/hotel-listing-api/internal/repository"
	"github.com/iliyamo/hotel-listing-api/internal/repository/memstore"
	"github.com/iliyamo/hotel-listing-api/internal/router"
	"github.com/iliyamo/hotel-listing-api/internal/service"
	"github.com/iliyamo/hotel-listing-api/internal/utils"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	lg, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}

// stores is the repository set chosen by STORE_DRIVER.
type stores struct {
	bookings  repository.BookingStore
	hotels    repository.HotelStore
	countries repository.CountryStore
	users     repository.UserStore
	tokens    repository.TokenStore
	apiKeys   repository.APIKeyStore
	db        *sql.DB
}

func openStores(ctx context.Context, cfg config.Config, lg *zap.Logger) (stores, error) {
	if cfg.StoreDriver == config.DriverMemory {
		ms := memstore.New()
		for key, app := range cfg.APIKeys {
			ms.PutAPIKey(model.APIKey{Key: key, AppName: app, CreatedAtUTC: time.Now().UTC()})
		}
		lg.Warn("using in-memory store; data is lost on restart", zap.Int("api_keys", len(cfg.APIKeys)))
		return stores{
			bookings: ms.Bookings, hotels: ms.Hotels, countries: ms.Countries,
			users: ms.Users, tokens: ms.Tokens, apiKeys: ms.APIKeys,
		}, nil
	}

	db, err := database.Open(database.Options{User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName})
	if err != nil {
		return stores{}, err
	}
	if cfg.DBAutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return stores{}, err
		}
		lg.Info("schema applied")
	}
	return stores{
		bookings:  repository.NewBookingRepo(db),
		hotels:    repository.NewHotelRepo(db),
		countries: repository.NewCountryRepo(db),
		users:     repository.NewUserRepo(db),
		tokens:    repository.NewTokenRepo(db),
		apiKeys:   repository.NewAPIKeyRepo(db),
		db:        db,
	}, nil
}

// startEvents returns the booking event publisher and, when RabbitMQ is
// configured, runs the audit consumer until ctx ends.
func startEvents(ctx context.Context, cfg config.Config, lg *zap.Logger) (service.EventPublisher, func()) {
	if cfg.RabbitMQURL == "" {
		lg.Info("RABBITMQ_URL not set; booking events disabled")
		return queue.NoopPublisher{}, func() {}
	}
	audit, closeAudit, err := logger.NewFile(cfg.BookingLogPath)
	if err != nil {
		lg.Error("open booking audit log", zap.String("path", cfg.BookingLogPath), zap.Error(err))
		audit, closeAudit = lg.Named("booking-audit"), func() error { return nil }
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := queue.StartBookingConsumer(ctx, cfg.RabbitMQURL, cfg.RabbitMQQueue, audit, lg); err != nil && !errors.Is(err, context.Canceled) {
			lg.Error("booking consumer stopped", zap.Error(err))
		}
	}()
	return queue.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQQueue, lg), func() {
		<-done
		_ = closeAudit()
	}
}

type redisPinger struct{ c *redis.Client }

func (p redisPinger) PingContext(ctx context.Context) error { return p.c.Ping(ctx).Err() }

func run(cfg config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, lg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	if st.db != nil {
		defer st.db.Close()
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		lg.Warn("redis unavailable; cache and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	publisher, waitEvents := startEvents(ctx, cfg, lg)
	defer waitEvents()

	tokenCfg := utils.TokenConfig{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer, Audience: cfg.JWTAudience, AccessTTL: cfg.AccessTTL()}
	bookings := service.NewBookingService(st.bookings, publisher, &service.BookingServiceConfig{Logger: lg.Named("booking")})
	hotels := service.NewHotelService(st.hotels, st.countries, lg.Named("hotel"))
	countries := service.NewCountryService(st.countries, st.hotels, lg.Named("country"))
	users := service.NewUserService(st.users, st.tokens, st.hotels,
		service.AuthConfig{Token: tokenCfg, RefreshTTL: cfg.RefreshTTL(), BcryptCost: cfg.BcryptCost}, lg.Named("user"))
	apiKeys := service.NewAPIKeyService(st.apiKeys, lg.Named("apikey"))

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover(), middleware.RequestID(), middleware.RequestLogger(lg.Named("http")))

	deps := router.Deps{
		Token:     tokenCfg,
		APIKeys:   apiKeys,
		Admins:    st.hotels,
		Redis:     rdb,
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     config.LoadCacheConfig(),
		Log:       lg,
	}
	probes := map[string]handler.Pinger{}
	if st.db != nil {
		probes["mysql"] = st.db
	}
	if rdb != nil {
		probes["redis"] = redisPinger{rdb}
	}
	router.RegisterRoutes(e, handler.Health(probes))
	router.RegisterAuth(e, handler.NewAuthHandler(users), deps)
	router.RegisterCatalog(e, handler.NewCountryHandler(countries), handler.NewHotelHandler(hotels), deps)
	router.RegisterBookings(e, handler.NewBookingHandler(bookings), deps)

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		lg.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("store", cfg.StoreDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		stop()
		return err
	case <-ctx.Done():
	}
	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
