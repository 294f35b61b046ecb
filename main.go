package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/wabridge/wa-relay-api/accounts"
	"github.com/wabridge/wa-relay-api/configs"
	"github.com/wabridge/wa-relay-api/console"
	"github.com/wabridge/wa-relay-api/datastore/gorm"
	"github.com/wabridge/wa-relay-api/gateway"
	"github.com/wabridge/wa-relay-api/handlers"
	"github.com/wabridge/wa-relay-api/messages"
	"github.com/wabridge/wa-relay-api/otel"
	"github.com/wabridge/wa-relay-api/relay"
	"github.com/wabridge/wa-relay-api/secrets"
	"github.com/wabridge/wa-relay-api/system"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/ratelimit"
	upstreamgorm "gorm.io/gorm"
)

const (
	version = "1.0.0"
	repoURL = "https://github.com/wabridge/wa-relay-api"

	idempotencyPruneInterval = time.Hour
)

var (
	sha1ver   string // sha1 revision used to build the program
	buildTime string // when the executable was built
)

func main() {
	var printVersion bool

	// If we should just print the version number and exit
	flag.BoolVar(&printVersion, "version", false, "if true, print version and exit")
	flag.Parse()

	if printVersion {
		fmt.Printf("v%s build on %s from sha1 %s\n", version, buildTime, sha1ver)
		os.Exit(0)
	}

	cfg, err := configs.Parse()
	if err != nil {
		panic(err)
	}

	runServer(cfg)

	os.Exit(0)
}

func runServer(cfg *configs.Config) {
	configs.ConfigureLogger(cfg.LogLevel)

	log.Info("Starting server")

	// Tracing
	if cfg.TracingGCPProjectID != "" {
		shutdown, err := otel.InitTracer(cfg.TracingGCPProjectID, cfg.TracingSampleRatio)
		if err != nil {
			log.Fatal(err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warn(err)
			}
			log.Info("Stopped tracer")
		}()
	}

	// Database, migrations run here and a failure stops the process
	db, err := gorm.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer gorm.Close(db)

	h, cleanup, err := setupHandler(cfg, db)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	// Server boilerplate
	srv := &http.Server{
		Handler:      h,
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		WriteTimeout: 0, // Disabled, set cfg.ServerRequestTimeout instead
		ReadTimeout:  0, // Disabled, set cfg.ServerRequestTimeout instead
	}

	// Run our server in a goroutine so that it doesn't block.
	go func() {
		log.
			WithFields(log.Fields{
				"host": cfg.Host,
				"port": cfg.Port,
			}).
			Info("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(err)
		}
	}()

	// Trap interrupt or sigterm and gracefully shutdown the server
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Block until we receive our signal.
	sig := <-c

	log.Infof("Got signal: %s. Shutting down..", sig)

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warnf("Error in server shutdown: %s", err)
	}
}

// setupHandler builds the services and the HTTP handler on top of db.
// cleanup releases what the handler holds besides db.
func setupHandler(cfg *configs.Config, db *upstreamgorm.DB) (h http.Handler, cleanup func(), err error) {
	cleanups := []func(){}
	cleanup = func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	crypter, err := secrets.NewCrypter(context.Background(), cfg.EncryptionKeyType, cfg.EncryptionKey)
	if err != nil {
		return nil, cleanup, err
	}

	// Services
	systemService := system.NewService(
		system.NewGormStore(db),
		system.WithPauseDuration(cfg.PauseDuration),
	)

	accountService := accounts.NewService(
		accounts.NewGormStore(db),
		accounts.WithCrypter(crypter),
	)

	messageService := messages.NewService(messages.NewGormStore(db))

	gw := gateway.NewGupshupClient(
		gateway.WithURL(cfg.GatewayURL),
		gateway.WithChannel(cfg.GatewayChannel),
		gateway.WithTimeout(cfg.GatewayTimeout),
	)

	relayOpts := []relay.ServiceOption{relay.WithSystemService(systemService)}
	if cfg.SendMaxRate > 0 {
		relayOpts = append(relayOpts, relay.WithRatelimiter(ratelimit.New(cfg.SendMaxRate, ratelimit.WithoutSlack)))
	}

	relayService := relay.NewService(accountService, messageService, gw, relayOpts...)

	// HTTP handling
	systemHandler := handlers.NewSystem(systemService)
	accountHandler := handlers.NewAccounts(accountService)
	relayHandler := handlers.NewRelay(relayService)
	messageHandler := handlers.NewMessages(messageService)

	r := mux.NewRouter()

	if cfg.TracingGCPProjectID != "" {
		r.Use(otelmux.Middleware("wa-relay-api"))
	}

	// Debug
	r.Handle("/debug", handlers.Debug(repoURL, version, sha1ver, buildTime)).Methods(http.MethodGet)

	// Health
	r.HandleFunc("/health/ready", handlers.HandleHealthReady).Methods(http.MethodGet)
	r.Handle("/health/liveness", handlers.Liveness(func() (interface{}, error) {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		if err := sqlDB.Ping(); err != nil {
			return nil, err
		}
		return sqlDB.Stats(), nil
	})).Methods(http.MethodGet)

	// System
	r.Handle("/system/settings", systemHandler.GetSettings()).Methods(http.MethodGet)
	r.Handle("/system/settings", systemHandler.SetSettings()).Methods(http.MethodPost)

	// Accounts
	r.Handle("/accounts", accountHandler.List()).Methods(http.MethodGet)
	r.Handle("/accounts", accountHandler.Create()).Methods(http.MethodPost)
	r.Handle("/accounts/active", accountHandler.Active()).Methods(http.MethodGet)
	r.Handle("/accounts/switch", accountHandler.Switch()).Methods(http.MethodPost)
	r.Handle("/accounts/{id}", accountHandler.Details()).Methods(http.MethodGet)

	// Messages
	r.Handle("/send", relayHandler.Send()).Methods(http.MethodPost)
	r.Handle("/messages", messageHandler.List()).Methods(http.MethodGet)

	// Operator console, registered last so it only catches what is left
	r.PathPrefix("/").Handler(console.Handler(cfg.StaticDir)).Methods(http.MethodGet, http.MethodHead)

	h = http.TimeoutHandler(r, cfg.ServerRequestTimeout, "request timed out")
	h = handlers.UseCors(h)
	h = handlers.UseLogging(h)
	h = handlers.UseCompress(h)

	// Setup idempotency key middleware if it's enabled
	if !cfg.DisableIdempotencyMiddleware {
		var is handlers.IdempotencyStore

		switch cfg.IdempotencyMiddlewareDatabaseType {
		// Shared SQL/Gorm store (same as for main app)
		case handlers.IdempotencyStoreTypeShared.String():
			gs := handlers.NewIdempotencyStoreGorm(db)
			cleanups = append(cleanups, startIdempotencyPruner(gs, idempotencyPruneInterval))
			is = gs
		// Redis, separate from app db
		case handlers.IdempotencyStoreTypeRedis.String():
			if cfg.IdempotencyMiddlewareRedisURL == "" {
				return nil, cleanup, fmt.Errorf("idempotency middleware db set to redis but Redis URL is empty")
			}
			pool := &redis.Pool{
				MaxIdle:     80,
				MaxActive:   12000,
				IdleTimeout: 5 * time.Minute,
				Dial: func() (redis.Conn, error) {
					return redis.DialURL(cfg.IdempotencyMiddlewareRedisURL)
				},
			}
			cleanups = append(cleanups, func() {
				log.Info("Closing Redis pool..")
				if err := pool.Close(); err != nil {
					log.Warn(err)
				}
			})
			is = handlers.NewIdempotencyStoreRedis(pool)
		case handlers.IdempotencyStoreTypeLocal.String():
			is = handlers.NewIdempotencyStoreLocal()
		default:
			return nil, cleanup, fmt.Errorf("idempotency middleware db type '%s' not supported", cfg.IdempotencyMiddlewareDatabaseType)
		}

		h = handlers.UseIdempotency(h, handlers.IdempotencyHandlerOptions{
			Expiry:     cfg.IdempotencyMiddlewareExpiry,
			RequireKey: cfg.IdempotencyMiddlewareRequireKey,
		}, is)
	}

	return h, cleanup, nil
}

// startIdempotencyPruner deletes expired keys every interval until the
// returned func is called.
func startIdempotencyPruner(store *handlers.IdempotencyStoreGorm, interval time.Duration) func() {
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				n, err := store.Prune()
				if err != nil {
					log.WithFields(log.Fields{"error": err}).Warn("Error while pruning idempotency keys")
					continue
				}
				log.WithFields(log.Fields{"pruned": n}).Debug("Pruned idempotency keys")
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}
