package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/consentd/internal/authority"
	"github.com/dropDatabas3/consentd/internal/cache"
	memcache "github.com/dropDatabas3/consentd/internal/cache/memory"
	rediscache "github.com/dropDatabas3/consentd/internal/cache/redis"
	"github.com/dropDatabas3/consentd/internal/config"
	accountctrl "github.com/dropDatabas3/consentd/internal/http/controllers/account"
	adminctrl "github.com/dropDatabas3/consentd/internal/http/controllers/admin"
	connectctrl "github.com/dropDatabas3/consentd/internal/http/controllers/connect"
	"github.com/dropDatabas3/consentd/internal/http/router"
	accountsvc "github.com/dropDatabas3/consentd/internal/http/services/account"
	adminsvc "github.com/dropDatabas3/consentd/internal/http/services/admin"
	connectsvc "github.com/dropDatabas3/consentd/internal/http/services/connect"
	"github.com/dropDatabas3/consentd/internal/http/services/session"
	"github.com/dropDatabas3/consentd/internal/metrics"
	"github.com/dropDatabas3/consentd/internal/observability/logger"
	"github.com/dropDatabas3/consentd/internal/store/pg"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfgPath := flag.String("config", envOr("CONFIG_PATH", "config.yaml"), "ruta al archivo de configuración")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: envOr("LOG_LEVEL", "info"), ServiceName: "consentd"})
	defer func() { _ = logger.Sync() }()
	lg := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage
	pgCfg := pg.Config{
		MaxOpenConns: cfg.Storage.Postgres.MaxOpenConns,
		MinIdleConns: cfg.Storage.Postgres.MinIdleConns,
	}
	if s := cfg.Storage.Postgres.ConnMaxLifetime; s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			lg.Fatal("invalid storage.postgres.conn_max_lifetime", logger.Err(err))
		}
		pgCfg.ConnMaxLifetime = d
	}
	store, err := pg.New(ctx, cfg.Storage.DSN, pgCfg)
	if err != nil {
		lg.Fatal("postgres connect failed", logger.Err(err))
	}
	defer store.Close()

	// Cache
	var kv cache.Cache
	switch cfg.Cache.Kind {
	case "redis":
		kv = rediscache.New(cfg.Cache.Redis.Addr, cfg.Cache.Redis.DB, cfg.Cache.Redis.Prefix)
	default:
		kv = memcache.New(config.Dur(cfg.Cache.Memory.DefaultTTL))
	}

	// Token authority
	auth, err := authority.NewJWT(cfg.Issuer.Issuer, config.Dur(cfg.Issuer.AccessTTL), cfg.Issuer.Resources)
	if err != nil {
		lg.Fatal("authority init failed", logger.Err(err))
	}

	if err := metrics.Register(nil); err != nil {
		lg.Fatal("metrics registration failed", logger.Err(err))
	}

	// Services
	sessions := session.NewManager(kv, config.Dur(cfg.Session.TTL))
	decideDeps := connectsvc.DecideDeps{
		Users:          store.Users(),
		Applications:   store.Applications(),
		Authorizations: store.Authorizations(),
		Authority:      auth,
		Cache:          kv,
		LoginURL:       cfg.Server.LoginURL,
		ConsentURL:     cfg.Server.ConsentURL,
	}
	decide := connectsvc.NewDecideService(decideDeps)
	consent := connectsvc.NewConsentService(decideDeps)
	register := accountsvc.NewRegisterService(accountsvc.RegisterDeps{Users: store.Users()})
	login := accountsvc.NewLoginService(accountsvc.LoginDeps{Users: store.Users(), Sessions: sessions})
	applications := adminsvc.NewApplicationService(store.Applications())

	// HTTP
	cookie := accountctrl.CookieConfig{
		Name:     cfg.Session.CookieName,
		Domain:   cfg.Session.Domain,
		Secure:   cfg.Session.Secure,
		SameSite: sameSite(cfg.Session.SameSite),
	}
	handler := router.New(router.Deps{
		Authorize:    connectctrl.NewAuthorizeController(decide, sessions, cfg.Session.CookieName),
		Consent:      connectctrl.NewConsentController(consent),
		Register:     accountctrl.NewRegisterController(register),
		Login:        accountctrl.NewLoginController(login, sessions, cookie),
		Applications: adminctrl.NewApplicationsController(applications),
		Keyfunc:      auth.Keyfunc(),

		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("server listening", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		lg.Fatal("server exited", logger.Err(err))
	}
	lg.Info("server stopped")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func sameSite(s string) http.SameSite {
	switch s {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
