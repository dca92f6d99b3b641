package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"MiniCatalog/internal/auth"
	"MiniCatalog/internal/catalog"
	"MiniCatalog/internal/config"
	"MiniCatalog/pkg/kit"
)

const adminTokenTTL = 24 * time.Hour

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	if len(os.Args) > 1 && os.Args[1] == "token" {
		if err := printAdminToken(cfg); err != nil {
			fmt.Fprintln(os.Stderr, "token:", err)
			os.Exit(1)
		}
		return
	}

	log, err := kit.NewLogger(cfg.Service, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s := &catalog.Server{
		Store:       catalog.NewMemStore(cfg.BTreeDegree),
		Log:         log,
		HikeLimiter: kit.NewIPRateLimiter(cfg.HikeLimitPerMin, time.Minute),
	}
	if cfg.AdminSecret != "" {
		s.Admin = auth.RequireRole(auth.NewTokenMaker(cfg.AdminSecret), auth.RoleAdmin)
	} else {
		log.Warn("admin_secret not set, mutating routes are unauthenticated")
	}
	if cfg.MetricsEnabled && cfg.MetricsToken == "" {
		log.Warn("metrics enabled but metrics_token is empty, /metrics will refuse all requests")
	}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            log,
		Service:        cfg.Service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := kit.RunHTTPServer(ctx, cfg.Addr(), h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.New()
	if path := os.Getenv("CATALOG_CONFIG"); path != "" {
		if err := cfg.Load(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.FromEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func printAdminToken(cfg *config.Config) error {
	if cfg.AdminSecret == "" {
		return fmt.Errorf("admin_secret is not configured")
	}
	subject := "admin"
	if len(os.Args) > 2 {
		subject = os.Args[2]
	}
	tok, err := auth.NewTokenMaker(cfg.AdminSecret).New(subject, auth.RoleAdmin, adminTokenTTL)
	if err != nil {
		return err
	}
	fmt.Println(tok)
	return nil
}
