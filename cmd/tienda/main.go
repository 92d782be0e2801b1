package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"

	"TiendaLite/internal/config"
	"TiendaLite/internal/shop"
	"TiendaLite/internal/upload"
	"TiendaLite/pkg/kit"
)

const service = "tienda"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Fatal("load config", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := buildStore(ctx, cfg)
	if err != nil {
		log.Fatal("init store", zap.Error(err))
	}

	svc := shop.NewService(store, log)
	if err := svc.Load(ctx); err != nil {
		log.Fatal("load snapshots", zap.Error(err))
	}

	s := &shop.Server{
		Svc:            svc,
		Uploads:        upload.NewSaver(cfg.UploadsDir, cfg.PublicBaseURL+"/uploads"),
		Log:            log,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}

	h := shop.NewHandler(s, shop.HTTPDeps{
		Log:              log,
		Service:          service,
		Registry:         prometheus.NewRegistry(),
		MetricsEnabled:   cfg.MetricsEnabled,
		MetricsToken:     cfg.MetricsToken,
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		WriteLimitPerMin: cfg.WriteLimitPerMin,
		UploadsDir:       cfg.UploadsDir,
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func buildStore(ctx context.Context, cfg config.Config) (shop.SnapshotStore, error) {
	if cfg.DatabaseDSN == "" {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, err
		}
		return shop.NewFileStore(cfg.DataDir), nil
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	store := shop.NewPostgresStore(db)
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
