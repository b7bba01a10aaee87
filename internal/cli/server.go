package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"cyberaware/internal/app"
	"cyberaware/internal/catalog"
	"cyberaware/internal/config"
	"cyberaware/internal/domain"
	filekv "cyberaware/internal/infra/file"
	"cyberaware/internal/infra/memory"
	pgloader "cyberaware/internal/infra/postgres"
	infraredis "cyberaware/internal/infra/redis"
	"cyberaware/internal/persist"
	transport "cyberaware/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port, dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz engine server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port, *dataDir)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag, dataDirFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	kv, err := buildRecordKV(cfg, redisClient, dataDirFlag)
	if err != nil {
		return err
	}
	records := persist.NewStore(kv)

	var loader memory.GameLoader = memory.NewStaticGameLoader(catalog.MustEmbedded())
	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		loader = pgloader.NewGameLoader(pool)
	}

	catalogTTL := config.Duration(cfg.Catalog.TTL, 10*time.Minute)
	var catalogRepo app.CatalogRepository
	if redisClient != nil {
		catalogRepo = infraredis.NewCatalogRepository(redisClient, loader, catalogTTL)
	} else {
		catalogRepo = memory.NewCatalogRepository(loader, catalogTTL)
	}

	games, err := catalogRepo.Games(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	tick := config.Duration(cfg.Session.Tick, time.Second)
	store := app.NewStore(records, domain.NewCatalog(games), app.NewTickerScheduler(tick), nil)
	wsHandler := transport.NewWSHandler(store, catalogRepo)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting cyberaware engine on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildRecordKV(cfg config.Config, redisClient *redis.Client, dataDirFlag string) (persist.KV, error) {
	backend := cfg.Storage.Backend
	if backend == "" {
		backend = "file"
	}
	switch backend {
	case "file":
		dir := cfg.Storage.Dir
		if dir == "" {
			dir = dataDirFlag
		}
		return filekv.NewKV(dir)
	case "redis":
		if redisClient == nil {
			return nil, fmt.Errorf("storage backend redis requires redis.addr")
		}
		return infraredis.NewKV(redisClient), nil
	case "memory":
		return memory.NewKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
