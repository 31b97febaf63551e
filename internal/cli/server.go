package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"portfolio-quiz-service/internal/app"
	"portfolio-quiz-service/internal/bank"
	"portfolio-quiz-service/internal/config"
	"portfolio-quiz-service/internal/infra/memory"
	pgloader "portfolio-quiz-service/internal/infra/postgres"
	redisinfra "portfolio-quiz-service/internal/infra/redis"
	"portfolio-quiz-service/internal/submit"
	transport "portfolio-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
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
	redisTTL := config.TTLDuration(cfg.Redis.TTL, time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	// Bank content comes from Postgres when configured, otherwise straight
	// from the site's section JSON files.
	var loader memory.BankLoader
	if pool != nil {
		loader = pgloader.NewBankLoader(pool)
	} else {
		httpLoader := bank.NewLoader(bank.NewHTTPFetcher(nil))
		loader = bank.NewCatalog(httpLoader, bank.MainSources(cfg.Bank.BaseURL), bank.MiniSource(cfg.Bank.BaseURL))
	}

	bankTTL := config.TTLDuration(cfg.Bank.TTL, time.Hour)
	var bankRepo app.BankRepository
	if redisClient != nil {
		bankRepo = redisinfra.NewBankRepository(redisClient, loader, bankTTL)
	} else {
		bankRepo = memory.NewBankRepository(loader, bankTTL)
	}

	var store app.AttemptStore
	if redisClient != nil {
		store = redisinfra.NewAttemptStore(redisClient, redisTTL)
	} else {
		store = memory.NewAttemptStore()
	}

	var submitter app.Submitter
	if cfg.Submit.URL != "" {
		submitter = submit.NewClient(cfg.Submit.URL, nil)
	}

	service := app.NewQuizService(bankRepo, store, nil, submitter)
	wsHandler := transport.NewWSHandler(service)

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
		log.Printf("starting quiz service on :%s", finalPort)
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
