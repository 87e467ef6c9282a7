package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz-chat-service/internal/app"
	"quiz-chat-service/internal/config"
	"quiz-chat-service/internal/domain"
	"quiz-chat-service/internal/infra/memory"
	pgloader "quiz-chat-service/internal/infra/postgres"
	redissession "quiz-chat-service/internal/infra/redis"
	"quiz-chat-service/internal/infra/sheets"
	transport "quiz-chat-service/internal/transport/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz chat server",
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

	var sheetsClient *sheets.Client
	if cfg.Sheets.URL != "" {
		sheetsClient = sheets.NewClient(cfg.Sheets.URL, config.TTLDuration(cfg.Sheets.Timeout, 10*time.Second))
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var loader memory.CatalogLoader
	switch cfg.Catalog.Source {
	case "sheets":
		if sheetsClient == nil {
			return fmt.Errorf("catalog source %q requires sheets.url", cfg.Catalog.Source)
		}
		loader = sheetsClient
	case "postgres":
		if pool == nil {
			return fmt.Errorf("catalog source %q requires postgres.url", cfg.Catalog.Source)
		}
		loader = pgloader.NewCatalogLoader(pool)
	default:
		loader = memory.NewStaticCatalogLoader(sampleQuestions())
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 0)
	catalog := memory.NewCatalogRepository(loader, catalogTTL)
	// Fail fast: a broken catalog source should abort startup, not run
	// with no questions.
	if err := catalog.Warm(ctx); err != nil {
		return err
	}

	taunts := loadTaunts(ctx, cfg, sheetsClient)

	var history app.HistoryRecorder
	switch cfg.History.Sink {
	case "postgres":
		if cfg.Postgres.URL == "" {
			return fmt.Errorf("history sink %q requires postgres.url", cfg.History.Sink)
		}
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		db := bun.NewDB(sqldb, pgdialect.New())
		defer db.Close()
		recorder := pgloader.NewHistoryRecorder(db)
		defer recorder.Close()
		history = recorder
	case "sheets":
		if sheetsClient == nil {
			return fmt.Errorf("history sink %q requires sheets.url", cfg.History.Sink)
		}
		history = sheetsClient
	}

	var store app.SessionRepository
	if redisClient != nil {
		store = redissession.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 0))
	} else {
		store = memory.NewSessionStore()
	}

	engine := app.NewEngine(store, catalog, history, taunts, tokensFromConfig(cfg))
	renderer := transport.NewRenderer(tokensFromConfig(cfg))

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Handle("/webhook", transport.NewWebhookHandler(engine, renderer))
	mux.HandleFunc("/ws", transport.NewChatHandler(engine, renderer).ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz chat service on :%s", finalPort)
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

func tokensFromConfig(cfg config.Config) app.Tokens {
	tokens := app.DefaultTokens()
	if cfg.Quiz.GiveUpToken != "" {
		tokens.GiveUp = cfg.Quiz.GiveUpToken
	}
	if cfg.Quiz.NoToken != "" {
		tokens.No = cfg.Quiz.NoToken
	}
	if cfg.Quiz.YesToken != "" {
		tokens.Yes = cfg.Quiz.YesToken
	}
	if cfg.Quiz.AllCategoriesToken != "" {
		tokens.AllCategories = cfg.Quiz.AllCategoriesToken
	}
	return tokens
}

// loadTaunts fetches the taunt pool when enabled. A fetch failure or empty
// pool is fine; the selector falls back to a fixed message.
func loadTaunts(ctx context.Context, cfg config.Config, client *sheets.Client) *app.TauntSelector {
	if !cfg.Quiz.Taunts.Enabled || client == nil {
		return app.NewTauntSelector(nil)
	}
	pool, err := client.LoadTaunts(ctx)
	if err != nil {
		log.Printf("load taunts: %v", err)
	}
	return app.NewTauntSelector(pool)
}

// sampleQuestions provides a minimal demo catalog; swap the loader for the
// sheet- or Postgres-backed one in production.
func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:          "Q1",
			Prompt:      "What is 2 + 2?",
			Choices:     "A: 3  B: 4  C: 5",
			Answer:      "B",
			Explanation: "Basic addition.",
			Accuracy:    "92%",
			Theme:       "arithmetic",
			Category:    "math",
		},
		{
			ID:          "Q2",
			Prompt:      "Which planet is closest to the sun?",
			Choices:     "A: Venus  B: Earth  C: Mercury",
			Answer:      "C",
			Explanation: "Mercury orbits closest.",
			Accuracy:    "85%",
			Theme:       "planets",
			Category:    "science",
		},
		{
			ID:          "Q3",
			Prompt:      "Select the even numbers.",
			Choices:     "A: 1  B: 2  C: 3  D: 4",
			Answer:      "B,D",
			Explanation: "2 and 4 are even.",
			Accuracy:    "78%",
			Theme:       "parity",
			Category:    "math",
		},
	}
}
