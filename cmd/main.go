package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/Vovarama1992/go-utils/logger"

	"github.com/soirgang/soirtichaut/internal/ai"
	"github.com/soirgang/soirtichaut/internal/chatlog"
	"github.com/soirgang/soirtichaut/internal/config"
	"github.com/soirgang/soirtichaut/internal/delivery"
	"github.com/soirgang/soirtichaut/internal/dispatch"
	"github.com/soirgang/soirtichaut/internal/notificator"
	"github.com/soirgang/soirtichaut/internal/policy"
	"github.com/soirgang/soirtichaut/internal/telegram"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {

	// =========================================================================
	// ENV / CONFIG
	// =========================================================================

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	// =========================================================================
	// CHATLOG STORE
	// =========================================================================

	var store chatlog.Store

	switch cfg.Store {
	case config.StorePostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := db.PingContext(ctx); err != nil {
			log.Fatalf("db ping failed: %v", err)
		}
		cancel()
		defer db.Close()

		store = chatlog.NewPGStore(db)
	default:
		store = chatlog.NewMemoryStore(cfg.HistoryCap)
	}

	// =========================================================================
	// TELEGRAM / OPENAI CLIENTS
	// =========================================================================

	log.Printf("[main] logging in telegram...")
	tg, err := telegram.NewBot(cfg.BotToken)
	if err != nil {
		log.Fatalf("failed to init telegram bot: %v", err)
	}

	identity := tg.Identity()
	if cfg.Persona != "" {
		identity.DisplayName = cfg.Persona
	}
	log.Printf("[main] ready: @%s (%d)", identity.Handle, identity.ID)

	openAIClient := ai.NewOpenAIClient(cfg.OpenAIKey, cfg.CompletionModel, cfg.EditModel)

	// =========================================================================
	// NOTIFICATION
	// =========================================================================

	notifyInfra := notificator.NewInfra(cfg.NotifyChatIDs)
	notifyInfra.SetBot(tg.API())
	notifyService := notificator.NewService(notifyInfra)

	// =========================================================================
	// DOMAIN SERVICES
	// =========================================================================

	prompts := ai.NewPromptBuilder(identity.DisplayName, cfg.CompletionModel, cfg.PromptTokenBudget)
	aiService := ai.NewService(openAIClient, store, prompts, cfg.ProviderTimeout)

	engine := policy.NewEngine(policy.Mode(cfg.AuthMode), cfg.RoomID, cfg.RoomIDs, cfg.OpIDs)

	loop := dispatch.NewLoop(
		cfg.QueueSize,
		engine,
		store,
		aiService,
		tg,
		notifyService,
		identity,
	)
	tg.SetQueue(loop)

	ctx := context.Background()
	go tg.Run(ctx)
	go loop.Run(ctx)

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	chatlogHandler := delivery.NewChatlogHandler(store, zl)
	delivery.RegisterRoutes(r, chatlogHandler)

	r.With(httputil.RecoverMiddleware).Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("pong"))
	})

	// =========================================================================
	// BACKGROUND JOBS
	// =========================================================================

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			rooms, err := store.Rooms(context.Background())
			if err != nil {
				log.Printf("[stats] rooms fail: %v", err)
				continue
			}
			log.Printf("[stats] queue_depth=%d rooms=%d", loop.QueueDepth(), len(rooms))
		}
	}()

	// =========================================================================
	// START SERVER
	// =========================================================================

	addr := ":" + cfg.Port
	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + addr,
		Service: "soirtichaut",
	})

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
