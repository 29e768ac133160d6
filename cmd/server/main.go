package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/bookshelf/internal/auth"
	"github.com/ayush/bookshelf/internal/books"
	"github.com/ayush/bookshelf/internal/config"
	"github.com/ayush/bookshelf/internal/interactions"
	"github.com/ayush/bookshelf/internal/middleware"
	"github.com/ayush/bookshelf/internal/store"
	"github.com/ayush/bookshelf/internal/users"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if cfg.SecretKey == "" {
		logger.Fatal().Msg("SECRET_KEY is required")
	}

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect")
	}
	defer pgPool.Close()
	userStore := store.NewUserStore(pgPool)
	if err := userStore.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("postgres migrate")
	}

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("mongo connect")
	}
	defer mongoClient.Disconnect(ctx)
	mongoDB := mongoClient.Database(cfg.MongoDB)
	bookStore := store.NewBookStore(mongoDB)
	interactionStore := store.NewInteractionStore(mongoDB)

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect")
	}
	defer rdb.Close()
	cache := store.NewCache(rdb)

	// ── Auth ─────────────────────────────────────────────────
	tokens := auth.NewTokenManager(cfg.SecretKey)
	requireAuth := middleware.RequireAuth(tokens)

	// ── Handlers ─────────────────────────────────────────────
	userHandler := users.NewHandler(userStore, tokens,
		logger.With().Str("component", "users").Logger())
	bookHandler := books.NewHandler(bookStore, books.NewClient(cfg.SelfURL), cache,
		logger.With().Str("component", "books").Logger())
	interactionHandler := interactions.NewHandler(interactionStore,
		logger.With().Str("component", "interactions").Logger())

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", userHandler.List)
		r.Post("/signup", userHandler.Signup)
		r.Post("/signin", userHandler.Signin)
		r.With(requireAuth).Patch("/update", userHandler.Update)
		r.With(requireAuth).Delete("/delete", userHandler.Delete)
	})

	r.Route("/contents", func(r chi.Router) {
		r.Get("/new", bookHandler.New)
		r.Get("/top", bookHandler.Top)
		r.With(requireAuth).Post("/publish", bookHandler.Publish)
		r.With(requireAuth).Put("/update/{id}", bookHandler.Update)
		r.With(requireAuth).Delete("/delete/{id}", bookHandler.Delete)
	})

	r.Route("/interactions", func(r chi.Router) {
		r.Get("/", interactionHandler.List)
		r.With(requireAuth).Post("/like", interactionHandler.Like)
		r.With(requireAuth).Post("/read", interactionHandler.Read)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
