package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikhilsahu/tasklist-api/internal/auth"
	"github.com/nikhilsahu/tasklist-api/internal/config"
	"github.com/nikhilsahu/tasklist-api/internal/middleware"
	"github.com/nikhilsahu/tasklist-api/internal/store"
	"github.com/nikhilsahu/tasklist-api/internal/tasks"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// ── PostgreSQL ────────────────────────────────────────────
	pool, err := pgxpool.New(ctx, cfg.DatabaseURI)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	defer pool.Close()
	pgStore := store.NewPostgresStore(pool)
	if err := pgStore.Migrate(ctx); err != nil {
		log.Fatalf("postgres migrate: %v", err)
	}

	// ── Auth core ────────────────────────────────────────────
	tokens, err := auth.NewTokenService(cfg.SecretKey, cfg.Algorithm, cfg.TokenLifetime)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}
	resolver := auth.NewResolver(tokens, pgStore)

	// ── Handlers ─────────────────────────────────────────────
	authHandler := auth.NewHandler(pgStore, tokens)
	taskHandler := tasks.NewHandler(tasks.NewService(pgStore))

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Public routes
	r.Post("/signup", authHandler.Signup)
	r.Post("/login", authHandler.Login)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(resolver))
		r.Get("/", authHandler.Index)
		r.Get("/tasks", taskHandler.List)
		r.Post("/task", taskHandler.Create)
		r.Get("/task/{id}", taskHandler.Get)
		r.Put("/task/{id}", taskHandler.Update)
		r.Delete("/task/{id}", taskHandler.Delete)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("tasklist API listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
