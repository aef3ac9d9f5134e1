package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/mind-engage/qbank/internal/api/http"
	auth "github.com/mind-engage/qbank/internal/auth/middleware"
	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/config"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// --- Banks ---
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("data dir: %v", err)
	}
	reg := bank.NewRegistry(cfg.Banks)
	defer reg.Close()
	if err := reg.ScanDir(cfg.DataDir); err != nil {
		log.Fatalf("scan %s: %v", cfg.DataDir, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if _, ok := reg.Location(config.DefaultBank); ok {
		if _, err := reg.Store(ctx, config.DefaultBank); err != nil {
			log.Fatalf("default bank: %v", err)
		}
	}
	cancel()

	authSvc := auth.NewAuthService(cfg.HMACSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, cfg.User))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	// Protected API (role in context → RBAC)
	r.Group(func(pr chi.Router) {
		if cfg.AuthRequired {
			pr.Use(auth.JWTMiddleware(authSvc))
		} else {
			pr.Use(auth.LocalMiddleware)
		}
		api.Mount(pr, reg)
	})

	s := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("listening on %s (mode=%s, auth=%t, banks=%v)", cfg.HTTPAddr, cfg.Mode, cfg.AuthRequired, reg.Names())
	log.Fatal(s.ListenAndServe())
}
