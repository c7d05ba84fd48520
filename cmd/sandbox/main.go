package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/template-submitter/internal/config"
	"github.com/sangkips/template-submitter/internal/logging"
	"github.com/sangkips/template-submitter/internal/sandbox"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	closer := logging.Setup(logging.Options{
		File:       cfg.LogFile,
		Level:      cfg.LogLevel,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	defer closer.Close()

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	store := sandbox.NewStore()
	sandboxHandler := sandbox.NewHandler(store)
	sandboxHandler.RegisterRoutes(r)

	log.Info().Msg("sandbox template API starting on :" + cfg.SandboxPort)
	if err := http.ListenAndServe(":"+cfg.SandboxPort, r); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
