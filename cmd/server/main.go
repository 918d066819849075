package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bharatgram/server/internal/adapter/driven/persistence/sqlite"
	handler "github.com/bharatgram/server/internal/adapter/driving/http"
	"github.com/bharatgram/server/internal/auth"
	"github.com/bharatgram/server/internal/config"
	"github.com/bharatgram/server/internal/core/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	w := zerolog.ConsoleWriter{Out: os.Stdout}
	log.Logger = zerolog.New(w).With().Timestamp().Caller().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("level", cfg.LogLevel).Msg("Invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	db, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("Failed to open database")
	}

	messages := sqlite.NewMessageRepository(db)
	chats := sqlite.NewChatRepository(db)

	registry := service.NewRegistry()
	presence := service.NewPresenceService(registry)
	calls := service.NewCallService(registry)
	sessions := service.NewSessionService(registry, presence, calls)
	typing := service.NewTypingService(registry)
	chat := service.NewChatService(messages, chats, registry)

	verifier := auth.NewVerifier(cfg.JWTSecret, cfg.JWTTTL)

	h := handler.NewHandler(sessions, chat, typing, calls, chats, messages, verifier, cfg.SendBufferSize)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: h.NewRouter(),
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
