package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"babblebridge/api"
	"babblebridge/moderation"
	"babblebridge/repositories"
	"babblebridge/services"
	"babblebridge/translate"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components and centralizes error reporting so
// every defer (database cleanup included) executes before exit.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := newLogger(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Services
	translator := translate.NewGoogleTranslator(config.TranslateAPIKey, config.TranslateTimeout, log)
	roomService := services.NewRoomService(
		repositories.NewRoomRepository(db, log),
		repositories.NewDirectoryRepository(db, log),
		translator,
		log,
		config.TranslateTimeout,
	)
	if len(config.CensoredWords) > 0 {
		moderator, err := moderation.NewModerator(config.CensoredWords, censoredRune(config.CensoredChar))
		if err != nil {
			return fmt.Errorf("moderator setup failed: %w", err)
		}
		roomService.WithModerator(&moderator)
	}
	authService := services.NewAuthService(repositories.NewUserRepository(db), config.AuthTokenDuration)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. HTTP server
	app := api.NewServer(authService, roomService, log)
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address)
		if err := app.Listen(address); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	if err := app.ShutdownWithTimeout(config.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	log.Info("Program stopped cleanly")
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func censoredRune(s string) rune {
	r := []rune(s)
	if len(r) != 1 {
		return '*'
	}
	return r[0]
}
