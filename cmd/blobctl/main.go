package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/arquivos/internal/config"
	"github.com/gestaozabele/arquivos/internal/storage"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(openFromEnv)
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// openFromEnv usa a mesma configuração da API.
func openFromEnv(ctx context.Context) (storage.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return storage.Open(ctx, cfg.Storage)
}
