package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Config agrupa os parâmetros de todos os backends suportados.
type Config struct {
	Provider         string
	ConnectionString string
	Container        string
	S3Endpoint       string
	S3Region         string
	S3AccessKey      string
	S3SecretKey      string
	S3UseSSL         bool
	BoltPath         string
}

// Open devolve o cliente do provedor configurado. Sem provedor, devolve Noop.
func Open(ctx context.Context, cfg Config) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case "", "noop":
		log.Warn().Msg("nenhum armazenamento configurado; operações de blob indisponíveis")
		return Noop{}, nil
	case "azure":
		return NewAzure(ctx, AzureConfig{
			ConnectionString: cfg.ConnectionString,
			Container:        cfg.Container,
		})
	case "s3", "minio", "r2":
		return NewS3(ctx, S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.Container,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			UseSSL:    cfg.S3UseSSL,
		})
	case "bolt":
		return NewBolt(cfg.BoltPath, cfg.Container)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("storage: provedor %s não suportado", cfg.Provider)
	}
}
