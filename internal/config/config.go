package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/joho/godotenv"

	"github.com/gestaozabele/arquivos/internal/storage"
)

// Valor legado que indica connection string não definida.
const unsetConnectionString = "defult"

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port              int
	AllowOrigins      []string
	RateLimit         RateLimitConfig
	MaxUploadSize     int64
	AllowedExtensions []string
	ShutdownTimeout   time.Duration
	Storage           storage.Config
}

// RateLimitConfig representa limites simples para throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load carrega variáveis de ambiente e aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	cfg.AllowOrigins = splitList(getEnv("ALLOW_ORIGINS", ""))

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "10"), 64)
	if err != nil || rps <= 0 {
		return nil, errors.New("RATE_LIMIT_RPS inválido")
	}
	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "20"))
	if err != nil || burst <= 0 {
		return nil, errors.New("RATE_LIMIT_BURST inválido")
	}
	cfg.RateLimit = RateLimitConfig{RequestsPerSecond: rps, Burst: burst}

	size, err := units.RAMInBytes(getEnv("MAX_UPLOAD_SIZE", "32MB"))
	if err != nil || size <= 0 {
		return nil, errors.New("MAX_UPLOAD_SIZE inválido")
	}
	cfg.MaxUploadSize = size

	for _, ext := range splitList(getEnv("ALLOWED_EXTENSIONS", "")) {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.AllowedExtensions = append(cfg.AllowedExtensions, strings.ToLower(ext))
	}

	shutdown, err := parseDurationEnv("SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.ShutdownTimeout = shutdown

	st, err := loadStorage()
	if err != nil {
		return nil, err
	}
	cfg.Storage = st

	return cfg, nil
}

func loadStorage() (storage.Config, error) {
	conn := strings.TrimSpace(getEnv("AZURE_STORAGE_CONNECTION_STRING", ""))
	if conn == unsetConnectionString {
		conn = ""
	}

	provider := strings.ToLower(strings.TrimSpace(getEnv("STORAGE_PROVIDER", "")))
	if provider == "" && conn != "" {
		provider = "azure"
	}

	useSSL, err := parseBoolEnv("S3_USE_SSL", false)
	if err != nil {
		return storage.Config{}, err
	}

	cfg := storage.Config{
		Provider:         provider,
		ConnectionString: conn,
		Container:        strings.TrimSpace(getEnv("CONTAINER_NAME", "blobs")),
		S3Endpoint:       strings.TrimSpace(getEnv("S3_ENDPOINT", "")),
		S3Region:         strings.TrimSpace(getEnv("S3_REGION", "us-east-1")),
		S3AccessKey:      getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:      getEnv("S3_SECRET_KEY", ""),
		S3UseSSL:         useSSL,
		BoltPath:         strings.TrimSpace(getEnv("BOLT_PATH", ".data/blobs.db")),
	}

	switch provider {
	case "", "noop", "memory", "bolt", "s3", "minio", "r2":
	case "azure":
		if conn == "" {
			return storage.Config{}, errors.New("AZURE_STORAGE_CONNECTION_STRING obrigatório para o provedor azure")
		}
	default:
		return storage.Config{}, fmt.Errorf("STORAGE_PROVIDER %s não suportado", provider)
	}

	if provider != "" && provider != "noop" && cfg.Container == "" {
		return storage.Config{}, errors.New("CONTAINER_NAME obrigatório")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	val := strings.TrimSpace(getEnv(key, ""))
	if val == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, errors.New(key + " inválido")
	}
	return b, nil
}
