package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/gestaozabele/arquivos/internal/blob"
	"github.com/gestaozabele/arquivos/internal/config"
	httpmiddleware "github.com/gestaozabele/arquivos/internal/http/middleware"
	"github.com/gestaozabele/arquivos/internal/storage"
)

type Handler struct {
	cfg     *config.Config
	storage storage.Client
	limiter *httpmiddleware.RateLimiter
}

// NewRouter devolve roteador configurado. Um store nil equivale a backend ausente.
func NewRouter(cfg *config.Config, store storage.Client) http.Handler {
	if store == nil {
		store = storage.Noop{}
	}

	h := &Handler{
		cfg:     cfg,
		storage: store,
		limiter: httpmiddleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
	}

	blobHandler := blob.NewHandler(store, blob.NewValidator(cfg.AllowedExtensions), cfg.MaxUploadSize)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(h.limiter))

		public.Route(blob.Prefix, func(r chi.Router) {
			blob.Mount(r, blobHandler)
		})
	})

	return r
}

// Health responde enquanto o processo estiver de pé.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready valida o acesso ao container de blobs.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if !storage.Configured(h.storage) {
		WriteError(w, http.StatusServiceUnavailable, "armazenamento não configurado")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.storage.Ping(ctx); err != nil {
		WriteError(w, http.StatusServiceUnavailable, "armazenamento indisponível: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ready": true})
}
