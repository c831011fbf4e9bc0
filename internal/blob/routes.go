package blob

import (
	"github.com/go-chi/chi/v5"
)

// Prefix agrupa as rotas de gestão de blobs.
const Prefix = "/blob-management"

// Mount adiciona rotas de upload/download no router.
func Mount(r chi.Router, handler *Handler) {
	handler.RegisterRoutes(r)
}
