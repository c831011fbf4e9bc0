package storage

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotConfigured indica que nenhum backend de armazenamento foi configurado.
	ErrNotConfigured = errors.New("storage: cliente não configurado")
	// ErrNotFound é retornado quando o blob não existe no container.
	ErrNotFound = errors.New("storage: blob não encontrado")
	// ErrInvalidName é retornado quando o nome do blob não foi resolvido.
	ErrInvalidName = errors.New("storage: nome do blob obrigatório")
)

// Client define as operações básicas sobre um container de blobs remoto.
// Implementações devem ser seguras para uso concorrente.
type Client interface {
	// Exists informa se o blob existe no container.
	Exists(ctx context.Context, name string) (bool, error)
	// Upload cria ou sobrescreve o blob com o conteúdo informado.
	Upload(ctx context.Context, name string, body []byte) error
	// Download abre um stream de leitura do blob. O chamador deve fechá-lo.
	// Retorna ErrNotFound quando o blob não existe.
	Download(ctx context.Context, name string) (io.ReadCloser, error)
	// Delete remove o blob. Remover um blob inexistente não é erro.
	Delete(ctx context.Context, name string) error
	// Ping verifica se o container está acessível.
	Ping(ctx context.Context) error
	// Close libera recursos locais do cliente.
	Close() error
}

// Configured informa se o cliente aponta para um backend real.
func Configured(c Client) bool {
	if c == nil {
		return false
	}
	switch c.(type) {
	case Noop, *Noop:
		return false
	}
	return true
}
