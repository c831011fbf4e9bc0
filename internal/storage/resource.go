package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

// Resource associa um nome de blob ao container durante uma única operação.
type Resource struct {
	client Client
	name   string
}

// NewResource cria o vínculo entre container e blob. Um client nil é tratado
// como backend ausente.
func NewResource(client Client, name string) *Resource {
	if client == nil {
		client = Noop{}
	}
	return &Resource{client: client, name: name}
}

// Name devolve o nome do blob.
func (r *Resource) Name() string {
	return r.name
}

func (r *Resource) resolved() error {
	if strings.TrimSpace(r.name) == "" {
		return ErrInvalidName
	}
	return nil
}

// Exists informa se o blob existe.
func (r *Resource) Exists(ctx context.Context) (bool, error) {
	if err := r.resolved(); err != nil {
		return false, err
	}
	ok, err := r.client.Exists(ctx, r.name)
	if err != nil {
		return false, fmt.Errorf("verificar %s: %w", r.name, err)
	}
	return ok, nil
}

// Upload grava o conteúdo no blob.
func (r *Resource) Upload(ctx context.Context, body []byte) error {
	if err := r.resolved(); err != nil {
		return err
	}
	if err := r.client.Upload(ctx, r.name, body); err != nil {
		return fmt.Errorf("enviar %s: %w", r.name, err)
	}
	return nil
}

// ReadAll lê o blob inteiro e fecha o stream em qualquer caminho de saída.
func (r *Resource) ReadAll(ctx context.Context) ([]byte, error) {
	if err := r.resolved(); err != nil {
		return nil, err
	}
	rc, err := r.client.Download(ctx, r.name)
	if err != nil {
		return nil, fmt.Errorf("baixar %s: %w", r.name, err)
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			log.Warn().Err(cerr).Str("blob", r.name).Msg("falha ao fechar stream")
		}
	}()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("ler %s: %w", r.name, err)
	}
	return data, nil
}

// Delete remove o blob.
func (r *Resource) Delete(ctx context.Context) error {
	if err := r.resolved(); err != nil {
		return err
	}
	if err := r.client.Delete(ctx, r.name); err != nil {
		return fmt.Errorf("remover %s: %w", r.name, err)
	}
	return nil
}
