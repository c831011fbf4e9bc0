package storage

import (
	"context"
	"io"
)

// Noop representa a ausência de backend: toda operação devolve ErrNotConfigured.
type Noop struct{}

func (Noop) Exists(ctx context.Context, name string) (bool, error) {
	return false, ErrNotConfigured
}

func (Noop) Upload(ctx context.Context, name string, body []byte) error {
	return ErrNotConfigured
}

func (Noop) Download(ctx context.Context, name string) (io.ReadCloser, error) {
	return nil, ErrNotConfigured
}

func (Noop) Delete(ctx context.Context, name string) error {
	return ErrNotConfigured
}

func (Noop) Ping(ctx context.Context) error {
	return ErrNotConfigured
}

func (Noop) Close() error {
	return nil
}
