package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
)

// AzureConfig descreve a conta e o container do Azure Blob Storage.
type AzureConfig struct {
	ConnectionString string
	Container        string
}

// Azure implementa Client sobre um container do Azure Blob Storage.
type Azure struct {
	container *container.Client
	name      string
}

// NewAzure conecta ao container e o cria caso ainda não exista.
func NewAzure(ctx context.Context, cfg AzureConfig) (*Azure, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	client, err := container.NewClientFromConnectionString(cfg.ConnectionString, cfg.Container, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: connection string inválida: %w", err)
	}

	if _, err := client.Create(ctx, nil); err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return nil, fmt.Errorf("storage: criar container %s: %w", cfg.Container, err)
	}

	return &Azure{container: client, name: cfg.Container}, nil
}

func (cfg AzureConfig) validate() error {
	if strings.TrimSpace(cfg.ConnectionString) == "" {
		return errors.New("storage: connection string do Azure ausente")
	}
	if strings.TrimSpace(cfg.Container) == "" {
		return errors.New("storage: nome do container ausente")
	}
	return nil
}

func (a *Azure) Exists(ctx context.Context, name string) (bool, error) {
	_, err := a.container.NewBlockBlobClient(name).GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (a *Azure) Upload(ctx context.Context, name string, body []byte) error {
	_, err := a.container.NewBlockBlobClient(name).UploadBuffer(ctx, body, nil)
	return err
}

func (a *Azure) Download(ctx context.Context, name string) (io.ReadCloser, error) {
	resp, err := a.container.NewBlobClient(name).DownloadStream(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
		}
		return nil, err
	}
	return resp.Body, nil
}

func (a *Azure) Delete(ctx context.Context, name string) error {
	_, err := a.container.NewBlobClient(name).Delete(ctx, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.BlobNotFound) {
		return err
	}
	return nil
}

func (a *Azure) Ping(ctx context.Context) error {
	if _, err := a.container.GetProperties(ctx, nil); err != nil {
		return fmt.Errorf("storage: container %s inacessível: %w", a.name, err)
	}
	return nil
}

func (a *Azure) Close() error {
	return nil
}
