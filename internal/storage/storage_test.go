package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestaozabele/arquivos/internal/storage"
)

type clientCase struct {
	name  string
	setup func(t *testing.T) storage.Client
}

func clientImplementations() []clientCase {
	cases := []clientCase{
		{
			name: "memory",
			setup: func(t *testing.T) storage.Client {
				return storage.NewMemory()
			},
		},
		{
			name: "bolt",
			setup: func(t *testing.T) storage.Client {
				c, err := storage.NewBolt(filepath.Join(t.TempDir(), "nested", "blobs.db"), "blobs")
				require.NoError(t, err)
				t.Cleanup(func() { _ = c.Close() })
				return c
			},
		},
	}

	if conn := os.Getenv("AZURE_STORAGE_TEST_CONNECTION_STRING"); conn != "" {
		cases = append(cases, clientCase{
			name: "azure",
			setup: func(t *testing.T) storage.Client {
				c, err := storage.NewAzure(context.Background(), storage.AzureConfig{
					ConnectionString: conn,
					Container:        "arquivos-test",
				})
				require.NoError(t, err)
				return c
			},
		})
	}

	if endpoint := os.Getenv("S3_TEST_ENDPOINT"); endpoint != "" {
		cases = append(cases, clientCase{
			name: "s3",
			setup: func(t *testing.T) storage.Client {
				c, err := storage.NewS3(context.Background(), storage.S3Config{
					Endpoint:  endpoint,
					Region:    os.Getenv("S3_TEST_REGION"),
					Bucket:    "arquivos-test",
					AccessKey: os.Getenv("S3_TEST_ACCESS_KEY"),
					SecretKey: os.Getenv("S3_TEST_SECRET_KEY"),
				})
				require.NoError(t, err)
				return c
			},
		})
	}

	return cases
}

func TestClientImplementations(t *testing.T) {
	ctx := context.Background()

	for _, tc := range clientImplementations() {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.setup(t)
			t.Cleanup(func() {
				_ = c.Delete(ctx, "photo.png")
				_ = c.Delete(ctx, "empty.txt")
			})

			require.NoError(t, c.Ping(ctx))

			ok, err := c.Exists(ctx, "photo.png")
			require.NoError(t, err)
			assert.False(t, ok)

			_, err = c.Download(ctx, "photo.png")
			assert.True(t, errors.Is(err, storage.ErrNotFound), "got %v", err)

			payload := []byte{0x89, 'P', 'N', 'G', 0, 1, 2, 3}
			require.NoError(t, c.Upload(ctx, "photo.png", payload))

			ok, err = c.Exists(ctx, "photo.png")
			require.NoError(t, err)
			assert.True(t, ok)

			rc, err := c.Download(ctx, "photo.png")
			require.NoError(t, err)
			got, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())
			assert.Equal(t, payload, got)

			// sobrescrita: última escrita vence
			require.NoError(t, c.Upload(ctx, "photo.png", []byte("v2")))
			rc, err = c.Download(ctx, "photo.png")
			require.NoError(t, err)
			got, _ = io.ReadAll(rc)
			_ = rc.Close()
			assert.Equal(t, []byte("v2"), got)

			require.NoError(t, c.Upload(ctx, "empty.txt", []byte{}))
			ok, err = c.Exists(ctx, "empty.txt")
			require.NoError(t, err)
			assert.True(t, ok)

			require.NoError(t, c.Delete(ctx, "photo.png"))
			ok, err = c.Exists(ctx, "photo.png")
			require.NoError(t, err)
			assert.False(t, ok)

			// remover de novo não é erro
			assert.NoError(t, c.Delete(ctx, "photo.png"))
		})
	}
}

func TestMemoryCopiesInput(t *testing.T) {
	ctx := context.Background()
	m := storage.NewMemory()

	buf := []byte("abc")
	require.NoError(t, m.Upload(ctx, "a.txt", buf))
	buf[0] = 'x'

	rc, err := m.Download(ctx, "a.txt")
	require.NoError(t, err)
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	assert.Equal(t, "abc", string(got))
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := storage.NewMemory().Upload(ctx, "a.txt", []byte("a"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBoltPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "blobs.db")

	first, err := storage.NewBolt(path, "blobs")
	require.NoError(t, err)
	require.NoError(t, first.Upload(ctx, "a.txt", []byte("conteúdo")))
	require.NoError(t, first.Close())

	second, err := storage.NewBolt(path, "blobs")
	require.NoError(t, err)
	defer second.Close()

	rc, err := second.Download(ctx, "a.txt")
	require.NoError(t, err)
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	assert.True(t, bytes.Equal([]byte("conteúdo"), got))
}

func TestBoltRequiresPathAndContainer(t *testing.T) {
	_, err := storage.NewBolt("", "blobs")
	assert.Error(t, err)

	_, err = storage.NewBolt(filepath.Join(t.TempDir(), "b.db"), " ")
	assert.Error(t, err)
}

func TestNoopAlwaysNotConfigured(t *testing.T) {
	ctx := context.Background()
	var c storage.Client = storage.Noop{}

	_, err := c.Exists(ctx, "a.txt")
	assert.ErrorIs(t, err, storage.ErrNotConfigured)
	assert.ErrorIs(t, c.Upload(ctx, "a.txt", nil), storage.ErrNotConfigured)
	_, err = c.Download(ctx, "a.txt")
	assert.ErrorIs(t, err, storage.ErrNotConfigured)
	assert.ErrorIs(t, c.Delete(ctx, "a.txt"), storage.ErrNotConfigured)
	assert.ErrorIs(t, c.Ping(ctx), storage.ErrNotConfigured)
	assert.NoError(t, c.Close())
}

func TestConfigured(t *testing.T) {
	assert.False(t, storage.Configured(nil))
	assert.False(t, storage.Configured(storage.Noop{}))
	assert.False(t, storage.Configured(&storage.Noop{}))
	assert.True(t, storage.Configured(storage.NewMemory()))
}
