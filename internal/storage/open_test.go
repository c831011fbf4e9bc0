package storage

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	c, err := Open(ctx, Config{})
	require.NoError(t, err)
	assert.IsType(t, Noop{}, c)

	c, err = Open(ctx, Config{Provider: "MEMORY"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	c, err = Open(ctx, Config{Provider: "bolt", BoltPath: filepath.Join(t.TempDir(), "b.db"), Container: "blobs"})
	require.NoError(t, err)
	assert.IsType(t, &Bolt{}, c)
	require.NoError(t, c.Close())

	_, err = Open(ctx, Config{Provider: "ftp"})
	assert.Error(t, err)
}

func TestOpenValidatesBeforeDialing(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, Config{Provider: "azure", Container: "blobs"})
	assert.ErrorContains(t, err, "connection string")

	_, err = Open(ctx, Config{Provider: "s3", S3Endpoint: "http://localhost:9000", Container: "blobs"})
	assert.ErrorContains(t, err, "access key")
}

func TestSplitEndpoint(t *testing.T) {
	tests := []struct {
		in     string
		ssl    bool
		host   string
		secure bool
		err    bool
	}{
		{"localhost:9000", false, "localhost:9000", false, false},
		{"localhost:9000", true, "localhost:9000", true, false},
		{"https://s3.amazonaws.com/", false, "s3.amazonaws.com", true, false},
		{"http://minio:9000", false, "minio:9000", false, false},
		{"ftp://minio:9000", false, "", false, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			host, secure, err := splitEndpoint(tc.in, tc.ssl)
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.host, host)
			assert.Equal(t, tc.secure, secure)
		})
	}
}

func TestIsNoSuchKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"objeto ausente", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}, true},
		{"bucket ausente", minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: http.StatusNotFound}, false},
		{"404 sem código", minio.ErrorResponse{StatusCode: http.StatusNotFound}, false},
		{"acesso negado", minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}, false},
		{"erro de rede", errors.New("dial tcp: recusado"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isNoSuchKey(tc.err))
		})
	}
}
