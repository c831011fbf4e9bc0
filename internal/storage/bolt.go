package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/boltdb/bolt"
)

// Bolt guarda blobs num arquivo BoltDB local; o container vira um bucket.
type Bolt struct {
	db     *bolt.DB
	bucket []byte
}

// NewBolt abre (ou cria) o arquivo em path e garante o bucket do container.
func NewBolt(path, containerName string) (*Bolt, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage: caminho do bolt ausente")
	}
	if strings.TrimSpace(containerName) == "" {
		return nil, errors.New("storage: nome do container ausente")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("storage: criar diretório do bolt: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("storage: abrir bolt %s: %w", path, err)
	}

	bucket := []byte(containerName)
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: criar bucket %s: %w", containerName, err)
	}

	return &Bolt{db: db, bucket: bucket}, nil
}

func (b *Bolt) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var found bool
	err := b.db.View(func(tx *bolt.Tx) error {
		found = hasKey(tx.Bucket(b.bucket), []byte(name))
		return nil
	})
	return found, err
}

func (b *Bolt) Upload(ctx context.Context, name string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).Put([]byte(name), body)
	})
}

func (b *Bolt) Download(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(b.bucket)
		key := []byte(name)
		if !hasKey(bkt, key) {
			return fmt.Errorf("%q: %w", name, ErrNotFound)
		}
		// valores do bolt só são válidos dentro da transação
		data = append([]byte{}, bkt.Get(key)...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *Bolt) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).Delete([]byte(name))
	})
}

func (b *Bolt) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(b.bucket) == nil {
			return fmt.Errorf("storage: bucket %s ausente", b.bucket)
		}
		return nil
	})
}

func (b *Bolt) Close() error {
	return b.db.Close()
}

func hasKey(bkt *bolt.Bucket, key []byte) bool {
	if bkt == nil {
		return false
	}
	k, _ := bkt.Cursor().Seek(key)
	return k != nil && bytes.Equal(k, key)
}
