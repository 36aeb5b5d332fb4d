package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BruksfildServices01/membership-api/internal/models"
)

// LocalStore writes assets below a directory served by the HTTP server.
type LocalStore struct {
	dir     string
	baseURL string
	now     func() time.Time
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}, nil
}

func (s *LocalStore) Put(ctx context.Context, folder string, up Upload) (models.Asset, error) {
	img, err := Normalize(up)
	if err != nil {
		return models.Asset{}, err
	}

	key := ObjectKey(folder, ".webp", s.now())
	full := filepath.Join(s.dir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return models.Asset{}, fmt.Errorf("create asset dir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return models.Asset{}, fmt.Errorf("create asset: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, img.Body); err != nil {
		return models.Asset{}, fmt.Errorf("write asset: %w", err)
	}

	return models.Asset{
		PublicID:     key,
		URL:          s.baseURL + "/" + key,
		OriginalName: up.Name,
	}, nil
}

func (s *LocalStore) Delete(ctx context.Context, publicID string) error {
	full := filepath.Join(s.dir, filepath.FromSlash(filepath.Clean("/"+publicID)))
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete asset: %w", err)
	}
	return nil
}
