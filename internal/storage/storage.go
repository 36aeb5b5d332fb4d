package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/membership-api/internal/models"
)

// Folders used for uploaded assets.
const (
	FolderLogos     = "enrollments/logos"
	FolderDocuments = "enrollments/documents"
	FolderEvents    = "events"
	FolderPhotos    = "users/photos"
)

// Upload is a file received from a client, before normalization.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Store interface {
	Put(ctx context.Context, folder string, up Upload) (models.Asset, error)
	Delete(ctx context.Context, publicID string) error
}

// ObjectKey lays files out as <folder>/<yyyy>/<mm>/<dd>/<uuid><ext>.
func ObjectKey(folder, ext string, now time.Time) string {
	return path.Join(
		folder,
		fmt.Sprintf("%04d", now.Year()),
		fmt.Sprintf("%02d", int(now.Month())),
		fmt.Sprintf("%02d", now.Day()),
		uuid.NewString()+ext,
	)
}
