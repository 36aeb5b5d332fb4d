package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/membership-api/internal/httperr"
)

func pngUpload(t *testing.T, w, h int) Upload {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return Upload{Name: "logo.png", ContentType: "image/png", Size: int64(buf.Len()), Body: &buf}
}

func TestObjectKey(t *testing.T) {
	now := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	key := ObjectKey(FolderLogos, ".webp", now)

	assert.Regexp(t, regexp.MustCompile(`^enrollments/logos/2026/02/03/[0-9a-f-]{36}\.webp$`), key)
}

func TestNormalizeBoundsAndReencodes(t *testing.T) {
	out, err := Normalize(pngUpload(t, 2000, 500))
	require.NoError(t, err)

	assert.Equal(t, "image/webp", out.ContentType)

	raw, err := io.ReadAll(out.Body)
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Width)
	assert.Equal(t, 250, cfg.Height)
}

func TestNormalizeKeepsSmallImages(t *testing.T) {
	out, err := Normalize(pngUpload(t, 300, 400))
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(out.Body)
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, 400, cfg.Height)
}

func TestNormalizeRejects(t *testing.T) {
	_, err := Normalize(Upload{ContentType: "application/pdf", Body: strings.NewReader("%PDF")})
	assert.True(t, httperr.IsBusiness(err, "invalid_file_type"))

	_, err = Normalize(Upload{ContentType: "image/png", Size: MaxUploadSize + 1, Body: strings.NewReader("")})
	assert.True(t, httperr.IsBusiness(err, "file_too_large"))

	_, err = Normalize(Upload{ContentType: "image/png", Body: strings.NewReader("not an image")})
	assert.True(t, httperr.IsBusiness(err, "invalid_image"))
}

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(in)
	return &s3.PutObjectOutput{}, args.Error(0)
}

func (m *mockS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(in)
	return &s3.DeleteObjectOutput{}, args.Error(0)
}

func TestS3StorePut(t *testing.T) {
	client := new(mockS3)
	client.On("PutObject", mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "assets" &&
			aws.ToString(in.ContentType) == "image/webp" &&
			strings.HasPrefix(aws.ToString(in.Key), "events/2026/04/05/")
	})).Return(nil).Once()

	store := &S3Store{
		client:    client,
		bucket:    "assets",
		publicURL: "https://cdn.example.org",
		now:       func() time.Time { return time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC) },
	}

	asset, err := store.Put(context.Background(), FolderEvents, pngUpload(t, 10, 10))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(asset.PublicID, "events/2026/04/05/"))
	assert.Equal(t, "https://cdn.example.org/"+asset.PublicID, asset.URL)
	assert.Equal(t, "logo.png", asset.OriginalName)
	client.AssertExpectations(t)
}

func TestS3StoreDelete(t *testing.T) {
	client := new(mockS3)
	client.On("DeleteObject", mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return aws.ToString(in.Key) == "events/a.webp"
	})).Return(nil).Once()

	store := &S3Store{client: client, bucket: "assets"}
	require.NoError(t, store.Delete(context.Background(), "events/a.webp"))
	client.AssertExpectations(t)
}

func TestLocalStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads/")
	require.NoError(t, err)

	asset, err := store.Put(context.Background(), FolderLogos, pngUpload(t, 20, 20))
	require.NoError(t, err)

	assert.Equal(t, "/uploads/"+asset.PublicID, asset.URL)

	full := filepath.Join(dir, filepath.FromSlash(asset.PublicID))
	_, err = os.Stat(full)
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), asset.PublicID))
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(context.Background(), asset.PublicID))
}
