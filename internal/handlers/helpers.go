package handlers

import (
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/membership-api/internal/httperr"
	"github.com/BruksfildServices01/membership-api/internal/storage"
)

var errInvalidID = httperr.Validation("invalid_id", "Invalid identifier.")

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errInvalidID
	}
	return id, nil
}

func queryInt(c *gin.Context, name string) int {
	n, _ := strconv.Atoi(c.Query(name))
	return n
}

func isMultipart(c *gin.Context) bool {
	return c.ContentType() == binding.MIMEMultipartPOSTForm
}

// formUploads opens the files sent under field. The returned closer must be
// called once the uploads have been consumed.
func formUploads(c *gin.Context, field string) ([]storage.Upload, func(), error) {
	if !isMultipart(c) {
		return nil, func() {}, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, httperr.Validation("invalid_request", "Invalid multipart form.")
	}

	var (
		uploads []storage.Upload
		files   []multipart.File
	)
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	for _, fh := range form.File[field] {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		files = append(files, f)

		uploads = append(uploads, storage.Upload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}

	return uploads, closeAll, nil
}
