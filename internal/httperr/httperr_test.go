package httperr

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(KindValidation))
	assert.Equal(t, http.StatusBadRequest, StatusFor(KindConflict))
	assert.Equal(t, http.StatusNotFound, StatusFor(KindNotFound))
	assert.Equal(t, http.StatusUnauthorized, StatusFor(KindUnauthorized))
	assert.Equal(t, http.StatusForbidden, StatusFor(KindForbidden))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(Kind("other")))
}

func TestIsBusinessThroughWrapping(t *testing.T) {
	err := fmt.Errorf("submit: %w", Conflict("account_exists", "exists"))

	assert.True(t, IsBusiness(err, "account_exists"))
	assert.False(t, IsBusiness(err, "enrollment_pending"))

	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindConflict, kind)

	_, ok = KindOf(errors.New("boom"))
	assert.False(t, ok)
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"not found", NotFoundErr("enrollment_not_found", "Enrollment not found."), http.StatusNotFound, `"error_code":"enrollment_not_found"`},
		{"conflict", Conflict("already_registered", ""), http.StatusBadRequest, `"message":"already_registered"`},
		{"unexpected", errors.New("connection refused"), http.StatusInternalServerError, `"error_code":"internal_error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Respond(c, log, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}
