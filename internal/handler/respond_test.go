package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stridelog/stridelog/internal/apperr"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperr.Validation("target_value"), http.StatusBadRequest},
		{"unauthorized", apperr.Unauthorized("goal", "g1"), http.StatusForbidden},
		{"not found", apperr.NotFound("goal", "g1"), http.StatusNotFound},
		{"persistence", apperr.Persistence("load goal", errors.New("connection refused")), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodGet, "/goals/g1", nil), tt.err, "failed")

			assert.Equal(t, tt.want, rec.Code)
			assert.NotContains(t, rec.Body.String(), "connection refused")
			assert.NotContains(t, rec.Body.String(), "boom")
		})
	}
}
