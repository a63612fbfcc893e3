package respond_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/finboard/internal/http/respond"
	"github.com/MrJamesThe3rd/finboard/internal/ledger"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "account not found", err: fmt.Errorf("add: %w", ledger.ErrAccountNotFound), want: http.StatusUnprocessableEntity},
		{name: "record not found", err: ledger.ErrRecordNotFound, want: http.StatusNotFound},
		{name: "validation", err: ledger.ErrValidation, want: http.StatusBadRequest},
		{name: "persistence", err: ledger.ErrPersistence, want: http.StatusServiceUnavailable},
		{name: "superseded wins over cause", err: fmt.Errorf("%w: %w", ledger.ErrSuperseded, ledger.ErrPersistence), want: http.StatusConflict},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, respond.Status(tt.err))
		})
	}
}

func TestError_HidesServerErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.Error(rec, fmt.Errorf("%w: dial tcp 10.0.0.1:5432", ledger.ErrPersistence))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.1")
}

func TestError_ShowsClientErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.Error(rec, fmt.Errorf("%w: name is required", ledger.ErrValidation))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name is required")
}
