//go:build unit
// +build unit

package v1

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"

	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{payments.ErrInvalidInput, http.StatusBadRequest},
		{payments.ErrRejected, http.StatusBadRequest},
		{payments.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("transaction ref-1: %w", payments.ErrNotFound), http.StatusNotFound},
		{payments.ErrConflict, http.StatusConflict},
		{payments.ErrVerificationFailed, http.StatusUnprocessableEntity},
		{payments.ErrAuthorizationMissing, http.StatusUnprocessableEntity},
		{fmt.Errorf("verify: %w", payments.ErrGateway), http.StatusBadGateway},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, errorStatus(tt.err))
		})
	}
}
