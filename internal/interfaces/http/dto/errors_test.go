package dto

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storepos/backend/internal/domain/shared"
)

func TestFromError_Sentinels(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{shared.ErrStoreNotFound, http.StatusNotFound, ErrCodeStoreNotFound},
		{shared.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
		{shared.ErrAlreadyExists, http.StatusConflict, ErrCodeAlreadyExists},
		{shared.ErrInsufficientStock, http.StatusConflict, ErrCodeInsufficientStock},
		{shared.ErrInvalidCoupon, http.StatusUnprocessableEntity, ErrCodeInvalidCoupon},
		{shared.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeUnauthorized},
		{shared.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
		{shared.ErrProvisioningFailed, http.StatusServiceUnavailable, ErrCodeProvisioning},
		{shared.ErrScopeViolation, http.StatusInternalServerError, ErrCodeScopeViolation},
		{shared.ErrInvalidInput, http.StatusBadRequest, ErrCodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			status, resp := FromError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.code, resp.Error.Code)
		})
	}
}

func TestFromError_WrappedSentinel(t *testing.T) {
	status, resp := FromError(fmt.Errorf("record sale: %w", shared.ErrInsufficientStock))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, ErrCodeInsufficientStock, resp.Error.Code)
}

func TestFromError_DomainError(t *testing.T) {
	status, resp := FromError(shared.NewDomainError("PRODUCT_NAME_EMPTY", "product name cannot be empty"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "PRODUCT_NAME_EMPTY", resp.Error.Code)
	assert.Equal(t, "product name cannot be empty", resp.Error.Message)
}

func TestFromError_UnknownErrorIsOpaque(t *testing.T) {
	status, resp := FromError(errors.New("pq: connection refused to 10.0.0.3"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, ErrCodeInternal, resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "10.0.0.3", "driver details must not leak")
}
