package dto

import (
	"errors"
	"net/http"

	"github.com/storepos/backend/internal/domain/shared"
)

// Error code constants, format: ERR_<CATEGORY>_<DESCRIPTION>
const (
	ErrCodeInternal          = "ERR_INTERNAL"
	ErrCodeBadRequest        = "ERR_BAD_REQUEST"
	ErrCodeValidation        = "ERR_VALIDATION"
	ErrCodeUnauthorized      = "ERR_UNAUTHORIZED"
	ErrCodeForbidden         = "ERR_FORBIDDEN"
	ErrCodeNotFound          = "ERR_NOT_FOUND"
	ErrCodeStoreNotFound     = "ERR_STORE_NOT_FOUND"
	ErrCodeAlreadyExists     = "ERR_ALREADY_EXISTS"
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	ErrCodeInvalidCoupon     = "ERR_INVALID_COUPON"
	ErrCodeProvisioning      = "ERR_STORE_PROVISIONING"
	ErrCodeScopeViolation    = "ERR_SCOPE_VIOLATION"
)

var sentinelStatus = []struct {
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

// FromError maps a domain error to an HTTP status and response body.
// Unknown errors become opaque 500s; the message is not leaked.
func FromError(err error) (int, Response) {
	for _, m := range sentinelStatus {
		if errors.Is(err, m.err) {
			return m.status, NewErrorResponse(m.code, m.err.Error())
		}
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return http.StatusBadRequest, NewErrorResponse(domainErr.Code, domainErr.Message)
	}
	return http.StatusInternalServerError, NewErrorResponse(ErrCodeInternal, "internal error")
}
