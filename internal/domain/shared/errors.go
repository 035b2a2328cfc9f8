package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound           = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists      = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput       = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrStoreNotFound      = NewDomainError("STORE_NOT_FOUND", "Store does not exist")
	ErrProvisioningFailed = NewDomainError("PROVISIONING_FAILED", "Store database provisioning failed")
	ErrScopeViolation     = NewDomainError("SCOPE_VIOLATION", "Query is not scoped to a store")
	ErrInsufficientStock  = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrInvalidCoupon      = NewDomainError("INVALID_COUPON", "Coupon is not valid")
	ErrForbidden          = NewDomainError("FORBIDDEN", "Caller does not own this store")
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
)
