package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/storepos/backend/internal/infrastructure/auth"
	"github.com/storepos/backend/internal/infrastructure/logger"
	"github.com/storepos/backend/internal/interfaces/http/dto"
)

// StoreIDKey is the gin context key holding the scoped store ID
const StoreIDKey = "store_id"

// StoreScope parses the :store_id path parameter, checks the caller
// owns that store and binds the store ID to the request context. Every
// store-scoped route runs behind it; handlers never read the raw
// parameter themselves.
func StoreScope(verifier auth.OwnershipVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID, err := strconv.ParseUint(c.Param("store_id"), 10, 64)
		if err != nil || storeID == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "invalid store id"))
			return
		}

		userID, ok := UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "authentication required"))
			return
		}
		if err := verifier.VerifyOwnership(c.Request.Context(), userID, storeID); err != nil {
			c.AbortWithStatusJSON(dto.FromError(err))
			return
		}

		c.Set(StoreIDKey, storeID)
		ctx, _ := logger.WithStoreID(c.Request.Context(), logger.FromContext(c.Request.Context()), storeID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// StoreID returns the scoped store ID from the request context
func StoreID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(StoreIDKey)
	if !exists {
		return 0, false
	}
	storeID, ok := value.(uint64)
	return storeID, ok
}
