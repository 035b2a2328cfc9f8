// Package handler holds the gin HTTP handlers. Handlers translate
// between the wire format and the application services; no business
// logic lives here.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/storepos/backend/internal/interfaces/http/dto"
	"github.com/storepos/backend/internal/interfaces/http/middleware"
)

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

func respondError(c *gin.Context, err error) {
	c.JSON(dto.FromError(err))
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeValidation, err.Error()))
}

// scopedStoreID returns the store ID bound by the scope middleware.
// Routes are always registered behind it, so absence is a wiring bug.
func scopedStoreID(c *gin.Context) (uint64, bool) {
	storeID, ok := middleware.StoreID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError,
			dto.NewErrorResponse(dto.ErrCodeInternal, "store scope missing"))
	}
	return storeID, ok
}

func pathUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.ErrCodeBadRequest, "invalid id, expected a UUID"))
		return uuid.Nil, false
	}
	return id, true
}
