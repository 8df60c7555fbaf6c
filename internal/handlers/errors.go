package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/services"
)

// respondError translates service errors into HTTP responses so every
// handler reports failures the same way.
func respondError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), gin.H{"error": err.Error()})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrGalleryNotFound),
		errors.Is(err, services.ErrBannerNotFound),
		errors.Is(err, services.ErrBrandNotFound),
		errors.Is(err, services.ErrSectionNotFound),
		errors.Is(err, services.ErrBranchNotFound),
		errors.Is(err, services.ErrOrderNotFound):
		return http.StatusNotFound

	case errors.Is(err, services.ErrInvalidPhone),
		errors.Is(err, services.ErrEmptyOrder),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrSingleUnitOnly),
		errors.Is(err, services.ErrProductNotOnSale),
		errors.Is(err, services.ErrInvalidOrderType),
		errors.Is(err, services.ErrInvalidProvider),
		errors.Is(err, services.ErrRootCategory):
		return http.StatusBadRequest

	case errors.Is(err, services.ErrInvalidCode),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized

	case errors.Is(err, services.ErrPhoneNotVerified):
		return http.StatusForbidden

	case errors.Is(err, services.ErrPhoneTaken),
		errors.Is(err, services.ErrCategoryInUse),
		errors.Is(err, services.ErrProductReferenced),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrOrderCancelled),
		errors.Is(err, services.ErrInvalidTransition):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
