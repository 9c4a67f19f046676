package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HANSBIANDJI/bksmell/internal/apperr"
)

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindSignature:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError maps a taxonomy error to its HTTP status and the
// canonical {"error": msg} body.
func AbortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(apperr.KindOf(err)), gin.H{"error": apperr.Message(err)})
}
