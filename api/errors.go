package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/Domenick1991/aviabooking/internal/domain"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict, domain.KindDuplicate, domain.KindCapacity:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the domain error, or with ErrStoreUnavailable for anything the
// domain does not know about. Driver text never reaches the client.
func writeError(c *gin.Context, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		derr = domain.ErrStoreUnavailable
	} else if derr.Kind == domain.KindInternal {
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(statusFor(derr.Kind), errorResponse{Error: derr.Message, Code: derr.Code})
}

// bindJSON decodes the request body and reports malformed input as a validation error.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, domain.ErrInvalidRequestBody)
		return false
	}
	return true
}
