package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/nedgladstone/cardball/internal/domain/aggregates"
)

// StatusFor maps a domain error code onto an HTTP status.
func StatusFor(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeInvalidArgument, domainagg.CodeInvalidEnum:
		return http.StatusBadRequest
	case domainagg.CodeValidation, domainagg.CodeReferential:
		return http.StatusUnprocessableEntity
	case domainagg.CodeConflict:
		return http.StatusConflict
	case domainagg.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError writes err with the status its domain code implies. Errors
// without a code are reported as internal.
func RespondDomainError(c *gin.Context, err error) {
	code := domainagg.CodeOf(err)
	if code == "" {
		code = domainagg.CodeInternal
	}
	_ = c.Error(err)
	RespondError(c, StatusFor(code), string(code), err)
}
