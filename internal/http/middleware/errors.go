package middleware

import "github.com/gin-gonic/gin"

// Error codes written by middleware. They match the handler package's
// taxonomy so clients see one set of codes.
const (
	codeBadRequest   = "bad_request"
	codeUnauthorized = "unauthorized"
	codeForbidden    = "forbidden"
	codeRateLimited  = "too_many_requests"
	codeInternal     = "internal_error"
)

// abortJSON stops the chain with the standard error envelope
// {request_id, code, message}.
func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": RequestIDFrom(c),
		"code":       code,
		"message":    msg,
	})
}
