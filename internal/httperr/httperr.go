package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Error    string        `json:"error"`
	Code     string        `json:"error_code"`
	Conflict *ConflictInfo `json:"conflict,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Error: message,
		Code:  code,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFoundResponse(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// Respond writes err with the status its kind maps to. Internal errors are
// attached to the gin context so the access log records them.
func Respond(c *gin.Context, err error) {
	e, ok := asError(err)
	if !ok {
		_ = c.Error(err)
		Write(c, http.StatusInternalServerError, "internal_error", "Internal server error")
		return
	}

	switch e.Kind {
	case KindValidation:
		Write(c, http.StatusBadRequest, e.Code, e.Message)
	case KindNotFound:
		Write(c, http.StatusNotFound, e.Code, e.Message)
	case KindUnavailable:
		Write(c, http.StatusServiceUnavailable, e.Code, e.Message)
	case KindConflict:
		c.JSON(http.StatusConflict, HTTPError{
			Error:    e.Message,
			Code:     e.Code,
			Conflict: e.Conflict,
		})
	default:
		_ = c.Error(err)
		Write(c, http.StatusInternalServerError, e.Code, e.Message)
	}
}
