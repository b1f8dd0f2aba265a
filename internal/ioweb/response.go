package ioweb

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gnames/gn"
	"github.com/gnames/gndocs/pkg/errcode"
)

type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

var emTags = strings.NewReplacer("<em>", "", "</em>", "")

// respondError writes the error envelope with a status derived from
// the error code.
func respondError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "internal"
	msg := "unknown error"

	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		status, code = statusOf(gnErr.Code)
		msg = emTags.Replace(fmt.Sprintf(gnErr.Msg, gnErr.Vars...))
	} else if err != nil {
		msg = err.Error()
	}

	c.AbortWithStatusJSON(status, errorEnvelope{
		Error: apiError{Message: msg, Code: code},
	})
}

func statusOf(code gn.ErrorCode) (int, string) {
	switch code {
	case errcode.DocumentNotFoundError, errcode.AnalysisNotFoundError:
		return http.StatusNotFound, "not_found"
	case errcode.DocumentNotUTF8Error,
		errcode.DocumentFilenameError,
		errcode.WebBadRequestError:
		return http.StatusBadRequest, "bad_request"
	case errcode.DocumentIDConflictError:
		return http.StatusConflict, "conflict"
	case errcode.DBNotReadyError, errcode.AnalyzerInitError:
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
