package apperrors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Kind classifies where an error came from.
type Kind string

const (
	KindIO           Kind = "io"
	KindParsing      Kind = "parsing"
	KindValidation   Kind = "validation"
	KindTransport    Kind = "transport"
	KindGatewayLogic Kind = "gateway_logic"
	KindInternal     Kind = "internal"
)

// Error represents an application error
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface. When no message was given the
// wrapped error is reported unchanged.
func (e *Error) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New creates a new Error
func New(kind Kind, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Code:    codeFor(kind),
		Message: message,
		Err:     err,
	}
}

func Validation(message string) *Error {
	return New(KindValidation, message, nil)
}

// Transport wraps a network level failure without altering its message.
func Transport(err error) *Error {
	return New(KindTransport, "", err)
}

// IO wraps a failure reading user supplied input.
func IO(err error) *Error {
	return New(KindIO, "", err)
}

// Parsing wraps a structural problem found in user supplied input.
func Parsing(err error) *Error {
	return New(KindParsing, "", err)
}

// GatewayLogic aggregates the messages an upstream returned alongside a
// successful HTTP status.
func GatewayLogic(messages []string) *Error {
	return New(KindGatewayLogic, strings.Join(messages, ","), nil)
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// StatusCode maps err to the HTTP status a handler should answer with.
func StatusCode(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

func codeFor(kind Kind) int {
	switch kind {
	case KindIO:
		return http.StatusBadRequest
	case KindParsing, KindValidation:
		return http.StatusUnprocessableEntity
	case KindTransport, KindGatewayLogic:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorMiddleware renders the last error a handler attached to the context,
// unless the handler already wrote a response.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last().Err
			c.JSON(StatusCode(err), gin.H{"success": false, "error": err.Error()})
			c.Abort()
		}
	}
}
