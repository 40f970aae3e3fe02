package exceptions

import (
	"errors"
	"fmt"
	"mindhub-service/internal/pkg/constvars"
	"runtime"
)

type CustomError struct {
	StatusCode    int        `json:"-"`
	Success       bool       `json:"success"`
	Category      string     `json:"error"`
	ClientMessage string     `json:"message"`
	Details       any        `json:"details,omitempty"`
	DevMessage    string     `json:"dev_message,omitempty"`
	Locations     []Location `json:"locations,omitempty"`
}

type Location struct {
	File         string `json:"file"`
	Line         int    `json:"line"`
	FunctionName string `json:"function_name"`
}

func (e *CustomError) Error() string {
	if len(e.Locations) == 0 {
		return e.DevMessage
	}
	loc := e.Locations[0]
	return fmt.Sprintf("%s (%s:%d %s)", e.DevMessage, loc.File, loc.Line, loc.FunctionName)
}

// BuildNewCustomError keeps the first CustomError found in err's chain and
// appends the caller location, so an error bubbling up through several
// layers carries its whole trail.
func BuildNewCustomError(err error, statusCode int, clientMessage, devMessage string) *CustomError {
	return newCustomError(err, statusCode, CategoryForStatus(statusCode), clientMessage, devMessage)
}

// BuildCategorizedError is BuildNewCustomError with an explicit category
// instead of the one derived from the status code.
func BuildCategorizedError(err error, statusCode int, category, clientMessage, devMessage string) *CustomError {
	return newCustomError(err, statusCode, category, clientMessage, devMessage)
}

func newCustomError(err error, statusCode int, category, clientMessage, devMessage string) *CustomError {
	location := getLocation(4)

	var existing *CustomError
	if err != nil && errors.As(err, &existing) {
		existing.Locations = append(existing.Locations, location)
		return existing
	}

	if err != nil {
		devMessage = fmt.Sprintf("%s: %s", devMessage, err.Error())
	}

	return &CustomError{
		StatusCode:    statusCode,
		Success:       false,
		Category:      category,
		ClientMessage: clientMessage,
		DevMessage:    devMessage,
		Locations:     []Location{location},
	}
}

func WrapWithoutError(statusCode int, clientMessage, devMessage string) *CustomError {
	return &CustomError{
		StatusCode:    statusCode,
		Category:      CategoryForStatus(statusCode),
		ClientMessage: clientMessage,
		DevMessage:    devMessage,
		Locations:     []Location{getLocation(2)},
	}
}

func WrapWithError(err error, statusCode int, clientMessage, devMessage string) *CustomError {
	return &CustomError{
		StatusCode:    statusCode,
		Category:      CategoryForStatus(statusCode),
		ClientMessage: clientMessage,
		DevMessage:    fmt.Sprintf("%s: %s", devMessage, err.Error()),
		Locations:     []Location{getLocation(2)},
	}
}

// WithDetails attaches structured data the client can act on, such as the
// list of unanswered required items.
func (e *CustomError) WithDetails(details any) *CustomError {
	e.Details = details
	return e
}

// CategoryForStatus maps an HTTP status onto the client-facing error code.
func CategoryForStatus(statusCode int) string {
	switch {
	case statusCode == constvars.StatusUnauthorized:
		return constvars.ErrCategoryAuthentication
	case statusCode == constvars.StatusForbidden:
		return constvars.ErrCategoryForbidden
	case statusCode == constvars.StatusNotFound:
		return constvars.ErrCategoryNotFound
	case statusCode == constvars.StatusConflict:
		return constvars.ErrCategoryConflict
	case statusCode == constvars.StatusTooManyRequests:
		return constvars.ErrCategoryRateLimited
	case statusCode == constvars.StatusGatewayTimeout:
		return constvars.ErrCategoryTimeout
	case statusCode == constvars.StatusBadGateway, statusCode == constvars.StatusServiceUnavailable:
		return constvars.ErrCategoryNetwork
	case statusCode >= 400 && statusCode < 500:
		return constvars.ErrCategoryValidation
	default:
		return constvars.ErrCategoryInternal
	}
}

func getLocation(skip int) Location {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Location{
			File:         constvars.ResponseUnknown,
			Line:         0,
			FunctionName: constvars.ResponseUnknown,
		}
	}
	function := runtime.FuncForPC(pc).Name()
	return Location{
		File:         file,
		Line:         line,
		FunctionName: function,
	}
}
