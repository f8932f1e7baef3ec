package common

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/spotavibe/spotavibe/pkg/domain/investment"
	"github.com/spotavibe/spotavibe/pkg/domain/user"
	"github.com/spotavibe/spotavibe/pkg/provider/payment"
	"github.com/spotavibe/spotavibe/pkg/repository"
)

// UnauthorizedMessage is the body returned for every authentication failure.
const UnauthorizedMessage = "Invalid or missing Supabase auth token"

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ErrorResponse is the body of every JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorJSON writes {"error": message} with the given status.
func ErrorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{Error: message})
}

// SuccessJSON writes a Response envelope.
func SuccessJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Status: status, Message: message, Data: data})
}

// Unauthorized writes the 401 body shared by every protected route.
func Unauthorized(c *fiber.Ctx) error {
	return ErrorJSON(c, fiber.StatusUnauthorized, UnauthorizedMessage)
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, user.ErrUserUnauthorized),
		errors.Is(err, user.ErrMissingToken),
		errors.Is(err, user.ErrMalformedToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, investment.ErrInvalidArtist),
		errors.Is(err, investment.ErrInvalidAmount),
		errors.Is(err, investment.ErrAmountTooLarge),
		errors.Is(err, payment.ErrInvalidSignature),
		errors.Is(err, payment.ErrInvalidPayload):
		return fiber.StatusBadRequest
	case errors.Is(err, investment.ErrNotAnArtist):
		return fiber.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, payment.ErrGateway):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorResponseJSON maps err to a status, reports 5xx errors and writes
// {"error": err.Error()}.
func ErrorResponseJSON(c *fiber.Ctx, err error) error {
	status := ErrorToStatusCode(err)
	if status >= fiber.StatusInternalServerError {
		CaptureError(c, err)
	}
	if status == fiber.StatusUnauthorized {
		return ErrorJSON(c, status, UnauthorizedMessage)
	}
	return ErrorJSON(c, status, err.Error())
}

// CaptureError reports err to Sentry when a client is configured.
func CaptureError(c *fiber.Ctx, err error) {
	hub := sentry.CurrentHub()
	if hub == nil || hub.Client() == nil {
		return
	}
	hub = hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("method", c.Method())
		scope.SetTag("route", c.Route().Path)
	})
	hub.CaptureException(err)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidationMessenger lets a request type choose the 400 message shown
// when its fields fail validation.
type ValidationMessenger interface {
	ValidationMessage(err error) string
}

// BindAndValidate parses the request body and validates it using go-playground/validator.
// On failure it writes a 400 {"error"} response and returns a nil input; the
// caller must not write another response.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		_ = ErrorJSON(c, fiber.StatusBadRequest, "Invalid request body")
		return nil, err
	}
	if err := Validate(input); err != nil {
		msg := validationMessage(err)
		if vm, ok := any(input).(ValidationMessenger); ok {
			msg = vm.ValidationMessage(err)
		}
		_ = ErrorJSON(c, fiber.StatusBadRequest, msg)
		return nil, err
	}
	return &input, nil
}

// Validate runs struct tag validation on v.
func Validate(v any) error {
	return validate.Struct(v)
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fmt.Sprintf("Missing or invalid %s", strings.Join(fields, ", "))
}
