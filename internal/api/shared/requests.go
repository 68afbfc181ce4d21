package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Categories of request payload failures.
var (
	// ErrMalformedBody is returned when the body is not a single JSON value.
	ErrMalformedBody = errors.New("malformed request body")

	// ErrInvalidPayload is returned when the JSON is well formed but has the
	// wrong shape: a required field is missing or a field has the wrong type.
	ErrInvalidPayload = errors.New("invalid request payload")

	// ErrBodyTooLarge is returned when the body exceeds the configured limit.
	ErrBodyTooLarge = errors.New("request body too large")
)

// PayloadError is a request body failure with a client-safe message.
// errors.Is matches its Kind.
type PayloadError struct {
	Kind    error
	Message string
	Err     error
}

func (e *PayloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether target is the error's Kind.
func (e *PayloadError) Is(target error) bool {
	return target == e.Kind
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// DecodeJSON decodes a single JSON value from the request body into v.
// When maxBytes is positive the body is capped with http.MaxBytesReader.
// Failures are returned as *PayloadError.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, maxBytes int64) error {
	body := r.Body
	if maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return classifyDecodeError(err)
	}

	// Exactly one value is accepted.
	err := dec.Decode(&struct{}{})
	switch {
	case errors.Is(err, io.EOF):
		return nil
	case err == nil:
		return &PayloadError{Kind: ErrMalformedBody, Message: "Request body must contain a single JSON value"}
	default:
		return classifyDecodeError(err)
	}
}

func classifyDecodeError(err error) error {
	var (
		maxBytesErr *http.MaxBytesError
		syntaxErr   *json.SyntaxError
		typeErr     *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &maxBytesErr):
		return &PayloadError{Kind: ErrBodyTooLarge, Message: "Request body too large", Err: err}
	case errors.As(err, &typeErr):
		msg := "Request body has the wrong type"
		if typeErr.Field != "" {
			msg = fmt.Sprintf("Invalid type for field %q", typeErr.Field)
		}
		return &PayloadError{Kind: ErrInvalidPayload, Message: msg, Err: err}
	case errors.Is(err, io.EOF):
		return &PayloadError{Kind: ErrMalformedBody, Message: "Request body is empty", Err: err}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return &PayloadError{Kind: ErrMalformedBody, Message: "Invalid JSON in request body", Err: err}
	default:
		return &PayloadError{Kind: ErrMalformedBody, Message: "Invalid request body", Err: err}
	}
}

// ValidateRequest checks the shape of a decoded request. Types implementing
// Validate() error validate themselves; otherwise the struct's validate tags
// are applied and failures become ErrInvalidPayload.
func ValidateRequest(v interface{}) error {
	if custom, ok := v.(interface{ Validate() error }); ok {
		return custom.Validate()
	}

	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &PayloadError{Kind: ErrInvalidPayload, Message: describeFieldError(fieldErrs[0]), Err: err}
	}
	return &PayloadError{Kind: ErrInvalidPayload, Message: "Invalid request payload", Err: err}
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Missing required field %q", fe.Field())
	default:
		return fmt.Sprintf("Invalid value for field %q", fe.Field())
	}
}
