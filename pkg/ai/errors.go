package ai

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedResponse indicates the model's reply was unusable: not valid
// JSON, an unrecognised response shape, or no text at all.
var ErrMalformedResponse = errors.New("model response is malformed")

// ErrEmptyResponse indicates the provider answered without any usable text.
// It is a malformed response, so matching on ErrMalformedResponse covers it.
var ErrEmptyResponse = fmt.Errorf("%w: model returned no text", ErrMalformedResponse)

// ProviderError carries the HTTP status and body of a failed provider call.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s request failed with status %d", e.Provider, e.StatusCode)
}

// InvalidResultError aggregates every field-level failure found in a parsed
// evaluation, so callers can log exactly what the model returned incorrectly.
type InvalidResultError struct {
	Fields []string
}

func (e *InvalidResultError) Error() string {
	return fmt.Sprintf("evaluation failed validation: %s", strings.Join(e.Fields, "; "))
}

func newInvalidResultError(errs validator.ValidationErrors) *InvalidResultError {
	fields := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		fields = append(fields, fmt.Sprintf("%s failed %q", fieldErr.Field(), fieldErr.Tag()))
	}
	return &InvalidResultError{Fields: fields}
}
