package ai

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// evaluationPayload is the wire shape the model is instructed to return.
// Score is a pointer so that a present zero survives the required check.
type evaluationPayload struct {
	Score        *int     `json:"score" validate:"required,gte=0,lte=100"`
	Strengths    []string `json:"strengths" validate:"omitempty,dive,max=500"`
	Improvements []string `json:"improvements" validate:"omitempty,dive,max=500"`
	FullReport   string   `json:"full_report" validate:"required"`
}

// DecodeEvaluation parses recovered model output into a validated
// EvaluationResult. A JSON syntax failure yields ErrMalformedResponse; a
// payload that parses but violates the schema yields an InvalidResultError
// listing every offending field. Optional arrays default to empty slices,
// never nil. Out-of-range scores are rejected, not clamped.
func DecodeEvaluation(text string, validate *validator.Validate) (EvaluationResult, error) {
	var payload evaluationPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return EvaluationResult{}, &InvalidResultError{
				Fields: []string{fmt.Sprintf("%s has type %s, want %s", typeErr.Field, typeErr.Value, typeErr.Type)},
			}
		}
		return EvaluationResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if err := validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return EvaluationResult{}, newInvalidResultError(validationErrors)
		}
		return EvaluationResult{}, err
	}

	result := EvaluationResult{
		Score:        *payload.Score,
		Strengths:    payload.Strengths,
		Improvements: payload.Improvements,
		FullReport:   payload.FullReport,
	}

	if result.Strengths == nil {
		result.Strengths = []string{}
	}
	if result.Improvements == nil {
		result.Improvements = []string{}
	}

	return result, nil
}
