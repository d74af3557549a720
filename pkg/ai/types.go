package ai

import "context"

// TextGenerator describes a generative model capable of answering a single prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EvaluationResult is the validated, canonical evaluation produced by the model.
type EvaluationResult struct {
	Score        int      `json:"score"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	FullReport   string   `json:"full_report"`
}
