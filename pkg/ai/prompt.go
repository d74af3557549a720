package ai

import "strings"

// BuildEvaluationPrompt assembles the model input for scoring a submitted task.
// The code section is included only when code was supplied.
func BuildEvaluationPrompt(title, description, code string) string {
	builder := strings.Builder{}
	builder.WriteString("You are an expert task evaluator.\n")
	builder.WriteString("Analyze the following task and provide a structured evaluation.\n")
	builder.WriteString("\nTitle: ")
	builder.WriteString(title)
	builder.WriteString("\n\nDescription:\n")
	builder.WriteString(description)
	if code != "" {
		builder.WriteString("\n\nRelevant code or pseudocode:\n```\n")
		builder.WriteString(code)
		builder.WriteString("\n```")
	}
	builder.WriteString("\n\nRespond ONLY with valid JSON in this exact structure:\n")
	builder.WriteString(`{
  "score": number, // 0-100 based on clarity and feasibility
  "strengths": ["string", "string", "string"], // 3 key strengths
  "improvements": ["string", "string", "string"], // 3 concrete improvements
  "full_report": "string" // a 2-3 sentence summary of the evaluation
}`)
	return builder.String()
}
