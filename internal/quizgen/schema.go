package quizgen

import "github.com/abhisek/quizgen/internal/llm"

// Response statuses.
const (
	StatusOK       = "ok"
	StatusRejected = "rejected"
)

// QuizSchema defines the JSON schema for quiz generation responses.
var QuizSchema = &llm.Schema{
	Name:        "quiz-set",
	Description: "A set of multiple-choice quiz questions about one topic, or a refusal",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status": map[string]any{
				"type":        "string",
				"enum":        []any{StatusOK, StatusRejected},
				"description": "ok when questions were written, rejected when the topic is refused",
			},
			"reason": map[string]any{
				"type":        "string",
				"description": "Why the topic was rejected. Empty when status is ok.",
			},
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question text",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"minItems":    4,
							"maxItems":    4,
							"description": "Exactly 4 distinct answer options",
						},
						"answer": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     3,
							"description": "0-based index of the correct option",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "A brief explanation of the correct answer",
						},
					},
					"required":             []any{"question", "options", "answer", "explanation"},
					"additionalProperties": false,
				},
				"description": "The quiz questions. Empty when status is rejected.",
			},
		},
		"required":             []any{"status", "reason", "questions"},
		"additionalProperties": false,
	},
}
