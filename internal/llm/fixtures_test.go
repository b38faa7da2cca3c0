package llm

// testQuizSchema is a trimmed quiz-set schema shared by the provider tests.
var testQuizSchema = &Schema{
	Name:        "test-quiz-set",
	Description: "A multiple-choice quiz",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status": map[string]any{"type": "string", "enum": []any{"ok", "rejected"}},
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{"type": "string"},
						"options": map[string]any{
							"type":     "array",
							"items":    map[string]any{"type": "string"},
							"minItems": 4,
							"maxItems": 4,
						},
						"answer": map[string]any{"type": "integer", "minimum": 0, "maximum": 3},
					},
					"required":             []any{"question", "options", "answer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"status", "questions"},
		"additionalProperties": false,
	},
}

const testQuizJSON = `{"status":"ok","questions":[{"question":"Which planet is largest?","options":["Mars","Jupiter","Venus","Earth"],"answer":1}]}`

// fenced wraps s the way chat models often do.
func fenced(s string) string {
	return "```json\n" + s + "\n```"
}
