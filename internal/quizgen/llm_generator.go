package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"

	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/quiz"
)

// Purpose labels quiz generation requests in the LLM request log.
const Purpose = "quiz-gen"

// maxAttempts bounds generation to one retry after a retryable validation
// failure.
const maxAttempts = 2

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	shuffle  func(n int, swap func(i, j int))
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg, shuffle: rand.Shuffle}
}

// quizOutput is the raw LLM response before validation.
type quizOutput struct {
	Status    string          `json:"status"`
	Reason    string          `json:"reason"`
	Questions []quiz.Question `json:"questions"`
}

// Generate produces a quiz for the given topic.
func (g *LLMGenerator) Generate(ctx context.Context, input Input) (*quiz.QuizSet, error) {
	ctx = llm.WithTopic(llm.WithPurpose(ctx, Purpose), input.Topic)

	messages := []llm.Message{
		{Role: llm.RoleUser, Content: buildUserMessage(input, g.config)},
	}

	for attempt := 1; ; attempt++ {
		questions, content, err := g.generateOnce(ctx, input, messages)
		if err == nil {
			return g.finish(questions)
		}

		var verr *ValidationError
		if attempt >= maxAttempts || !errors.As(err, &verr) || !verr.Retryable {
			return nil, err
		}
		messages = append(messages,
			llm.Message{Role: llm.RoleAssistant, Content: string(content)},
			llm.Message{Role: llm.RoleUser, Content: buildFeedback(verr)},
		)
	}
}

func (g *LLMGenerator) generateOnce(ctx context.Context, input Input, messages []llm.Message) ([]quiz.Question, json.RawMessage, error) {
	req := llm.Request{
		System:      systemPrompt,
		Messages:    messages,
		Schema:      QuizSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, nil, &FailureError{Stage: "provider", Err: err}
	}

	content := json.RawMessage(llm.StripCodeFence(string(resp.Content)))
	if err := llm.ValidateJSON(QuizSchema, content); err != nil {
		return nil, content, &FailureError{Stage: "parse", Err: err}
	}

	var raw quizOutput
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, content, &FailureError{Stage: "parse", Err: err}
	}

	if raw.Status == StatusRejected {
		return nil, content, &RejectedError{Topic: input.Topic, Reason: raw.Reason}
	}

	// Run validators in order.
	for _, v := range g.config.Validators {
		if verr := v.Validate(raw.Questions, g.config); verr != nil {
			return nil, content, &FailureError{Stage: "validate", Err: verr}
		}
	}

	return raw.Questions, content, nil
}

func (g *LLMGenerator) finish(questions []quiz.Question) (*quiz.QuizSet, error) {
	if g.config.ShuffleOptions {
		for i := range questions {
			questions[i] = shuffleOptions(questions[i], g.shuffle)
		}
	}

	set, err := quiz.NewQuizSet(questions)
	if err != nil {
		return nil, &FailureError{Stage: "validate", Err: err}
	}
	return set, nil
}
