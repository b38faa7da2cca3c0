package llm

import "context"

type contextKey string

const (
	purposeKey contextKey = "llm_purpose"
	topicKey   contextKey = "llm_topic"
)

// WithPurpose attaches a purpose label to the context for request logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithTopic attaches the quiz topic to the context for request logging.
func WithTopic(ctx context.Context, topic string) context.Context {
	return context.WithValue(ctx, topicKey, topic)
}

// TopicFrom extracts the quiz topic from the context, or "".
func TopicFrom(ctx context.Context) string {
	v, _ := ctx.Value(topicKey).(string)
	return v
}
