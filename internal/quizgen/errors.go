package quizgen

import (
	"errors"
	"fmt"
)

var (
	// ErrGenerationFailed is matched by every generation error.
	ErrGenerationFailed = errors.New("quiz generation failed")

	// ErrTopicRejected is matched by *RejectedError.
	ErrTopicRejected = errors.New("topic rejected")
)

// RejectedError reports that the model refused to write a quiz for the
// topic.
type RejectedError struct {
	Topic  string
	Reason string
}

func (e *RejectedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("topic %q rejected", e.Topic)
	}
	return fmt.Sprintf("topic %q rejected: %s", e.Topic, e.Reason)
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrTopicRejected || target == ErrGenerationFailed
}

// FailureError reports a provider, parse, or validation failure.
type FailureError struct {
	Stage string // "provider", "parse" or "validate"
	Err   error
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("quiz generation failed at %s: %v", e.Stage, e.Err)
}

func (e *FailureError) Unwrap() error { return e.Err }

func (e *FailureError) Is(target error) bool {
	return target == ErrGenerationFailed
}
