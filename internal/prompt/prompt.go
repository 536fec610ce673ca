// Package prompt defines the question/answer items the scheduler surfaces.
package prompt

import (
	"errors"

	"github.com/zhongchar/zhongchar/internal/mastery"
)

// ErrUnimplemented is returned by prompt operations that have no behavior
// yet. Callers treat it as fatal and never retry.
var ErrUnimplemented = errors.New("prompt: operation not implemented")

// Prompt is one learnable question/answer item. Prompts are shared by
// pointer between the question graph and the session, so implementations
// must be safe to read from several holders.
type Prompt interface {
	// ID is the stable item identity used for persistence.
	ID() string

	// CurrentUnderstanding reports the learner's mastery of this item.
	CurrentUnderstanding() mastery.Understanding

	// QuestionPrompt returns the text shown to the learner.
	QuestionPrompt() (string, error)

	// ProcessAnswerInput reports whether answer is correct.
	ProcessAnswerInput(answer string) (bool, error)
}

// Marker is implemented by prompts whose understanding can be set from
// outside the answer path, such as a manual mark or a restore.
type Marker interface {
	SetUnderstanding(u mastery.Understanding, trigger string) mastery.Transition
}
