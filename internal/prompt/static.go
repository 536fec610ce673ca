package prompt

import (
	"strings"
	"sync"

	"github.com/zhongchar/zhongchar/internal/mastery"
)

// Static is a prompt with a fixed question and answer.
type Static struct {
	id       string
	question string
	answer   string

	mu            sync.RWMutex
	understanding mastery.Understanding
}

var (
	_ Prompt = (*Static)(nil)
	_ Marker = (*Static)(nil)
)

// NewStatic creates a fixed question/answer prompt.
func NewStatic(id, question, answer string, u mastery.Understanding) *Static {
	return &Static{
		id:            id,
		question:      question,
		answer:        answer,
		understanding: u.Normalize(),
	}
}

func (s *Static) ID() string { return s.id }

func (s *Static) CurrentUnderstanding() mastery.Understanding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.understanding
}

func (s *Static) QuestionPrompt() (string, error) {
	return s.question, nil
}

// ProcessAnswerInput compares answer to the expected answer after trimming
// whitespace, ignoring case. An empty answer is never correct.
func (s *Static) ProcessAnswerInput(answer string) (bool, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return false, nil
	}
	return strings.EqualFold(answer, strings.TrimSpace(s.answer)), nil
}

func (s *Static) SetUnderstanding(u mastery.Understanding, trigger string) mastery.Transition {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := mastery.Transition{
		ItemID:  s.id,
		From:    s.understanding,
		To:      u.Normalize(),
		Trigger: trigger,
	}
	s.understanding = t.To
	return t
}
