package prompt

import (
	"fmt"
	"sync"

	"github.com/zhongchar/zhongchar/internal/mastery"
)

// RadicalForm is the production prompt: one written form of a Kangxi radical.
type RadicalForm struct {
	id            string
	form          rune
	radicalNumber int

	mu            sync.RWMutex
	understanding mastery.Understanding
}

var (
	_ Prompt = (*RadicalForm)(nil)
	_ Marker = (*RadicalForm)(nil)
)

// NewRadicalForm creates a radical form prompt. An empty id defaults to the
// form itself.
func NewRadicalForm(id string, form rune, radicalNumber int, u mastery.Understanding) *RadicalForm {
	if id == "" {
		id = string(form)
	}
	return &RadicalForm{
		id:            id,
		form:          form,
		radicalNumber: radicalNumber,
		understanding: u.Normalize(),
	}
}

func (r *RadicalForm) ID() string { return r.id }

// Form returns the radical character.
func (r *RadicalForm) Form() rune { return r.form }

// RadicalNumber returns the Kangxi radical number.
func (r *RadicalForm) RadicalNumber() int { return r.radicalNumber }

func (r *RadicalForm) CurrentUnderstanding() mastery.Understanding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.understanding
}

func (r *RadicalForm) QuestionPrompt() (string, error) {
	return "", fmt.Errorf("question prompt for %c: %w", r.form, ErrUnimplemented)
}

func (r *RadicalForm) ProcessAnswerInput(string) (bool, error) {
	return false, fmt.Errorf("process answer for %c: %w", r.form, ErrUnimplemented)
}

// SetUnderstanding replaces the stored understanding and returns the change.
func (r *RadicalForm) SetUnderstanding(u mastery.Understanding, trigger string) mastery.Transition {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := mastery.Transition{
		ItemID:  r.id,
		From:    r.understanding,
		To:      u.Normalize(),
		Trigger: trigger,
	}
	r.understanding = t.To
	return t
}

func (r *RadicalForm) String() string {
	return fmt.Sprintf("%c (#%d)", r.form, r.radicalNumber)
}
