package session

import "github.com/zhongchar/zhongchar/internal/mastery"

// PassSummary tallies the understanding read for each prompt in one pass
// over a frame.
type PassSummary struct {
	Visited       int
	DontKnow      int
	Know          int
	InstantRecall int
}

func (p *PassSummary) add(level mastery.Level) {
	p.Visited++
	switch level {
	case mastery.DontKnow:
		p.DontKnow++
	case mastery.Know:
		p.Know++
	case mastery.InstantRecall:
		p.InstantRecall++
	}
}
