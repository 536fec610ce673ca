// Package session drives passes over a learning frame.
package session

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/zhongchar/zhongchar/internal/mastery"
	"github.com/zhongchar/zhongchar/internal/questiongraph"
)

// Search results reported to a Recorder.
const (
	SearchDontKnow = "dontknow"
	SearchKnow     = "know"
	SearchNone     = "none"
)

// Recorder receives session measurements. internal/metrics implements it.
type Recorder interface {
	ObservePass(dontKnow, know, instantRecall int)
	ObserveSearch(result string)
	SetFrameChunks(n int)
}

// Session owns the overall frame and the question graph it points into.
type Session struct {
	id       string
	frame    Frame
	graph    *questiongraph.Graph
	logger   *slog.Logger
	recorder Recorder
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder sets a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// New creates a session over frame f of graph g.
func New(g *questiongraph.Graph, f Frame, opts ...Option) *Session {
	s := &Session{
		id:     uuid.New().String(),
		frame:  f,
		graph:  g,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("component", "session"), slog.String("session_id", s.id))
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Frame returns the overall frame.
func (s *Session) Frame() Frame { return s.frame }

// Graph returns the question graph.
func (s *Session) Graph() *questiongraph.Graph { return s.graph }

// StartSession runs exactly one pass over the frame.
func (s *Session) StartSession() (PassSummary, error) {
	chunks := s.frame.Chunks()
	if s.recorder != nil {
		s.recorder.SetFrameChunks(len(chunks))
	}
	s.logger.Debug("session started",
		slog.Int("frame_size", s.frame.Size),
		slog.Int("chunks", len(chunks)),
	)
	return s.SingleRunThroughFrame()
}

// SingleRunThroughFrame visits every prompt in the frame in order and reads
// its current understanding. Nothing is asked and no understanding changes;
// the readings are only tallied. A frame index missing from the graph
// aborts the pass with an error wrapping questiongraph.ErrNodeNotFound.
func (s *Session) SingleRunThroughFrame() (PassSummary, error) {
	var sum PassSummary
	for _, idx := range s.frame.Prompts {
		node, err := s.graph.Node(idx)
		if err != nil {
			return sum, fmt.Errorf("run through frame: %w", err)
		}
		sum.add(node.Prompt.CurrentUnderstanding().Level)
	}

	if s.recorder != nil {
		s.recorder.ObservePass(sum.DontKnow, sum.Know, sum.InstantRecall)
	}
	s.logger.Debug("frame pass complete",
		slog.Int("visited", sum.Visited),
		slog.Int("dont_know", sum.DontKnow),
		slog.Int("know", sum.Know),
		slog.Int("instant_recall", sum.InstantRecall),
	)
	return sum, nil
}

// Next picks the prompt to surface from the frame. It runs the shallow-node
// search from each frame index in order and returns the first DontKnow hit,
// else the first Know hit. It reports false when every reachable prompt is
// InstantRecall. Next does not change any state.
func (s *Session) Next() (questiongraph.NodeIndex, bool) {
	var (
		know     questiongraph.NodeIndex
		haveKnow bool
	)
	for _, idx := range s.frame.Prompts {
		hit, ok := s.graph.FindShallowNode(idx)
		if !ok {
			continue
		}
		node, err := s.graph.Node(hit)
		if err != nil {
			continue
		}
		if node.Prompt.CurrentUnderstanding().Level == mastery.DontKnow {
			s.observeSearch(SearchDontKnow)
			return hit, true
		}
		if !haveKnow {
			know, haveKnow = hit, true
		}
	}

	if haveKnow {
		s.observeSearch(SearchKnow)
	} else {
		s.observeSearch(SearchNone)
	}
	return know, haveKnow
}

func (s *Session) observeSearch(result string) {
	if s.recorder != nil {
		s.recorder.ObserveSearch(result)
	}
}
