package session

import (
	"slices"

	"github.com/zhongchar/zhongchar/internal/questiongraph"
)

// SplitThreshold is the smallest frame size that Split subdivides.
const SplitThreshold = 6

// Frame is an ordered batch of graph nodes. Size always equals
// len(Prompts); use NewFrame, Merge and Split to keep it that way.
type Frame struct {
	Size    int
	Prompts []questiongraph.NodeIndex
}

// NewFrame returns a frame holding a copy of indices.
func NewFrame(indices ...questiongraph.NodeIndex) Frame {
	return Frame{Size: len(indices), Prompts: slices.Clone(indices)}
}

// Merge appends other's prompts after f's. Duplicates are kept.
func (f Frame) Merge(other Frame) Frame {
	return Frame{
		Size:    f.Size + other.Size,
		Prompts: slices.Concat(f.Prompts, other.Prompts),
	}
}

// Split divides f in two when it holds at least SplitThreshold prompts. The
// first frame gets Size/2 prompts and the second the rest, so an odd
// remainder goes to the second. Smaller frames come back unchanged with a
// nil second frame.
//
// The results share storage with f; f should not be used afterwards. Use
// SplitCloned to keep f intact.
func (f Frame) Split() (Frame, *Frame) {
	if f.Size < SplitThreshold {
		return f, nil
	}
	half := f.Size / 2
	second := &Frame{Size: f.Size - half, Prompts: f.Prompts[half:]}
	first := Frame{Size: half, Prompts: f.Prompts[:half:half]}
	return first, second
}

// SplitCloned is Split on a copy of f.
func (f Frame) SplitCloned() (Frame, *Frame) {
	return f.Clone().Split()
}

// Clone returns a deep copy of f.
func (f Frame) Clone() Frame {
	return Frame{Size: f.Size, Prompts: slices.Clone(f.Prompts)}
}

// Chunks splits f repeatedly until no part can be split further. The chunks
// concatenated in order reproduce f.
func (f Frame) Chunks() []Frame {
	first, second := f.SplitCloned()
	if second == nil {
		return []Frame{first}
	}
	return append(first.Chunks(), second.Chunks()...)
}
