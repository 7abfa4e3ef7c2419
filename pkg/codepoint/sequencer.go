// Package codepoint assigns the numeric identifiers that become each
// emote's staged file name and its position in the font character map.
//
// A single Sequencer is created per run and passed by pointer to every
// stage that assigns identifiers. Assignment happens strictly before the
// concurrent download phase, so the Sequencer is not safe for concurrent
// use and does not need to be.
package codepoint

import (
	"github.com/arthur-debert/twitchmotes/pkg/errors"
)

// MaxCodepoint is the largest value a font character map can address
const MaxCodepoint uint32 = 0x10FFFF

// Sequencer is a monotonically increasing codepoint counter
type Sequencer struct {
	start uint32
	next  uint32
}

// New returns a Sequencer whose first assignment is start
func New(start uint32) *Sequencer {
	return &Sequencer{start: start, next: start}
}

// Next returns the current value and advances the counter by one.
// It fails with ErrCodepointRange once the counter has passed MaxCodepoint;
// MaxCodepoint+1 still fits in a uint32, so the counter itself never wraps.
func (s *Sequencer) Next() (uint32, error) {
	if s.next > MaxCodepoint {
		return 0, errors.Newf(errors.ErrCodepointRange,
			"codepoint %#x exceeds the maximum %#x", s.next, MaxCodepoint).
			WithDetail("start", s.start).
			WithDetail("assigned", s.Assigned())
	}
	cp := s.next
	s.next++
	return cp, nil
}

// Peek returns the value the next call to Next would assign
func (s *Sequencer) Peek() uint32 {
	return s.next
}

// Assigned returns how many codepoints have been handed out
func (s *Sequencer) Assigned() int {
	return int(s.next - s.start)
}
