package annotator

import "time"

// Phase is the position of a stream in the timestamp state machine.
// Transitions only move forward and only on records with a valid timestamp.
type Phase int

const (
	NoTimestampSeenYet Phase = iota
	OneTimestampSeen
	TwoOrMoreTimestampsSeen
)

func (p Phase) String() string {
	switch p {
	case NoTimestampSeenYet:
		return "no-timestamp-seen-yet"
	case OneTimestampSeen:
		return "one-timestamp-seen"
	case TwoOrMoreTimestampsSeen:
		return "two-or-more-timestamps-seen"
	default:
		return "unknown"
	}
}

// Delta is the elapsed time of a record relative to the previous
// timestamped record and to the first one, in whole milliseconds.
// Values are signed; out-of-order input yields negative deltas.
type Delta struct {
	SincePrevious int64
	SinceStart    int64
}

// State is the running stream state for one invocation.
type State struct {
	// Start is the timestamp of the first timestamped record. Set once.
	Start *time.Time

	// Previous is the timestamp of the most recent timestamped record.
	Previous *time.Time

	seen int
}

// Phase reports where the stream is in the state machine.
func (s State) Phase() Phase {
	switch {
	case s.seen == 0:
		return NoTimestampSeenYet
	case s.seen == 1:
		return OneTimestampSeen
	default:
		return TwoOrMoreTimestampsSeen
	}
}

// Observe records a timestamp and returns its delta pair. ok is false for
// the first timestamp of the stream, which has nothing to be measured
// against.
func (s *State) Observe(ts time.Time) (d Delta, ok bool) {
	if s.Start == nil {
		start := ts
		s.Start = &start
	}

	if s.Previous != nil {
		d = Delta{
			SincePrevious: ts.Sub(*s.Previous).Milliseconds(),
			SinceStart:    ts.Sub(*s.Start).Milliseconds(),
		}
		ok = true
	}

	current := ts
	s.Previous = &current
	s.seen++
	return d, ok
}
