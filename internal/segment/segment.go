package segment

// Segment is one word or punctuation token of the source text, in original
// order. Timing fields are populated by Allocate once the audio duration is
// known; Timed reports whether Start and End carry meaning.
type Segment struct {
	Text        string
	IsWord      bool
	Translation string // only set for word segments

	Start float64 // seconds from the beginning of the audio
	End   float64
	Timed bool
}

// sentence terminators get the longest pause weight, clause separators a
// medium one, everything else (quotes, dashes, brackets) a small one
const (
	wordOverhead    = 2
	sentenceWeight  = 12
	clauseWeight    = 6
	defaultPunctSep = 2
)

// Weight approximates the spoken duration of a segment as an integer. Word
// segments scale with their character length plus a fixed articulation
// overhead; punctuation maps to pause classes.
func Weight(s Segment) int {
	if s.IsWord {
		return len([]rune(s.Text)) + wordOverhead
	}
	switch s.Text {
	case ".", "!", "?":
		return sentenceWeight
	case ",", ";", ":":
		return clauseWeight
	default:
		return defaultPunctSep
	}
}

// Allocate distributes duration (seconds) across segs proportionally to their
// weights and returns a new slice with Start/End populated. Start times
// accumulate left to right so the final End lands exactly on duration instead
// of drifting through per-segment rounding.
//
// An empty list is returned unchanged. A duration <= 0 produces all-zero
// windows; callers must treat that as "timing unavailable", not valid data.
// Allocate is pure: it never mutates its input and is deterministic.
func Allocate(duration float64, segs []Segment) []Segment {
	if len(segs) == 0 {
		return segs
	}

	total := 0
	for _, s := range segs {
		total += Weight(s)
	}

	out := make([]Segment, len(segs))
	copy(out, segs)

	if duration <= 0 || total == 0 {
		for i := range out {
			out[i].Start, out[i].End, out[i].Timed = 0, 0, true
		}
		return out
	}

	cursor := 0.0
	for i := range out {
		share := float64(Weight(out[i])) / float64(total) * duration
		out[i].Start = cursor
		cursor += share
		out[i].End = cursor
		out[i].Timed = true
	}
	// pin the final boundary; accumulation already puts it within float
	// tolerance of duration
	out[len(out)-1].End = duration

	return out
}

// ActiveIndex returns the index of the segment whose timing window contains
// pos, or -1 if no timed segment matches. The final segment's window is
// treated as open-ended so trailing rounding in the audio clock cannot drop
// the highlight.
func ActiveIndex(segs []Segment, pos float64) int {
	for i, s := range segs {
		if !s.Timed {
			continue
		}
		if i == len(segs)-1 {
			if pos >= s.Start {
				return i
			}
			continue
		}
		if pos >= s.Start && pos < s.End {
			return i
		}
	}
	return -1
}

// Words returns the indices of word segments, in order.
func Words(segs []Segment) []int {
	var idx []int
	for i, s := range segs {
		if s.IsWord {
			idx = append(idx, i)
		}
	}
	return idx
}
