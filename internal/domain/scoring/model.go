package scoring

import "time"

// Input is the scorable part of a result record.
type Input struct {
	Placement      int
	ShortPlacement int
	Faults         int
	PersonalBest   bool
	Withdrawn      bool
}

// Points is the output of Score. Final is Raw scaled by the contest multiplier.
type Points struct {
	Raw   int64
	Final int64
}

// Result is the stored outcome of one skater in one contest. RawPoints and
// FinalPoints are derived from Input and may be recomputed at any time.
type Result struct {
	ContestID   string
	SkaterID    string
	Input       Input
	RawPoints   int64
	FinalPoints int64
	UpdatedAt   time.Time
}

// SameInput reports whether two results carry identical scoring inputs.
func (r Result) SameInput(other Result) bool {
	return r.ContestID == other.ContestID &&
		r.SkaterID == other.SkaterID &&
		r.Input == other.Input
}
