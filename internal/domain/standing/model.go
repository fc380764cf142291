package standing

import "time"

// SeasonTotal is always the sum of points earned over every pick of the
// player. It is recomputed from picks, never patched.
type SeasonTotal struct {
	PlayerID  string
	Points    int64
	Rank      int
	UpdatedAt time.Time
}
