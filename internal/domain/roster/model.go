package roster

import (
	"time"

	"github.com/riskibarqy/skate-fantasy/internal/domain/contest"
)

// Pick is one skater on a player's roster for a contest. PointsEarned stays
// nil until the contest has been scored.
type Pick struct {
	PlayerID     string
	ContestID    string
	SkaterID     string
	PointsEarned *int64
	CreatedAt    time.Time
}

// Entitlement is the one-time right to replace a withdrawn skater. It is
// pending until ReplacementSkaterID is set.
type Entitlement struct {
	PlayerID            string
	ContestID           string
	WithdrawnSkaterID   string
	ReplacementSkaterID string
	ReplacedAt          *time.Time
	CreatedAt           time.Time
}

func (e Entitlement) Pending() bool {
	return e.ReplacementSkaterID == ""
}

// Summary is the player's view of their roster in one contest.
type Summary struct {
	ContestID string
	PlayerID  string
	Picks     []PricedPick
	Spent     int64
	Remaining int64
	SlotsUsed int
	SlotCount int
	Lock      contest.LockState
}

type PricedPick struct {
	Pick
	Price int64
}
