package contest

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusLocked     Status = "locked"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

var statusOrder = map[Status]int{
	StatusOpen:       0,
	StatusLocked:     1,
	StatusInProgress: 2,
	StatusCompleted:  3,
}

func (s Status) Valid() bool {
	_, ok := statusOrder[s]
	return ok
}

// Contest is one scheduled event with its own roster economics.
type Contest struct {
	ID                  string
	Name                string
	SlotCount           int
	BudgetCeiling       int64
	Multiplier          decimal.Decimal
	LockAt              *time.Time
	Status              Status
	ReplacementDeadline *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Entry is a skater's participation in a contest. Price is the snapshot used
// for every budget calculation in this contest.
type Entry struct {
	ContestID   string
	SkaterID    string
	Price       int64
	Withdrawn   bool
	WithdrawnAt *time.Time
	CreatedAt   time.Time
}
