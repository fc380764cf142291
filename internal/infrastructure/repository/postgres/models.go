package postgres

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/skate-fantasy/internal/domain/contest"
	"github.com/riskibarqy/skate-fantasy/internal/domain/notification"
	"github.com/riskibarqy/skate-fantasy/internal/domain/roster"
	"github.com/riskibarqy/skate-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/skate-fantasy/internal/domain/skater"
	"github.com/riskibarqy/skate-fantasy/internal/domain/standing"
)

var (
	contestColumns     = []string{"id", "name", "slot_count", "budget_ceiling", "multiplier", "lock_at", "status", "replacement_deadline", "created_at", "updated_at"}
	entryColumns       = []string{"contest_id", "skater_id", "price", "withdrawn", "withdrawn_at", "created_at"}
	pickColumns        = []string{"player_id", "contest_id", "skater_id", "points_earned", "created_at"}
	entitlementColumns = []string{"player_id", "contest_id", "withdrawn_skater_id", "replacement_skater_id", "replaced_at", "created_at"}
	resultColumns      = []string{"contest_id", "skater_id", "placement", "short_placement", "faults", "personal_best", "withdrawn", "raw_points", "final_points", "updated_at"}
	skaterColumns      = []string{"id", "name", "country", "ranking", "price", "updated_at"}
)

type contestTableModel struct {
	ID                  string          `db:"id"`
	Name                string          `db:"name"`
	SlotCount           int             `db:"slot_count"`
	BudgetCeiling       int64           `db:"budget_ceiling"`
	Multiplier          decimal.Decimal `db:"multiplier"`
	LockAt              sql.NullTime    `db:"lock_at"`
	Status              string          `db:"status"`
	ReplacementDeadline sql.NullTime    `db:"replacement_deadline"`
	CreatedAt           time.Time       `db:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at"`
}

func (row contestTableModel) toDomain() contest.Contest {
	return contest.Contest{
		ID:                  row.ID,
		Name:                row.Name,
		SlotCount:           row.SlotCount,
		BudgetCeiling:       row.BudgetCeiling,
		Multiplier:          row.Multiplier,
		LockAt:              nullTimeToTimePtr(row.LockAt),
		Status:              contest.Status(row.Status),
		ReplacementDeadline: nullTimeToTimePtr(row.ReplacementDeadline),
		CreatedAt:           row.CreatedAt.UTC(),
		UpdatedAt:           row.UpdatedAt.UTC(),
	}
}

type contestInsertModel struct {
	ID            string          `db:"id"`
	Name          string          `db:"name"`
	SlotCount     int             `db:"slot_count"`
	BudgetCeiling int64           `db:"budget_ceiling"`
	Multiplier    decimal.Decimal `db:"multiplier"`
	LockAt        *time.Time      `db:"lock_at"`
	Status        string          `db:"status"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

type entryTableModel struct {
	ContestID   string       `db:"contest_id"`
	SkaterID    string       `db:"skater_id"`
	Price       int64        `db:"price"`
	Withdrawn   bool         `db:"withdrawn"`
	WithdrawnAt sql.NullTime `db:"withdrawn_at"`
	CreatedAt   time.Time    `db:"created_at"`
}

func (row entryTableModel) toDomain() contest.Entry {
	return contest.Entry{
		ContestID:   row.ContestID,
		SkaterID:    row.SkaterID,
		Price:       row.Price,
		Withdrawn:   row.Withdrawn,
		WithdrawnAt: nullTimeToTimePtr(row.WithdrawnAt),
		CreatedAt:   row.CreatedAt.UTC(),
	}
}

type entryInsertModel struct {
	ContestID string    `db:"contest_id"`
	SkaterID  string    `db:"skater_id"`
	Price     int64     `db:"price"`
	CreatedAt time.Time `db:"created_at"`
}

type pickTableModel struct {
	PlayerID     string        `db:"player_id"`
	ContestID    string        `db:"contest_id"`
	SkaterID     string        `db:"skater_id"`
	PointsEarned sql.NullInt64 `db:"points_earned"`
	CreatedAt    time.Time     `db:"created_at"`
}

func (row pickTableModel) toDomain() roster.Pick {
	return roster.Pick{
		PlayerID:     row.PlayerID,
		ContestID:    row.ContestID,
		SkaterID:     row.SkaterID,
		PointsEarned: nullInt64ToPtr(row.PointsEarned),
		CreatedAt:    row.CreatedAt.UTC(),
	}
}

type pickInsertModel struct {
	PlayerID     string    `db:"player_id"`
	ContestID    string    `db:"contest_id"`
	SkaterID     string    `db:"skater_id"`
	PointsEarned *int64    `db:"points_earned"`
	CreatedAt    time.Time `db:"created_at"`
}

type entitlementTableModel struct {
	PlayerID            string         `db:"player_id"`
	ContestID           string         `db:"contest_id"`
	WithdrawnSkaterID   string         `db:"withdrawn_skater_id"`
	ReplacementSkaterID sql.NullString `db:"replacement_skater_id"`
	ReplacedAt          sql.NullTime   `db:"replaced_at"`
	CreatedAt           time.Time      `db:"created_at"`
}

func (row entitlementTableModel) toDomain() roster.Entitlement {
	return roster.Entitlement{
		PlayerID:            row.PlayerID,
		ContestID:           row.ContestID,
		WithdrawnSkaterID:   row.WithdrawnSkaterID,
		ReplacementSkaterID: row.ReplacementSkaterID.String,
		ReplacedAt:          nullTimeToTimePtr(row.ReplacedAt),
		CreatedAt:           row.CreatedAt.UTC(),
	}
}

type entitlementInsertModel struct {
	PlayerID          string    `db:"player_id"`
	ContestID         string    `db:"contest_id"`
	WithdrawnSkaterID string    `db:"withdrawn_skater_id"`
	CreatedAt         time.Time `db:"created_at"`
}

type notificationInsertModel struct {
	ID        string    `db:"id"`
	PlayerID  string    `db:"player_id"`
	ContestID string    `db:"contest_id"`
	SkaterID  string    `db:"skater_id"`
	Kind      string    `db:"kind"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}

func notificationInsertFromDomain(n notification.Notification) notificationInsertModel {
	return notificationInsertModel{
		ID:        n.ID,
		PlayerID:  n.PlayerID,
		ContestID: n.ContestID,
		SkaterID:  n.SkaterID,
		Kind:      string(n.Kind),
		Message:   n.Message,
		CreatedAt: n.CreatedAt.UTC(),
	}
}

type resultTableModel struct {
	ContestID      string    `db:"contest_id"`
	SkaterID       string    `db:"skater_id"`
	Placement      int       `db:"placement"`
	ShortPlacement int       `db:"short_placement"`
	Faults         int       `db:"faults"`
	PersonalBest   bool      `db:"personal_best"`
	Withdrawn      bool      `db:"withdrawn"`
	RawPoints      int64     `db:"raw_points"`
	FinalPoints    int64     `db:"final_points"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (row resultTableModel) toDomain() scoring.Result {
	return scoring.Result{
		ContestID: row.ContestID,
		SkaterID:  row.SkaterID,
		Input: scoring.Input{
			Placement:      row.Placement,
			ShortPlacement: row.ShortPlacement,
			Faults:         row.Faults,
			PersonalBest:   row.PersonalBest,
			Withdrawn:      row.Withdrawn,
		},
		RawPoints:   row.RawPoints,
		FinalPoints: row.FinalPoints,
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}

func resultModelFromDomain(r scoring.Result) resultTableModel {
	return resultTableModel{
		ContestID:      r.ContestID,
		SkaterID:       r.SkaterID,
		Placement:      r.Input.Placement,
		ShortPlacement: r.Input.ShortPlacement,
		Faults:         r.Input.Faults,
		PersonalBest:   r.Input.PersonalBest,
		Withdrawn:      r.Input.Withdrawn,
		RawPoints:      r.RawPoints,
		FinalPoints:    r.FinalPoints,
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
}

type seasonTotalTableModel struct {
	PlayerID  string    `db:"player_id"`
	Points    int64     `db:"points"`
	Rank      int       `db:"rank"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row seasonTotalTableModel) toDomain() standing.SeasonTotal {
	return standing.SeasonTotal{
		PlayerID:  row.PlayerID,
		Points:    row.Points,
		Rank:      row.Rank,
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}

type skaterTableModel struct {
	ID        string        `db:"id"`
	Name      string        `db:"name"`
	Country   string        `db:"country"`
	Ranking   sql.NullInt64 `db:"ranking"`
	Price     int64         `db:"price"`
	UpdatedAt time.Time     `db:"updated_at"`
}

func (row skaterTableModel) toDomain() skater.Skater {
	return skater.Skater{
		ID:        row.ID,
		Name:      row.Name,
		Country:   row.Country,
		Ranking:   nullInt64ToIntPtr(row.Ranking),
		Price:     row.Price,
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}

type skaterInsertModel struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Country   string    `db:"country"`
	Ranking   *int      `db:"ranking"`
	Price     int64     `db:"price"`
	UpdatedAt time.Time `db:"updated_at"`
}
