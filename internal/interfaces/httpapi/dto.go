package httpapi

import (
	"time"

	"github.com/riskibarqy/skate-fantasy/internal/domain/contest"
	"github.com/riskibarqy/skate-fantasy/internal/domain/roster"
	"github.com/riskibarqy/skate-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/skate-fantasy/internal/domain/standing"
	"github.com/riskibarqy/skate-fantasy/internal/usecase"
)

type addPickRequest struct {
	SkaterID string `json:"skater_id" validate:"required"`
}

type replaceRosterRequest struct {
	SkaterIDs []string `json:"skater_ids" validate:"required,min=1,dive,required"`
}

type consumeReplacementRequest struct {
	WithdrawnSkaterID   string `json:"withdrawn_skater_id" validate:"required"`
	ReplacementSkaterID string `json:"replacement_skater_id" validate:"required"`
}

type withdrawSkaterRequest struct {
	SkaterID            string     `json:"skater_id" validate:"required"`
	ReplacementDeadline *time.Time `json:"replacement_deadline,omitempty"`
}

type setContestStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open locked in_progress completed"`
}

type enterSkaterRequest struct {
	SkaterID string `json:"skater_id" validate:"required"`
}

type propagatePricesRequest struct {
	Force bool `json:"force"`
}

// Rows are validated one by one by the import so a bad row does not sink
// the whole batch.
type importResultsRequest struct {
	Rows []resultRowRequest `json:"rows"`
}

type resultRowRequest struct {
	SkaterID       string `json:"skater_id"`
	Placement      int    `json:"placement"`
	ShortPlacement int    `json:"short_placement"`
	Faults         int    `json:"faults"`
	PersonalBest   bool   `json:"personal_best"`
	Withdrawn      bool   `json:"withdrawn"`
}

func (r resultRowRequest) toUsecase() usecase.ResultRow {
	return usecase.ResultRow{
		SkaterID:       r.SkaterID,
		Placement:      r.Placement,
		ShortPlacement: r.ShortPlacement,
		Faults:         r.Faults,
		PersonalBest:   r.PersonalBest,
		Withdrawn:      r.Withdrawn,
	}
}

type lockDTO struct {
	Locked bool   `json:"locked"`
	Reason string `json:"reason,omitempty"`
}

type pickDTO struct {
	ContestID    string `json:"contest_id"`
	SkaterID     string `json:"skater_id"`
	Price        int64  `json:"price,omitempty"`
	PointsEarned *int64 `json:"points_earned"`
	CreatedAtUTC string `json:"created_at_utc"`
}

type rosterDTO struct {
	ContestID string    `json:"contest_id"`
	PlayerID  string    `json:"player_id"`
	Picks     []pickDTO `json:"picks"`
	Spent     int64     `json:"spent"`
	Remaining int64     `json:"remaining"`
	SlotsUsed int       `json:"slots_used"`
	SlotCount int       `json:"slot_count"`
	Lock      lockDTO   `json:"lock"`
}

type entitlementDTO struct {
	ContestID           string  `json:"contest_id"`
	WithdrawnSkaterID   string  `json:"withdrawn_skater_id"`
	ReplacementSkaterID string  `json:"replacement_skater_id,omitempty"`
	Pending             bool    `json:"pending"`
	ReplacedAtUTC       *string `json:"replaced_at_utc,omitempty"`
	CreatedAtUTC        string  `json:"created_at_utc"`
}

type entryDTO struct {
	ContestID      string  `json:"contest_id"`
	SkaterID       string  `json:"skater_id"`
	Price          int64   `json:"price"`
	Withdrawn      bool    `json:"withdrawn"`
	WithdrawnAtUTC *string `json:"withdrawn_at_utc,omitempty"`
}

type contestDTO struct {
	ID                     string  `json:"id"`
	Name                   string  `json:"name"`
	SlotCount              int     `json:"slot_count"`
	BudgetCeiling          int64   `json:"budget_ceiling"`
	Multiplier             string  `json:"multiplier"`
	Status                 string  `json:"status"`
	LockAtUTC              *string `json:"lock_at_utc,omitempty"`
	ReplacementDeadlineUTC *string `json:"replacement_deadline_utc,omitempty"`
	UpdatedAtUTC           string  `json:"updated_at_utc"`
}

type resultDTO struct {
	SkaterID       string `json:"skater_id"`
	Placement      int    `json:"placement"`
	ShortPlacement int    `json:"short_placement"`
	Faults         int    `json:"faults"`
	PersonalBest   bool   `json:"personal_best"`
	Withdrawn      bool   `json:"withdrawn"`
	RawPoints      int64  `json:"raw_points"`
	FinalPoints    int64  `json:"final_points"`
	UpdatedAtUTC   string `json:"updated_at_utc"`
}

type standingDTO struct {
	PlayerID     string `json:"player_id"`
	Points       int64  `json:"points"`
	Rank         int    `json:"rank,omitempty"`
	UpdatedAtUTC string `json:"updated_at_utc,omitempty"`
}

type importLogDTO struct {
	Row      int    `json:"row"`
	SkaterID string `json:"skater_id,omitempty"`
	Outcome  string `json:"outcome"`
	Message  string `json:"message,omitempty"`
}

type cascadeDTO struct {
	ContestID        string `json:"contest_id"`
	ResultsScored    int    `json:"results_scored"`
	ResultsChanged   int    `json:"results_changed"`
	PicksUpdated     int    `json:"picks_updated"`
	PlayersRefreshed int    `json:"players_refreshed"`
}

type importReportDTO struct {
	ContestID string         `json:"contest_id"`
	Imported  int            `json:"imported"`
	Updated   int            `json:"updated"`
	Skipped   int            `json:"skipped"`
	Errors    int            `json:"errors"`
	Log       []importLogDTO `json:"log"`
	Cascade   cascadeDTO     `json:"cascade"`
}

type withdrawResultDTO struct {
	ContestID           string `json:"contest_id"`
	SkaterID            string `json:"skater_id"`
	AffectedCount       int    `json:"affected_count"`
	EntitlementsCreated int    `json:"entitlements_created"`
	AlreadyWithdrawn    bool   `json:"already_withdrawn"`
}

type repriceDTO struct {
	Total   int `json:"total"`
	Changed int `json:"changed"`
}

type propagateDTO struct {
	ContestID        string `json:"contest_id"`
	Updated          int    `json:"updated"`
	Unchanged        int    `json:"unchanged"`
	SkippedWithPicks int    `json:"skipped_with_picks"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := formatTime(*t)
	return &v
}

func pickToDTO(p roster.Pick, price int64) pickDTO {
	return pickDTO{
		ContestID:    p.ContestID,
		SkaterID:     p.SkaterID,
		Price:        price,
		PointsEarned: p.PointsEarned,
		CreatedAtUTC: formatTime(p.CreatedAt),
	}
}

func rosterToDTO(s roster.Summary) rosterDTO {
	picks := make([]pickDTO, 0, len(s.Picks))
	for _, p := range s.Picks {
		picks = append(picks, pickToDTO(p.Pick, p.Price))
	}
	return rosterDTO{
		ContestID: s.ContestID,
		PlayerID:  s.PlayerID,
		Picks:     picks,
		Spent:     s.Spent,
		Remaining: s.Remaining,
		SlotsUsed: s.SlotsUsed,
		SlotCount: s.SlotCount,
		Lock:      lockDTO{Locked: s.Lock.Locked, Reason: string(s.Lock.Reason)},
	}
}

func entitlementsToDTO(items []roster.Entitlement) []entitlementDTO {
	out := make([]entitlementDTO, 0, len(items))
	for _, e := range items {
		out = append(out, entitlementDTO{
			ContestID:           e.ContestID,
			WithdrawnSkaterID:   e.WithdrawnSkaterID,
			ReplacementSkaterID: e.ReplacementSkaterID,
			Pending:             e.Pending(),
			ReplacedAtUTC:       formatTimePtr(e.ReplacedAt),
			CreatedAtUTC:        formatTime(e.CreatedAt),
		})
	}
	return out
}

func entryToDTO(e contest.Entry) entryDTO {
	return entryDTO{
		ContestID:      e.ContestID,
		SkaterID:       e.SkaterID,
		Price:          e.Price,
		Withdrawn:      e.Withdrawn,
		WithdrawnAtUTC: formatTimePtr(e.WithdrawnAt),
	}
}

func contestToDTO(c contest.Contest) contestDTO {
	return contestDTO{
		ID:                     c.ID,
		Name:                   c.Name,
		SlotCount:              c.SlotCount,
		BudgetCeiling:          c.BudgetCeiling,
		Multiplier:             c.Multiplier.String(),
		Status:                 string(c.Status),
		LockAtUTC:              formatTimePtr(c.LockAt),
		ReplacementDeadlineUTC: formatTimePtr(c.ReplacementDeadline),
		UpdatedAtUTC:           formatTime(c.UpdatedAt),
	}
}

func resultToDTO(r scoring.Result) resultDTO {
	return resultDTO{
		SkaterID:       r.SkaterID,
		Placement:      r.Input.Placement,
		ShortPlacement: r.Input.ShortPlacement,
		Faults:         r.Input.Faults,
		PersonalBest:   r.Input.PersonalBest,
		Withdrawn:      r.Input.Withdrawn,
		RawPoints:      r.RawPoints,
		FinalPoints:    r.FinalPoints,
		UpdatedAtUTC:   formatTime(r.UpdatedAt),
	}
}

func standingToDTO(s standing.SeasonTotal) standingDTO {
	return standingDTO{
		PlayerID:     s.PlayerID,
		Points:       s.Points,
		Rank:         s.Rank,
		UpdatedAtUTC: formatTime(s.UpdatedAt),
	}
}

func cascadeToDTO(c usecase.CascadeReport) cascadeDTO {
	return cascadeDTO{
		ContestID:        c.ContestID,
		ResultsScored:    c.ResultsScored,
		ResultsChanged:   c.ResultsChanged,
		PicksUpdated:     c.PicksUpdated,
		PlayersRefreshed: c.PlayersRefreshed,
	}
}

func importReportToDTO(r usecase.ImportReport) importReportDTO {
	log := make([]importLogDTO, 0, len(r.Log))
	for _, entry := range r.Log {
		log = append(log, importLogDTO{
			Row:      entry.Row,
			SkaterID: entry.SkaterID,
			Outcome:  string(entry.Outcome),
			Message:  entry.Message,
		})
	}
	return importReportDTO{
		ContestID: r.ContestID,
		Imported:  r.Imported,
		Updated:   r.Updated,
		Skipped:   r.Skipped,
		Errors:    r.Errors,
		Log:       log,
		Cascade:   cascadeToDTO(r.Cascade),
	}
}
