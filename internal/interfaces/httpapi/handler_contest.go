package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/skate-fantasy/internal/domain/contest"
	"github.com/riskibarqy/skate-fantasy/internal/usecase"
)

func (h *Handler) ListContestEntries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListContestEntries")
	defer span.End()

	contestID := strings.TrimSpace(r.PathValue("contestID"))
	entries, err := h.contestService.ListEntries(ctx, contestID)
	if err != nil {
		h.logger.WarnContext(ctx, "list entries failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]entryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryToDTO(e))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListContestResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListContestResults")
	defer span.End()

	contestID := strings.TrimSpace(r.PathValue("contestID"))
	results, err := h.resultsService.ListContestResults(ctx, contestID)
	if err != nil {
		h.logger.WarnContext(ctx, "list contest results failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]resultDTO, 0, len(results))
	for _, res := range results {
		out = append(out, resultToDTO(res))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	limit, err := parseLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.standingService.ListStandings(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "list standings failed", "limit", limit, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]standingDTO, 0, len(items))
	for _, item := range items {
		out = append(out, standingToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetMyStanding(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyStanding")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	total, err := h.standingService.GetPlayerTotal(ctx, principal.PlayerID())
	if err != nil {
		h.logger.ErrorContext(ctx, "get season total failed", "player_id", principal.PlayerID(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingToDTO(total))
}

func (h *Handler) SetContestStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetContestStatus")
	defer span.End()

	var req setContestStatusRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	contestID := strings.TrimSpace(r.PathValue("contestID"))
	updated, err := h.contestService.SetContestStatus(ctx, contestID, contest.Status(req.Status))
	if err != nil {
		h.logger.WarnContext(ctx, "set contest status failed", "contest_id", contestID, "status", req.Status, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, contestToDTO(updated))
}

func (h *Handler) EnterSkater(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EnterSkater")
	defer span.End()

	var req enterSkaterRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	contestID := strings.TrimSpace(r.PathValue("contestID"))
	entry, err := h.contestService.EnterSkater(ctx, contestID, req.SkaterID)
	if err != nil {
		h.logger.WarnContext(ctx, "enter skater failed", "contest_id", contestID, "skater_id", req.SkaterID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, entryToDTO(entry))
}

func (h *Handler) WithdrawSkater(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.WithdrawSkater")
	defer span.End()

	var req withdrawSkaterRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	contestID := strings.TrimSpace(r.PathValue("contestID"))
	result, err := h.withdrawalService.WithdrawCompetitor(ctx, usecase.WithdrawInput{
		ContestID:           contestID,
		SkaterID:            req.SkaterID,
		ReplacementDeadline: req.ReplacementDeadline,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "withdraw skater failed", "contest_id", contestID, "skater_id", req.SkaterID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, withdrawResultDTO{
		ContestID:           result.ContestID,
		SkaterID:            result.SkaterID,
		AffectedCount:       result.AffectedCount,
		EntitlementsCreated: result.EntitlementsCreated,
		AlreadyWithdrawn:    result.AlreadyWithdrawn,
	})
}

func (h *Handler) RepriceSkaters(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RepriceSkaters")
	defer span.End()

	report, err := h.pricingService.RepriceSkaters(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "reprice skaters failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, repriceDTO{Total: report.Total, Changed: report.Changed})
}

func (h *Handler) PropagateEntryPrices(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PropagateEntryPrices")
	defer span.End()

	var req propagatePricesRequest
	if r.ContentLength != 0 {
		if err := h.decodeRequest(ctx, w, r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	contestID := strings.TrimSpace(r.PathValue("contestID"))
	report, err := h.pricingService.PropagateEntryPrices(ctx, usecase.PropagateInput{ContestID: contestID, Force: req.Force})
	if err != nil {
		h.logger.WarnContext(ctx, "propagate entry prices failed", "contest_id", contestID, "force", req.Force, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, propagateDTO{
		ContestID:        report.ContestID,
		Updated:          report.Updated,
		Unchanged:        report.Unchanged,
		SkippedWithPicks: report.SkippedWithPicks,
	})
}
