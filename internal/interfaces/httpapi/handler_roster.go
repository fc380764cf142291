package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/skate-fantasy/internal/usecase"
)

func (h *Handler) GetMyRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyRoster")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	contestID := strings.TrimSpace(r.PathValue("contestID"))
	summary, err := h.rosterService.GetRoster(ctx, principal.PlayerID(), contestID)
	if err != nil {
		h.logger.WarnContext(ctx, "get roster failed", "player_id", principal.PlayerID(), "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(summary))
}

func (h *Handler) AddPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddPick")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req addPickRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	contestID := strings.TrimSpace(r.PathValue("contestID"))
	pick, err := h.rosterService.AddPick(ctx, usecase.PickInput{
		PlayerID:  principal.PlayerID(),
		ContestID: contestID,
		SkaterID:  req.SkaterID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add pick failed",
			"player_id", principal.PlayerID(),
			"contest_id", contestID,
			"skater_id", req.SkaterID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, pickToDTO(pick, 0))
}

func (h *Handler) RemovePick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemovePick")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	contestID := strings.TrimSpace(r.PathValue("contestID"))
	skaterID := strings.TrimSpace(r.PathValue("skaterID"))
	err = h.rosterService.RemovePick(ctx, usecase.PickInput{
		PlayerID:  principal.PlayerID(),
		ContestID: contestID,
		SkaterID:  skaterID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "remove pick failed",
			"player_id", principal.PlayerID(),
			"contest_id", contestID,
			"skater_id", skaterID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ReplaceRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReplaceRoster")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req replaceRosterRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	contestID := strings.TrimSpace(r.PathValue("contestID"))
	if _, err := h.rosterService.ReplaceRoster(ctx, usecase.ReplaceRosterInput{
		PlayerID:  principal.PlayerID(),
		ContestID: contestID,
		SkaterIDs: req.SkaterIDs,
	}); err != nil {
		h.logger.WarnContext(ctx, "replace roster failed", "player_id", principal.PlayerID(), "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	summary, err := h.rosterService.GetRoster(ctx, principal.PlayerID(), contestID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(summary))
}

func (h *Handler) ListMyEntitlements(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyEntitlements")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	contestID := strings.TrimSpace(r.PathValue("contestID"))
	items, err := h.withdrawalService.ListEntitlements(ctx, principal.PlayerID(), contestID)
	if err != nil {
		h.logger.WarnContext(ctx, "list entitlements failed", "player_id", principal.PlayerID(), "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entitlementsToDTO(items))
}

func (h *Handler) ConsumeReplacement(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConsumeReplacement")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req consumeReplacementRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	contestID := strings.TrimSpace(r.PathValue("contestID"))
	pick, err := h.withdrawalService.ConsumeReplacement(ctx, usecase.ConsumeReplacementInput{
		PlayerID:            principal.PlayerID(),
		ContestID:           contestID,
		WithdrawnSkaterID:   req.WithdrawnSkaterID,
		ReplacementSkaterID: req.ReplacementSkaterID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "consume replacement failed",
			"player_id", principal.PlayerID(),
			"contest_id", contestID,
			"withdrawn_skater_id", req.WithdrawnSkaterID,
			"replacement_skater_id", req.ReplacementSkaterID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, pickToDTO(pick, 0))
}
