package httpapi

import (
	"context"
	"net/http"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/skate-fantasy/internal/domain/contest"
	"github.com/riskibarqy/skate-fantasy/internal/domain/roster"
	"github.com/riskibarqy/skate-fantasy/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "skate-fantasy"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(ctx, err)
	if mapped.HTTPStatus == http.StatusInternalServerError {
		writeInternalError(ctx, w)
		return
	}
	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: err.Error(),
			Status:  mapped.Status,
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  mapped.Reason,
					Message: err.Error(),
				},
			},
		},
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	const msg = "internal server error"

	writeJSON(ctx, w, http.StatusInternalServerError, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    http.StatusInternalServerError,
			Message: msg,
			Status:  "INTERNAL",
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  "internalError",
					Message: msg,
				},
			},
		},
	})
}

// reasons gives the most specific machine-readable reason for an error.
// The first match wins, so precise rule violations come before their kinds.
var reasons = []struct {
	err    error
	reason string
}{
	{roster.ErrSlotLimitExceeded, "slotLimitExceeded"},
	{roster.ErrBudgetExceeded, "budgetExceeded"},
	{roster.ErrSkaterNotEntered, "skaterNotEntered"},
	{roster.ErrSkaterWithdrawn, "skaterWithdrawn"},
	{roster.ErrDuplicatePick, "duplicatePick"},
	{roster.ErrRosterSizeMismatch, "rosterSizeMismatch"},
	{roster.ErrPickNotFound, "pickNotFound"},
	{roster.ErrEntitlementNotFound, "entitlementNotFound"},
	{roster.ErrEntitlementConsumed, "entitlementConsumed"},
	{contest.ErrContestNotOpen, "contestNotOpen"},
	{contest.ErrDeadlinePassed, "deadlinePassed"},
	{contest.ErrReplacementWindowClosed, "replacementWindowClosed"},
	{contest.ErrInvalidStatusTransition, "invalidStatusTransition"},
	{contest.ErrEntryExists, "entryExists"},
}

func mapError(ctx context.Context, err error) mappedError {
	ctx, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	var mapped mappedError
	switch {
	case crerr.Is(err, usecase.ErrInvalidInput):
		mapped = mappedError{HTTPStatus: http.StatusBadRequest, Reason: "invalidInput", Status: "INVALID_ARGUMENT"}
	case crerr.Is(err, usecase.ErrUnauthorized):
		mapped = mappedError{HTTPStatus: http.StatusUnauthorized, Reason: "unauthorized", Status: "UNAUTHENTICATED"}
	case crerr.Is(err, usecase.ErrForbidden):
		mapped = mappedError{HTTPStatus: http.StatusForbidden, Reason: "forbidden", Status: "PERMISSION_DENIED"}
	case crerr.Is(err, usecase.ErrNotFound):
		mapped = mappedError{HTTPStatus: http.StatusNotFound, Reason: "notFound", Status: "NOT_FOUND"}
	case crerr.Is(err, usecase.ErrConflict):
		mapped = mappedError{HTTPStatus: http.StatusConflict, Reason: "conflict", Status: "FAILED_PRECONDITION"}
	case crerr.Is(err, usecase.ErrLimitExceeded):
		mapped = mappedError{HTTPStatus: http.StatusUnprocessableEntity, Reason: "limitExceeded", Status: "OUT_OF_RANGE"}
	case crerr.Is(err, usecase.ErrDependencyUnavailable):
		mapped = mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: "dependencyUnavailable", Status: "UNAVAILABLE"}
	default:
		return mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internalError", Status: "INTERNAL"}
	}

	for _, candidate := range reasons {
		if crerr.Is(err, candidate.err) {
			mapped.Reason = candidate.reason
			break
		}
	}
	return mapped
}
