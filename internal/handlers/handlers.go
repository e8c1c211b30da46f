// Package handlers exposes the services over HTTP under /financeManagement.
package handlers

import (
	"errors"
	"net/http"

	"finance-manager/internal/apperr"
	"finance-manager/internal/httpapi"

	"github.com/rs/zerolog"
)

// Prefix is the path prefix shared by every service.
const Prefix = "/financeManagement"

// msgUnexpected is returned for failures that carry no domain condition.
const msgUnexpected = "An error occurred while processing your request. Please try again later."

var errCategoryRequired = errors.New("category is required")

// logError logs err on the request logger. Domain conditions are expected
// outcomes and go to the warn level.
func logError(r *http.Request, err error, msg string) {
	logger := zerolog.Ctx(r.Context())
	if apperr.IsDomain(err) {
		logger.Warn().Err(err).Stringer("kind", apperr.KindOf(err)).Msg(msg)
		return
	}
	logger.Error().Err(err).Msg(msg)
}

// writeJSON writes v and logs encoding failures; the status line is already
// sent by then.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	if err := httpapi.WriteJSON(w, http.StatusOK, v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("encode response")
	}
}

// writeLookupError maps a failed read: 404 for missing records, 500 for
// everything else.
func writeLookupError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	logError(r, err, msg)
	if apperr.IsNotFound(err) {
		httpapi.WriteText(w, http.StatusNotFound, err.Error())
		return
	}
	httpapi.WriteText(w, http.StatusInternalServerError, msgUnexpected)
}

// writeMutationError maps a failed write: domainStatus for domain
// conditions, 500 for everything else. Both carry prefix and the message.
func writeMutationError(w http.ResponseWriter, r *http.Request, err error, domainStatus int, prefix string) {
	logError(r, err, prefix)
	status := http.StatusInternalServerError
	if apperr.IsDomain(err) {
		status = domainStatus
	}
	httpapi.WriteText(w, status, prefix+": "+err.Error())
}

func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Debug().Err(err).Msg("bad request")
	httpapi.WriteText(w, http.StatusBadRequest, err.Error())
}
