package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/meterdesk/internal/faults"
	"github.com/example/meterdesk/internal/logging"
)

// errorResponse is the JSON body returned for every failed request.
type errorResponse struct {
	Error   string   `json:"error"`
	UnitIDs []string `json:"unitIds,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeFault maps the domain error taxonomy onto HTTP statuses.
func writeFault(w http.ResponseWriter, err error) {
	var (
		validation   *faults.ValidationError
		conflict     *faults.ConflictError
		invalidState *faults.InvalidStateError
		precondition *faults.PreconditionFailedError
		notFound     *faults.NotFoundError
		upstream     *faults.UpstreamUnavailableError
		exportFailed *faults.ExportFailedError
	)

	switch {
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &validation):
		writeError(w, http.StatusUnprocessableEntity, validation.Error())
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: conflict.Msg, UnitIDs: conflict.UnitIDs})
	case errors.As(err, &invalidState):
		writeError(w, http.StatusConflict, invalidState.Error())
	case errors.As(err, &precondition):
		writeError(w, http.StatusPreconditionFailed, precondition.Error())
	case errors.As(err, &upstream):
		writeError(w, http.StatusBadGateway, upstream.Error())
	case errors.As(err, &exportFailed):
		writeError(w, http.StatusBadGateway, exportFailed.Error())
	default:
		logging.Log.WithError(err).Error("unhandled error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
