package response

import (
	"encoding/json"
	"net/http"

	apperrors "lead-relay/errors"
	"lead-relay/logger"
	"lead-relay/models"
)

// Messages returned to the site
const (
	MsgEmailSent      = "Email sent successfully"
	MsgEmailFailed    = "Error sending email"
	MsgInvalidRequest = "Invalid request"
)

// SuccessResponse sends a 200 with {message}
func SuccessResponse(w http.ResponseWriter, message string) {
	SendJSON(w, http.StatusOK, models.MessageResponse{Message: message})
}

// ErrorResponse sends {message, error} with the given status code
func ErrorResponse(w http.ResponseWriter, statusCode int, message, errorMsg string) {
	SendJSON(w, statusCode, models.MessageResponse{Message: message, Error: errorMsg})
}

// HTTPStatus maps an error kind to the status code the relay answers with.
func HTTPStatus(kind apperrors.Kind) int {
	if kind == apperrors.Invalid {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// FromError maps an application error to a status code and body. Transport
// diagnostics are logged by the relay and replaced with a generic description here.
func FromError(w http.ResponseWriter, err error) {
	kind := apperrors.KindOf(err)
	status := HTTPStatus(kind)
	switch kind {
	case apperrors.Invalid:
		ErrorResponse(w, status, MsgInvalidRequest, err.Error())
	case apperrors.Unavailable:
		ErrorResponse(w, status, MsgEmailFailed, "mail transport unavailable")
	default:
		ErrorResponse(w, status, MsgEmailFailed, "internal error")
	}
}

// SendJSON encodes and sends a JSON response
func SendJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("error encoding JSON response", "error", err)
	}
}
