package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cassiomorais/paymentpipeline/internal/apperrors"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorMappings is an ordered registry of domain errors to HTTP responses.
var errorMappings = []errorMapping{
	{apperrors.ErrAccountNotFound, http.StatusNotFound, "not_found"},
	{apperrors.ErrOrderNotFound, http.StatusNotFound, "not_found"},
	{apperrors.ErrAccountExists, http.StatusBadRequest, "already_exists"},
	{apperrors.ErrInsufficientFunds, http.StatusUnprocessableEntity, "insufficient_funds"},
	{apperrors.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{apperrors.ErrIllegalTransition, http.StatusBadRequest, "invalid_state_transition"},
	{apperrors.ErrOptimisticLockFailed, http.StatusConflict, "conflict"},
	{apperrors.ErrDuplicateEvent, http.StatusConflict, "duplicate_event"},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP error responses.
func writeError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: err.Error()}

	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		resp.Code = "validation_error"
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			resp.Code = m.code
			if m.err == apperrors.ErrOptimisticLockFailed {
				resp.Error = "concurrent modification, please retry"
			}
			writeJSON(w, m.status, resp)
			return
		}
	}

	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		resp.Code = domainErr.Code
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	log.Error().Err(err).Msg("unhandled error in handler")
	resp.Code = "internal_error"
	resp.Error = "internal server error"
	writeJSON(w, http.StatusInternalServerError, resp)
}

func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			return apperrors.NewValidationError(ve[0].Field(), ve[0].Tag()+" validation failed")
		}
		return apperrors.NewValidationError("body", err.Error())
	}
	return nil
}
