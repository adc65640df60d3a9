// internal/handlers/errors.go
package handlers

import (
	"net/http"

	"github.com/caissepos/caisse-be/internal/core/domain"
)

// ErrorResponse is the JSON body returned for every refused or failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// mapServiceError translates service-layer errors into an HTTP status and
// response body. Business-rule rejections carry their code so the till UI can
// react without parsing messages; retryable infrastructure failures come back
// as 503 so the till retries instead of voiding the sale.
func mapServiceError(err error) (int, ErrorResponse) {
	if rejection, ok := domain.AsRejection(err); ok {
		return rejectionStatus(rejection.Code), ErrorResponse{
			Error: rejection.Message,
			Code:  string(rejection.Code),
		}
	}

	if domain.IsRetryable(err) {
		return http.StatusServiceUnavailable, ErrorResponse{
			Error: "A backing service is unavailable, retry the request",
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error: "Internal server error",
	}
}

func rejectionStatus(code domain.RejectCode) int {
	switch code {
	case domain.RejectSessionNotFound,
		domain.RejectUnknownTransaction,
		domain.RejectUnknownProduct,
		domain.RejectLineNotFound,
		domain.RejectUnknownSaleLine:
		return http.StatusNotFound

	case domain.RejectSubmissionInProgress,
		domain.RejectAlreadySettled,
		domain.RejectReturnAlreadyCancelled,
		domain.RejectNotParked:
		return http.StatusConflict

	default:
		// Validation refusals: bad barcode, stock clamp, discount range,
		// voucher reuse, unsettled commit and the rest.
		return http.StatusUnprocessableEntity
	}
}
