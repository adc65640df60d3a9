// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// RejectCode identifies why an operation was refused. Every rejection the
// engine produces carries one of these so the UI can map it to a message.
type RejectCode string

const (
	RejectBarcodeTooShort         RejectCode = "barcode_too_short"
	RejectInvalidPriceField       RejectCode = "invalid_price_field"
	RejectNonPositiveQuantity     RejectCode = "non_positive_quantity"
	RejectNonPositiveAmount       RejectCode = "non_positive_amount"
	RejectExceedsStock            RejectCode = "exceeds_stock"
	RejectLineNotFound            RejectCode = "line_not_found"
	RejectEmptyCart               RejectCode = "empty_cart"
	RejectAlreadySettled          RejectCode = "already_settled"
	RejectDiscountOutOfRange      RejectCode = "discount_out_of_range"
	RejectDiscountBelowTendered   RejectCode = "discount_below_tendered"
	RejectVoucherInvalidFormat    RejectCode = "voucher_invalid_format"
	RejectVoucherAlreadyUsed      RejectCode = "voucher_already_used"
	RejectVoucherExceedsRemaining RejectCode = "voucher_exceeds_remaining"
	RejectUnknownSaleLine         RejectCode = "unknown_sale_line"
	RejectQuantityOutOfRange      RejectCode = "return_quantity_out_of_range"
	RejectEmptyReturn             RejectCode = "empty_return"
	RejectSubmissionInProgress    RejectCode = "submission_in_progress"
	RejectReturnAlreadyCancelled  RejectCode = "return_already_cancelled"
	RejectUnknownProduct          RejectCode = "unknown_product"
	RejectUnknownTransaction      RejectCode = "unknown_transaction"
	RejectSessionNotFound         RejectCode = "session_not_found"
	RejectNotSettled              RejectCode = "not_settled"
	RejectNotParked               RejectCode = "transaction_not_parked"
	RejectParkWithTenders         RejectCode = "park_with_tenders"
	RejectBelowTendered           RejectCode = "below_tendered"
)

// Rejection is a validation or business-rule refusal. It is terminal: the
// operation was not applied and retrying the same input will fail again.
type Rejection struct {
	Code    RejectCode
	Message string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Code, r.Message)
}

// Reject builds a Rejection with a formatted message.
func Reject(code RejectCode, format string, args ...any) *Rejection {
	return &Rejection{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsRejection unwraps err into a Rejection if it is one.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// RetryableError wraps a collaborator failure that left local state untouched,
// so the same action can be retried safely.
type RetryableError struct {
	Op  string
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("%s: %v (retryable)", e.Op, e.Err)
}

func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a RetryableError for operation op.
func Retryable(op string, err error) error {
	return &RetryableError{Op: op, Err: err}
}

// IsRetryable reports whether err (or anything it wraps) is a RetryableError.
func IsRetryable(err error) bool {
	var r *RetryableError
	return errors.As(err, &r)
}
