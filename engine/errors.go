package engine

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================
//
// The engine's own computations never fail: malformed rows degrade to a
// zero contribution and empty snapshots aggregate to zero. These
// sentinels exist for the write path, where storage and API layers
// validate records before they are persisted.

var (
	// ErrUnknownRecurrence is returned when a persisted recurrence kind
	// or limit is not one of the closed set.
	ErrUnknownRecurrence = errors.New("unknown recurrence")

	// ErrNegativeAmount is returned when a record carries a negative
	// amount. Sign is carried by record kind, never by the amount.
	ErrNegativeAmount = errors.New("amount must be non-negative")

	// ErrInvalidDate is returned when a date field does not parse as
	// "2006-01-02".
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidMonthKey is returned when an invoice month is not a
	// canonical "2006-01" key.
	ErrInvalidMonthKey = errors.New("invalid month key")
)

// IsValidationError reports whether the error is due to invalid record
// input rather than a storage failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrUnknownRecurrence) ||
		errors.Is(err, ErrNegativeAmount) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidMonthKey)
}
