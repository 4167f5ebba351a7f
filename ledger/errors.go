package ledger

import "errors"

// Sentinel errors, grouped by the failure taxonomy the simulation uses.
//
// Validation errors reject malformed input before any mutation. Business
// declines are rule violations discovered at execution time; they are logged
// by the pipeline and never abort a day. Anything else coming out of the
// store is a persistence failure and rolls back the current atomic unit.
var (
	// Validation
	ErrInvalidInput = errors.New("ledger: invalid input")
	ErrUnbalanced   = errors.New("ledger: transaction debits and credits differ")
	ErrNotFound     = errors.New("ledger: not found")
	ErrExists       = errors.New("ledger: already exists")

	// Business declines
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")
	ErrCreditLimit       = errors.New("ledger: credit limit exceeded")
	ErrBelowMinimumOrder = errors.New("ledger: below vendor minimum order")
	ErrNegativeStock     = errors.New("ledger: inventory cannot go negative")
)

// Declined reports whether err is a business-rule decline rather than a
// validation or persistence failure. Declines leave state untouched and are
// retried naturally on later days.
func Declined(err error) bool {
	return errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrCreditLimit) ||
		errors.Is(err, ErrBelowMinimumOrder) ||
		errors.Is(err, ErrNegativeStock)
}
