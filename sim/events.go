package sim

import "time"

// Kind classifies a pipeline event for display and filtering.
type Kind string

const (
	KindSale           Kind = "SALE"
	KindOrderDelivered Kind = "ORDER_DELIVERED"
	KindOrderDelayed   Kind = "ORDER_DELAYED"
	KindPayablePaid    Kind = "PAYABLE_PAID"
	KindRecurring      Kind = "RECURRING"
	KindLoanPayment    Kind = "LOAN_PAYMENT"
	KindLoanPaidOff    Kind = "LOAN_PAID_OFF"
	KindMarketEvent    Kind = "MARKET_EVENT"
	KindUnlock         Kind = "UNLOCK"
	KindDeclined       Kind = "DECLINED"
)

// Event is one noteworthy thing the daily pipeline did, in occurrence order.
type Event struct {
	Day     time.Time
	Kind    Kind
	Message string
}
