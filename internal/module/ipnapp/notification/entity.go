package notification

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// StatusCode is Rocketr's order status as carried on the IPN. The
// domain is closed; anything outside it routes to manual review.
type StatusCode int

const (
	StatusTimedOut            StatusCode = -1
	StatusNewOrder            StatusCode = 0
	StatusWaitingForPayment   StatusCode = 1
	StatusPartialPayment      StatusCode = 2
	StatusFullPaymentReceived StatusCode = 3
	StatusProductDelivered    StatusCode = 4
	StatusRefunded            StatusCode = 5
	StatusUnknownError        StatusCode = 6
	StatusPaypalPending       StatusCode = 8
	StatusPaypalOther         StatusCode = 9
	StatusPaypalReversed      StatusCode = 10
	StatusStripeAutoRefund    StatusCode = 20
	StatusStripeDeclined      StatusCode = 21
	StatusStripeDisputed      StatusCode = 22
)

var statusLabels = map[StatusCode]string{
	StatusTimedOut:            "TIMED_OUT",
	StatusNewOrder:            "NEW_ORDER",
	StatusWaitingForPayment:   "WAITING_FOR_PAYMENT",
	StatusPartialPayment:      "ERROR_PARTIAL_PAYMENT_RECEIVED",
	StatusFullPaymentReceived: "FULL_PAYMENT_RECEIVED",
	StatusProductDelivered:    "PRODUCT_DELIVERED",
	StatusRefunded:            "REFUNDED",
	StatusUnknownError:        "UNKNOWN_ERROR",
	StatusPaypalPending:       "PAYPAL_PENDING",
	StatusPaypalOther:         "PAYPAL_OTHER",
	StatusPaypalReversed:      "PAYPAL_REVERSED",
	StatusStripeAutoRefund:    "STRIPE_AUTO_REFUND",
	StatusStripeDeclined:      "STRIPE_DECLINED",
	StatusStripeDisputed:      "STRIPE_DISPUTED",
}

// Label returns the human-readable name of the status code.
func (s StatusCode) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}

	return fmt.Sprintf("UNKNOWN_STATUS_%d", int(s))
}

// LifecycleAction is the order transition a status code maps to.
type LifecycleAction int

const (
	ActionCancel LifecycleAction = iota
	ActionMarkPending
	ActionNoOp
	ActionComplete
	ActionHoldForReview
)

// ParsedNotification is the validated view of one verified IPN. It
// lives for the duration of a single request.
type ParsedNotification struct {
	RocketrOrderID string `validate:"required"`
	Status         StatusCode
	Amount         decimal.Decimal
	// OrderID is the merchant order id taken from the wcorderid custom
	// field; zero when the notification could not be correlated.
	OrderID      int64
	CustomFields map[string]string
	// Raw is the canonical JSON body the signature was verified over,
	// kept for the audit note.
	Raw []byte
}
