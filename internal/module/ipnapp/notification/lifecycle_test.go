package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapStatus(t *testing.T) {
	assert.Equal(t, ActionCancel, MapStatus(StatusTimedOut))
	assert.Equal(t, ActionCancel, MapStatus(StatusStripeAutoRefund))
	assert.Equal(t, ActionCancel, MapStatus(StatusStripeDeclined))
	assert.Equal(t, ActionMarkPending, MapStatus(StatusWaitingForPayment))
	assert.Equal(t, ActionNoOp, MapStatus(StatusFullPaymentReceived))
	assert.Equal(t, ActionComplete, MapStatus(StatusProductDelivered))

	assert.Equal(t, ActionHoldForReview, MapStatus(StatusNewOrder))
	assert.Equal(t, ActionHoldForReview, MapStatus(StatusPartialPayment))
	assert.Equal(t, ActionHoldForReview, MapStatus(StatusRefunded))
	assert.Equal(t, ActionHoldForReview, MapStatus(StatusUnknownError))
	assert.Equal(t, ActionHoldForReview, MapStatus(StatusPaypalPending))
	assert.Equal(t, ActionHoldForReview, MapStatus(StatusPaypalOther))
	assert.Equal(t, ActionHoldForReview, MapStatus(StatusPaypalReversed))
	assert.Equal(t, ActionHoldForReview, MapStatus(StatusStripeDisputed))
}

func TestMapStatus_UnlistedCodesHoldForReview(t *testing.T) {
	for _, code := range []StatusCode{-5, 7, 11, 19, 23, 99, 1000} {
		assert.Equal(t, ActionHoldForReview, MapStatus(code), "code %d", code)
	}
}

func TestStatusCodeLabel(t *testing.T) {
	assert.Equal(t, "STRIPE_DISPUTED", StatusStripeDisputed.Label())
	assert.Equal(t, "TIMED_OUT", StatusTimedOut.Label())
	assert.Equal(t, "UNKNOWN_STATUS_99", StatusCode(99).Label())
	assert.Equal(t, "UNKNOWN_STATUS_-5", StatusCode(-5).Label())
}
