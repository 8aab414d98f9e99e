package notification

// MapStatus maps a Rocketr status code onto the order lifecycle. The
// mapping is total: codes outside the table, disputes and refunds all
// land in manual review.
func MapStatus(code StatusCode) LifecycleAction {
	switch code {
	case StatusTimedOut, StatusStripeAutoRefund, StatusStripeDeclined:
		return ActionCancel
	case StatusWaitingForPayment:
		return ActionMarkPending
	case StatusFullPaymentReceived:
		// Payment confirmed but delivery not yet reported; Rocketr
		// sends PRODUCT_DELIVERED as the completing notification.
		return ActionNoOp
	case StatusProductDelivered:
		return ActionComplete
	default:
		return ActionHoldForReview
	}
}
