package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rocketr/rocketr-ipn/internal/module/ipnapp/order"
	"github.com/rocketr/rocketr-ipn/internal/pkg/mailer"
	"github.com/rocketr/rocketr-ipn/pkg/errors"
	"github.com/rocketr/rocketr-ipn/pkg/pubsub"
	"github.com/rocketr/rocketr-ipn/pkg/status"
	"github.com/sirupsen/logrus"
)

const (
	OutcomeApplied        = "APPLIED"
	OutcomeAmountMismatch = "AMOUNT_MISMATCH"

	alertSubject = "Problem with an order through Rocketr"

	orderCompletedTopic = "order-completed"
)

type ReconcileResult struct {
	Outcome string
	Message string
}

type NotificationUseCase interface {
	Reconcile(ctx context.Context, pn ParsedNotification) (ReconcileResult, error)
}

type notificationUseCase struct {
	logger                *logrus.Logger
	storeName             string
	orderRepository       order.OrderRepository
	noteRepository        order.NoteRepository
	deliveryLogRepository DeliveryLogRepository
	publisher             pubsub.Publisher
	mailer                mailer.Mailer
}

type NotificationUseCaseProperty struct {
	Logger                *logrus.Logger
	StoreName             string
	OrderRepository       order.OrderRepository
	NoteRepository        order.NoteRepository
	DeliveryLogRepository DeliveryLogRepository
	Publisher             pubsub.Publisher
	Mailer                mailer.Mailer
}

func NewNotificationUseCase(props NotificationUseCaseProperty) NotificationUseCase {
	return &notificationUseCase{
		logger:                props.Logger,
		storeName:             props.StoreName,
		orderRepository:       props.OrderRepository,
		noteRepository:        props.NoteRepository,
		deliveryLogRepository: props.DeliveryLogRepository,
		publisher:             props.Publisher,
		mailer:                props.Mailer,
	}
}

// Reconcile implements NotificationUseCase. It applies exactly one
// verified notification to the correlated order. There are no internal
// retries; Rocketr's redelivery is the resilience mechanism, so every
// branch must be safe to repeat.
func (u *notificationUseCase) Reconcile(ctx context.Context, pn ParsedNotification) (ReconcileResult, error) {
	if pn.OrderID == 0 {
		body := fmt.Sprintf(
			"Hello,\n\nThere is a problem with a Rocketr order from your store: %s. The Rocketr order ID is %s. However, the merchant order ID is missing and we are unable to correlate the Rocketr order with the merchant order.",
			u.storeName, pn.RocketrOrderID,
		)
		u.mailer.Notify(ctx, alertSubject, body)

		return ReconcileResult{}, errors.New(http.StatusBadRequest, status.BAD_REQUEST, "did not receive wcorderid")
	}

	tx, err := u.orderRepository.BeginTx(ctx)
	if err != nil {
		return ReconcileResult{}, err
	}

	o, err := u.orderRepository.FindByIDForUpdate(ctx, pn.OrderID, tx)
	if err != nil {
		u.orderRepository.Rollback(ctx, tx)
		return ReconcileResult{}, err
	}

	// The audit note is written outside the transaction on purpose:
	// the trail must survive even when a later step rolls back, and it
	// happens exactly once per reconciliation attempt.
	auditNote := order.Note{
		OrderID: o.ID,
		Content: "Received IPN " + string(pn.Raw),
	}
	if err := u.noteRepository.Save(ctx, auditNote, nil); err != nil {
		u.orderRepository.Rollback(ctx, tx)
		return ReconcileResult{}, err
	}

	if u.deliveryLogRepository != nil {
		u.deliveryLogRepository.Record(ctx, pn.RocketrOrderID, pn.Raw)
	}

	if !pn.Amount.Equal(o.TotalAmount) {
		return u.holdForShortPayment(ctx, pn, o, tx)
	}

	action := MapStatus(pn.Status)

	completed := false
	switch action {
	case ActionCancel:
		if err := u.transition(ctx, o.ID, order.StatusCancelled, "The order has been cancelled because the buyer did not pay.", tx); err != nil {
			u.orderRepository.Rollback(ctx, tx)
			return ReconcileResult{}, err
		}
	case ActionMarkPending:
		if err := u.transition(ctx, o.ID, order.StatusPending, "The order is marked pending.", tx); err != nil {
			u.orderRepository.Rollback(ctx, tx)
			return ReconcileResult{}, err
		}
	case ActionNoOp:
	case ActionComplete:
		completed, err = u.orderRepository.MarkComplete(ctx, o.ID, tx)
		if err != nil {
			u.orderRepository.Rollback(ctx, tx)
			return ReconcileResult{}, err
		}
	case ActionHoldForReview:
		reason := fmt.Sprintf("The order is on hold with an order status of %s.", pn.Status.Label())
		if err := u.transition(ctx, o.ID, order.StatusOnHold, reason, tx); err != nil {
			u.orderRepository.Rollback(ctx, tx)
			return ReconcileResult{}, err
		}
	}

	if err := u.orderRepository.CommitTx(ctx, tx); err != nil {
		return ReconcileResult{}, err
	}

	if completed {
		u.publishOrderCompleted(ctx, pn, o)
	}

	if action == ActionHoldForReview {
		body := fmt.Sprintf(
			"Hello,\n\nThere is a problem with a Rocketr order from your store: %s. The order ID is: %d\n\nThe order status is: %s and the order has been put on hold pending your attention.",
			u.storeName, o.ID, pn.Status.Label(),
		)
		u.mailer.Notify(ctx, alertSubject, body)
	}

	return ReconcileResult{Outcome: OutcomeApplied, Message: "Success"}, nil
}

func (u *notificationUseCase) holdForShortPayment(ctx context.Context, pn ParsedNotification, o order.Order, tx *sql.Tx) (ReconcileResult, error) {
	if err := u.transition(ctx, o.ID, order.StatusOnHold, "The buyer did not pay the full amount.", tx); err != nil {
		u.orderRepository.Rollback(ctx, tx)
		return ReconcileResult{}, err
	}

	if err := u.orderRepository.CommitTx(ctx, tx); err != nil {
		return ReconcileResult{}, err
	}

	body := fmt.Sprintf(
		"Hello,\n\nThere is a problem with a Rocketr order from your store: %s. The order ID is: %d\n\nIt seems that the buyer did not pay the full amount, the buyer only paid %s instead of %s\n\nThe order has been put on hold pending your attention.",
		u.storeName, o.ID, pn.Amount.String(), o.TotalAmount.String(),
	)
	u.mailer.Notify(ctx, alertSubject, body)

	return ReconcileResult{Outcome: OutcomeAmountMismatch, Message: "buyer did not pay the full amount"}, nil
}

func (u *notificationUseCase) transition(ctx context.Context, orderID int64, newStatus string, reason string, tx *sql.Tx) error {
	if err := u.orderRepository.UpdateStatus(ctx, orderID, newStatus, tx); err != nil {
		return err
	}

	return u.noteRepository.Save(ctx, order.Note{OrderID: orderID, Content: reason}, tx)
}

func (u *notificationUseCase) publishOrderCompleted(ctx context.Context, pn ParsedNotification, o order.Order) {
	event := OrderCompletedEvent{
		OrderID:        o.ID,
		RocketrOrderID: pn.RocketrOrderID,
		Amount:         pn.Amount.String(),
		CompletedAt:    time.Now(),
	}

	eventBuff, _ := json.Marshal(event)
	u.publisher.Publish(ctx, orderCompletedTopic, fmt.Sprintf("%d", o.ID), nil, eventBuff)
}
