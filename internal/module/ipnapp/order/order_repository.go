package order

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/rocketr/rocketr-ipn/pkg/errors"
	"github.com/rocketr/rocketr-ipn/pkg/status"
	"github.com/sirupsen/logrus"
)

type OrderRepository interface {
	BeginTx(ctx context.Context) (*sql.Tx, error)
	CommitTx(ctx context.Context, tx *sql.Tx) error
	Rollback(ctx context.Context, tx *sql.Tx) error

	FindByID(ctx context.Context, ID int64, tx *sql.Tx) (Order, error)
	FindByIDForUpdate(ctx context.Context, ID int64, tx *sql.Tx) (Order, error)
	UpdateStatus(ctx context.Context, ID int64, newStatus string, tx *sql.Tx) error
	MarkComplete(ctx context.Context, ID int64, tx *sql.Tx) (bool, error)
}

type sqlCommand interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

type orderRepository struct {
	logger *logrus.Logger
	db     *sql.DB
}

func NewOrderRepository(logger *logrus.Logger, db *sql.DB) OrderRepository {
	return &orderRepository{
		logger: logger,
		db:     db,
	}
}

// BeginTx implements OrderRepository.
func (r *orderRepository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred trying to begin transaction")
	}

	return tx, nil
}

// CommitTx implements OrderRepository.
func (r *orderRepository) CommitTx(ctx context.Context, tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred trying to commit transaction")
	}

	return nil
}

// Rollback implements OrderRepository.
func (r *orderRepository) Rollback(ctx context.Context, tx *sql.Tx) error {
	if err := tx.Rollback(); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred trying to rollback transaction")
	}

	return nil
}

// FindByID implements OrderRepository.
func (r *orderRepository) FindByID(ctx context.Context, ID int64, tx *sql.Tx) (Order, error) {
	return r.findByID(ctx, ID, tx, false)
}

// FindByIDForUpdate implements OrderRepository. The row lock serializes
// concurrent notifications for the same order.
func (r *orderRepository) FindByIDForUpdate(ctx context.Context, ID int64, tx *sql.Tx) (Order, error) {
	return r.findByID(ctx, ID, tx, true)
}

func (r *orderRepository) findByID(ctx context.Context, ID int64, tx *sql.Tx, forUpdate bool) (Order, error) {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		SELECT
			id, customer_email, status, total_amount, created_at, updated_at
		FROM merchant_order
		WHERE
			id = $1
		LIMIT 1
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return Order{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting order's properties")
	}
	defer stmt.Close()

	row := stmt.QueryRowContext(ctx, ID)

	var data Order

	err = row.Scan(
		&data.ID, &data.CustomerEmail, &data.Status, &data.TotalAmount, &data.CreatedAt, &data.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return Order{}, errors.New(http.StatusNotFound, status.NOT_FOUND, fmt.Sprintf("order with id '%d' is not found", ID))
		}
		r.logger.WithContext(ctx).WithError(err).Error()
		return Order{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting order's properties")
	}

	return data, nil
}

// UpdateStatus implements OrderRepository.
func (r *orderRepository) UpdateStatus(ctx context.Context, ID int64, newStatus string, tx *sql.Tx) error {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		UPDATE merchant_order
		SET
			status = $1,
			updated_at = $2
		WHERE id = $3
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while updating order's properties")
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, newStatus, time.Now(), ID)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while updating order's properties")
	}

	return nil
}

// MarkComplete implements OrderRepository. The guarded update makes the
// transition idempotent: redelivery of a delivered notification reports
// false and must not fire fulfillment again.
func (r *orderRepository) MarkComplete(ctx context.Context, ID int64, tx *sql.Tx) (bool, error) {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		UPDATE merchant_order
		SET
			status = $1,
			updated_at = $2
		WHERE id = $3
		AND status <> $1
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return false, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while completing the order")
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, StatusCompleted, time.Now(), ID)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return false, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while completing the order")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return false, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while completing the order")
	}

	return affected > 0, nil
}
