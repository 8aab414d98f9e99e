package order

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/rocketr/rocketr-ipn/pkg/errors"
	"github.com/rocketr/rocketr-ipn/pkg/status"
	"github.com/sirupsen/logrus"
)

// NoteRepository is the append-only audit trail of an order. Notes are
// never updated or deleted.
type NoteRepository interface {
	Save(ctx context.Context, note Note, tx *sql.Tx) error
}

type noteRepository struct {
	logger *logrus.Logger
	db     *sql.DB
}

func NewNoteRepository(logger *logrus.Logger, db *sql.DB) NoteRepository {
	return &noteRepository{
		logger: logger,
		db:     db,
	}
}

// Save implements NoteRepository.
func (r *noteRepository) Save(ctx context.Context, note Note, tx *sql.Tx) error {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		INSERT INTO merchant_order_note
		(
			order_id, content, created_at
		)
		VALUES
		(
			$1, $2, $3
		)
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving order's note")
	}
	defer stmt.Close()

	createdAt := note.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = stmt.ExecContext(ctx, note.OrderID, note.Content, createdAt)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving order's note")
	}

	return nil
}
