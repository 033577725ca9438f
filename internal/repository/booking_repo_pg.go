package repository

import (
	"context"
	"encoding/json"

	"github.com/avikulin/flightbot/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingRepository is the persistence collaborator: one save call per
// finished booking, no read path in the dialog core.
type BookingRepository interface {
	Save(ctx context.Context, record *domain.BookingRecord) error
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Save(ctx context.Context, record *domain.BookingRecord) error {
	passengers, err := json.Marshal(record.Passengers)
	if err != nil {
		return err
	}
	flight, err := json.Marshal(record.Flight)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `INSERT INTO bookings (booking_id, flight, passengers, total_amount, currency, status, payment_id, transaction_id, booking_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (booking_id) DO UPDATE SET status = EXCLUDED.status, payment_id = EXCLUDED.payment_id, transaction_id = EXCLUDED.transaction_id`,
		record.BookingID, flight, passengers, record.TotalAmount, record.Currency,
		record.Status, record.PaymentID, record.TransactionID, record.BookingDate)
	return err
}

var _ BookingRepository = (*PGBookingRepository)(nil)
