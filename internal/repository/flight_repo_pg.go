package repository

import (
	"context"

	"github.com/avikulin/flightbot/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.FlightOffer, error)
	GetByID(ctx context.Context, id int64) (*domain.FlightOffer, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.FlightOffer, error) {
	rows, err := r.db.Query(ctx, `SELECT id, airline, flight_number, price, departure_airport, departure_time, departure_date, arrival_airport, arrival_time, arrival_date, duration FROM flights ORDER BY departure_date, departure_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.FlightOffer, 0)
	for rows.Next() {
		var f domain.FlightOffer
		if err := rows.Scan(&f.ID, &f.Airline, &f.FlightNumber, &f.Price,
			&f.Departure.Airport, &f.Departure.Time, &f.Departure.Date,
			&f.Arrival.Airport, &f.Arrival.Time, &f.Arrival.Date, &f.Duration); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.FlightOffer, error) {
	row := r.db.QueryRow(ctx, `SELECT id, airline, flight_number, price, departure_airport, departure_time, departure_date, arrival_airport, arrival_time, arrival_date, duration FROM flights WHERE id=$1`, id)
	var f domain.FlightOffer
	if err := row.Scan(&f.ID, &f.Airline, &f.FlightNumber, &f.Price,
		&f.Departure.Airport, &f.Departure.Time, &f.Departure.Date,
		&f.Arrival.Airport, &f.Arrival.Time, &f.Arrival.Date, &f.Duration); err != nil {
		return nil, err
	}
	return &f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
