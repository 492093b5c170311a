package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cimillas/table-reservations/internal/domain"
)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

func (r *ReservationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// GetRestaurantForUpdate locks the restaurant row for the rest of the
// transaction, serializing reservation writers per restaurant.
func (r *ReservationRepository) GetRestaurantForUpdate(ctx context.Context, restaurantID string) (domain.Restaurant, error) {
	const query = `
SELECT id, name, open_hour, close_hour, created_at
FROM restaurants
WHERE id = $1
FOR UPDATE`
	return scanRestaurant(db(ctx, r.pool).QueryRow(ctx, query, restaurantID))
}

func (r *ReservationRepository) ListReservationsByDate(ctx context.Context, restaurantID, date string) ([]domain.Reservation, error) {
	const query = `
SELECT id, restaurant_id, reservation_date, start_hour, duration, party_size, created_at
FROM reservations
WHERE restaurant_id = $1 AND reservation_date = $2
ORDER BY start_hour ASC, created_at ASC`
	rows, err := db(ctx, r.pool).Query(ctx, query, restaurantID, date)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list reservations by date: %w", err)
	}
	return collectReservations(rows)
}

func (r *ReservationRepository) ListReservationsByRestaurant(ctx context.Context, restaurantID string) ([]domain.Reservation, error) {
	const query = `
SELECT id, restaurant_id, reservation_date, start_hour, duration, party_size, created_at
FROM reservations
WHERE restaurant_id = $1
ORDER BY reservation_date ASC, start_hour ASC, created_at ASC`
	rows, err := db(ctx, r.pool).Query(ctx, query, restaurantID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return collectReservations(rows)
}

// CreateReservation inserts the reservation and claims each of its hours in
// reservation_slots. A claimed hour violates the slot primary key and is
// reported as domain.ErrSlotConflict; callers must run this in a transaction
// so the reservation row is rolled back with it.
func (r *ReservationRepository) CreateReservation(ctx context.Context, reservation domain.Reservation) error {
	const insertReservation = `
INSERT INTO reservations (id, restaurant_id, reservation_date, start_hour, duration, party_size, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	const claimSlots = `
INSERT INTO reservation_slots (restaurant_id, reservation_date, hour, reservation_id)
SELECT $1, $2, h, $3
FROM generate_series($4::int, $4::int + $5::int - 1) AS h`

	q := db(ctx, r.pool)
	_, err := q.Exec(ctx, insertReservation,
		reservation.ID,
		reservation.RestaurantID,
		reservation.Date,
		reservation.StartHour,
		reservation.Duration,
		reservation.PartySize,
		reservation.CreatedAt,
	)
	if err != nil {
		return translateReservationErr("create reservation", err)
	}

	_, err = q.Exec(ctx, claimSlots,
		reservation.RestaurantID,
		reservation.Date,
		reservation.ID,
		reservation.StartHour,
		reservation.Duration,
	)
	if err != nil {
		return translateReservationErr("claim reservation slots", err)
	}
	return nil
}

func translateReservationErr(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return domain.ErrSlotConflict
	case isForeignKeyViolation(err):
		return domain.ErrRestaurantNotFound
	case isInvalidUUID(err):
		return domain.ErrInvalidID
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func collectReservations(rows pgx.Rows) ([]domain.Reservation, error) {
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.RestaurantID, &res.Date, &res.StartHour, &res.Duration, &res.PartySize, &res.CreatedAt); err != nil {
			if isInvalidUUID(err) {
				return nil, domain.ErrInvalidID
			}
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("iterate reservations: %w", err)
	}
	return reservations, nil
}
