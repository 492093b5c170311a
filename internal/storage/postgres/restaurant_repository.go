package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cimillas/table-reservations/internal/domain"
)

type RestaurantRepository struct {
	pool *pgxpool.Pool
}

func NewRestaurantRepository(pool *pgxpool.Pool) *RestaurantRepository {
	return &RestaurantRepository{pool: pool}
}

func (r *RestaurantRepository) CreateRestaurant(ctx context.Context, restaurant domain.Restaurant) error {
	const stmt = `
INSERT INTO restaurants (id, name, open_hour, close_hour, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := db(ctx, r.pool).Exec(ctx, stmt,
		restaurant.ID,
		restaurant.Name,
		restaurant.Window.OpenHour,
		restaurant.Window.CloseHour,
		restaurant.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create restaurant: %w", err)
	}
	return nil
}

func (r *RestaurantRepository) GetRestaurant(ctx context.Context, id string) (domain.Restaurant, error) {
	const query = `
SELECT id, name, open_hour, close_hour, created_at
FROM restaurants
WHERE id = $1`
	return scanRestaurant(db(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *RestaurantRepository) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	const query = `
SELECT id, name, open_hour, close_hour, created_at
FROM restaurants
ORDER BY created_at ASC, id ASC`
	rows, err := db(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []domain.Restaurant
	for rows.Next() {
		var rest domain.Restaurant
		if err := rows.Scan(&rest.ID, &rest.Name, &rest.Window.OpenHour, &rest.Window.CloseHour, &rest.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		restaurants = append(restaurants, rest)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate restaurants: %w", rows.Err())
	}
	return restaurants, nil
}

func scanRestaurant(row pgx.Row) (domain.Restaurant, error) {
	var rest domain.Restaurant
	err := row.Scan(&rest.ID, &rest.Name, &rest.Window.OpenHour, &rest.Window.CloseHour, &rest.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Restaurant{}, domain.ErrInvalidID
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Restaurant{}, domain.ErrRestaurantNotFound
		}
		return domain.Restaurant{}, fmt.Errorf("get restaurant: %w", err)
	}
	return rest, nil
}
