package app

import (
	"context"

	"github.com/cimillas/table-reservations/internal/availability"
	"github.com/cimillas/table-reservations/internal/domain"
)

// RestaurantFinder looks up a restaurant without locking it.
type RestaurantFinder interface {
	GetRestaurant(ctx context.Context, id string) (domain.Restaurant, error)
}

type ReservationLister interface {
	ListReservationsByDate(ctx context.Context, restaurantID, date string) ([]domain.Reservation, error)
}

type AvailabilityService struct {
	restaurants  RestaurantFinder
	reservations ReservationLister
}

func NewAvailabilityService(restaurants RestaurantFinder, reservations ReservationLister) *AvailabilityService {
	return &AvailabilityService{
		restaurants:  restaurants,
		reservations: reservations,
	}
}

// DayAvailability is a read-only view of one restaurant's day.
type DayAvailability struct {
	RestaurantID string
	Date         string
	Window       domain.OperatingWindow
	FreeHours    []int
}

// DayAvailability reports the hours still bookable on date. The result is a
// snapshot; Create re-checks under lock.
func (s *AvailabilityService) DayAvailability(ctx context.Context, restaurantID, date string) (DayAvailability, error) {
	if restaurantID == "" {
		return DayAvailability{}, domain.ErrInvalidID
	}
	if date == "" {
		return DayAvailability{}, domain.ErrInvalidDate
	}

	restaurant, err := s.restaurants.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return DayAvailability{}, err
	}
	existing, err := s.reservations.ListReservationsByDate(ctx, restaurant.ID, date)
	if err != nil {
		return DayAvailability{}, err
	}

	return DayAvailability{
		RestaurantID: restaurant.ID,
		Date:         date,
		Window:       restaurant.Window,
		FreeHours:    availability.FreeHours(restaurant.Window, existing),
	}, nil
}
