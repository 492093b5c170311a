package app

import (
	"context"
	"strings"

	"github.com/cimillas/table-reservations/internal/clock"
	"github.com/cimillas/table-reservations/internal/domain"
)

type RestaurantRepository interface {
	CreateRestaurant(ctx context.Context, restaurant domain.Restaurant) error
	GetRestaurant(ctx context.Context, id string) (domain.Restaurant, error)
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
}

type RestaurantService struct {
	repo  RestaurantRepository
	clock clock.Clock
}

func NewRestaurantService(repo RestaurantRepository, clk clock.Clock) *RestaurantService {
	return &RestaurantService{
		repo:  repo,
		clock: clk,
	}
}

type CreateRestaurantInput struct {
	Name      string
	OpenHour  int
	CloseHour int
}

func (s *RestaurantService) CreateRestaurant(ctx context.Context, in CreateRestaurantInput) (domain.Restaurant, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Restaurant{}, domain.ErrRestaurantNameRequired
	}
	window := domain.OperatingWindow{OpenHour: in.OpenHour, CloseHour: in.CloseHour}
	if !window.Valid() {
		return domain.Restaurant{}, domain.ErrInvalidOperatingHours
	}

	restaurant := domain.Restaurant{
		ID:        newID(),
		Name:      name,
		Window:    window,
		CreatedAt: s.clock.Now(),
	}

	if err := s.repo.CreateRestaurant(ctx, restaurant); err != nil {
		return domain.Restaurant{}, err
	}
	return restaurant, nil
}

func (s *RestaurantService) GetRestaurant(ctx context.Context, id string) (domain.Restaurant, error) {
	if id == "" {
		return domain.Restaurant{}, domain.ErrInvalidID
	}
	return s.repo.GetRestaurant(ctx, id)
}

func (s *RestaurantService) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	return s.repo.ListRestaurants(ctx)
}
