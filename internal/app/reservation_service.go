package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/cimillas/table-reservations/internal/availability"
	"github.com/cimillas/table-reservations/internal/clock"
	"github.com/cimillas/table-reservations/internal/domain"
)

type ReservationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetRestaurantForUpdate(ctx context.Context, restaurantID string) (domain.Restaurant, error)
	ListReservationsByDate(ctx context.Context, restaurantID, date string) ([]domain.Reservation, error)
	ListReservationsByRestaurant(ctx context.Context, restaurantID string) ([]domain.Reservation, error)
	CreateReservation(ctx context.Context, reservation domain.Reservation) error
}

// ReservationPublisher announces reservations once they are committed.
type ReservationPublisher interface {
	PublishReservationCreated(ctx context.Context, reservation domain.Reservation) error
}

type ReservationService struct {
	repo      ReservationRepository
	clock     clock.Clock
	publisher ReservationPublisher
	logger    *zap.Logger
}

func NewReservationService(repo ReservationRepository, clk clock.Clock, opts ...ReservationServiceOption) *ReservationService {
	svc := &ReservationService{
		repo:   repo,
		clock:  clk,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ReservationServiceOption func(*ReservationService)

// WithPublisher sends a reservation.created event after every successful create.
func WithPublisher(p ReservationPublisher) ReservationServiceOption {
	return func(s *ReservationService) {
		s.publisher = p
	}
}

func WithReservationLogger(l *zap.Logger) ReservationServiceOption {
	return func(s *ReservationService) {
		if l != nil {
			s.logger = l
		}
	}
}

type CreateReservationInput struct {
	Date      string
	StartHour int
	Duration  int
	PartySize int
}

func (in CreateReservationInput) request() domain.ReservationRequest {
	return domain.ReservationRequest{
		Date:      in.Date,
		StartHour: in.StartHour,
		Duration:  in.Duration,
		PartySize: in.PartySize,
	}
}

// Create books a table for the restaurant. The restaurant row stays locked
// from the availability read until the insert commits, so concurrent
// requests for the same restaurant are decided one after another.
func (s *ReservationService) Create(ctx context.Context, restaurantID string, in CreateReservationInput) (domain.Reservation, error) {
	if restaurantID == "" {
		return domain.Reservation{}, domain.ErrInvalidID
	}
	if in.Date == "" {
		return domain.Reservation{}, domain.ErrInvalidDate
	}
	if in.PartySize <= 0 {
		return domain.Reservation{}, domain.ErrInvalidPartySize
	}

	now := s.clock.Now()
	var result domain.Reservation

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		restaurant, err := s.repo.GetRestaurantForUpdate(txCtx, restaurantID)
		if err != nil {
			return err
		}

		existing, err := s.repo.ListReservationsByDate(txCtx, restaurantID, in.Date)
		if err != nil {
			return err
		}

		accepted, err := availability.CheckAndBuild(restaurant.Window, existing, in.request())
		if err != nil {
			return err
		}
		accepted.ID = newID()
		accepted.RestaurantID = restaurant.ID
		accepted.CreatedAt = now

		if err := s.repo.CreateReservation(txCtx, accepted); err != nil {
			return err
		}

		result = accepted
		return nil
	})
	if err != nil {
		s.logger.Debug("reservation rejected",
			zap.String("restaurant_id", restaurantID),
			zap.String("date", in.Date),
			zap.Int("start_hour", in.StartHour),
			zap.Int("duration", in.Duration),
			zap.Error(err),
		)
		return domain.Reservation{}, err
	}

	s.logger.Info("reservation created",
		zap.String("reservation_id", result.ID),
		zap.String("restaurant_id", result.RestaurantID),
		zap.String("date", result.Date),
		zap.Int("start_hour", result.StartHour),
		zap.Int("duration", result.Duration),
	)

	if s.publisher != nil {
		if err := s.publisher.PublishReservationCreated(ctx, result); err != nil {
			s.logger.Warn("publish reservation created",
				zap.String("reservation_id", result.ID),
				zap.Error(err),
			)
		}
	}

	return result, nil
}

func (s *ReservationService) ListByRestaurant(ctx context.Context, restaurantID string) ([]domain.Reservation, error) {
	if restaurantID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListReservationsByRestaurant(ctx, restaurantID)
}
