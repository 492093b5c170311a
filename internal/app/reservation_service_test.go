package app

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cimillas/table-reservations/internal/clock"
	"github.com/cimillas/table-reservations/internal/domain"
)

func TestReservationService_Create(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	restaurant := domain.Restaurant{
		ID:     "rest-1",
		Name:   "Bistro",
		Window: domain.OperatingWindow{OpenHour: 9, CloseHour: 22},
	}
	booked := domain.Reservation{
		ID:           "res-1",
		RestaurantID: "rest-1",
		Date:         "2025-03-01",
		StartHour:    10,
		Duration:     2,
		PartySize:    2,
	}

	makeSvc := func(reservations []domain.Reservation, opts ...ReservationServiceOption) (*ReservationService, *fakeReservationRepo) {
		repo := newFakeReservationRepo([]domain.Restaurant{restaurant}, reservations)
		return NewReservationService(repo, clock.NewFixed(now), opts...), repo
	}

	t.Run("creates reservation when slots are free", func(t *testing.T) {
		svc, repo := makeSvc([]domain.Reservation{booked})

		got, err := svc.Create(context.Background(), "rest-1", CreateReservationInput{
			Date:      "2025-03-01",
			StartHour: 12,
			Duration:  2,
			PartySize: 4,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.ID == "" {
			t.Fatalf("expected reservation ID to be set")
		}
		if got.RestaurantID != "rest-1" {
			t.Fatalf("expected restaurant rest-1, got %s", got.RestaurantID)
		}
		if got.CreatedAt != now {
			t.Fatalf("expected created_at %v, got %v", now, got.CreatedAt)
		}
		if got.StartHour != 12 || got.Duration != 2 || got.PartySize != 4 || got.Date != "2025-03-01" {
			t.Fatalf("unexpected reservation: %+v", got)
		}
		if len(repo.reservations) != 2 {
			t.Fatalf("expected 2 reservations in repo, got %d", len(repo.reservations))
		}
		if repo.txCount != 1 {
			t.Fatalf("expected create to run in one transaction, got %d", repo.txCount)
		}
	})

	t.Run("rejects overlapping reservation", func(t *testing.T) {
		svc, repo := makeSvc([]domain.Reservation{booked})

		_, err := svc.Create(context.Background(), "rest-1", CreateReservationInput{
			Date:      "2025-03-01",
			StartHour: 11,
			Duration:  1,
			PartySize: 2,
		})
		if err != domain.ErrSlotConflict {
			t.Fatalf("expected ErrSlotConflict, got %v", err)
		}
		if len(repo.reservations) != 1 {
			t.Fatalf("expected reservations unchanged on rejection, got %d", len(repo.reservations))
		}
	})

	t.Run("bookings on other dates and restaurants do not conflict", func(t *testing.T) {
		otherDate := booked
		otherDate.ID = "res-2"
		otherDate.Date = "2025-03-02"
		otherRestaurant := booked
		otherRestaurant.ID = "res-3"
		otherRestaurant.RestaurantID = "rest-2"

		svc, _ := makeSvc([]domain.Reservation{otherDate, otherRestaurant})

		_, err := svc.Create(context.Background(), "rest-1", CreateReservationInput{
			Date:      "2025-03-01",
			StartHour: 10,
			Duration:  2,
			PartySize: 2,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("closing hour rules are enforced", func(t *testing.T) {
		svc, _ := makeSvc(nil)
		ctx := context.Background()

		cases := []struct {
			in   CreateReservationInput
			want error
		}{
			{CreateReservationInput{Date: "d", StartHour: 8, Duration: 1, PartySize: 2}, domain.ErrOutsideOpeningHours},
			{CreateReservationInput{Date: "d", StartHour: 22, Duration: 1, PartySize: 2}, domain.ErrAfterClosingHours},
			{CreateReservationInput{Date: "d", StartHour: 9, Duration: 14, PartySize: 2}, domain.ErrExceedsClosingTime},
			{CreateReservationInput{Date: "d", StartHour: 9, Duration: 0, PartySize: 2}, domain.ErrInvalidDuration},
			{CreateReservationInput{Date: "d", StartHour: 9, Duration: 13, PartySize: 2}, nil},
		}
		for _, c := range cases {
			_, err := svc.Create(ctx, "rest-1", c.in)
			if err != c.want {
				t.Fatalf("input %+v: expected %v, got %v", c.in, c.want, err)
			}
		}
	})

	t.Run("unknown restaurant fails before availability is read", func(t *testing.T) {
		svc, repo := makeSvc([]domain.Reservation{booked})

		_, err := svc.Create(context.Background(), "missing", CreateReservationInput{
			Date:      "2025-03-01",
			StartHour: 8,
			Duration:  0,
			PartySize: 2,
		})
		if err != domain.ErrRestaurantNotFound {
			t.Fatalf("expected ErrRestaurantNotFound, got %v", err)
		}
		if repo.listByDateCalls != 0 {
			t.Fatalf("expected no reservation lookup, got %d", repo.listByDateCalls)
		}
	})

	t.Run("validates input", func(t *testing.T) {
		svc, _ := makeSvc(nil)
		ctx := context.Background()

		_, err := svc.Create(ctx, "", CreateReservationInput{Date: "d", StartHour: 10, Duration: 1, PartySize: 2})
		if err != domain.ErrInvalidID {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
		_, err = svc.Create(ctx, "rest-1", CreateReservationInput{Date: "", StartHour: 10, Duration: 1, PartySize: 2})
		if err != domain.ErrInvalidDate {
			t.Fatalf("expected ErrInvalidDate, got %v", err)
		}
		_, err = svc.Create(ctx, "rest-1", CreateReservationInput{Date: "d", StartHour: 10, Duration: 1, PartySize: 0})
		if err != domain.ErrInvalidPartySize {
			t.Fatalf("expected ErrInvalidPartySize, got %v", err)
		}
	})

	t.Run("storage slot conflict is returned", func(t *testing.T) {
		svc, repo := makeSvc(nil)
		repo.createErr = domain.ErrSlotConflict

		_, err := svc.Create(context.Background(), "rest-1", CreateReservationInput{
			Date:      "2025-03-01",
			StartHour: 10,
			Duration:  1,
			PartySize: 2,
		})
		if err != domain.ErrSlotConflict {
			t.Fatalf("expected ErrSlotConflict, got %v", err)
		}
	})

	t.Run("publishes committed reservations only", func(t *testing.T) {
		pub := &fakePublisher{}
		svc, _ := makeSvc([]domain.Reservation{booked}, WithPublisher(pub))
		ctx := context.Background()

		created, err := svc.Create(ctx, "rest-1", CreateReservationInput{Date: "2025-03-01", StartHour: 14, Duration: 1, PartySize: 2})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := svc.Create(ctx, "rest-1", CreateReservationInput{Date: "2025-03-01", StartHour: 10, Duration: 1, PartySize: 2}); err != domain.ErrSlotConflict {
			t.Fatalf("expected ErrSlotConflict, got %v", err)
		}

		if len(pub.published) != 1 {
			t.Fatalf("expected 1 published reservation, got %d", len(pub.published))
		}
		if pub.published[0].ID != created.ID {
			t.Fatalf("expected published %s, got %s", created.ID, pub.published[0].ID)
		}
	})

	t.Run("publish failure is logged and not returned", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		pub := &fakePublisher{err: errors.New("broker down")}
		svc, repo := makeSvc(nil, WithPublisher(pub), WithReservationLogger(zap.New(core)))

		_, err := svc.Create(context.Background(), "rest-1", CreateReservationInput{Date: "2025-03-01", StartHour: 9, Duration: 1, PartySize: 2})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(repo.reservations) != 1 {
			t.Fatalf("expected reservation persisted, got %d", len(repo.reservations))
		}
		if logs.FilterMessage("reservation created").Len() != 1 {
			t.Fatalf("expected created log entry, got %v", logs.All())
		}
		if logs.FilterMessage("publish reservation created").Len() != 1 {
			t.Fatalf("expected publish warning, got %v", logs.All())
		}
	})
}

func TestReservationService_ListByRestaurant(t *testing.T) {
	t.Parallel()

	repo := newFakeReservationRepo(nil, []domain.Reservation{
		{ID: "b", RestaurantID: "rest-1", Date: "2025-03-02", StartHour: 9, Duration: 1},
		{ID: "a", RestaurantID: "rest-1", Date: "2025-03-01", StartHour: 12, Duration: 1},
		{ID: "c", RestaurantID: "rest-2", Date: "2025-03-01", StartHour: 12, Duration: 1},
	})
	svc := NewReservationService(repo, clock.NewFixed(time.Now()))

	got, err := svc.ListByRestaurant(context.Background(), "rest-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("unexpected reservations: %+v", got)
	}

	got, err = svc.ListByRestaurant(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("expected no error for unknown restaurant, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %+v", got)
	}

	if _, err := svc.ListByRestaurant(context.Background(), ""); err != domain.ErrInvalidID {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

type fakeReservationRepo struct {
	restaurants  map[string]domain.Restaurant
	reservations []domain.Reservation

	createErr       error
	txCount         int
	listByDateCalls int
}

func newFakeReservationRepo(restaurants []domain.Restaurant, reservations []domain.Reservation) *fakeReservationRepo {
	r := make(map[string]domain.Restaurant)
	for _, restaurant := range restaurants {
		r[restaurant.ID] = restaurant
	}
	return &fakeReservationRepo{
		restaurants:  r,
		reservations: append([]domain.Reservation{}, reservations...),
	}
}

func (f *fakeReservationRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.txCount++
	return fn(ctx)
}

func (f *fakeReservationRepo) GetRestaurantForUpdate(_ context.Context, id string) (domain.Restaurant, error) {
	restaurant, ok := f.restaurants[id]
	if !ok {
		return domain.Restaurant{}, domain.ErrRestaurantNotFound
	}
	return restaurant, nil
}

func (f *fakeReservationRepo) GetRestaurant(ctx context.Context, id string) (domain.Restaurant, error) {
	return f.GetRestaurantForUpdate(ctx, id)
}

func (f *fakeReservationRepo) ListReservationsByDate(_ context.Context, restaurantID, date string) ([]domain.Reservation, error) {
	f.listByDateCalls++
	var out []domain.Reservation
	for _, r := range f.reservations {
		if r.RestaurantID == restaurantID && r.Date == date {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) ListReservationsByRestaurant(_ context.Context, restaurantID string) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, r := range f.reservations {
		if r.RestaurantID == restaurantID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartHour < out[j].StartHour
	})
	return out, nil
}

func (f *fakeReservationRepo) CreateReservation(_ context.Context, reservation domain.Reservation) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.reservations = append(f.reservations, reservation)
	return nil
}

type fakePublisher struct {
	published []domain.Reservation
	err       error
}

func (f *fakePublisher) PublishReservationCreated(_ context.Context, reservation domain.Reservation) error {
	f.published = append(f.published, reservation)
	return f.err
}
