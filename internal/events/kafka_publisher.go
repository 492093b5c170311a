// Package events publishes reservation lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/cimillas/table-reservations/internal/domain"
)

const (
	entityReservation = "reservation"
	actionCreated     = "created"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Event is the envelope written to the reservations topic.
type Event struct {
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId"`
	Topic      string            `json:"topic"`
	Metadata   map[string]string `json:"metadata"`
	Data       interface{}       `json:"data"`
}

type reservationData struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	Date         string    `json:"date"`
	StartHour    int       `json:"start_hour"`
	Duration     int       `json:"duration"`
	PartySize    int       `json:"party_size"`
	CreatedAt    time.Time `json:"created_at"`
}

type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaPublisher writes to topic on brokers. Messages are keyed by
// restaurant so one restaurant's events stay ordered within a partition.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}, topic)
}

func newKafkaPublisher(w messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic}
}

func (p *KafkaPublisher) PublishReservationCreated(ctx context.Context, r domain.Reservation) error {
	event := Event{
		Entity:     entityReservation,
		Action:     actionCreated,
		ResourceID: r.ID,
		Topic:      entityReservation + "." + actionCreated,
		Metadata: map[string]string{
			"restaurantId": r.RestaurantID,
			"date":         r.Date,
		},
		Data: reservationData{
			ID:           r.ID,
			RestaurantID: r.RestaurantID,
			Date:         r.Date,
			StartHour:    r.StartHour,
			Duration:     r.Duration,
			PartySize:    r.PartySize,
			CreatedAt:    r.CreatedAt,
		},
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode reservation event: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(r.RestaurantID),
		Value: value,
		Time:  r.CreatedAt,
	}); err != nil {
		return fmt.Errorf("write reservation event to %s: %w", p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
