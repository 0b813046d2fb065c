package events

//go:generate go run go.uber.org/mock/mockgen -source=./admission.go -destination=./mocks/admission_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"

	"innkeep/config"
	"innkeep/infras/kafka"
)

// AdmissionEvent is published whenever a join request is created or
// decided. Downstream consumers drive notification delivery from it.
type AdmissionEvent struct {
	RequestID  string    `json:"request_id"`
	HotelID    string    `json:"hotel_id"`
	UserID     string    `json:"user_id"`
	Status     string    `json:"status"`
	Role       string    `json:"role,omitempty"`
	DecidedBy  string    `json:"decided_by,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type AdmissionNotifier interface {
	NotifyAdmission(ctx context.Context, event AdmissionEvent) error
}

type admissionNotifierImpl struct {
	client kafka.Client
	cfg    *config.Config
}

func NewAdmissionNotifier(client kafka.Client, cfg *config.Config) AdmissionNotifier {
	return &admissionNotifierImpl{
		client: client,
		cfg:    cfg,
	}
}

func (n *admissionNotifierImpl) NotifyAdmission(ctx context.Context, event AdmissionEvent) error {
	message := kafka.Message{
		Key:   event.RequestID,
		Value: event,
	}

	if err := n.client.SendMessages(ctx, n.cfg.Kafka.Topics.JoinRequests, message); err != nil {
		return fmt.Errorf("failed to publish admission event: %w", err)
	}

	return nil
}

// RunAdmissionConsumer drains the admission topic until the context is
// cancelled. Delivery side effects (push, mail) hang off this loop.
func RunAdmissionConsumer(ctx context.Context, client kafka.Client, cfg *config.Config) {
	client.Consume(ctx, cfg.Kafka.ConsumerGroup, cfg.Kafka.Topics.JoinRequests, func(message kafkaGo.Message) {
		decoded, err := kafka.DecodeKafkaMessage[AdmissionEvent](message)
		if err != nil {
			log.Error().Err(err).Msg("failed to decode admission event")

			return
		}

		event, ok := decoded.Value.(AdmissionEvent)
		if !ok {
			log.Error().Str("key", decoded.Key).Msg("unexpected admission event payload")

			return
		}

		log.Info().
			Str("requestID", event.RequestID).
			Str("hotelID", event.HotelID).
			Str("userID", event.UserID).
			Str("status", event.Status).
			Msg("admission event received")
	})
}
