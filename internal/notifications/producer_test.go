package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaPublisher_KeysByBooking(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	publisher := NewKafkaPublisherWithProducer(producer, "booking-events")
	defer publisher.Close()

	event := NewBookingEvent(EventBookingConfirmed, uuid.New())
	event.Guests = 2

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "booking-events" {
			return errors.New("wrong topic")
		}
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != event.BookingID.String() {
			return errors.New("message not keyed by booking id")
		}
		value, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		decoded, err := ParseBookingEvent(value)
		if err != nil {
			return err
		}
		if decoded.Type != EventBookingConfirmed || decoded.Guests != 2 {
			return errors.New("payload mismatch")
		}
		return nil
	})

	require.NoError(t, publisher.Publish(context.Background(), event))
}

func TestKafkaPublisher_Errors(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	publisher := NewKafkaPublisherWithProducer(producer, "booking-events")
	defer publisher.Close()

	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	err := publisher.Publish(context.Background(), NewBookingEvent(EventBookingCreated, uuid.New()))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)

	err = publisher.Publish(context.Background(), NewBookingEvent("booking.unknown", uuid.New()))
	assert.Error(t, err, "unknown types are rejected before sending")
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), NewBookingEvent(EventBookingCreated, uuid.New())))
	assert.NoError(t, p.Close())
}
