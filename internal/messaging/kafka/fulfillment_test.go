package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"
)

func newTestPublisher(producer sarama.SyncProducer, producerErr error) *FulfillmentPublisher {
	return &FulfillmentPublisher{
		brokers: []string{"localhost:9092"},
		topic:   "checkout.orders",
		logger:  log.WithField("component", "fulfillment-publisher-test"),
		newProducer: func([]string) (sarama.SyncProducer, error) {
			if producerErr != nil {
				return nil, producerErr
			}
			return producer, nil
		},
	}
}

func TestPublish_Success(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndSucceed()

	publisher := newTestPublisher(mockProducer, nil)
	publisher.Publish(context.Background(), []byte(`{"id":"order-1"}`))

	// Publish закрывает producer сам; повторный Close у mock вернул бы
	// ошибку невыполненных ожиданий, если бы отправки не было.
}

func TestPublish_SendFailureSwallowed(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher := newTestPublisher(mockProducer, nil)
	// Сбой отправки не должен ни паниковать, ни возвращать ошибку;
	// соединение закрывается внутри Publish и при сбое.
	publisher.Publish(context.Background(), []byte(`{"id":"order-1"}`))
}

func TestPublish_ProducerCreateFailureSwallowed(t *testing.T) {
	publisher := newTestPublisher(nil, errors.New("no brokers available"))
	publisher.Publish(context.Background(), []byte(`{"id":"order-1"}`))
}

func TestPublish_MessageContent(t *testing.T) {
	payload := []byte(`{"id":"order-1","buyer_id":"b1"}`)

	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(got []byte) error {
		if string(got) != string(payload) {
			return errors.New("message value does not match the order payload")
		}
		return nil
	})

	publisher := newTestPublisher(mockProducer, nil)
	publisher.Publish(context.Background(), payload)
}
