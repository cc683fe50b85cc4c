package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/metrics"
)

// FulfillmentPublisher отправляет сериализованный заказ в очередь склада.
// Подключение к брокерам открывается на время одного вызова Publish и
// закрывается на любом пути выхода: пул соединений между вызовами не
// используется, изоляция важнее стоимости установки соединения.
// Сбой отправки логируется и проглатывается; повторов и дедупликации нет —
// не более одной попытки доставки на вызов.
type FulfillmentPublisher struct {
	brokers []string
	topic   string
	logger  *log.Entry
	metrics *metrics.CheckoutMetrics

	// newProducer подменяется в тестах, чтобы не поднимать брокер.
	newProducer func(brokers []string) (sarama.SyncProducer, error)
}

// NewFulfillmentPublisher создаёт publisher для заданных брокеров и топика.
func NewFulfillmentPublisher(brokers []string, topic string, m *metrics.CheckoutMetrics, logger *log.Entry) *FulfillmentPublisher {
	if logger == nil {
		logger = log.New().WithField("component", "fulfillment-publisher")
	}
	return &FulfillmentPublisher{
		brokers:     brokers,
		topic:       topic,
		logger:      logger,
		metrics:     m,
		newProducer: newSyncProducer,
	}
}

// newSyncProducer настраивает sync producer Kafka.
func newSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll // Wait for all in-sync replicas
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1 // Для идемпотентности

	return sarama.NewSyncProducer(brokers, config)
}

// Publish отправляет ровно одно сообщение с телом orderJSON в настроенный
// топик. Ошибок не возвращает.
func (p *FulfillmentPublisher) Publish(_ context.Context, orderJSON []byte) {
	producer, err := p.newProducer(p.brokers)
	if err != nil {
		p.recordFailure(err)
		return
	}
	// Соединение закрывается независимо от исхода отправки.
	defer func() {
		if closeErr := producer.Close(); closeErr != nil {
			p.logger.WithError(closeErr).Warn("failed to close fulfillment producer")
		}
	}()

	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Value:     sarama.ByteEncoder(orderJSON),
		Timestamp: time.Now(),
	}

	partition, offset, err := producer.SendMessage(msg)
	if err != nil {
		p.recordFailure(err)
		return
	}

	if p.metrics != nil {
		p.metrics.RecordFulfillmentPublished()
	}
	p.logger.WithFields(log.Fields{
		"topic":     p.topic,
		"partition": partition,
		"offset":    offset,
	}).Debug("order sent to fulfillment queue")
}

func (p *FulfillmentPublisher) recordFailure(err error) {
	if p.metrics != nil {
		p.metrics.RecordFulfillmentFailed()
	}
	p.logger.WithError(err).WithField("topic", p.topic).Warn("failed to send order to fulfillment queue")
}

var _ domain.FulfillmentPublisher = (*FulfillmentPublisher)(nil)
