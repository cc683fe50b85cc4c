package notification

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/metrics"
)

const defaultTimeout = 5 * time.Second

// Publisher отправляет сериализованный заказ на внешний notification-endpoint
// HTTP POST-ом. Endpoint рекомендательный: его недоступность не должна ни
// блокировать, ни ломать оформление, поэтому любые ошибки транспорта
// (отказ соединения, таймаут, не-2xx статус) логируются и проглатываются.
type Publisher struct {
	endpointURL string
	client      *http.Client
	logger      *log.Entry
	metrics     *metrics.CheckoutMetrics
}

// NewPublisher создаёт publisher для заданного URL. Нулевой timeout
// заменяется значением по умолчанию.
func NewPublisher(endpointURL string, timeout time.Duration, m *metrics.CheckoutMetrics, logger *log.Entry) *Publisher {
	if logger == nil {
		logger = log.New().WithField("component", "notification-publisher")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Publisher{
		endpointURL: endpointURL,
		client:      &http.Client{Timeout: timeout},
		logger:      logger,
		metrics:     m,
	}
}

// Notify выполняет один POST с телом orderJSON. Ошибок не возвращает.
func (p *Publisher) Notify(ctx context.Context, orderJSON []byte) {
	if p.endpointURL == "" {
		p.logger.Debug("notification endpoint is not configured, skipping")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpointURL, bytes.NewReader(orderJSON))
	if err != nil {
		p.recordFailure(err, 0)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		p.recordFailure(err, 0)
		return
	}
	defer resp.Body.Close()
	// Тело ответа не интерпретируется, только статус.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		p.recordFailure(nil, resp.StatusCode)
		return
	}

	if p.metrics != nil {
		p.metrics.RecordNotificationPublished()
	}
	p.logger.WithField("status", resp.StatusCode).Debug("order notification posted")
}

func (p *Publisher) recordFailure(err error, status int) {
	if p.metrics != nil {
		p.metrics.RecordNotificationFailed()
	}
	entry := p.logger.WithField("url", p.endpointURL)
	if status != 0 {
		entry = entry.WithField("status", status)
	}
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Warn("order notification failed")
}

var _ domain.NotificationPublisher = (*Publisher)(nil)
