package app

import (
	"os"
	"strconv"
	"time"
)

// StorageDriver задаёт тип хранилища корзин, каталога и заказов.
type StorageDriver string

const (
	StorageDriverMemory   StorageDriver = "memory"
	StorageDriverPostgres StorageDriver = "postgres"
)

// Config описывает настройки запуска сервиса. Структура неизменяема после
// старта и передаётся компонентам явно, без глобального состояния.
type Config struct {
	// HTTPAddr — адрес публичного API.
	HTTPAddr string
	// MetricsAddr — адрес HTTP-сервера метрик и health-проб.
	MetricsAddr string

	StorageDriver       StorageDriver
	PostgresDSN         string
	PostgresAutoMigrate bool

	// KafkaBrokers — адреса брокеров через запятую; пустое значение
	// отключает отправку в очередь склада.
	KafkaBrokers string
	// FulfillmentTopic — имя очереди склада.
	FulfillmentTopic string

	// NotificationURL — endpoint для POST-а оформленного заказа;
	// пустое значение отключает уведомления.
	NotificationURL string
	// NotificationTimeout — таймаут одного POST-а.
	NotificationTimeout time.Duration

	// PictureBaseURL — базовый адрес для сборки URI картинок каталога.
	PictureBaseURL string
}

// DefaultConfig возвращает конфигурацию для локального запуска.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:            ":8080",
		MetricsAddr:         ":9090",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		FulfillmentTopic:    "checkout.orders",
		NotificationTimeout: 5 * time.Second,
	}
}

// ConfigFromEnv формирует конфигурацию, позволяя переопределить значения
// по умолчанию через переменные окружения CHECKOUT_*.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("CHECKOUT_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("CHECKOUT_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("CHECKOUT_STORAGE_DRIVER"); v != "" {
		cfg.StorageDriver = StorageDriver(v)
	}
	if v := os.Getenv("CHECKOUT_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("CHECKOUT_POSTGRES_AUTO_MIGRATE"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.PostgresAutoMigrate = parsed
		}
	}
	if v := os.Getenv("CHECKOUT_KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = v
	}
	if v := os.Getenv("CHECKOUT_FULFILLMENT_TOPIC"); v != "" {
		cfg.FulfillmentTopic = v
	}
	if v := os.Getenv("CHECKOUT_NOTIFICATION_URL"); v != "" {
		cfg.NotificationURL = v
	}
	if v := os.Getenv("CHECKOUT_NOTIFICATION_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			cfg.NotificationTimeout = parsed
		}
	}
	if v := os.Getenv("CHECKOUT_PICTURE_BASE_URL"); v != "" {
		cfg.PictureBaseURL = v
	}

	return cfg
}
