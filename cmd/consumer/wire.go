//go:build wireinject
// +build wireinject

package main

import (
	"github.com/nghiakieran/ute-shop-sub000/cmd/consumer/handlers"
	"github.com/nghiakieran/ute-shop-sub000/internal/conf"
	"github.com/nghiakieran/ute-shop-sub000/internal/logger"
	"github.com/nghiakieran/ute-shop-sub000/internal/mq/rabbitmq"

	"github.com/google/wire"
)

// provideHandlers collects all individual MessageHandlers into a slice.
func provideHandlers(notificationHandler *handlers.NotificationHandler) []handlers.MessageHandler {
	return []handlers.MessageHandler{
		notificationHandler,
	}
}

// InitializeConsumerApp creates the consumer application and its dependencies.
func InitializeConsumerApp(appConfig *conf.AppConfig) (*ConsumerApp, func(), error) {
	wire.Build(
		wire.FieldsOf(new(*conf.AppConfig), "LogConfig", "RabbitMQConfig"),

		logger.NewLogger,
		rabbitmq.NewConsumer,

		handlers.NewNotificationHandler,
		provideHandlers,

		NewConsumerApp,
	)
	return nil, nil, nil
}
