package kafka

import (
	"strings"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/rocketr/rocketr-ipn/config"
	"github.com/rocketr/rocketr-ipn/pkg/applogger"
)

func NewProducer() *kafka.Producer {
	c := config.Get()

	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": strings.Join(c.Kafka.Brokers, ","),
	})
	if err != nil {
		applogger.GetLogrus().WithError(err).Fatal("unable to create kafka producer")
	}

	return producer
}
