package pubsub

import (
	"context"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/sirupsen/logrus"
)

type Publisher interface {
	Publish(ctx context.Context, topic string, key string, headers map[string]string, message []byte) error
	Close()
}

type confluentKafkaPublisher struct {
	logger   *logrus.Logger
	producer *kafka.Producer
}

func PublisherFromConfluentKafkaProducer(logger *logrus.Logger, producer *kafka.Producer) Publisher {
	return &confluentKafkaPublisher{
		logger:   logger,
		producer: producer,
	}
}

// Publish implements Publisher.
func (p *confluentKafkaPublisher) Publish(ctx context.Context, topic string, key string, headers map[string]string, message []byte) error {
	kmsg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &topic,
			Partition: kafka.PartitionAny,
		},
		Key:   []byte(key),
		Value: message,
	}

	for k, v := range headers {
		kmsg.Headers = append(kmsg.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	if err := p.producer.Produce(kmsg, nil); err != nil {
		p.logger.WithContext(ctx).WithError(err).Error()
		return err
	}

	return nil
}

// Close implements Publisher.
func (p *confluentKafkaPublisher) Close() {
	p.producer.Flush(15 * 1000)
	p.producer.Close()
}
