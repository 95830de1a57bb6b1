package events

import (
	"fmt"

	"github.com/eaglebank/ledger/shared/config"
	"github.com/redis/go-redis/v9"
)

const (
	BrokerRedis    = "redis"
	BrokerNATS     = "nats"
	BrokerKafka    = "kafka"
	BrokerRabbitMQ = "rabbitmq"
	BrokerNone     = "none"
)

// NewPublisher builds the publisher selected by cfg.EventBroker. The Redis
// client is only used for the redis broker.
func NewPublisher(cfg config.Config, rdb *redis.Client, clientName string) (Publisher, error) {
	switch cfg.EventBroker {
	case BrokerRedis, "":
		return NewRedisPublisher(rdb), nil
	case BrokerNATS:
		return NewNATSPublisher(cfg.NATSURL, clientName)
	case BrokerKafka:
		return NewKafkaPublisher(cfg.KafkaBrokers), nil
	case BrokerRabbitMQ, "amqp":
		return NewAMQPPublisher(cfg.AMQPURL)
	case BrokerNone:
		return NopPublisher{}, nil
	default:
		return nil, fmt.Errorf("unknown event broker %q", cfg.EventBroker)
	}
}
