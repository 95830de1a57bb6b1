// Command eventlog tails the ledger's Redis event streams and prints each
// event as it arrives. It joins a consumer group, so several instances share
// the load and unacknowledged events survive a restart.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/eaglebank/ledger/shared/config"
	"github.com/eaglebank/ledger/shared/events"
	redisClient "github.com/eaglebank/ledger/shared/redis"
)

func main() {
	cfg := config.Load(config.Defaults{})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redis, err := redisClient.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	hostname, _ := os.Hostname()
	subscriber := events.NewSubscriber(redis.Client, events.SubscriberConfig{
		Group:    getEnv("EVENTLOG_GROUP", "ledger-eventlog"),
		Consumer: getEnv("EVENTLOG_CONSUMER", hostname),
		Streams:  []string{events.AccountEventsStream, events.TransactionEventsStream},
		Handler:  printEvent,
	})
	if err := subscriber.Start(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("Subscriber stopped: %v", err)
	}
}

func printEvent(_ context.Context, stream string, event events.Event) error {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return err
	}
	log.Printf("%s %s %s %s", event.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"), stream, event.Type, data)
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
