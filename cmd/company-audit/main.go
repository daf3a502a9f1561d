// Command company-audit tails the company event topic and writes every
// change to the structured log.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/companies/internal/company/config"
	"github.com/gartstein/companies/internal/company/events"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := events.NewConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup, cfg.Topic, logger)
	consumer.RegisterHandler(auditEvent(logger.Named("audit")))

	logger.Info("Tailing company events",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.Topic),
		zap.String("group", cfg.ConsumerGroup),
	)
	<-consumer.Start(ctx)
	consumer.Close()
	logger.Info("Audit stopped")
}

// auditEvent logs one line per event with the caller that caused it.
// Purge events carry no company.
func auditEvent(logger *zap.Logger) func(context.Context, events.Event) error {
	return func(_ context.Context, event events.Event) error {
		actor := event.Actor
		if actor == "" {
			actor = "anonymous"
		}
		fields := []zap.Field{
			zap.String("event_type", string(event.Type)),
			zap.String("key", event.Key()),
			zap.String("actor", actor),
		}
		if event.Company != nil {
			fields = append(fields,
				zap.String("company", event.Company.String()),
				zap.Strings("nicknames", event.Company.Nicknames),
				zap.Int64("updated_at", event.Company.UpdatedAt),
			)
		}
		logger.Info("Company event", fields...)
		return nil
	}
}
