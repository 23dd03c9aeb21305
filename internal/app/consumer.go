package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-madrasah/internal/config"
	"go-madrasah/internal/events"
	"go-madrasah/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer applies advance repayments for locked payroll runs.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	inf, err := connectInfra(cfg, false, zap.L())
	if err != nil {
		return err
	}
	defer inf.Close()

	payrollService, _ := newPayrollService(inf, nil)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.PayrollLockedTopic,
		GroupID:        cfg.Kafka.GroupID + "-payroll-advances",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		consumer.ConsumePayrollLocked(ctx, reader, payrollService, logger)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()
	<-done

	return nil
}
