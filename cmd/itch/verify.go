package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ismaiel54/itch50-decoder/internal/msg"
	"github.com/ismaiel54/itch50-decoder/internal/pipeline"
)

func verifyCmd(g *globalOptions) *cobra.Command {
	var (
		duration time.Duration
		topic    string
		brokers  string
		group    string
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Consume the ITCH topic and check per-instrument ordering",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.setup("itch-verify")
			if err != nil {
				return err
			}
			defer logger.Sync()

			if cmd.Flags().Changed("topic") {
				cfg.Topic = topic
			}
			if cmd.Flags().Changed("brokers") {
				cfg.KafkaBrokers = brokers
			}

			logger.Info("starting verifier",
				zap.Duration("duration", duration),
				zap.Strings("brokers", cfg.Brokers()),
				zap.String("topic", cfg.Topic),
				zap.String("group", group),
			)

			consumer, err := msg.NewConsumer(msg.Config{
				Brokers:  cfg.Brokers(),
				ClientID: cfg.KafkaClientID,
			}, group, []string{cfg.Topic}, logger)
			if err != nil {
				return fmt.Errorf("failed to create consumer: %w", err)
			}
			defer consumer.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), duration)
			defer cancel()

			verifier := pipeline.NewVerifier()
			err = consumer.Run(ctx, func(ctx context.Context, rec msg.Record) error {
				verifier.Observe(rec)
				return nil
			})
			if err != nil && !errors.Is(err, context.DeadlineExceeded) {
				logger.Error("consumer error", zap.Error(err))
			}

			report := verifier.Report()
			report.Print(cmd.OutOrStdout())
			if !report.Passed() {
				return fmt.Errorf("verification failed: %d out of order, %d timestamp regressions, %d malformed",
					report.OutOfOrder, report.Regressions, report.Malformed)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&duration, "duration", 30*time.Second, "How long to consume before reporting")
	cmd.Flags().StringVar(&topic, "topic", msg.TopicMessages, "Topic to consume")
	cmd.Flags().StringVar(&brokers, "brokers", "", "Kafka broker addresses (comma-separated)")
	cmd.Flags().StringVar(&group, "group", "itch-verify", "Consumer group")
	return cmd
}
