package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/ismaiel54/itch50-decoder/internal/chaos"
	"github.com/ismaiel54/itch50-decoder/internal/config"
	"github.com/ismaiel54/itch50-decoder/internal/filter"
	"github.com/ismaiel54/itch50-decoder/internal/msg"
	"github.com/ismaiel54/itch50-decoder/internal/observability"
	"github.com/ismaiel54/itch50-decoder/internal/pipeline"
	"github.com/ismaiel54/itch50-decoder/internal/store"
)

func publishCmd(g *globalOptions) *cobra.Command {
	var (
		mode      string
		topic     string
		brokers   string
		storePath string
		expr      string
		httpPort  int
		grpcPort  int
	)
	cmd := &cobra.Command{
		Use:   "publish <file>",
		Short: "Publish every record of a capture to Kafka as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.setup("itch-publish")
			if err != nil {
				return err
			}
			defer logger.Sync()

			flags := cmd.Flags()
			if flags.Changed("topic") {
				cfg.Topic = topic
			}
			if flags.Changed("brokers") {
				cfg.KafkaBrokers = brokers
			}
			if flags.Changed("store") {
				cfg.StorePath = storePath
			}
			if flags.Changed("http-port") {
				cfg.HTTPPort = httpPort
			}
			if flags.Changed("grpc-port") {
				cfg.GRPCPort = grpcPort
			}
			m, err := decodeMode(cmd, cfg, mode)
			if err != nil {
				return err
			}
			f, err := filter.Compile(expr)
			if err != nil {
				return err
			}

			logger.Info("starting publisher",
				zap.String("path", args[0]),
				zap.Int("grpc_port", cfg.GRPCPort),
				zap.Int("http_port", cfg.HTTPPort),
				zap.String("kafka_brokers", cfg.KafkaBrokers),
				zap.String("topic", cfg.Topic),
				zap.String("store_path", cfg.StorePath),
			)

			file, data, err := openCapture(args[0])
			if err != nil {
				return err
			}
			defer closeCapture(file, logger)

			st, err := store.Open(cfg.StorePath)
			if err != nil {
				return err
			}
			defer st.Close()

			producer, err := msg.NewProducer(msg.Config{
				Brokers:            cfg.Brokers(),
				ClientID:           cfg.KafkaClientID,
				MaxBufferedRecords: cfg.MaxInFlight,
			}, logger)
			if err != nil {
				return fmt.Errorf("failed to create kafka producer: %w", err)
			}
			defer producer.Close()

			var sink pipeline.Producer = producer
			if chaosCfg := chaos.LoadConfig(); chaosCfg.Enabled {
				c, err := chaos.New(chaosCfg, logger)
				if err != nil {
					return err
				}
				logger.Warn("chaos enabled for publish",
					zap.Int("drop_pct", chaosCfg.DropPct),
					zap.Int("delay_ms_min", chaosCfg.DelayMsMin),
					zap.Int("delay_ms_max", chaosCfg.DelayMsMax),
					zap.Int64("after_records", chaosCfg.AfterRecords),
				)
				sink = chaos.WrapProducer(producer, c)
			}

			healthChecker := observability.NewHealthChecker(logger)
			grpcServer, err := serve(cfg, healthChecker, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			if err := producer.Ping(pingCtx); err != nil {
				logger.Warn("kafka not reachable yet", zap.Error(err))
				healthChecker.SetKafkaReady(false)
			} else {
				healthChecker.SetKafkaReady(true)
			}
			cancel()

			publisher := pipeline.NewPublisher(sink, st, pipeline.Options{
				Topic:           cfg.Topic,
				Mode:            m,
				Filter:          f,
				CheckpointEvery: cfg.CheckpointEvery,
			}, logger)
			healthChecker.SetProgress(publisher.Progress())

			res, runErr := publisher.Publish(ctx, args[0], data)

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := healthChecker.Shutdown(shutdownCtx); err != nil {
				logger.Error("error shutting down health checker", zap.Error(err))
			}
			grpcServer.GracefulStop()

			event := msg.SessionEvent{
				Event:        msg.SessionCompleted,
				SessionID:    res.SessionID,
				Path:         args[0],
				Topic:        cfg.Topic,
				Resumed:      res.Resumed,
				Decoded:      res.Decoded,
				Published:    res.Published,
				TsUnixMillis: time.Now().UnixMilli(),
			}
			if runErr != nil {
				event.Event = msg.SessionFailed
				event.Error = runErr.Error()
			}
			if err := producer.ProduceJSON(context.Background(), msg.TopicControl, res.SessionID, event); err != nil {
				logger.Warn("failed to announce session", zap.String("session_id", res.SessionID), zap.Error(err))
			}

			if runErr != nil {
				return fatalOnFraming(logger, args[0], runErr)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "session %s: %d decoded, %d published, %d filtered, resumed at %d\n",
				res.SessionID, res.Decoded, res.Published, res.Filtered, res.Resumed)
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "strict", "Decode mode: strict or fast")
	cmd.Flags().StringVar(&topic, "topic", msg.TopicMessages, "Topic to publish to")
	cmd.Flags().StringVar(&brokers, "brokers", "", "Kafka broker addresses (comma-separated)")
	cmd.Flags().StringVar(&storePath, "store", "", "SQLite database for checkpoints and capture sessions")
	cmd.Flags().StringVar(&expr, "filter", "", "Only publish records matching this expression")
	cmd.Flags().IntVar(&httpPort, "http-port", 0, "Port for /healthz, /metrics and /progress")
	cmd.Flags().IntVar(&grpcPort, "grpc-port", 0, "Port for the gRPC health service")
	return cmd
}

// serve starts the gRPC health service and the HTTP server in the background
func serve(cfg *config.Config, healthChecker *observability.HealthChecker, logger *zap.Logger) (*grpc.Server, error) {
	grpcServer := grpc.NewServer()
	healthChecker.RegisterGRPC(grpcServer)

	grpcListener, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		return nil, fmt.Errorf("failed to listen on gRPC port: %w", err)
	}
	go func() {
		logger.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr()))
		if err := grpcServer.Serve(grpcListener); err != nil {
			logger.Error("gRPC server error", zap.Error(err))
		}
	}()

	go func() {
		if err := healthChecker.StartHTTPServer(cfg.HTTPAddr()); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", zap.Error(err))
		}
	}()
	return grpcServer, nil
}
