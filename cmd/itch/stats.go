package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ismaiel54/itch50-decoder/internal/itch"
	"github.com/ismaiel54/itch50-decoder/internal/stats"
	"github.com/ismaiel54/itch50-decoder/internal/store"
)

func statsCmd(g *globalOptions) *cobra.Command {
	var (
		mode      string
		storePath string
		persist   bool
	)
	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Summarize a capture: counts per type, time span and gaps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.setup("itch-stats")
			if err != nil {
				return err
			}
			defer logger.Sync()

			m, err := decodeMode(cmd, cfg, mode)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("store") {
				cfg.StorePath = storePath
				persist = true
			}

			file, data, err := openCapture(args[0])
			if err != nil {
				return err
			}
			defer closeCapture(file, logger)

			var st *store.Store
			if persist {
				if st, err = store.Open(cfg.StorePath); err != nil {
					return err
				}
				defer st.Close()
			}

			summary, err := collect(cmd.Context(), st, args[0], data, m)
			if err != nil {
				return fatalOnFraming(logger, args[0], err)
			}
			if _, err := summary.WriteTo(cmd.OutOrStdout()); err != nil {
				return err
			}
			logger.Debug("stats finished",
				zap.String("path", args[0]),
				zap.Uint64("records", summary.Total),
				zap.Bool("persisted", st != nil),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "strict", "Decode mode: strict or fast")
	cmd.Flags().StringVar(&storePath, "store", "", "SQLite database to record the capture session in")
	cmd.Flags().BoolVar(&persist, "persist", false, "Record the capture session in the configured store")
	return cmd
}

// collect decodes data into a summary, recording the session in st when
// st is non-nil.
func collect(ctx context.Context, st *store.Store, path string, data []byte, mode itch.Mode) (stats.Summary, error) {
	var captureID string
	if st != nil {
		c, err := st.BeginCapture(ctx, path, int64(len(data)), mode)
		if err != nil {
			return stats.Summary{}, err
		}
		captureID = c.ID
	}

	collector := stats.NewCollector(stats.DefaultSampleSize)
	dec := itch.NewDecoder(data, mode)
	for {
		ok, err := dec.Advance()
		if err != nil {
			return collector.Summary(), err
		}
		if !ok {
			break
		}
		rec := dec.Current()
		collector.Observe(&rec)
		if st != nil && rec.Kind == itch.KindStockDirectory {
			if err := st.UpsertStockDirectory(ctx, captureID, store.StockEntryFrom(&rec.StockDirectory)); err != nil {
				return collector.Summary(), err
			}
		}
	}

	summary := collector.Summary()
	if st != nil {
		if err := st.FinishCapture(ctx, captureID, int64(summary.Total), summary.Counts()); err != nil {
			return summary, err
		}
	}
	return summary, nil
}
