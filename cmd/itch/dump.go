package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ismaiel54/itch50-decoder/internal/filter"
	"github.com/ismaiel54/itch50-decoder/internal/itch"
	"github.com/ismaiel54/itch50-decoder/internal/render"
)

func dumpCmd(g *globalOptions) *cobra.Command {
	var (
		mode   string
		format string
		expr   string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the records of a capture, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.setup("itch-dump")
			if err != nil {
				return err
			}
			defer logger.Sync()

			m, err := decodeMode(cmd, cfg, mode)
			if err != nil {
				return err
			}
			f, err := filter.Compile(expr)
			if err != nil {
				return err
			}

			file, data, err := openCapture(args[0])
			if err != nil {
				return err
			}
			defer closeCapture(file, logger)

			out := bufio.NewWriterSize(cmd.OutOrStdout(), 1<<16)
			n, err := dump(out, data, m, f, format, limit)
			if ferr := out.Flush(); ferr != nil && err == nil {
				err = ferr
			}
			if err != nil {
				return fatalOnFraming(logger, args[0], err)
			}
			logger.Debug("dump finished", zap.String("path", args[0]), zap.Int("records", n))
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "strict", "Decode mode: strict or fast")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&expr, "filter", "", "Only print records matching this expression, e.g. \"type == 'A' && shares > 100\"")
	cmd.Flags().IntVar(&limit, "limit", 0, "Stop after this many printed records (0 prints all)")
	return cmd
}

// dump writes matching records of data to w and returns how many it wrote
func dump(w io.Writer, data []byte, mode itch.Mode, f *filter.Filter, format string, limit int) (int, error) {
	if format != "text" && format != "json" {
		return 0, fmt.Errorf("unknown format %q", format)
	}

	dec := itch.NewDecoder(data, mode)
	var buf []byte
	written := 0
	for limit <= 0 || written < limit {
		ok, err := dec.Advance()
		if err != nil {
			return written, err
		}
		if !ok {
			break
		}
		rec := dec.Current()
		matched, err := f.Match(rec)
		if err != nil {
			return written, err
		}
		if !matched {
			continue
		}

		if format == "json" {
			if buf, err = render.AppendJSON(buf[:0], &rec); err != nil {
				return written, err
			}
		} else {
			buf = render.AppendText(buf[:0], &rec)
		}
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return written, fmt.Errorf("failed to write output: %w", err)
		}
		written++
	}
	return written, nil
}
