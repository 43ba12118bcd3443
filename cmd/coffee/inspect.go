package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Noofbiz/coffeeCo/config"
	"github.com/Noofbiz/coffeeCo/datasets"
)

func newInspectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize a coffee dataset and build its training tensors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if done, err := a.maybePrintConfig(cmd); done {
				return err
			}
			_, err := runInspect(cmd.Context(), a.cfg.Inspect, cmd.OutOrStdout(), a.logger(cmd))
			return err
		},
	}

	f := cmd.Flags()
	f.String("input", "generated_coffee.csv", "dataset to inspect (.csv or .xlsx)")
	f.Int("batch-size", 32, "batch size for the training view")
	bindFlag(f, "input", "inspect.input")
	bindFlag(f, "batch-size", "inspect.batch_size")

	return cmd
}

// inspectReport is what runInspect found.
type inspectReport struct {
	Rows     int
	Columns  []datasets.ColumnSummary
	Examples int
	Skipped  int
	Batches  int
}

// runInspect prints per-column statistics and walks the dataset's training
// view once, batch by batch, as gomlx tensors.
func runInspect(ctx context.Context, cfg config.InspectConfig, out io.Writer, log *zap.Logger) (*inspectReport, error) {
	log.Info("inspect started", zap.String("input", cfg.Input))

	t, err := datasets.ReadTable(cfg.Input)
	if err != nil {
		return nil, eris.Wrap(err, "inspect")
	}
	rep := &inspectReport{Rows: t.Len(), Columns: datasets.Summarize(t)}

	p := message.NewPrinter(language.English)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = p.Fprintf(w, "Rows:\t%d\n", rep.Rows)
	_, _ = p.Fprintf(w, "Columns:\t%d\n\n", len(rep.Columns))
	_, _ = fmt.Fprintln(w, "COLUMN\tMISSING\tMIN\tMAX\tMEAN\tSTDDEV\tDISTINCT")
	_, _ = fmt.Fprintln(w, "------\t-------\t---\t---\t----\t------\t--------")
	for _, c := range rep.Columns {
		if c.Numeric {
			_, _ = p.Fprintf(w, "%s\t%d\t%.4g\t%.4g\t%.4g\t%.4g\t-\n", c.Name, c.Missing, c.Min, c.Max, c.Mean, c.StdDev)
		} else {
			_, _ = p.Fprintf(w, "%s\t%d\t-\t-\t-\t-\t%d\n", c.Name, c.Missing, c.Distinct)
		}
	}
	if err := w.Flush(); err != nil {
		return nil, eris.Wrap(err, "inspect: write summary")
	}

	ds, err := datasets.NewCoffeeDataset(t)
	if errors.Is(err, datasets.ErrMissingColumn) {
		log.Warn("no training view for this dataset", zap.Error(err))
		return rep, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "inspect")
	}
	if cfg.BatchSize > 0 {
		ds.BatchSize = cfg.BatchSize
	}
	rep.Examples = ds.Len()
	rep.Skipped = ds.Skipped()

	for {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "inspect")
		}
		_, inputs, labels, err := ds.Yield()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "inspect: yield batch")
		}
		if rep.Batches == 0 {
			log.Debug("first batch",
				zap.Stringer("inputs", inputs[0].Shape()),
				zap.Stringer("labels", labels[0].Shape()),
			)
		}
		rep.Batches++
	}

	_, _ = p.Fprintf(out, "\nTraining view: %d examples (%d skipped for missing values) in %d batches of up to %d\n",
		rep.Examples, rep.Skipped, rep.Batches, ds.BatchSize)
	log.Info("inspect finished",
		zap.Int("rows", rep.Rows),
		zap.Int("examples", rep.Examples),
		zap.Int("skipped", rep.Skipped),
		zap.Int("batches", rep.Batches),
	)
	return rep, nil
}
