package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Noofbiz/coffeeCo/config"
	"github.com/Noofbiz/coffeeCo/datasets"
	"github.com/Noofbiz/coffeeCo/synth"
)

func newGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Append synthetic records to the coffee dataset",
		Long: "Reads the base dataset, prunes it to the selected schema and writes it followed by " +
			"the requested number of synthetic records.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if done, err := a.maybePrintConfig(cmd); done {
				return err
			}
			_, err := runGenerate(cmd.Context(), a.cfg.Generate, a.logger(cmd))
			return err
		},
	}

	f := cmd.Flags()
	f.String("input", "coffee.csv", "base dataset (.csv or .xlsx)")
	f.String("output", "generated_coffee.csv", "output CSV path")
	f.Int("rows", synth.DefaultRows, "number of synthetic rows to append")
	f.String("variant", datasets.VariantExtended, "schema variant (basic or extended)")
	f.Int64("seed", 0, "random seed; 0 uses a time-based seed")
	f.StringSlice("colors", nil, "color palette override")
	f.String("bounds", "", "JSON file overriding sampling bounds")
	bindFlag(f, "input", "generate.input")
	bindFlag(f, "output", "generate.output")
	bindFlag(f, "rows", "generate.rows")
	bindFlag(f, "variant", "generate.variant")
	bindFlag(f, "seed", "generate.seed")
	bindFlag(f, "colors", "generate.colors")
	bindFlag(f, "bounds", "generate.bounds_file")

	return cmd
}

// runGenerate reads the base dataset, augments it and writes the result.
// Nothing is written unless every step before it succeeds.
func runGenerate(ctx context.Context, cfg config.GenerateConfig, log *zap.Logger) (*datasets.Table, error) {
	start := time.Now()
	log.Info("generate started",
		zap.String("input", cfg.Input),
		zap.String("output", cfg.Output),
		zap.Int("rows", cfg.Rows),
		zap.String("variant", cfg.Variant),
		zap.Int64("seed", cfg.Seed),
	)

	if cfg.Rows < 0 {
		return nil, eris.Errorf("generate: rows must be >= 0, got %d", cfg.Rows)
	}
	schema, err := datasets.SchemaFor(cfg.Variant)
	if err != nil {
		return nil, eris.Wrap(err, "generate")
	}

	src, err := datasets.ReadTable(cfg.Input)
	if err != nil {
		return nil, eris.Wrap(err, "generate: read base dataset")
	}
	base, extra, err := schema.Prune(src)
	if err != nil {
		return nil, eris.Wrap(err, "generate: prune base dataset")
	}
	if len(extra) > 0 {
		log.Warn("discarding columns outside the schema", zap.Strings("columns", extra))
	}
	log.Debug("base dataset loaded", zap.Int("base_rows", base.Len()), zap.Int("columns", len(base.Header)))

	g, err := synth.NewGenerator(schema, base, synth.WithSeed(cfg.Seed), synth.WithColors(cfg.Colors))
	if err != nil {
		return nil, eris.Wrap(err, "generate: build generator")
	}
	if cfg.BoundsFile != "" {
		if err := g.LoadBoundsConfig(cfg.BoundsFile); err != nil {
			return nil, eris.Wrap(err, "generate")
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "generate")
	}
	out, err := g.Augment(cfg.Rows)
	if err != nil {
		return nil, eris.Wrap(err, "generate: augment")
	}
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "generate")
	}

	if err := datasets.WriteCSVFile(cfg.Output, out); err != nil {
		return nil, eris.Wrap(err, "generate: write output")
	}

	log.Info("generate finished",
		zap.String("output", cfg.Output),
		zap.Int("base_rows", base.Len()),
		zap.Int("synthetic_rows", cfg.Rows),
		zap.Int("total_rows", out.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}
