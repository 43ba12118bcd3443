package main

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Noofbiz/coffeeCo/config"
	"github.com/Noofbiz/coffeeCo/datasets"
	"github.com/Noofbiz/coffeeCo/plots"
)

func newVisualizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visualize",
		Short: "Render the linear regression and decision tree result figures",
		Long: "Reads the prediction, weight and importance files written by the trainers and renders " +
			"one three-panel figure per model into the output directory.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if done, err := a.maybePrintConfig(cmd); done {
				return err
			}
			_, err := runVisualize(cmd.Context(), a.cfg.Visualize, a.logger(cmd))
			return err
		},
	}

	f := cmd.Flags()
	f.String("linear-predictions", "linear_predictions.csv", "linear regression predictions (Actual,Predicted)")
	f.String("tree-predictions", "tree_predictions.csv", "decision tree predictions (Actual,Predicted)")
	f.String("linear-weights", "linear_weights.csv", "linear regression weights, one per line")
	f.String("tree-importances", "tree_importances.csv", "decision tree feature importances, one per line")
	f.String("out-dir", "plots", "directory for the rendered figures")
	f.String("format", "png", "image format (png, svg, pdf, jpg, eps, tiff)")
	bindFlag(f, "linear-predictions", "visualize.linear_predictions")
	bindFlag(f, "tree-predictions", "visualize.tree_predictions")
	bindFlag(f, "linear-weights", "visualize.linear_weights")
	bindFlag(f, "tree-importances", "visualize.tree_importances")
	bindFlag(f, "out-dir", "visualize.out_dir")
	bindFlag(f, "format", "visualize.format")

	return cmd
}

// runVisualize loads all four inputs and renders both figures before any file
// is written, then returns the paths of the saved figures.
func runVisualize(ctx context.Context, cfg config.VisualizeConfig, log *zap.Logger) ([]string, error) {
	start := time.Now()
	log.Info("visualize started", zap.String("out_dir", cfg.OutDir), zap.String("format", cfg.Format))

	format := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(cfg.Format)), ".")
	if format == "" {
		return nil, eris.New("visualize: empty image format")
	}

	linearPreds, err := datasets.ReadPredictions(cfg.LinearPredictions)
	if err != nil {
		return nil, eris.Wrap(err, "visualize")
	}
	treePreds, err := datasets.ReadPredictions(cfg.TreePredictions)
	if err != nil {
		return nil, eris.Wrap(err, "visualize")
	}
	weights, err := datasets.ReadValues(cfg.LinearWeights)
	if err != nil {
		return nil, eris.Wrap(err, "visualize")
	}
	importances, err := datasets.ReadValues(cfg.TreeImportances)
	if err != nil {
		return nil, eris.Wrap(err, "visualize")
	}
	log.Debug("inputs loaded",
		zap.Int("linear_predictions", len(linearPreds)),
		zap.Int("tree_predictions", len(treePreds)),
	)

	type rendered struct {
		name   string
		canvas io.WriterTo
	}
	var images []rendered
	for _, m := range []plots.ModelResults{
		plots.LinearResults(linearPreds, weights),
		plots.TreeResults(treePreds, importances),
	} {
		fig, err := plots.NewFigure(m)
		if err != nil {
			return nil, eris.Wrap(err, "visualize")
		}
		c, err := fig.Render(format, plots.DefaultWidth, plots.DefaultHeight)
		if err != nil {
			return nil, eris.Wrap(err, "visualize")
		}
		images = append(images, rendered{name: fig.Name, canvas: c})
	}

	var paths []string
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return paths, eris.Wrap(err, "visualize")
		}
		path := filepath.Join(cfg.OutDir, img.name+"_results."+format)
		if err := plots.WriteImage(path, img.canvas); err != nil {
			return paths, eris.Wrap(err, "visualize")
		}
		log.Info("figure saved", zap.String("model", img.name), zap.String("path", path))
		paths = append(paths, path)
	}

	log.Info("visualize finished", zap.Strings("figures", paths), zap.Duration("elapsed", time.Since(start)))
	return paths, nil
}
