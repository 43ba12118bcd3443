// Command coffee builds the synthetic coffee dataset and renders the model
// result figures.
//
// Usage:
//
//	coffee generate [--input coffee.csv] [--output generated_coffee.csv] [--rows 99010]
//	coffee visualize [--out-dir plots] [--format png]
//	coffee inspect [--input generated_coffee.csv]
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Noofbiz/coffeeCo/config"
)

// configKeyAnnotation marks flags that override a config key.
const configKeyAnnotation = "coffee_config_key"

// app is the state shared by the subcommands of one invocation.
type app struct {
	cfg   *config.Config
	runID string

	configPath  string
	printConfig bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "coffee",
		Short: "Synthetic coffee dataset generator and results visualizer",
		Long: "Augments the coffee quality dataset with uniformly sampled synthetic records and " +
			"renders diagnostic figures for the linear regression and decision tree results.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(a.configPath, boundFlags(cmd.Flags()))
			if err != nil {
				return err
			}
			a.cfg = c

			if err := config.InitLogger(a.cfg.Log); err != nil {
				return err
			}
			a.runID = uuid.New().String()
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default ./config.yaml if present)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.BoolVar(&a.printConfig, "print-effective-config", false, "print the merged configuration as YAML and exit")
	bindFlag(pf, "log-level", "log.level")

	root.AddCommand(newGenerateCmd(a), newVisualizeCmd(a), newInspectCmd(a))
	return root
}

// bindFlag ties flag name to a config key so that setting it on the command
// line overrides the file and environment.
func bindFlag(fs *pflag.FlagSet, name, key string) {
	if err := fs.SetAnnotation(name, configKeyAnnotation, []string{key}); err != nil {
		panic(err)
	}
}

// boundFlags collects the annotated flags of the executing command.
func boundFlags(fs *pflag.FlagSet) config.Flags {
	flags := make(config.Flags)
	fs.VisitAll(func(f *pflag.Flag) {
		if keys, ok := f.Annotations[configKeyAnnotation]; ok && len(keys) > 0 {
			flags[keys[0]] = f
		}
	})
	return flags
}

// logger returns the global logger tagged with the command and run id.
func (a *app) logger(cmd *cobra.Command) *zap.Logger {
	return zap.L().With(zap.String("command", cmd.Name()), zap.String("run_id", a.runID))
}

// maybePrintConfig writes the effective configuration when requested and
// reports whether the command should stop there.
func (a *app) maybePrintConfig(cmd *cobra.Command) (bool, error) {
	if !a.printConfig {
		return false, nil
	}
	return true, a.cfg.WriteYAML(cmd.OutOrStdout())
}

func main() {
	// Bootstrap logger until the configured one is built.
	if logger, err := zap.NewDevelopment(); err == nil {
		zap.ReplaceGlobals(logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		zap.L().Error("coffee failed", zap.Error(err))
		_ = zap.L().Sync()
		os.Exit(1)
	}
}
