// Recovery metrics analyser
// Reads the client log of a crash-recovery run and summarises where the time went
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/SimbaWei/RAMCloud/pkg/analysis"
	"github.com/SimbaWei/RAMCloud/pkg/metrics"
	"github.com/SimbaWei/RAMCloud/pkg/report"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath      string
		logGlob         string
		format          string
		networkCapacity float64
		raw             bool
		all             bool
		seed            uint64
		verbose         bool
	)

	root := &cobra.Command{
		Use:   "recoverymetrics [recovery-dir]",
		Short: "Summarise a crash-recovery run from its metrics logs",
		Long: "Summarise a crash-recovery run from its metrics logs.\n\n" +
			"The recovery directory defaults to " + defaultRecoveryDir + " and must contain\n" +
			"a client log matching --log-glob (default " + metrics.DefaultLogGlob + ").",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := commandConfig(cmd, configPath, args)
			if err != nil {
				return err
			}
			if cfg.All && !cfg.Raw {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Warning: --all has no effect without --raw")
			}
			return runReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/recoverymetrics/config.yml)")
	root.PersistentFlags().StringVar(&logGlob, "log-glob", metrics.DefaultLogGlob, "glob matching the client log inside the recovery directory")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "warn about report lines left out for missing metrics")
	root.Flags().StringVar(&format, "format", defaultFormat, "report format: text, table, or yaml")
	root.Flags().Float64Var(&networkCapacity, "network-capacity", analysis.DefaultNetworkCapacityGbps, "per-node network capacity in Gb/s")
	root.Flags().BoolVarP(&raw, "raw", "r", false, "print raw metrics for the client, coordinator, and a sample master and backup")
	root.Flags().BoolVarP(&all, "all", "a", false, "with --raw, print raw metrics for every server")
	root.Flags().Uint64Var(&seed, "seed", 0, "random seed for choosing the --raw sample (0 = random)")

	root.AddCommand(exportCmd())
	root.AddCommand(versionCmd())

	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recoverymetrics %s (commit: %s, built: %s)\n", version, commit, buildTime)
		},
	}
}

// commandConfig merges the config file, environment, explicit flags, and the
// optional recovery directory argument, in increasing order of precedence.
func commandConfig(cmd *cobra.Command, configPath string, args []string) (appConfig, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	if err := applyFlags(&cfg, cmd.Flags()); err != nil {
		return cfg, err
	}
	if len(args) == 1 {
		cfg.RecoveryDir = args[0]
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadDataset(cfg appConfig, stderr io.Writer) (*metrics.Dataset, error) {
	ds, err := metrics.LoadRecovery(cfg.RecoveryDir, metrics.LoadOptions{
		LogGlob:  cfg.LogGlob,
		Warnings: stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("loading recovery %s: %w", cfg.RecoveryDir, err)
	}
	return ds, nil
}

func runReport(stdout, stderr io.Writer, cfg appConfig) error {
	ds, err := loadDataset(cfg, stderr)
	if err != nil {
		return err
	}

	if cfg.Raw {
		if cfg.All {
			err = dumpAll(stdout, ds)
		} else {
			err = dumpSample(stdout, ds, newRand(cfg.Seed))
		}
		if err != nil {
			return err
		}
	}

	opts := analysis.Options{NetworkCapacityGbps: cfg.NetworkCapacity}
	if cfg.Verbose {
		opts.Warnings = stderr
	}
	rep, err := analysis.Generate(ds, opts)
	if err != nil {
		return err
	}
	return writeReport(stdout, rep, cfg.Format)
}

func writeReport(w io.Writer, rep *report.Report, format string) error {
	switch format {
	case "table":
		return report.RenderTable(w, rep)
	case "yaml":
		data, err := report.MarshalYAML(rep)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "text", "":
		_, err := fmt.Fprintln(w, rep.String())
		return err
	default:
		panic(fmt.Sprintf("BUG: unvalidated report format %q", format))
	}
}
