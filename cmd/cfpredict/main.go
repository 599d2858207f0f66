package main

import (
	"fmt"
	"io"
	"os"

	"cfpredict/internal/batch"
	"cfpredict/internal/config"
	"cfpredict/internal/input"
	"cfpredict/internal/logging"
	"cfpredict/internal/version"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	cfgFile       string
	verbose       bool
	missingMarker string
	inputPath     string
	outputPath    string

	cfg    *config.Config
	logger *log.Logger
)

// rootCmd predicts ratings for the queries of one input
var rootCmd = &cobra.Command{
	Use:   "cfpredict",
	Short: "Predict missing ratings with item- or user-based collaborative filtering",
	Long: `cfpredict reads a ratings matrix and a list of queries, and prints one
predicted rating per query with three decimals.

Input format:
  N M                 item and user counts
  N lines of M tokens ratings, X marks a missing rating
  Q                   query count
  Q lines of I J T K  1-based item, 1-based user, T=0 item-based else
                      user-based, K neighbours

Examples:
  cfpredict < case01.in
  cfpredict --input case01.in --output case01.got
  cfpredict check ./tests`,
	Version:      version.Full(),
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPredict(cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.GetBuildInfo()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "cfpredict %s\n", info.Version)
		if info.GitCommit != "unknown" {
			fmt.Fprintf(out, "Git commit: %s\n", info.GitCommit)
		}
		if info.BuildDate != "unknown" {
			fmt.Fprintf(out, "Build date: %s\n", info.BuildDate)
		}
		fmt.Fprintf(out, "Go version: %s\n", info.GoVersion)
		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&missingMarker, "missing-marker", "", "token that marks a missing rating (default from config, X)")

	// Predict flags
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "input file (default stdin)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(checkCmd())
}

func initConfig(cmd *cobra.Command) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	if missingMarker != "" {
		cfg.Input.MissingMarker = missingMarker
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if inputPath != "" {
		cfg.Input.Path = inputPath
	}
	if outputPath != "" {
		cfg.Output.Path = outputPath
	}

	logger, err = logging.New(cmd.ErrOrStderr(), cfg.Log, verbose)
	return err
}

func newRunner() *batch.Runner {
	return batch.NewRunner(logger, input.Options{MissingMarker: cfg.Input.MissingMarker})
}

func runPredict(stdin io.Reader, stdout io.Writer) error {
	in := stdin
	if cfg.Input.Path != "" {
		f, err := os.Open(cfg.Input.Path)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	out := stdout
	var outFile *os.File
	if cfg.Output.Path != "" {
		f, err := os.Create(cfg.Output.Path)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		outFile = f
		out = f
	}

	stats, err := newRunner().Run(in, out)
	if outFile != nil {
		if cerr := outFile.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output: %w", cerr)
		}
	}
	if err != nil {
		return err
	}

	logger.Debug("predictions written",
		"items", stats.Items, "users", stats.Users,
		"queries", stats.Queries, "fallbacks", stats.Fallbacks, "elapsed", stats.Elapsed)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
