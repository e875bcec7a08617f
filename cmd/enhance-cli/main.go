// Command enhance-cli classifies, composes and enhances food photos from the
// terminal. Without a configured bucket, results are written under
// ENHANCE_OUTPUT_DIR.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/venue-enhance/internal/bootstrap"
	"github.com/fpang/venue-enhance/internal/cli"
	"github.com/fpang/venue-enhance/internal/config"
	"github.com/fpang/venue-enhance/internal/engine"
	"github.com/fpang/venue-enhance/internal/logging"
)

var version = "dev"

var (
	pickFlag   bool
	useSSMFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "enhance-cli",
	Short: "Venue-aware food photo enhancement",
	Long: `enhance-cli detects the camera angle of a food photo, composes a
physics-consistent enhancement instruction for a venue style, and runs the
mask-based edit (and optionally publishes the result).

Examples:
  enhance-cli venues
  enhance-cli angle laksa.jpg
  enhance-cli prompt --venue hawker --bucket overhead --food-tag soup
  enhance-cli validate --business-type cafe --mood moody
  enhance-cli enhance laksa.jpg --venue hawker
  enhance-cli enhance --pick --venue kopitiam --publish --caption "Kaya toast"
  enhance-cli batch ./photos --venue cafe --concurrency 4`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&useSSMFlag, "ssm", false, "Read missing secrets from SSM Parameter Store")
	rootCmd.AddCommand(venuesCmd, facetsCmd, angleCmd, promptCmd, validateCmd, editCmd, enhanceCmd, publishCmd, batchCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		code, msg := cli.ExitCode(err)
		fmt.Fprintln(os.Stderr, "Error:", msg)
		os.Exit(code)
	}
}

// newEngine loads configuration and wires every collaborator it enables.
func newEngine(ctx context.Context) (*engine.Engine, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	e, err := bootstrap.Build(ctx, cfg, bootstrap.Options{
		Name:     "enhance-cli",
		UseSSM:   useSSMFlag,
		LocalDir: cfg.OutputDir,
	})
	if err != nil {
		return nil, nil, err
	}
	return e, cfg, nil
}

// photoArgs resolves photo paths from args, or from a file dialog with --pick.
func photoArgs(args []string, multiple bool) ([]string, error) {
	if pickFlag {
		return cli.PickPhotos(multiple)
	}
	if len(args) == 0 {
		p := cli.Prompt(os.Stdin, os.Stderr, "Photo path", "")
		if p == "" {
			return nil, fmt.Errorf("no photo given; pass a path or use --pick")
		}
		return []string{p}, nil
	}
	return args, nil
}

func logDone(what string, n int) {
	log.Debug().Str("command", what).Int("items", n).Msg("Command complete")
}
