package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fpang/venue-enhance/internal/cli"
	"github.com/fpang/venue-enhance/internal/edit"
)

var (
	concurrencyFlag int
	maxDepthFlag    int
	keepGoingFlag   bool
)

type batchLine struct {
	Path      string `json:"path"`
	Bucket    string `json:"bucket,omitempty"`
	ResultURL string `json:"resultUrl,omitempty"`
	SourceURL string `json:"sourceUrl,omitempty"`
	Error     string `json:"error,omitempty"`
	Kind      string `json:"kind,omitempty"`
}

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Enhance every photo in a directory",
	Long: `batch walks a directory and enhances each supported photo with the
same venue and facet flags. Photos run concurrently up to --concurrency;
each photo is still one single-flow enhancement.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := cli.CollectPhotos(args[0], maxDepthFlag)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no supported photos under %s", args[0])
		}
		e, _, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}

		start := time.Now()
		results := make([]batchLine, len(paths))
		var mu sync.Mutex
		failed := 0

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(max(1, concurrencyFlag))
		cmd.SetContext(ctx)
		for i, p := range paths {
			g.Go(func() error {
				line := batchLine{Path: p}
				out, err := enhanceOne(cmd, e, p)
				if out != nil {
					line.Bucket = string(out.Angle.Bucket)
					line.ResultURL = out.ResultURL
					line.SourceURL = out.SourceURL
				}
				results[i] = line
				if err == nil {
					return nil
				}
				code, msg := cli.ExitCode(err)
				results[i].Error, results[i].Kind = msg, string(edit.KindOf(err))
				mu.Lock()
				failed++
				mu.Unlock()
				log.Warn().Err(err).Str("path", p).Int("exitCode", code).Msg("Photo failed")
				if keepGoingFlag {
					return nil
				}
				return err
			})
		}
		runErr := g.Wait()

		for _, line := range results {
			if line.Path != "" {
				cli.PrintJSON(cmd.OutOrStdout(), line)
			}
		}
		log.Info().
			Int("photos", len(paths)).
			Int("failed", failed).
			Dur("duration", time.Since(start)).
			Msg("Batch complete")
		if runErr != nil {
			return runErr
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d photos failed", failed, len(paths))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().IntVar(&concurrencyFlag, "concurrency", 4, "Photos processed at once")
	batchCmd.Flags().IntVar(&maxDepthFlag, "max-depth", 0, "Maximum directory depth (0 = unlimited)")
	batchCmd.Flags().BoolVar(&keepGoingFlag, "keep-going", true, "Continue after a photo fails")
}
