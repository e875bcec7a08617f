package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fpang/venue-enhance/internal/angle"
	"github.com/fpang/venue-enhance/internal/cli"
	"github.com/fpang/venue-enhance/internal/edit"
	"github.com/fpang/venue-enhance/internal/engine"
	"github.com/fpang/venue-enhance/internal/facet"
	"github.com/fpang/venue-enhance/internal/style"
)

var (
	venueFlag    string
	bucketFlag   string
	foodTagFlag  string
	techFlags    facet.Selection
	styleFlags   style.Selection
	promptFlag   string
	modeFlag     string
	maskFlag     string
	stepsFlag    int
	aspectFlag   string
	outputFlag   string
	publishFlag  bool
	captionFlag  string
	imageURLFlag string
)

var venuesCmd = &cobra.Command{
	Use:   "venues",
	Short: "List venue styles",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, v := range engine.ListVenues() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", v.ID, v.Description)
		}
		return nil
	},
}

var facetsCmd = &cobra.Command{
	Use:   "facets",
	Short: "Print every technical facet option as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.PrintJSON(cmd.OutOrStdout(), facet.Options())
	},
}

var angleCmd = &cobra.Command{
	Use:   "angle [photo...]",
	Short: "Detect the camera angle of photos",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := photoArgs(args, true)
		if err != nil {
			return err
		}
		e, _, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		for _, p := range paths {
			img, err := cli.ReadPhoto(p)
			if err != nil {
				return err
			}
			cli.PrintAngle(cmd.OutOrStdout(), p, e.DetectAngle(cmd.Context(), img.Data, img.MIMEType))
		}
		logDone("angle", len(paths))
		return nil
	},
}

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Compose the enhancement instruction for a venue and angle",
	RunE: func(cmd *cobra.Command, args []string) error {
		b := angle.ParseBucket(bucketFlag)
		if b == angle.Unknown {
			b = angle.Hero
		}
		fmt.Fprintln(cmd.OutOrStdout(), engine.BuildEnhancementPrompt(venueFlag, b, &techFlags, foodTagFlag))
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a style selection for compatibility",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := engine.ValidateStyleSelection(styleFlags)
		cli.PrintValidation(cmd.OutOrStdout(), v)
		if code := cli.StatusExit(v); code != 0 {
			os.Exit(code)
		}
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit [photo]",
	Short: "Run one mask-based edit with an explicit prompt",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(promptFlag) == "" {
			return fmt.Errorf("--prompt is required")
		}
		paths, err := photoArgs(args, false)
		if err != nil {
			return err
		}
		img, err := cli.ReadPhoto(paths[0])
		if err != nil {
			return err
		}
		e, _, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		res, err := e.RunEdit(cmd.Context(), img, promptFlag, editOptions())
		if err != nil {
			return err
		}
		out := outputFlag
		if out == "" {
			out = strings.TrimSuffix(paths[0], filepath.Ext(paths[0])) + "-edited" + extFor(res.Image.MIMEType)
		}
		if err := os.WriteFile(out, res.Image.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s, %d steps, %s)\n", out, res.Job.Mode, res.Steps, res.Duration.Round(1e6))
		return nil
	},
}

var enhanceCmd = &cobra.Command{
	Use:   "enhance [photo]",
	Short: "Classify, compose and edit one photo end to end",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := photoArgs(args, false)
		if err != nil {
			return err
		}
		e, _, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		out, err := enhanceOne(cmd, e, paths[0])
		if out != nil {
			cli.PrintJSON(cmd.OutOrStdout(), out)
		}
		return err
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish an already stored image URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		if imageURLFlag == "" {
			return fmt.Errorf("--url is required")
		}
		e, _, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		res, err := e.Publish(cmd.Context(), imageURLFlag, captionFlag)
		if res != nil {
			cli.PrintJSON(cmd.OutOrStdout(), res)
		}
		return err
	},
}

func init() {
	for _, c := range []*cobra.Command{angleCmd, editCmd, enhanceCmd} {
		c.Flags().BoolVar(&pickFlag, "pick", false, "Choose photos with a file dialog")
	}

	for _, c := range []*cobra.Command{promptCmd, enhanceCmd, batchCmd} {
		c.Flags().StringVar(&venueFlag, "venue", "", "Venue style ID (see 'venues')")
		c.Flags().StringVar(&bucketFlag, "bucket", "", "Camera angle: overhead, hero or eye-level (detected when empty)")
		c.Flags().StringVar(&foodTagFlag, "food-tag", "", "Food-state cue: "+strings.Join(facet.FoodTags(), ", "))
		c.Flags().StringVar(&techFlags.Lens, "lens", "", "Lens option ID")
		c.Flags().StringVar(&techFlags.Aperture, "aperture", "", "Aperture option ID")
		c.Flags().StringVar(&techFlags.Angle, "angle", "", "Angle option ID (overrides lens and aperture)")
		c.Flags().StringVar(&techFlags.Lighting, "lighting", "", "Lighting option ID")
		c.Flags().StringVar(&techFlags.Color, "color", "", "Colour option ID")
		c.Flags().StringVar(&techFlags.Style, "style", "", "Visual style option ID")
		c.Flags().StringVar(&techFlags.Realism, "realism", "", "Realism option ID")
	}

	validateCmd.Flags().StringVar(&styleFlags.BusinessType, "business-type", "", "Business type: "+strings.Join(style.BusinessTypes(), ", "))
	validateCmd.Flags().StringVar(&styleFlags.Mood, "mood", "", "Mood")
	validateCmd.Flags().StringVar(&styleFlags.Seasonal, "seasonal", "", "Seasonal theme")
	validateCmd.Flags().StringVar(&styleFlags.Format, "format", "", "Output format")

	for _, c := range []*cobra.Command{editCmd, enhanceCmd, batchCmd} {
		c.Flags().StringVar(&modeFlag, "mode", "", "Edit mode: insert, remove or outpaint (default insert)")
		c.Flags().StringVar(&maskFlag, "mask", "", "Mask mode: background, foreground or semantic (default background)")
		c.Flags().IntVar(&stepsFlag, "steps", 0, "Base steps (0 = mode default)")
		c.Flags().StringVar(&aspectFlag, "aspect-ratio", "", "Output aspect ratio, e.g. 1:1 or 4:5")
	}
	editCmd.Flags().StringVar(&promptFlag, "prompt", "", "Edit instruction")
	editCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file (default <photo>-edited.<ext>)")

	for _, c := range []*cobra.Command{enhanceCmd, publishCmd} {
		c.Flags().StringVar(&captionFlag, "caption", "", "Post caption")
	}
	enhanceCmd.Flags().BoolVar(&publishFlag, "publish", false, "Publish the result after editing")
	publishCmd.Flags().StringVar(&imageURLFlag, "url", "", "Publicly fetchable image URL")
}

func editOptions() edit.Options {
	return edit.Options{
		Mode:        edit.Mode(modeFlag),
		MaskMode:    edit.MaskMode(maskFlag),
		Steps:       stepsFlag,
		AspectRatio: aspectFlag,
	}
}

func enhanceOne(cmd *cobra.Command, e *engine.Engine, path string) (*engine.Outcome, error) {
	img, err := cli.ReadPhoto(path)
	if err != nil {
		return nil, err
	}
	var b angle.Bucket
	if bucketFlag != "" {
		b = angle.ParseBucket(bucketFlag)
	}
	tech := techFlags
	return e.Enhance(cmd.Context(), engine.Request{
		Image:     img,
		VenueID:   venueFlag,
		Bucket:    b,
		Technical: &tech,
		FoodTag:   foodTagFlag,
		Edit:      editOptions(),
		Publish:   publishFlag,
		Caption:   captionFlag,
	})
}

func extFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
