package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/coloringbook/internal/cover"
	"github.com/nao1215/coloringbook/internal/generate"
)

// NewCoverCmd creates the cover command.
func NewCoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cover <title>",
		Short: "Render a book cover with title, subtitle and brand",
		Long: fmt.Sprintf(`Cover renders a %dx%d cover image into exports/covers/<title>-cover.png.

The background is taken from --background, generated from the theme when
OPENAI_API_KEY is set, or left plain with --no-bg. A translucent band holds
the title, which shrinks until it fits; the subtitle sits under it and the
brand line at the bottom. If the background cannot be obtained the cover is
still rendered on the plain canvas.

Styles: %s

Examples:
  # Generated background
  coloringbook cover "Dinosaur Friends" --subtitle "40 pages to color" --theme "dinosaurs in a jungle"

  # Existing picture, dark band
  coloringbook cover "Ocean Life" --background art/ocean.jpg --mode dark

  # No background at all
  coloringbook cover "Castles" --no-bg --style elegant`, cover.Width, cover.Height, strings.Join(cover.Styles(), ", ")),
		Args: cobra.ExactArgs(1),
		RunE: runCoverCmd,
	}

	cmd.Flags().String("subtitle", "", "Subtitle under the title")
	cmd.Flags().String("brand", "", "Brand shown in the footer (default from config)")
	cmd.Flags().String("style", "", "Cover style (default playful)")
	cmd.Flags().String("mode", "", "Band color scheme: light or dark (default light)")
	cmd.Flags().String("theme", "", "What the generated background shows (default: the title)")
	cmd.Flags().String("background", "", "Use this image as background")
	cmd.Flags().Bool("no-bg", false, "Render without background")
	cmd.Flags().String("model", "", "Image model for the background (default dall-e-3)")
	cmd.Flags().String("size", "", "Requested background size WIDTHxHEIGHT (default 1536x1024)")
	cmd.Flags().Int("dpi", 0, "Resolution written into the cover (default 300)")
	cmd.Flags().String("exports-dir", "", "Directory for assembled books and covers")
	cmd.Flags().String("logs-dir", "", "Directory for run logs")

	return cmd
}

// runCoverCmd executes the cover command.
func runCoverCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	c := &cfg.Cover
	req := cover.Request{Options: cover.Options{Title: args[0]}}
	for _, err := range []error{
		applyFlag(cmd, "subtitle", &req.Subtitle, flags.GetString),
		applyFlag(cmd, "brand", &c.Brand, flags.GetString),
		applyFlag(cmd, "style", &c.Style, flags.GetString),
		applyFlag(cmd, "mode", &c.Mode, flags.GetString),
		applyFlag(cmd, "theme", &req.Theme, flags.GetString),
		applyFlag(cmd, "background", &req.BackgroundPath, flags.GetString),
		applyFlag(cmd, "no-bg", &req.NoBackground, flags.GetBool),
		applyFlag(cmd, "model", &c.Model, flags.GetString),
		applyFlag(cmd, "size", &c.Size, flags.GetString),
		applyFlag(cmd, "dpi", &c.DPI, flags.GetInt),
	} {
		if err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	req.Brand = c.Brand
	req.Style = c.Style
	req.Mode = cover.Mode(c.Mode)
	req.Model = c.Model
	req.Size = c.Size
	if err := req.Options.Validate(); err != nil {
		return err
	}

	if err := loadDotEnv(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.SaveToDB = false
	env, err := newRunEnv(cmd, cfg, "cover", time.Now())
	if err != nil {
		return err
	}
	defer env.Close()

	// A nil source renders on the plain canvas.
	var source cover.ImageSource
	if !req.NoBackground && req.BackgroundPath == "" {
		generator, err := generate.NewOpenAIGenerator(os.Getenv(apiKeyEnv))
		if err != nil {
			env.logger.Warn("no background generator, using plain canvas", "error", err)
		} else {
			source = generate.NewService(generator, c.Model, c.Size, cfg.InputDir,
				generate.WithServiceLogger(env.logger),
				generate.WithDebug(cfg.Verbose),
			)
		}
	}

	maker := cover.NewMaker(source, cfg.CoversDir(), c.DPI, env.logger)
	path, err := maker.Make(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Cover: %s\n", path)
	return nil
}
