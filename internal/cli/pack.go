package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atlast-io/atlast/pkg/archive"
	"github.com/atlast-io/atlast/pkg/config"
	"github.com/atlast-io/atlast/pkg/errors"
	"github.com/atlast-io/atlast/pkg/pipeline"
)

// packOpts holds the command-line flags for the pack command.
type packOpts struct {
	dir        string // input directory scanned for .png files
	output     string // archive output path
	widthBound bool   // use the corrected horizontal bound check
	noCache    bool   // disable artifact caching
	refresh    bool   // bypass cached artifacts for this run
	configPath string // explicit atlast.toml path

	maxScanSteps uint64 // packer scan budget, file-only (no flag)
}

// packCommand creates the pack command, the main entry point of the tool.
func (c *CLI) packCommand() *cobra.Command {
	opts := packOpts{
		dir:    pipeline.DefaultInputDir,
		output: pipeline.DefaultOutput,
	}

	cmd := &cobra.Command{
		Use:   "pack [dir]",
		Short: "Pack a directory of PNG sprites into a texture atlas",
		Long: `Pack scans a directory for .png files, packs them into a single
RGBA atlas image, and writes an archive containing the atlas plus a binary
lookup table mapping each sprite name to its normalized region.

Examples:
  atlast pack                          # pack ./ into output.atlas
  atlast pack -d assets -o game.atlas  # explicit input and output
  atlast pack --refresh                # ignore cached artifacts`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfig(cmd, &opts); err != nil {
				return err
			}
			// A positional directory wins over both flag and config values.
			if len(args) == 1 {
				opts.dir = args[0]
			}
			return c.runPack(cmd, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "d", opts.dir, "directory scanned for .png inputs")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output archive path")
	cmd.Flags().BoolVar(&opts.widthBound, "width-bound", false, "bound placements by image width instead of height")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached artifacts")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to atlast.toml (default: ./atlast.toml if present)")

	return cmd
}

// applyConfig merges atlast.toml values into opts. Flags set explicitly on
// the command line always win over file values.
func applyConfig(cmd *cobra.Command, opts *packOpts) error {
	var (
		cfg *config.File
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
	} else {
		cfg, err = config.LoadDefault(".")
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if cfg.Pack.Input != "" && !flags.Changed("dir") {
		opts.dir = cfg.Pack.Input
	}
	if cfg.Pack.Output != "" && !flags.Changed("output") {
		opts.output = cfg.Pack.Output
	}
	if cfg.Pack.WidthBound && !flags.Changed("width-bound") {
		opts.widthBound = true
	}
	opts.maxScanSteps = cfg.Pack.MaxScanSteps
	return nil
}

// runPack executes the packing pipeline and writes the archive.
func (c *CLI) runPack(cmd *cobra.Command, opts *packOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	pipeOpts := pipeline.Options{
		InputDir:     opts.dir,
		Output:       opts.output,
		WidthBound:   opts.widthBound,
		MaxScanSteps: opts.maxScanSteps,
		Refresh:      opts.refresh,
		Logger:       logger,
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Packing %s", opts.dir))
	spinner.Start()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, pipeOpts)
	if err != nil {
		spinner.StopWithError(errors.UserMessage(err))
		return err
	}
	spinner.Stop()

	if result.NoOp {
		printInfo("No .png files found in %s, nothing to do", opts.dir)
		return nil
	}

	if err := archive.Write(opts.output, result.PNG, result.Data); err != nil {
		printError("%s", errors.UserMessage(err))
		return err
	}
	prog.done(fmt.Sprintf("Packed %d images", result.Images))

	printSuccess("Atlas written")
	printFile(opts.output)
	printStats(result.Images, result.CanvasWidth, result.CanvasHeight, result.CacheInfo.ArtifactHit)
	return nil
}
