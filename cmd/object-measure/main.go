package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/object-measure/internal/config"
	"github.com/ironsheep/object-measure/internal/logging"
	"github.com/ironsheep/object-measure/internal/profile"
	"github.com/ironsheep/object-measure/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "--version", "-v", "version":
		fmt.Printf("%s %s\n", server.Name, Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	case "--help", "-h", "help":
		usage()
		return
	case "serve":
		err = runServe(os.Args[2:])
	case "profile":
		err = runProfile(os.Args[2:])
	case "mask2polygons":
		err = runMaskToPolygons(os.Args[2:])
	case "config":
		err = runConfig(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("object-measure - object descriptors for segmented microscopy images")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  object-measure serve [--config FILE]")
	fmt.Println("  object-measure profile boxes|polygons|mask IMAGES [flags]")
	fmt.Println("  object-measure mask2polygons INPUT OUTPUT [flags]")
	fmt.Println("  object-measure config init [FILE]")
	fmt.Println("  object-measure version")
	fmt.Println()
	fmt.Println("Run a command with -h for its flags.")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=debug    Override the configured log level\n", logging.EnvLevel)
	fmt.Println()
	fmt.Println("serve speaks the MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

// loadConfig reads path, falling back to defaults when the file is missing.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.DefaultFileName
	}
	return config.LoadConfig(path)
}

// newLogger logs to stderr; stdout carries tool protocol and table output.
func newLogger(cfg *config.Config) *logrus.Logger {
	return logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", "", "configuration file (default "+config.DefaultFileName+")")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	log.WithFields(logrus.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
	}).Debug("Starting MCP server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = server.New(log).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// profileFlags holds the command-line overrides of a profile run. Only
// flags present in set replace configured values.
type profileFlags struct {
	configPath string
	segments   string
	imageSub   string
	segmentSub string

	output      string
	format      string
	mode        string
	workers     int
	pad         int
	minSize     int
	resample    int
	dropBorders bool

	set map[string]bool
}

func newProfileFlags(kind profile.Segments) (*flag.FlagSet, *profileFlags) {
	pf := &profileFlags{}
	fs := flag.NewFlagSet("profile "+kind.String(), flag.ContinueOnError)
	fs.StringVar(&pf.configPath, "config", "", "configuration file (default "+config.DefaultFileName+")")
	fs.StringVar(&pf.segments, "segments", "", "directory of segment files (default: the image directory)")
	fs.StringVar(&pf.imageSub, "image-substring", "", "substring removed from image names before pairing")
	fs.StringVar(&pf.segmentSub, "segment-substring", "", "substring removed from segment names before pairing")
	fs.StringVar(&pf.output, "output", "", "output directory or .csv/.tsv/.txt file")
	fs.StringVar(&pf.format, "format", "", "table format inside an output directory: csv, tsv or txt")
	fs.StringVar(&pf.mode, "mode", "", "descriptor families, letters from "+kind.Letters())
	fs.IntVar(&pf.workers, "workers", 0, "parallel images")
	fs.IntVar(&pf.pad, "pad", 0, "pixels added around every object")
	fs.IntVar(&pf.minSize, "min-size", 0, "drop objects narrower or shorter than this")
	fs.IntVar(&pf.resample, "resample", 0, "resample outlines to this many points before form descriptors, 0 disables")
	fs.BoolVar(&pf.dropBorders, "drop-borders", false, "drop objects touching the image border (--drop-borders=false overrides the config)")
	return fs, pf
}

// parse reads args and records which flags were given.
func (pf *profileFlags) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	pf.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { pf.set[f.Name] = true })
	return nil
}

// apply overrides cfg with the flags that were given. Without --mode, the
// configured mode loses the letters kind cannot produce.
func (pf *profileFlags) apply(cfg *config.Config, kind profile.Segments) {
	if pf.set["output"] {
		cfg.Output.Directory = pf.output
	}
	if pf.set["format"] {
		cfg.Output.Format = pf.format
	}
	if pf.set["mode"] {
		cfg.Processing.Mode = pf.mode
	} else {
		cfg.Processing.Mode = kind.RestrictMode(cfg.Processing.Mode)
	}
	if pf.set["workers"] {
		cfg.Processing.Workers = pf.workers
	}
	if pf.set["pad"] {
		cfg.Processing.Pad = pf.pad
	}
	if pf.set["min-size"] {
		cfg.Processing.MinSize = pf.minSize
	}
	if pf.set["resample"] {
		cfg.Processing.ResampleForm = pf.resample
	}
	if pf.set["drop-borders"] {
		cfg.Processing.DropBorders = pf.dropBorders
	}
}

func runProfile(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("profile needs a segment kind: boxes, polygons or mask")
	}
	kind, err := profile.ParseSegments(args[0])
	if err != nil {
		return err
	}

	fs, pf := newProfileFlags(kind)
	if err := pf.parse(fs, args[1:]); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("profile %s needs exactly one image directory", kind)
	}

	cfg, err := loadConfig(pf.configPath)
	if err != nil {
		return err
	}
	pf.apply(cfg, kind)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Output.Directory == "" {
		return fmt.Errorf("profile needs --output or output.directory in the configuration")
	}

	opts := profile.OptionsFromConfig(cfg, kind)
	opts.Images = fs.Arg(0)
	opts.SegmentsPath = pf.segments
	opts.ImageSubstring = pf.imageSub
	opts.SegmentSubstring = pf.segmentSub

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := profile.Run(ctx, opts, newLogger(cfg))
	if err != nil {
		return err
	}
	fmt.Printf("run %s: %d objects from %d of %d images", res.RunID, res.Objects, res.Succeeded, res.Pairs)
	if res.Table != "" {
		fmt.Printf(", table %s", res.Table)
	}
	fmt.Println()
	if res.Failed > 0 {
		return fmt.Errorf("%d images failed, see %s", res.Failed, failuresHint(res))
	}
	return nil
}

func failuresHint(res *profile.Result) string {
	if res.Directory == "" {
		return "the log"
	}
	return res.Directory + "/" + profile.ErrorsFile
}

func runMaskToPolygons(args []string) error {
	fs := flag.NewFlagSet("mask2polygons", flag.ContinueOnError)
	configPath := fs.String("config", "", "configuration file (default "+config.DefaultFileName+")")
	substring := fs.String("substring", "", "substring removed from mask names for the output names")
	threshold := fs.Int("threshold", 0, "binarise grayscale input above this level instead of reading labels")
	workers := fs.Int("workers", 0, "parallel masks (default from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("mask2polygons needs an input and an output path")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *workers > 0 {
		cfg.Processing.Workers = *workers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := profile.ConvertMasks(ctx, profile.ConvertOptions{
		Input:     fs.Arg(0),
		Output:    fs.Arg(1),
		Substring: *substring,
		Workers:   cfg.Processing.Workers,
		Threshold: *threshold,
	}, newLogger(cfg))
	if err != nil {
		return err
	}
	fmt.Printf("converted %d masks, %d failed\n", res.Converted, res.Failed)
	if res.Failed > 0 {
		return fmt.Errorf("%d masks failed", res.Failed)
	}
	return nil
}

func runConfig(args []string) error {
	if len(args) == 0 || args[0] != "init" {
		return fmt.Errorf("usage: object-measure config init [FILE]")
	}
	path := config.DefaultFileName
	if len(args) > 1 {
		path = args[1]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.CreateDefaultConfigFile(path); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
