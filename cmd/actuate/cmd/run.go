package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/go-drift/actuate/cmd/actuate/internal/config"
	"github.com/go-drift/actuate/cmd/actuate/internal/demo"
	"github.com/go-drift/actuate/cmd/actuate/internal/logging"
	"github.com/go-drift/actuate/pkg/errors"
	"github.com/go-drift/actuate/pkg/render"
	"github.com/go-drift/actuate/pkg/vdom"
	"github.com/go-drift/actuate/pkg/wire"
)

type runOptions struct {
	configDir string
	ticks     int
	interval  time.Duration
	output    string
	maxFrames int
	verbose   bool
}

func newRunCommand() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the tick counter demo",
		Long: `Mount the demo app and drive it with a ticker until it has rendered the
requested number of ticks.

Settings are read from actuate.yaml in the project root (or --config DIR) and
may be overridden with flags.

Output modes:
  memory   Print the final host tree when the app finishes (default)
  cbor     Stream every frame to stdout as length-prefixed CBOR`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd, opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.configDir, "config", "", "Directory containing actuate.yaml (default: project root)")
	flags.IntVar(&opts.ticks, "ticks", 0, "Number of ticks to render")
	flags.DurationVar(&opts.interval, "interval", 0, "Time between ticks")
	flags.StringVar(&opts.output, "output", "", "Output mode: memory or cbor")
	flags.IntVar(&opts.maxFrames, "max-frames", 0, "Stop after this many frames (0 = no limit)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}

func resolveRunConfig(cmd *cobra.Command, opts *runOptions) (*config.Resolved, error) {
	dir := opts.configDir
	if dir == "" {
		root, err := config.FindProjectRoot()
		if err != nil {
			return nil, err
		}
		dir = root
	}
	cfg, err := config.Resolve(dir)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("ticks") {
		if opts.ticks < 0 {
			return nil, invalidFlag("--ticks must not be negative (got %d)", opts.ticks)
		}
		cfg.Ticks = opts.ticks
	}
	if flags.Changed("interval") {
		if opts.interval <= 0 {
			return nil, invalidFlag("--interval must be positive (got %s)", opts.interval)
		}
		cfg.Interval = opts.interval
	}
	if flags.Changed("output") {
		if err := config.ValidateOutput(opts.output); err != nil {
			return nil, err
		}
		cfg.Output = opts.output
	}
	if flags.Changed("max-frames") {
		cfg.MaxFrames = opts.maxFrames
	}
	if opts.verbose {
		cfg.LogLevel = zapcore.DebugLevel
	}
	return cfg, nil
}

func invalidFlag(format string, args ...any) error {
	return &errors.ActuateError{Op: "actuate.run", Kind: errors.KindConfig, Err: fmt.Errorf(format, args...)}
}

func runDemo(cmd *cobra.Command, opts *runOptions) error {
	cfg, err := resolveRunConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Development: cfg.Development})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	errors.SetHandler(&errors.LogHandler{Logger: logger, Verbose: opts.verbose})
	defer errors.SetHandler(nil)

	root, ctrl := demo.New(cfg.AppName, cfg.Ticks)
	host := render.NewMemory()
	var renderer vdom.Renderer = host
	if cfg.Output == config.OutputCBOR {
		renderer = vdom.Tee(host, wire.NewStreamRenderer(cmd.OutOrStdout()))
	}
	dom := vdom.New(root, renderer, vdom.WithLogger(logger), vdom.WithMaxFrames(cfg.MaxFrames))

	logger.Info("starting demo",
		zap.String("app", cfg.AppName),
		zap.Int("ticks", cfg.Ticks),
		zap.Duration("interval", cfg.Interval),
		zap.String("output", cfg.Output),
	)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return dom.Run(gctx)
	})
	g.Go(func() (err error) {
		defer errors.Recover("actuate.run.ticker", func(p *errors.PanicError) {
			cancel()
			err = p
		})
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ctrl.Done():
				cancel()
				return nil
			case <-ticker.C:
				ctrl.Tick()
			}
		}
	})
	if err := g.Wait(); err != nil && !stderrors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("demo finished", zap.Int("frames", dom.Frames()), zap.Int("host_nodes", host.Len()))
	if cfg.Output == config.OutputMemory {
		_, err := fmt.Fprint(cmd.OutOrStdout(), host.Dump())
		return err
	}
	return nil
}
