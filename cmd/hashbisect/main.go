package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"hashbisect/internal/apperr"
	"hashbisect/internal/config"
	"hashbisect/internal/hash"
	"hashbisect/internal/navigator"
	"hashbisect/internal/progress"
	"hashbisect/internal/render"
	"hashbisect/internal/tree"
	"hashbisect/internal/walker"
)

type options struct {
	configPath string
	workers    int
	algorithm  string
	logLevel   string
	noProgress bool
}

// target is the user's path re-rooted on the local filesystem: directories
// are opened as the root itself, files through their parent.
type target struct {
	walker *walker.Walker
	path   string
	label  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "hashbisect [flags] <path>",
		Short: "Locate differences between two copies of a tree by comparing digests",
		Long: `hashbisect hashes a file or directory tree and lets you walk it interactively.
Run it on both copies and follow the entries whose digests differ: directories
are listed entry by entry, files are split in halves until a single line is left.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNavigate(cmd, opts, args[0])
		},
	}

	defaultConfig := os.Getenv(config.EnvPath)
	if defaultConfig == "" {
		defaultConfig = config.DefaultPath
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", defaultConfig, "Config file path")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "Number of files hashed concurrently (default from config)")
	flags.StringVarP(&opts.algorithm, "algorithm", "a", "", fmt.Sprintf("Digest algorithm %v (default from config)", hash.Algorithms()))
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	flags.BoolVar(&opts.noProgress, "no-progress", false, "Disable the hashing progress line")

	cmd.AddCommand(newDigestCmd(opts))
	return cmd
}

func newDigestCmd(opts *options) *cobra.Command {
	var (
		depth  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "digest [flags] <path>",
		Short: "Print the digest of a file or directory tree without prompting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			t, err := openTarget(args[0], cfg)
			if err != nil {
				return err
			}
			builder, err := newBuilder(cmd, t, cfg, logger)
			if err != nil {
				return err
			}

			node, err := builder.Build(t.path)
			if err != nil {
				return err
			}

			if asJSON {
				return tree.Write(cmd.OutOrStdout(), args[0], builder.Algorithm(), node)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), render.Tree(args[0], node, depth))
			return err
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 1, "Levels of children to print below the root")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the whole tree as JSON")
	return cmd
}

func runNavigate(cmd *cobra.Command, opts *options, path string) error {
	cfg, logger, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	t, err := openTarget(path, cfg)
	if err != nil {
		return err
	}
	builder, err := newBuilder(cmd, t, cfg, logger)
	if err != nil {
		return err
	}

	nav := navigator.New(t.walker, builder,
		render.NewTerminal(cmd.OutOrStdout()),
		render.NewLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
		navigator.WithRootLabel(t.label),
		navigator.WithLogger(logger),
	)
	return nav.Run(t.path)
}

// loadConfig reads the config file and applies the flags the user set
// explicitly, then validates the result.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("algorithm") {
		cfg.Algorithm = opts.algorithm
	}
	if flags.Changed("log-level") {
		if err := cfg.LogLevel.UnmarshalText([]byte(opts.logLevel)); err != nil {
			return nil, nil, fmt.Errorf("%w: log level %q", apperr.ErrInvalidInput, opts.logLevel)
		}
	}
	if opts.noProgress {
		cfg.Progress = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel}))
	return cfg, logger, nil
}

func openTarget(path string, cfg *config.Config) (*target, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s does not exist", apperr.ErrUnsupportedPath, path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if info.IsDir() {
		return &target{
			walker: walker.New(osfs.New(abs), cfg.Exclude),
			path:   ".",
			label:  path,
		}, nil
	}
	return &target{
		walker: walker.New(osfs.New(filepath.Dir(abs)), cfg.Exclude),
		path:   filepath.Base(abs),
	}, nil
}

func newBuilder(cmd *cobra.Command, t *target, cfg *config.Config, logger *slog.Logger) (*tree.Builder, error) {
	algo, err := cfg.HashAlgorithm()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}

	opts := []tree.Option{
		tree.WithWorkers(cfg.Workers),
		tree.WithLogger(logger),
	}
	if cfg.Progress {
		opts = append(opts, tree.WithProgress(progress.New(cmd.ErrOrStderr())))
	}
	return tree.NewBuilder(t.walker, algo, opts...), nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
