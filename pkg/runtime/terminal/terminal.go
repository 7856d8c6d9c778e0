package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/de-tools/tenant-health/pkg/runtime/terminal/commands"
	"github.com/de-tools/tenant-health/pkg/runtime/tracing"
	"github.com/de-tools/tenant-health/pkg/services/config"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	defaultConfigPath = "config.yaml"
	runLogName        = "run.log"
)

// CLI represents the command-line interface
type CLI struct {
	env     *commands.Env
	rootCmd *cobra.Command
	flags   rootFlags
	closers []func(ctx context.Context) error
}

type rootFlags struct {
	configPath string
	envFile    string
	logLevel   string
	trace      bool
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	Args   []string
	Now    func() time.Time
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cli := &CLI{
		env: &commands.Env{Output: opts.Output, Now: opts.Now},
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	if opts.Args != nil {
		cli.rootCmd.SetArgs(opts.Args)
	}
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	err := cli.rootCmd.ExecuteContext(ctx)

	for i := len(cli.closers) - 1; i >= 0; i-- {
		if cerr := cli.closers[i](ctx); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}
	cli.closers = nil

	return err
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "healthcheck",
		Short:             "Cross-source tenant health aggregator",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cli.setup,
	}

	cmd.PersistentFlags().StringVarP(&cli.flags.configPath, "config", "c", defaultConfigPath, "Path to the YAML config file")
	cmd.PersistentFlags().StringVar(&cli.flags.envFile, "env-file", "", "Path to a .env file (default .env when present)")
	cmd.PersistentFlags().StringVar(&cli.flags.logLevel, "log-level", "", "Log level, overrides log.level from the config")
	cmd.PersistentFlags().BoolVar(&cli.flags.trace, "trace", false, "Export spans to stdout")

	cmd.AddCommand(commands.NewRunCmd(cli.env))
	cmd.AddCommand(commands.NewRegionsCmd(cli.env))
	cmd.AddCommand(commands.NewServeCmd(cli.env))

	return cmd
}

// setup loads the environment and config, then attaches the logger to the
// command context.
func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	if err := loadEnvFile(cli.flags.envFile); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(cli.flags.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", cli.flags.configPath, err)
	}
	cli.env.Config = cfg

	levelName := cfg.Log.Level
	if cli.flags.logLevel != "" {
		levelName = cli.flags.logLevel
	}
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", levelName, err)
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	runLog, err := os.OpenFile(filepath.Join(cfg.Output.Dir, runLogName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open run log: %w", err)
	}
	cli.closers = append(cli.closers, func(context.Context) error { return runLog.Close() })

	writer := zerolog.MultiLevelWriter(
		zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime},
		runLog,
	)
	logger := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	_, shutdown, err := tracing.Setup(ctx, cli.flags.trace, cli.env.Output)
	if err != nil {
		return err
	}
	cli.closers = append(cli.closers, shutdown)

	logger.Debug().
		Str("config", cli.flags.configPath).
		Int("regions", len(cfg.Regions)).
		Msg("configuration loaded")

	cmd.SetContext(ctx)
	return nil
}

// loadEnvFile loads an explicit env file or, without one, a .env file in
// the working directory if it exists.
func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}
